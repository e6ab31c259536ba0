// Package theme provides the colour palettes used for terminal output.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the colours used when printing prompts and previews.
type Theme struct {
	Accent  lipgloss.Color
	Border  lipgloss.Color
	MutedFg lipgloss.Color
	TextFg  lipgloss.Color
	ErrorFg lipgloss.Color
}

// Theme names.
const (
	DraculaName      = "dracula"
	DraculaLightName = "dracula-light"
	NordName         = "nord"
	GruvboxLightName = "gruvbox-light"
)

// Dracula returns the Dracula theme (dark background, vibrant colors).
func Dracula() *Theme {
	return &Theme{
		Accent:  lipgloss.Color("#BD93F9"), // Purple
		Border:  lipgloss.Color("#6272A4"), // Comment
		MutedFg: lipgloss.Color("#6272A4"),
		TextFg:  lipgloss.Color("#F8F8F2"),
		ErrorFg: lipgloss.Color("#FF5555"),
	}
}

// DraculaLight returns the Dracula theme adapted for light backgrounds.
func DraculaLight() *Theme {
	return &Theme{
		Accent:  lipgloss.Color("#7C3AED"),
		Border:  lipgloss.Color("#D0D7DE"),
		MutedFg: lipgloss.Color("#6E7781"),
		TextFg:  lipgloss.Color("#24292F"),
		ErrorFg: lipgloss.Color("#DC2626"),
	}
}

// Nord returns the Nord theme.
func Nord() *Theme {
	return &Theme{
		Accent:  lipgloss.Color("#88C0D0"),
		Border:  lipgloss.Color("#4C566A"),
		MutedFg: lipgloss.Color("#616E88"),
		TextFg:  lipgloss.Color("#ECEFF4"),
		ErrorFg: lipgloss.Color("#BF616A"),
	}
}

// GruvboxLight returns the Gruvbox light theme.
func GruvboxLight() *Theme {
	return &Theme{
		Accent:  lipgloss.Color("#076678"),
		Border:  lipgloss.Color("#D5C4A1"),
		MutedFg: lipgloss.Color("#7C6F64"),
		TextFg:  lipgloss.Color("#3C3836"),
		ErrorFg: lipgloss.Color("#9D0006"),
	}
}

// GetTheme returns a theme by name. An empty name picks a default matching the
// terminal background; unknown names fall back to Dracula.
func GetTheme(name string) *Theme {
	switch name {
	case "":
		if lipgloss.HasDarkBackground() {
			return Dracula()
		}
		return DraculaLight()
	case DraculaLightName:
		return DraculaLight()
	case NordName:
		return Nord()
	case GruvboxLightName:
		return GruvboxLight()
	default:
		return Dracula()
	}
}

// IsKnown reports whether name is one of AvailableThemes.
func IsKnown(name string) bool {
	for _, known := range AvailableThemes() {
		if known == name {
			return true
		}
	}
	return false
}

// AvailableThemes returns a list of available theme names.
func AvailableThemes() []string {
	return []string{
		DraculaName,
		DraculaLightName,
		NordName,
		GruvboxLightName,
	}
}
