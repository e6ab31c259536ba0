package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetTheme(t *testing.T) {
	tests := []struct {
		name     string
		expected *Theme
	}{
		{name: DraculaName, expected: Dracula()},
		{name: DraculaLightName, expected: DraculaLight()},
		{name: NordName, expected: Nord()},
		{name: GruvboxLightName, expected: GruvboxLight()},
		{name: "unknown", expected: Dracula()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetTheme(tt.name))
		})
	}
}

func TestIsKnown(t *testing.T) {
	for _, name := range AvailableThemes() {
		assert.True(t, IsKnown(name), name)
	}
	assert.False(t, IsKnown(""))
	assert.False(t, IsKnown("Dracula"))
}

func TestThemesDefineEveryColour(t *testing.T) {
	for _, name := range AvailableThemes() {
		thm := GetTheme(name)
		assert.NotEmpty(t, thm.Accent, name)
		assert.NotEmpty(t, thm.Border, name)
		assert.NotEmpty(t, thm.TextFg, name)
		assert.NotEmpty(t, thm.MutedFg, name)
		assert.NotEmpty(t, thm.ErrorFg, name)
	}
}
