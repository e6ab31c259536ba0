// Package completion describes ai-commit flags for shell completion.
package completion

import (
	"strings"

	"github.com/chmouel/ai-commit/internal/theme"
)

// FlagInfo contains metadata about a command-line flag for completion generation.
type FlagInfo struct {
	Name        string   // Flag name without dashes
	Short       string   // Single-letter alias, if any
	Description string   // Human-readable description
	HasValue    bool     // true for string flags, false for bool flags
	ValueHint   string   // Hint for value type (e.g., "PATH", "NAME")
	Values      []string // Enumerated values for completion (e.g., theme names)
}

// configKeys are the keys accepted by --config=aicommit.<key>=<value>.
var configKeys = []string{
	"model", "gateway_url", "max_steps", "debug_log", "theme", "push", "select_type", "instructions",
}

// GetFlags returns metadata for all ai-commit command-line flags.
func GetFlags() []FlagInfo {
	return []FlagInfo{
		{
			Name:        "debug-log",
			Description: "Path to debug log file",
			HasValue:    true,
			ValueHint:   "PATH",
		},
		{
			Name:        "config-file",
			Description: "Path to configuration file",
			HasValue:    true,
			ValueHint:   "FILE",
		},
		{
			Name:        "config",
			Short:       "C",
			Description: "Override a config value",
			HasValue:    true,
			ValueHint:   "KEY=VALUE",
			Values:      ConfigKeys(""),
		},
		{
			Name:        "model",
			Description: "Gateway model identifier",
			HasValue:    true,
			ValueHint:   "MODEL",
		},
		{
			Name:        "theme",
			Short:       "t",
			Description: "Override the preview theme",
			HasValue:    true,
			ValueHint:   "NAME",
			Values:      theme.AvailableThemes(),
		},
		{
			Name:        "select-type",
			Description: "Choose the commit type from a list",
		},
		{
			Name:        "instructions",
			Description: "Prompt for extra model instructions",
		},
		{
			Name:        "push",
			Description: "Run git push after committing",
		},
		{
			Name:        "version",
			Description: "Print version information",
		},
	}
}

// ConfigKeys returns "aicommit.<key>=" suggestions matching prefix.
func ConfigKeys(prefix string) []string {
	prefix = strings.TrimPrefix(prefix, "aicommit.")
	var matches []string
	for _, key := range configKeys {
		if prefix == "" || strings.HasPrefix(key, prefix) {
			matches = append(matches, "aicommit."+key+"=")
		}
	}
	return matches
}

func lookup(arg string) (FlagInfo, bool) {
	name := strings.TrimLeft(arg, "-")
	if name == "" || name == arg {
		return FlagInfo{}, false
	}
	for _, f := range GetFlags() {
		if f.Name == name || (f.Short != "" && f.Short == name) {
			return f, true
		}
	}
	return FlagInfo{}, false
}

// Suggest returns completion candidates for the words typed so far. After a
// flag that takes a value it offers that flag's values, otherwise the flags.
func Suggest(args []string) []string {
	if len(args) > 0 {
		if f, ok := lookup(args[len(args)-1]); ok && f.HasValue {
			return append([]string(nil), f.Values...)
		}
	}

	var out []string
	for _, f := range GetFlags() {
		out = append(out, "--"+f.Name)
	}
	return out
}
