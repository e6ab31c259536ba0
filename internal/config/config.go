// Package config loads ai-commit settings from YAML, git config and command-line
// overrides, and the gateway credential from .env files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chmouel/ai-commit/internal/llm"
	"github.com/chmouel/ai-commit/internal/theme"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// AppName names the configuration directory under the user config dir.
const AppName = "ai-commit"

// AppConfig defines the ai-commit configuration options.
type AppConfig struct {
	Model           string // Gateway model identifier (default: "openai/gpt-4o-mini")
	GatewayURL      string // OpenAI-compatible base URL
	MaxSteps        int    // Upper bound on refine requests, tool round-trips included
	DebugLog        string
	Theme           string // Preview palette; empty follows the terminal background
	Push            bool   // Run git push after a successful commit
	SelectType      bool   // Ask the user for the commit type instead of inferring it
	AskInstructions bool   // Prompt for extra refine instructions
}

// DefaultConfig returns the default configuration values.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Model:      llm.DefaultModel,
		GatewayURL: llm.DefaultBaseURL,
		MaxSteps:   llm.DefaultMaxSteps,
	}
}

func coerceString(value any) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", value))
}

func coerceBool(value any, defaultVal bool) bool {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case string:
		text := strings.ToLower(strings.TrimSpace(v))
		switch text {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return defaultVal
}

func coerceInt(value any, defaultVal int) int {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case bool:
		return defaultVal
	case int:
		return v
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return defaultVal
		}
		if i, err := strconv.Atoi(text); err == nil {
			return i
		}
	}
	return defaultVal
}

// applyConfig overlays the keys present in data onto cfg.
func applyConfig(cfg *AppConfig, data map[string]any) {
	if v, ok := data["model"]; ok {
		if model := coerceString(v); model != "" {
			cfg.Model = model
		}
	}
	if v, ok := data["gateway_url"]; ok {
		if url := coerceString(v); url != "" {
			cfg.GatewayURL = url
		}
	}
	if v, ok := data["max_steps"]; ok {
		steps := coerceInt(v, cfg.MaxSteps)
		if steps < 1 {
			steps = llm.DefaultMaxSteps
		}
		cfg.MaxSteps = steps
	}
	if v, ok := data["debug_log"]; ok {
		cfg.DebugLog = coerceString(v)
	}
	if v, ok := data["theme"]; ok {
		name := strings.ToLower(coerceString(v))
		if name == "" || theme.IsKnown(name) {
			cfg.Theme = name
		}
	}
	if v, ok := data["push"]; ok {
		cfg.Push = coerceBool(v, cfg.Push)
	}
	if v, ok := data["select_type"]; ok {
		cfg.SelectType = coerceBool(v, cfg.SelectType)
	}
	if v, ok := data["instructions"]; ok {
		cfg.AskInstructions = coerceBool(v, cfg.AskInstructions)
	}
}

func getConfigDir() string {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

// LoadConfig builds the configuration from defaults, the YAML file, then
// global and repository git config. An explicit configPath must live inside
// the ai-commit config directory.
func LoadConfig(configPath string) (*AppConfig, error) {
	cfg := DefaultConfig()

	configBase := filepath.Clean(filepath.Join(getConfigDir(), AppName))

	var paths []string
	if configPath != "" {
		expanded, err := ExpandPath(configPath)
		if err != nil {
			return cfg, err
		}
		absPath, err := filepath.Abs(expanded)
		if err != nil {
			return cfg, err
		}
		if !isPathWithin(configBase, absPath) {
			return cfg, errors.Newf("config path must reside inside %s", configBase)
		}
		paths = []string{absPath}
	} else {
		paths = []string{
			filepath.Join(configBase, "config.yaml"),
			filepath.Join(configBase, "config.yml"),
		}
	}

	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		// #nosec G304 -- path is constrained to the config directory after validation
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var yamlData map[string]any
		if err := yaml.Unmarshal(data, &yamlData); err != nil {
			return cfg, errors.Wrapf(err, "failed to parse %s", path)
		}
		applyConfig(cfg, yamlData)
		break
	}

	if global, err := loadGitConfig(true, ""); err == nil {
		applyConfig(cfg, global)
	}
	if repoPath := determineRepoPath(); repoPath != "" {
		if local, err := loadGitConfig(false, repoPath); err == nil {
			applyConfig(cfg, local)
		}
	}

	return cfg, nil
}

// ApplyCLIOverrides applies --config=aicommit.key=value overrides.
func (cfg *AppConfig) ApplyCLIOverrides(overrides []string) error {
	data, err := parseCLIConfigOverrides(overrides)
	if err != nil {
		return err
	}
	applyConfig(cfg, data)
	return nil
}

// ExpandPath expands a leading "~" and environment variables.
func ExpandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return os.ExpandEnv(path), nil
}

func isPathWithin(base, target string) bool {
	base = filepath.Clean(base)
	target = filepath.Clean(target)

	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return false
	}
	return true
}
