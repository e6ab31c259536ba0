package bootstrap

import (
	"fmt"
	"io"
	"strings"

	"github.com/chmouel/ai-commit/internal/config"
	"github.com/chmouel/ai-commit/internal/git"
	log "github.com/chmouel/ai-commit/internal/log"
	"github.com/chmouel/ai-commit/internal/theme"
	"github.com/cockroachdb/errors"
	urfavecli "github.com/urfave/cli/v3"
)

// flagValues holds the dedicated flags; nil pointers mean "not given".
type flagValues struct {
	model        string
	theme        string
	selectType   *bool
	instructions *bool
	push         *bool
}

func flagsFromCommand(cmd *urfavecli.Command) flagValues {
	fv := flagValues{
		model: cmd.String("model"),
		theme: cmd.String("theme"),
	}
	boolFlag := func(name string) *bool {
		if !cmd.IsSet(name) {
			return nil
		}
		v := cmd.Bool(name)
		return &v
	}
	fv.selectType = boolFlag("select-type")
	fv.instructions = boolFlag("instructions")
	fv.push = boolFlag("push")
	return fv
}

// loadCLIConfig loads the configuration and applies -C overrides. A broken
// config file is reported and defaults are used instead.
func loadCLIConfig(configFileFlag string, configOverrides []string, stderr io.Writer) (*config.AppConfig, error) {
	cfg, err := config.LoadConfig(configFileFlag)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	if len(configOverrides) > 0 {
		if err := cfg.ApplyCLIOverrides(configOverrides); err != nil {
			return nil, errors.Wrap(err, "error applying config overrides")
		}
	}

	return cfg, nil
}

// applyFlagOverrides applies the dedicated flags, which win over every config source.
func applyFlagOverrides(cfg *config.AppConfig, fv flagValues) error {
	if model := strings.TrimSpace(fv.model); model != "" {
		cfg.Model = model
	}
	if fv.theme != "" {
		name := strings.ToLower(strings.TrimSpace(fv.theme))
		if !theme.IsKnown(name) {
			return errors.Newf("unknown theme %q (available: %s)", fv.theme, strings.Join(theme.AvailableThemes(), ", "))
		}
		cfg.Theme = name
	}
	if fv.selectType != nil {
		cfg.SelectType = *fv.selectType
	}
	if fv.instructions != nil {
		cfg.AskInstructions = *fv.instructions
	}
	if fv.push != nil {
		cfg.Push = *fv.push
	}
	return nil
}

// setupDebugLog points the debug log at the flag path, else the configured
// path, else discards it.
func setupDebugLog(flagPath, configPath string, stderr io.Writer) {
	path := flagPath
	if path == "" {
		path = configPath
	}
	if path == "" {
		_ = log.SetFile("")
		return
	}

	if expanded, err := config.ExpandPath(path); err == nil {
		path = expanded
	}
	if err := log.SetFile(path); err != nil {
		fmt.Fprintf(stderr, "Error opening debug log file %q: %v\n", path, err)
	}
}

// newGitService creates a git service whose commands share the process stdio.
func newGitService(stdin io.Reader, stdout, stderr io.Writer) *git.Service {
	svc := git.NewService()
	svc.SetStdio(stdin, stdout, stderr)
	return svc
}
