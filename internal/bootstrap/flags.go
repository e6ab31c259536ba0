// Package bootstrap builds the ai-commit command line and turns a run into an exit code.
package bootstrap

import (
	urfavecli "github.com/urfave/cli/v3"
)

// globalFlags returns all flags for the application.
// Note: --version is provided automatically by urfave/cli via Command.Version
func globalFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:  "debug-log",
			Usage: "Path to debug log file",
		},
		&urfavecli.StringFlag{
			Name:  "config-file",
			Usage: "Path to configuration file",
		},
		&urfavecli.StringSliceFlag{
			Name:    "config",
			Aliases: []string{"C"},
			Usage:   "Override config values (repeatable): --config=aicommit.key=value",
		},
		&urfavecli.StringFlag{
			Name:  "model",
			Usage: "Gateway model used to refine the message and infer its type",
		},
		&urfavecli.StringFlag{
			Name:    "theme",
			Aliases: []string{"t"},
			Usage:   "Override the preview theme",
		},
		&urfavecli.BoolFlag{
			Name:  "select-type",
			Usage: "Choose the commit type from a list instead of inferring it",
		},
		&urfavecli.BoolFlag{
			Name:  "instructions",
			Usage: "Prompt for extra instructions passed to the model",
		},
		&urfavecli.BoolFlag{
			Name:  "push",
			Usage: "Run git push after a successful commit",
		},
	}
}
