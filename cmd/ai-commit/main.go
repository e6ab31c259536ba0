// Package main is the entry point for the ai-commit application.
package main

import (
	"context"
	"os"

	"github.com/chmouel/ai-commit/internal/bootstrap"
	"github.com/chmouel/ai-commit/internal/buildinfo"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	buildinfo.Set(version, commit, date, builtBy)
	os.Exit(bootstrap.Run(context.Background(), os.Args, os.Stdin, os.Stdout, os.Stderr))
}
