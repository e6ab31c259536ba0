// Package app drives one ai-commit run: draft, refine, type, preview, confirm, commit.
package app

import (
	"context"
	"strings"

	"github.com/chmouel/ai-commit/internal/commit"
	log "github.com/chmouel/ai-commit/internal/log"
	"github.com/cockroachdb/errors"
)

// Banner is printed once at the start of every run.
const Banner = "🚀 Conventional Commit Generator"

// ErrEmptyMessage is returned when the draft is blank.
var ErrEmptyMessage = errors.New("commit message is empty")

// Prompter is the interactive surface the run needs.
type Prompter interface {
	Banner(title string)
	Printf(format string, args ...any)
	Ask(ctx context.Context, question string) (string, error)
	Confirm(ctx context.Context, question string) (bool, error)
	SelectCommitType(ctx context.Context) (commit.Type, error)
	Preview(message string)
}

// Refiner rewrites a draft using the working tree changes.
type Refiner interface {
	Refine(ctx context.Context, draft, instructions string) (string, error)
}

// Inferrer picks a conventional commit type for a message.
type Inferrer interface {
	InferType(ctx context.Context, message string) (commit.Type, error)
}

// Committer stages and records the commit.
type Committer interface {
	StageAndCommit(ctx context.Context, message string) error
	Push(ctx context.Context) (string, error)
}

// Options toggles the optional steps of a run.
type Options struct {
	AskInstructions bool
	SelectType      bool
	Push            bool
}

// App wires the collaborators of a run together.
type App struct {
	prompter  Prompter
	refiner   Refiner
	inferrer  Inferrer
	committer Committer
	opts      Options
}

// New returns an App.
func New(p Prompter, r Refiner, i Inferrer, c Committer, opts Options) *App {
	return &App{
		prompter:  p,
		refiner:   r,
		inferrer:  i,
		committer: c,
		opts:      opts,
	}
}

// Run executes the flow once. Declining the preview returns nil without
// touching the repository.
func (a *App) Run(ctx context.Context) error {
	a.prompter.Banner(Banner)

	draft, err := a.prompter.Ask(ctx, "Enter commit message: ")
	if err != nil {
		return err
	}
	if strings.TrimSpace(draft) == "" {
		return ErrEmptyMessage
	}

	var instructions string
	if a.opts.AskInstructions {
		if instructions, err = a.prompter.Ask(ctx, "Enter custom instructions: "); err != nil {
			return err
		}
	}

	refined, err := a.refiner.Refine(ctx, draft, instructions)
	if err != nil {
		return errors.Wrap(err, "failed to refine commit message")
	}
	log.Printf("app: refined %q -> %q", draft, refined)

	commitType, err := a.commitType(ctx, refined)
	if err != nil {
		return err
	}

	full := commit.Compose(commitType, refined)
	a.prompter.Preview(full)

	ok, err := a.prompter.Confirm(ctx, "Proceed with commit?")
	if err != nil {
		return err
	}
	if !ok {
		log.Printf("app: commit declined")
		return nil
	}

	if err := a.committer.StageAndCommit(ctx, full); err != nil {
		return err
	}

	if a.opts.Push {
		out, err := a.committer.Push(ctx)
		if err != nil {
			return err
		}
		if out = strings.TrimSpace(out); out != "" {
			a.prompter.Printf("%s\n", out)
		}
	}
	return nil
}

func (a *App) commitType(ctx context.Context, message string) (commit.Type, error) {
	if a.opts.SelectType {
		return a.prompter.SelectCommitType(ctx)
	}
	t, err := a.inferrer.InferType(ctx, message)
	if err != nil {
		return "", errors.Wrap(err, "failed to infer commit type")
	}
	log.Printf("app: inferred type %s", t)
	return t, nil
}
