package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/lipgloss"
	"github.com/chmouel/ai-commit/internal/app"
	"github.com/chmouel/ai-commit/internal/buildinfo"
	"github.com/chmouel/ai-commit/internal/completion"
	"github.com/chmouel/ai-commit/internal/config"
	"github.com/chmouel/ai-commit/internal/git"
	"github.com/chmouel/ai-commit/internal/llm"
	log "github.com/chmouel/ai-commit/internal/log"
	"github.com/chmouel/ai-commit/internal/prompt"
	"github.com/chmouel/ai-commit/internal/refine"
	"github.com/chmouel/ai-commit/internal/theme"
	"github.com/cockroachdb/errors"
	urfavecli "github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// ErrInterrupted is the cancellation cause recorded when SIGINT arrives.
var ErrInterrupted = errors.New("interrupted")

type runner struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewCommand returns the ai-commit root command bound to the given streams.
func NewCommand(stdin io.Reader, stdout, stderr io.Writer) *urfavecli.Command {
	r := &runner{stdin: stdin, stdout: stdout, stderr: stderr}

	urfavecli.VersionPrinter = func(*urfavecli.Command) {
		printVersion(stdout)
	}

	return &urfavecli.Command{
		Name:      "ai-commit",
		Usage:     "Refine a commit message with an LLM and commit it as a conventional commit",
		Version:   buildinfo.Version(),
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     globalFlags(),
		Action:    r.action,

		EnableShellCompletion: true,
		ShellComplete:         r.complete,
		// exit codes are decided by ExitCode, never by the library
		ExitErrHandler: func(context.Context, *urfavecli.Command, error) {},
	}
}

func (r *runner) action(ctx context.Context, cmd *urfavecli.Command) error {
	apiKey, err := config.LoadCredentials()
	if err != nil {
		return err
	}

	cfg, err := loadCLIConfig(cmd.String("config-file"), cmd.StringSlice("config"), r.stderr)
	if err != nil {
		return err
	}
	setupDebugLog(cmd.String("debug-log"), cfg.DebugLog, r.stderr)

	if err := applyFlagOverrides(cfg, flagsFromCommand(cmd)); err != nil {
		return err
	}

	client, err := llm.NewClient(llm.Config{
		BaseURL: cfg.GatewayURL,
		APIKey:  apiKey,
		Model:   cfg.Model,
	})
	if err != nil {
		if errors.Is(err, llm.ErrMissingAPIKey) {
			globalEnv, _ := config.GlobalEnvPath()
			return errors.Wrapf(err, "set %s in the environment, ./.env or %s", config.APIKeyEnv, globalEnv)
		}
		return err
	}
	log.Printf("bootstrap: model=%s gateway=%s max_steps=%d", cfg.Model, cfg.GatewayURL, cfg.MaxSteps)

	gitSvc := newGitService(r.stdin, r.stdout, r.stderr)

	p := prompt.New(r.stdin, r.stdout)
	defer func() { _ = p.Close() }()
	if cfg.Theme != "" {
		p.SetTheme(theme.GetTheme(cfg.Theme))
	}

	a := app.New(
		p,
		refine.NewRefiner(client, gitSvc.Diff, cfg.MaxSteps),
		refine.NewInferrer(client),
		gitSvc,
		app.Options{
			AskInstructions: cfg.AskInstructions,
			SelectType:      cfg.SelectType,
			Push:            cfg.Push,
		},
	)
	return a.Run(ctx)
}

// complete prints flag or flag-value candidates for the shell.
func (r *runner) complete(_ context.Context, _ *urfavecli.Command) {
	var words []string
	for _, arg := range os.Args[1:] {
		if arg != "--generate-shell-completion" {
			words = append(words, arg)
		}
	}
	for _, s := range completion.Suggest(words) {
		fmt.Fprintln(r.stdout, s)
	}
}

// withInterrupt returns a context cancelled with ErrInterrupted on SIGINT.
func withInterrupt(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)

	go func() {
		select {
		case <-sigCh:
			log.Printf("bootstrap: interrupted")
			cancel(ErrInterrupted)
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		cancel(nil)
	}
}

// Run executes the command line and returns the process exit code.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, stop := withInterrupt(ctx)
	defer stop()

	err := NewCommand(stdin, stdout, stderr).Run(ctx, args)
	if err != nil && errors.Is(err, context.Canceled) && errors.Is(context.Cause(ctx), ErrInterrupted) {
		err = errors.Mark(err, ErrInterrupted)
	}

	code := ExitCode(err, stderr)
	if cerr := log.Close(); cerr != nil {
		fmt.Fprintf(stderr, "Error closing debug log: %v\n", cerr)
	}
	return code
}

// ExitCode maps the outcome of a run to a process exit code. Cancellation is
// a clean exit, a failed git command keeps git's code, and anything else is
// printed to stderr and exits 1.
func ExitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, prompt.ErrCancelled) || errors.Is(err, ErrInterrupted) {
		log.Printf("bootstrap: cancelled: %v", err)
		return 0
	}

	var exitErr *git.ExitError
	if errors.As(err, &exitErr) && exitErr.Code > 0 {
		return exitErr.Code
	}

	fmt.Fprintf(stderr, "%s %v\n", errorLabel(stderr), err)
	return 1
}

// errorLabel returns "Error:", coloured when w is a terminal.
func errorLabel(w io.Writer) string {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return "Error:"
	}
	return lipgloss.NewStyle().Bold(true).Foreground(theme.GetTheme("").ErrorFg).Render("Error:")
}

// printVersion prints version information.
func printVersion(w io.Writer) {
	fmt.Fprint(w, buildinfo.Current())
}
