// Package git wraps the git commands ai-commit runs.
package git

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	log "github.com/chmouel/ai-commit/internal/log"
	"github.com/cockroachdb/errors"
)

// DiffArgs is the exact argument list used to read the working tree diff.
// Pager, colour, external drivers, textconv filters and rename detection are
// disabled so the model receives the same plain text regardless of user config.
var DiffArgs = []string{
	"git", "--no-pager", "diff",
	"--no-color",
	"--minimal",
	"--ignore-all-space",
	"--ignore-blank-lines",
	"--no-ext-diff",
	"--no-textconv",
	"--no-renames",
}

// execCommand builds the *exec.Cmd for a vetted argument list. Tests replace it
// to record invocations without touching a repository.
var execCommand = func(_ context.Context, name string, args ...string) *exec.Cmd {
	return exec.Command(name, args...)
}

// ExitError reports a git command that ran but exited non-zero.
type ExitError struct {
	Args []string
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: exit status %d", strings.Join(e.Args, " "), e.Code)
}

// RunOptions controls how a command is wired to the terminal.
type RunOptions struct {
	// Input, when set, is piped to the command's stdin.
	Input *string
	// Capture returns stdout to the caller instead of inheriting it.
	Capture bool
	// CaptureStderr keeps stderr out of the terminal; it is only logged.
	CaptureStderr bool
}

// Service runs git in the current working directory.
type Service struct {
	dir    string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewService constructs a Service bound to the process stdio.
func NewService() *Service {
	return &Service{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// SetDir changes the working directory used for every command.
func (s *Service) SetDir(dir string) {
	s.dir = dir
}

// SetStdio overrides the streams inherited by commands.
func (s *Service) SetStdio(stdin io.Reader, stdout, stderr io.Writer) {
	s.stdin = stdin
	s.stdout = stdout
	s.stderr = stderr
}

func (s *Service) debugf(format string, args ...any) {
	log.Printf(format, args...)
}

func prepareAllowedCommand(ctx context.Context, args []string) (*exec.Cmd, error) {
	if len(args) == 0 {
		return nil, errors.New("no command provided")
	}

	switch args[0] {
	case "git":
		// #nosec G204 -- arguments for git command come from internal logic and are not shell interpolated
		return execCommand(ctx, "git", args[1:]...), nil
	default:
		return nil, errors.Newf("unsupported command %q", args[0])
	}
}

// RunCommand executes args synchronously. With opts.Input the text is piped to
// stdin; with opts.Capture stdout is returned and with opts.CaptureStderr
// stderr only reaches the debug log. Anything not redirected is inherited so
// the user sees git's own output.
func (s *Service) RunCommand(ctx context.Context, args []string, opts RunOptions) (string, error) {
	command := strings.Join(args, " ")
	if command == "" {
		command = "<empty>"
	}
	s.debugf("run: %s (cwd=%s)", command, s.dir)

	cmd, err := prepareAllowedCommand(ctx, args)
	if err != nil {
		s.debugf("error: %s (unsupported command)", command)
		return "", err
	}
	if s.dir != "" {
		cmd.Dir = s.dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdin = s.stdin
	cmd.Stdout = s.stdout
	cmd.Stderr = s.stderr
	if opts.Input != nil {
		cmd.Stdin = strings.NewReader(*opts.Input)
	}
	if opts.Capture {
		cmd.Stdout = &stdout
	}
	if opts.CaptureStderr {
		cmd.Stderr = &stderr
	}

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if detail := strings.TrimSpace(stderr.String()); detail != "" {
				s.debugf("error: %s (exit %d): %s", command, exitErr.ExitCode(), detail)
			} else {
				s.debugf("error: %s (exit %d)", command, exitErr.ExitCode())
			}
			return stdout.String(), &ExitError{Args: append([]string{}, args...), Code: exitErr.ExitCode()}
		}
		s.debugf("error: command not found: %s", args[0])
		return "", errors.Wrapf(err, "failed to run %s", command)
	}

	s.debugf("ok: %s", command)
	return stdout.String(), nil
}

// AddAll stages every working tree change.
func (s *Service) AddAll(ctx context.Context) error {
	_, err := s.RunCommand(ctx, []string{"git", "add", "-A"}, RunOptions{})
	return err
}

// Commit records the staged changes with message read from stdin.
func (s *Service) Commit(ctx context.Context, message string) error {
	_, err := s.RunCommand(ctx, []string{"git", "commit", "-F", "-"}, RunOptions{Input: &message})
	return err
}

// StageAndCommit stages all changes and commits them. A failed commit leaves
// the stage in place.
func (s *Service) StageAndCommit(ctx context.Context, message string) error {
	if err := s.AddAll(ctx); err != nil {
		return err
	}
	return s.Commit(ctx, message)
}

// Push pushes the current branch and returns git's stdout. Progress and
// errors go to the terminal.
func (s *Service) Push(ctx context.Context) (string, error) {
	out, err := s.RunCommand(ctx, []string{"git", "push"}, RunOptions{Capture: true})
	if err != nil {
		return out, err
	}
	s.debugf("git push: %s", strings.TrimSpace(out))
	return out, nil
}

// Diff returns the unstaged working tree diff.
func (s *Service) Diff(ctx context.Context) (string, error) {
	return s.RunCommand(ctx, DiffArgs, RunOptions{Capture: true, CaptureStderr: true})
}
