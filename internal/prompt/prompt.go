// Package prompt reads answers from the terminal one line at a time.
//
// A single Prompter owns the process input for the whole run. It is created at
// startup and must be released with Close before the process exits; Close is
// safe to call more than once but only releases the terminal the first time.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/chmouel/ai-commit/internal/commit"
	log "github.com/chmouel/ai-commit/internal/log"
	"github.com/chmouel/ai-commit/internal/theme"
	"github.com/cockroachdb/errors"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/term"
)

var (
	// ErrCancelled is returned when the user interrupts a prompt or input ends
	// before an answer is typed. It is a request to exit cleanly, not a failure.
	ErrCancelled = errors.New("prompt cancelled")
	// ErrInvalidSelection is returned for a commit type choice that is not a
	// number between 1 and len(commit.Types).
	ErrInvalidSelection = errors.New("invalid selection")
)

const (
	defaultWrapWidth = 72
	maxWrapWidth     = 100
)

type lineResult struct {
	text string
	err  error
}

// Prompter asks questions on out and reads answers from in.
type Prompter struct {
	reader *bufio.Reader
	out    io.Writer
	thm    *theme.Theme

	styled bool
	width  int

	lines   chan lineResult
	pending bool

	closeOnce sync.Once
	closed    bool
	restore   func() error
}

// New creates a Prompter. When in is a terminal its state is saved and put back
// by Close; when out is a terminal previews are styled and wrapped to its width.
func New(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{
		reader: bufio.NewReader(in),
		out:    out,
		thm:    theme.Dracula(),
		width:  defaultWrapWidth,
		lines:  make(chan lineResult, 1),
	}

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		if state, err := term.GetState(fd); err == nil {
			p.restore = func() error { return term.Restore(fd, state) }
		}
	}

	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.styled = true
		p.thm = theme.GetTheme("")
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 8 {
			p.width = min(w-4, maxWrapWidth)
		}
	}

	return p
}

// SetTheme changes the palette used for styled output.
func (p *Prompter) SetTheme(thm *theme.Theme) {
	if thm != nil {
		p.thm = thm
	}
}

// Close releases the terminal. Only the first call has an effect.
func (p *Prompter) Close() error {
	var err error
	p.closeOnce.Do(func() {
		p.closed = true
		if p.restore != nil {
			err = p.restore()
		}
		log.Println("prompt: closed")
	})
	return err
}

// Printf writes informational text between prompts.
func (p *Prompter) Printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

// Banner prints a title line, highlighted when the output is a terminal.
func (p *Prompter) Banner(title string) {
	if p.styled {
		title = lipgloss.NewStyle().Bold(true).Foreground(p.thm.Accent).Render(title)
	}
	fmt.Fprintf(p.out, "\n%s\n\n", title)
}

func (p *Prompter) muted(text string) string {
	if !p.styled {
		return text
	}
	return lipgloss.NewStyle().Foreground(p.thm.MutedFg).Render(text)
}

func (p *Prompter) readLine() {
	text, err := p.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if text == "" {
				p.lines <- lineResult{err: ErrCancelled}
				return
			}
			p.lines <- lineResult{text: strings.TrimRight(text, "\r\n")}
			return
		}
		p.lines <- lineResult{err: errors.Wrap(err, "failed to read answer")}
		return
	}
	p.lines <- lineResult{text: strings.TrimRight(text, "\r\n")}
}

// Ask prints question and waits for one line of input. Cancelling ctx while
// waiting returns ErrCancelled; the read stays pending and its line is handed to
// the next Ask.
func (p *Prompter) Ask(ctx context.Context, question string) (string, error) {
	if p.closed {
		return "", errors.Wrap(ErrCancelled, "prompt already closed")
	}
	if ctx.Err() != nil {
		return "", ErrCancelled
	}

	fmt.Fprint(p.out, question)
	if !p.pending {
		p.pending = true
		go p.readLine()
	}

	select {
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		log.Printf("prompt: cancelled while waiting for %q", strings.TrimSpace(question))
		return "", ErrCancelled
	case res := <-p.lines:
		p.pending = false
		return res.text, res.err
	}
}

// Confirm asks a yes/no question. Only "y", in any case and surrounded by any
// whitespace, counts as yes.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	answer, err := p.Ask(ctx, question+" (y/n): ")
	if err != nil {
		return false, err
	}
	return strings.ToLower(strings.TrimSpace(answer)) == "y", nil
}

// SelectCommitType lists commit.Types with 1-based numbers and reads a choice.
// A bad choice is returned as ErrInvalidSelection and is not asked again.
func (p *Prompter) SelectCommitType(ctx context.Context) (commit.Type, error) {
	fmt.Fprintln(p.out, p.muted("Available types:"))
	for i, t := range commit.Types {
		fmt.Fprintf(p.out, "  %s %s\n", p.muted(strconv.Itoa(i+1)+"."), t)
	}

	answer, err := p.Ask(ctx, "Select type (number): ")
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(answer)
	idx, err := strconv.Atoi(text)
	if err != nil {
		return "", errors.Mark(errors.Newf("invalid selection: %q", text), ErrInvalidSelection)
	}
	if idx < 1 || idx > len(commit.Types) {
		return "", errors.Mark(
			errors.Newf("selection out of range: %d (must be 1-%d)", idx, len(commit.Types)),
			ErrInvalidSelection,
		)
	}

	return commit.TypeFromIndex(idx - 1)
}

// Preview shows the full commit message before confirmation.
func (p *Prompter) Preview(message string) {
	fmt.Fprintf(p.out, "\n%s\n", p.muted("Preview:"))
	if !p.styled {
		fmt.Fprintf(p.out, "%s\n\n", message)
		return
	}

	body := wordwrap.String(message, p.width)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.thm.Border).
		Foreground(p.thm.TextFg).
		Padding(0, 1)
	fmt.Fprintf(p.out, "%s\n\n", box.Render(body))
}
