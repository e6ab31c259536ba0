// Package refine turns a rough commit message into a polished one and picks
// its conventional-commit type, using the language model gateway.
package refine

import (
	"context"
	"strings"

	"github.com/chmouel/ai-commit/internal/commit"
	"github.com/chmouel/ai-commit/internal/llm"
	log "github.com/chmouel/ai-commit/internal/log"
)

const (
	systemInstruction = "You are a git commit message generator. " +
		"Respond with ONLY a plain text commit message (no markdown formatting, no backticks, no code blocks). " +
		"Just return the commit message text directly."

	// DiffToolName is the name the model uses to request the working tree diff.
	DiffToolName = "gitDiff"
)

type generator interface {
	Generate(ctx context.Context, req llm.GenerateRequest) (string, error)
}

type chooser interface {
	Choose(ctx context.Context, req llm.ChoiceRequest) (string, error)
}

// DiffFunc returns the current working tree diff.
type DiffFunc func(ctx context.Context) (string, error)

// Refiner improves draft commit messages.
type Refiner struct {
	gen      generator
	diff     DiffFunc
	maxSteps int
}

// NewRefiner creates a Refiner that exposes diff to the model as a tool and
// allows at most maxSteps gateway requests per message.
func NewRefiner(gen generator, diff DiffFunc, maxSteps int) *Refiner {
	return &Refiner{gen: gen, diff: diff, maxSteps: maxSteps}
}

func userInstruction(draft, instructions string) string {
	var sb strings.Builder
	sb.WriteString("use the file changes and improve the following commit message: ")
	sb.WriteString(draft)
	if extra := strings.TrimSpace(instructions); extra != "" {
		sb.WriteString("\nAdditional instructions: ")
		sb.WriteString(extra)
	}
	return sb.String()
}

// Refine returns the model's rewrite of draft. instructions, when not empty,
// are appended to the request. The answer is returned without post-processing.
func (r *Refiner) Refine(ctx context.Context, draft, instructions string) (string, error) {
	tools := llm.NewToolset(llm.Tool{
		Name:        DiffToolName,
		Description: "Get the git diff showing file changes.",
		Run: func(ctx context.Context) (string, error) {
			log.Println("tool git diff")
			return r.diff(ctx)
		},
	})

	return r.gen.Generate(ctx, llm.GenerateRequest{
		System:   systemInstruction,
		Prompt:   userInstruction(draft, instructions),
		Tools:    tools,
		MaxSteps: r.maxSteps,
	})
}

// Inferrer classifies commit messages into a commit.Type.
type Inferrer struct {
	choose chooser
}

// NewInferrer creates an Inferrer backed by a constrained-choice model call.
func NewInferrer(c chooser) *Inferrer {
	return &Inferrer{choose: c}
}

// InferType makes exactly one request and returns commit.ErrUnknownType when
// the answer is not one of commit.Types.
func (i *Inferrer) InferType(ctx context.Context, message string) (commit.Type, error) {
	answer, err := i.choose.Choose(ctx, llm.ChoiceRequest{
		Prompt:      "Get the commit type from the following commit message: " + message,
		Name:        "commitType",
		Description: "The type of commit based on the rules of conventional commits",
		Options:     commit.Names(),
	})
	if err != nil {
		return "", err
	}
	return commit.ParseType(answer)
}
