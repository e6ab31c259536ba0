package llm

import (
	"context"
	"fmt"

	log "github.com/chmouel/ai-commit/internal/log"
)

// ToolFunc is a zero-argument capability the model may invoke.
type ToolFunc func(ctx context.Context) (string, error)

// Tool registers a ToolFunc under the name the model uses to call it.
type Tool struct {
	Name        string
	Description string
	Run         ToolFunc
}

// Toolset dispatches tool calls by name. A nil Toolset has no tools.
type Toolset struct {
	order []string
	tools map[string]Tool
}

// NewToolset registers tools in the order given. Later duplicates replace
// earlier ones.
func NewToolset(tools ...Tool) *Toolset {
	ts := &Toolset{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		if _, exists := ts.tools[t.Name]; !exists {
			ts.order = append(ts.order, t.Name)
		}
		ts.tools[t.Name] = t
	}
	return ts
}

// Len returns the number of registered tools.
func (ts *Toolset) Len() int {
	if ts == nil {
		return 0
	}
	return len(ts.order)
}

func (ts *Toolset) specs() []toolSpec {
	specs := make([]toolSpec, 0, ts.Len())
	for _, name := range ts.order {
		t := ts.tools[name]
		specs = append(specs, toolSpec{
			Type: "function",
			Function: functionSpec{
				Name:        t.Name,
				Description: t.Description,
				Parameters: map[string]any{
					"type":                 "object",
					"properties":           map[string]any{},
					"additionalProperties": false,
				},
			},
		})
	}
	return specs
}

// call runs the tool named by c and returns the text fed back to the model.
// Failures are reported to the model as text rather than ending the run.
func (ts *Toolset) call(ctx context.Context, c ToolCall) string {
	var (
		t  Tool
		ok bool
	)
	if ts != nil {
		t, ok = ts.tools[c.Function.Name]
	}
	if !ok {
		log.Printf("llm: unknown tool %q requested", c.Function.Name)
		return fmt.Sprintf("error: unknown tool %q", c.Function.Name)
	}

	log.Printf("llm: tool call %s (id=%s)", t.Name, c.ID)
	out, err := t.Run(ctx)
	if err != nil {
		log.Printf("llm: tool %s failed: %v", t.Name, err)
		return fmt.Sprintf("error: %v", err)
	}
	return out
}
