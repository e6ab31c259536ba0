// Package llm talks to an OpenAI-compatible chat-completions gateway.
//
// Two calls are offered: Generate runs a bounded tool loop and returns the
// model's final text, and Choose forces the model to answer with one value from
// a fixed option list.
package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"strings"

	log "github.com/chmouel/ai-commit/internal/log"
	"github.com/cockroachdb/errors"
	"github.com/go-resty/resty/v2"
)

const (
	// DefaultBaseURL is the Vercel AI Gateway OpenAI-compatible endpoint.
	DefaultBaseURL = "https://ai-gateway.vercel.sh/v1"
	// DefaultModel is the gateway model identifier used when none is configured.
	DefaultModel = "openai/gpt-4o-mini"
	// DefaultMaxSteps bounds the number of requests in one Generate call.
	DefaultMaxSteps = 5
)

var (
	// ErrMissingAPIKey is returned by NewClient without a credential.
	ErrMissingAPIKey = errors.New("missing gateway API key")
	// ErrGateway marks transport, auth and HTTP status failures.
	ErrGateway = errors.New("gateway request failed")
	// ErrInvalidChoice is returned when Choose gets an answer outside its options.
	ErrInvalidChoice = errors.New("model answered outside the allowed options")
)

// Config holds the gateway connection settings.
type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

// Client is a chat-completions client bound to one model.
type Client struct {
	baseURL string
	model   string
	rest    *resty.Client
}

// NewClient validates cfg and fills in defaults. No timeout is set on the
// default HTTP client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.model == "" {
		c.model = DefaultModel
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	c.rest = resty.NewWithClient(hc).
		SetBaseURL(c.baseURL).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetLogger(restyLogger{})
	return c, nil
}

// restyLogger sends resty's own messages to the debug log.
type restyLogger struct{}

func (restyLogger) Errorf(format string, v ...any) { log.Printf("llm: resty error: "+format, v...) }
func (restyLogger) Warnf(format string, v ...any)  { log.Printf("llm: resty warn: "+format, v...) }
func (restyLogger) Debugf(format string, v ...any) { log.Printf("llm: resty debug: "+format, v...) }

// Model returns the model identifier sent with every request.
func (c *Client) Model() string {
	return c.model
}

func (c *Client) complete(ctx context.Context, req chatRequest) (*chatResponse, error) {
	req.Model = c.model
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "marshal chat request")
	}

	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(body).
		Post("/chat/completions")
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "call gateway"), ErrGateway)
	}

	data := resp.Body()
	var parsed chatResponse
	decodeErr := json.Unmarshal(data, &parsed)

	if resp.IsError() {
		detail := strings.TrimSpace(string(data))
		if decodeErr == nil && parsed.Error != nil && parsed.Error.Message != "" {
			detail = parsed.Error.Message
		}
		return nil, errors.Mark(errors.Newf("gateway responded with status %s: %s", resp.Status(), detail), ErrGateway)
	}
	if decodeErr != nil {
		return nil, errors.Mark(errors.Wrap(decodeErr, "decode gateway response"), ErrGateway)
	}
	if len(parsed.Choices) == 0 {
		return nil, errors.Mark(errors.New("gateway returned no choices"), ErrGateway)
	}
	return &parsed, nil
}

// GenerateRequest describes one Generate call.
type GenerateRequest struct {
	System   string
	Prompt   string
	Tools    *Toolset
	MaxSteps int
}

// Generate sends the prompt and keeps answering tool calls until the model
// replies with text or MaxSteps requests have been made. The last permitted
// request is sent with tool_choice "none" so it always ends in text.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	maxSteps := req.MaxSteps
	if maxSteps < 1 {
		maxSteps = DefaultMaxSteps
	}

	var messages []Message
	if req.System != "" {
		messages = append(messages, Message{Role: RoleSystem, Content: req.System})
	}
	messages = append(messages, Message{Role: RoleUser, Content: req.Prompt})

	var text string
	for step := 1; step <= maxSteps; step++ {
		chat := chatRequest{Messages: messages}
		if req.Tools.Len() > 0 {
			chat.Tools = req.Tools.specs()
			if step == maxSteps {
				chat.ToolChoice = "none"
			}
		}

		log.Printf("llm: generate step %d/%d model=%s messages=%d", step, maxSteps, c.model, len(messages))
		resp, err := c.complete(ctx, chat)
		if err != nil {
			return "", err
		}

		reply := resp.Choices[0].Message
		text = reply.Content
		if len(reply.ToolCalls) == 0 {
			log.Printf("llm: generate finished at step %d (%s)", step, resp.Choices[0].FinishReason)
			return text, nil
		}
		if step == maxSteps {
			break
		}

		reply.Role = RoleAssistant
		messages = append(messages, reply)
		for _, call := range reply.ToolCalls {
			messages = append(messages, Message{
				Role:       RoleTool,
				ToolCallID: call.ID,
				Content:    req.Tools.call(ctx, call),
			})
		}
	}

	log.Printf("llm: step limit %d reached with pending tool calls", maxSteps)
	return text, nil
}

// ChoiceRequest describes one Choose call.
type ChoiceRequest struct {
	Prompt      string
	Name        string
	Description string
	Options     []string
}

// Choose asks the model to pick exactly one of req.Options using a JSON schema
// enum response format, and rejects any answer outside the list.
func (c *Client) Choose(ctx context.Context, req ChoiceRequest) (string, error) {
	if len(req.Options) == 0 {
		return "", errors.New("choice requires at least one option")
	}
	name := req.Name
	if name == "" {
		name = "choice"
	}

	chat := chatRequest{
		Messages: []Message{{Role: RoleUser, Content: req.Prompt}},
		ResponseFormat: &responseFormat{
			Type: "json_schema",
			JSONSchema: &jsonSchema{
				Name:        name,
				Description: req.Description,
				Strict:      true,
				Schema: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"result": map[string]any{
							"type": "string",
							"enum": req.Options,
						},
					},
					"required":             []string{"result"},
					"additionalProperties": false,
				},
			},
		},
	}

	log.Printf("llm: choose %s among %d options model=%s", name, len(req.Options), c.model)
	resp, err := c.complete(ctx, chat)
	if err != nil {
		return "", err
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	var answer struct {
		Result string `json:"result"`
	}
	if err := json.Unmarshal([]byte(content), &answer); err != nil {
		return "", errors.Mark(errors.Wrapf(err, "decode %s answer %q", name, content), ErrInvalidChoice)
	}
	if !slices.Contains(req.Options, answer.Result) {
		return "", errors.Wrapf(ErrInvalidChoice, "%s: %q", name, answer.Result)
	}
	return answer.Result, nil
}
