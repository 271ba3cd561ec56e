package suggest

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	openai "github.com/sashabaranov/go-openai"
)

// DefaultMaxSuggestions caps how many suggestions a response yields.
const DefaultMaxSuggestions = 3

// Provider produces up to a few short continuation suggestions for the
// given context text. Implementations never inspect session state; the
// caller decides what to do with the result.
type Provider interface {
	Suggest(ctx context.Context, contextText string) ([]string, error)
}

// Config holds provider connection settings. BaseURL points at any
// OpenAI-compatible endpoint; a local Ollama instance exposes one at
// http://localhost:11434/v1.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Max     int
	Timeout time.Duration
}

// Client is the OpenAI-compatible chat implementation of Provider.
type Client struct {
	api     *openai.Client
	model   string
	max     int
	timeout time.Duration
}

// Result carries an asynchronous provider response together with the
// session epoch that requested it, so stale responses are discardable.
type Result struct {
	Epoch       uint64
	Suggestions []string
	Err         error
}

// NewClient builds a provider client from config, filling defaults.
func NewClient(cfg Config) *Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	max := cfg.Max
	if max <= 0 || max > DefaultMaxSuggestions {
		max = DefaultMaxSuggestions
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		api:     openai.NewClientWithConfig(clientConfig),
		model:   cfg.Model,
		max:     max,
		timeout: timeout,
	}
}

// prompt asks for exactly max short, differentiated continuations as a
// JSON list; ParseSuggestionList copes when the model ignores that.
func (c *Client) prompt(text string) string {
	return fmt.Sprintf(
		"Continue the user's text. Reply with a JSON list of exactly %d short continuations, "+
			"nothing else, no explanation. Each continuation must be under 30 characters and the %d must "+
			"differ from each other. The input may contain romanized syllables with typos; correct them "+
			"from context. The user's text is: %s", c.max, c.max, text)
}

// Suggest performs one synchronous provider call and extracts the
// suggestion list from its response.
func (c *Client) Suggest(ctx context.Context, contextText string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: c.prompt(contextText)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("provider request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("provider returned no choices")
	}

	list := ParseSuggestionList(resp.Choices[0].Message.Content)
	if len(list) > c.max {
		list = list[:c.max]
	}
	return list, nil
}

// Request fires a provider call in the background and returns a channel
// that delivers exactly one Result tagged with the requesting epoch. The
// session is never blocked; the caller compares epochs before applying.
func Request(ctx context.Context, p Provider, epoch uint64, contextText string) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		list, err := p.Suggest(ctx, contextText)
		if err != nil {
			log.Warnf("Suggestion request failed: %v", err)
		}
		ch <- Result{Epoch: epoch, Suggestions: list, Err: err}
	}()
	return ch
}
