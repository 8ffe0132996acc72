package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"provsum/internal/domain"
	"provsum/internal/generator"
)

const systemPrompt = "You are a summarization model. Summarize the user's text faithfully, " +
	"reusing its wording where possible. Reply with the summary only."

// Config configures the OpenAI-compatible chat client.
type Config struct {
	BaseURL     string
	APIKeyEnv   string
	Model       string
	Timeout     time.Duration
	MaxRetries  int
	ChunkChars  int
	Temperature float32
}

// Client generates summaries through an OpenAI-compatible chat completion
// endpoint (OpenAI, Ollama, vLLM, ...).
type Client struct {
	api        *goopenai.Client
	model      string
	maxRetries int
	chunkChars int
	temp       float32
	wait       func(context.Context, time.Duration) error
}

// NewClient creates a client. A missing API key is an initialization error
// wrapping domain.ErrUnavailable.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENAI_API_KEY"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s: %w", cfg.APIKeyEnv, domain.ErrUnavailable)
	}
	if cfg.Model == "" {
		cfg.Model = goopenai.GPT4oMini
	}
	t := cfg.Timeout
	if t == 0 {
		t = 60 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	conf := goopenai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		conf.BaseURL = cfg.BaseURL
	}
	conf.HTTPClient = &http.Client{Timeout: t}

	return &Client{
		api:        goopenai.NewClientWithConfig(conf),
		model:      cfg.Model,
		maxRetries: cfg.MaxRetries,
		chunkChars: cfg.ChunkChars,
		temp:       cfg.Temperature,
		wait:       sleepContext,
	}, nil
}

// Name returns the identifier of this generator implementation.
func (c *Client) Name() string { return "openai" }

// Generate summarizes text chunk by chunk.
func (c *Client) Generate(ctx context.Context, text string, mode domain.Mode) (string, error) {
	return generator.Run(ctx, text, mode, c.chunkChars, c.complete)
}

func (c *Client) complete(ctx context.Context, chunk string, l generator.Lengths) (string, error) {
	req := goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: systemPrompt},
			{
				Role: goopenai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Write a summary between %d and %d tokens long.\n\n%s",
					l.Min, l.Max, chunk),
			},
		},
		MaxTokens:   l.Max,
		Temperature: c.temp,
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		resp, err := c.api.CreateChatCompletion(ctx, req)
		if err == nil {
			if len(resp.Choices) == 0 {
				return "", errors.New("no choices returned")
			}
			return strings.TrimSpace(resp.Choices[0].Message.Content), nil
		}
		lastErr = err
		if ctx.Err() != nil || !retryable(err) || attempt == c.maxRetries {
			break
		}
		if err := c.wait(ctx, retryDelay(attempt)); err != nil {
			return "", fmt.Errorf("chat completion retry: %w", err)
		}
	}
	return "", fmt.Errorf("chat completion failed: %w", lastErr)
}

// retryable reports rate limiting and server side failures.
func retryable(err error) bool {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests || reqErr.HTTPStatusCode >= 500
	}
	return false
}

// sleepContext waits for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	base := 200 * time.Millisecond
	// exponential backoff capped at 5s
	d := base << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}
