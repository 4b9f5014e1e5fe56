// Package openai provides a completion client for OpenAI-compatible chat APIs,
// including Groq and other hosts that mirror the /chat/completions endpoint.
package openai

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"yatra/internal/domain"
)

var _ domain.Generator = (*Generator)(nil)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = goopenai.GPT4oMini
	DefaultTimeout = 120 * time.Second
)

// Config configures the chat client.
type Config struct {
	BaseURL string
	// APIKeyEnv names the environment variable holding the key.
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
}

// Generator sends single-prompt chat completions.
type Generator struct {
	client *goopenai.Client
	model  string
}

// NewGenerator creates a chat completion client.
func NewGenerator(cfg Config) (*Generator, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	oc := goopenai.DefaultConfig(key)
	oc.BaseURL = cfg.BaseURL
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return &Generator{client: goopenai.NewClientWithConfig(oc), model: cfg.Model}, nil
}

// Model returns the configured model name.
func (g *Generator) Model() string { return g.model }

// Complete sends prompt as a single user message.
func (g *Generator) Complete(ctx context.Context, prompt string, opts domain.GenerateOptions) (string, error) {
	req := goopenai.ChatCompletionRequest{
		Model: g.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: float32(opts.Temperature),
		MaxTokens:   opts.MaxTokens,
	}
	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: %w", domain.ErrEmptyCompletion)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("chat completion: %w", domain.ErrEmptyCompletion)
	}
	return text, nil
}
