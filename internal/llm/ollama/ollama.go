// Package ollama provides a completion client backed by a local Ollama server.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"yatra/internal/domain"
	embedollama "yatra/internal/embedding/ollama"
)

var _ domain.Generator = (*Generator)(nil)

const (
	DefaultModel   = "llama3.1"
	DefaultTimeout = 5 * time.Minute
)

// Config configures the generator. An empty Host falls back to OLLAMA_HOST.
type Config struct {
	Host    string
	Model   string
	Timeout time.Duration
}

// Generator handles completions against the Ollama generate API.
type Generator struct {
	client *api.Client
	model  string
}

// NewGenerator creates a new Ollama generator.
func NewGenerator(cfg Config) (*Generator, error) {
	host, err := embedollama.ResolveHost(cfg.Host)
	if err != nil {
		return nil, err
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Generator{
		client: api.NewClient(host, &http.Client{Timeout: cfg.Timeout}),
		model:  cfg.Model,
	}, nil
}

// Complete generates a response for prompt, accumulating streamed fragments.
func (g *Generator) Complete(ctx context.Context, prompt string, opts domain.GenerateOptions) (string, error) {
	options := map[string]interface{}{
		"temperature": opts.Temperature,
	}
	if opts.MaxTokens > 0 {
		options["num_predict"] = opts.MaxTokens
	}
	req := api.GenerateRequest{
		Model:   g.model,
		Prompt:  prompt,
		Options: options,
	}

	var sb strings.Builder
	err := g.client.Generate(ctx, &req, func(resp api.GenerateResponse) error {
		_, err := sb.WriteString(resp.Response)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("ollama generate: %w", domain.ErrEmptyCompletion)
	}
	return text, nil
}
