package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/ollama/ollama/envconfig"
)

const (
	DefaultModel   = "nomic-embed-text"
	DefaultTimeout = 30 * time.Second
)

// Config configures the Ollama embedder. An empty Host falls back to OLLAMA_HOST.
type Config struct {
	Host    string
	Model   string
	Timeout time.Duration
}

// Embedder generates embeddings using the Ollama API.
type Embedder struct {
	client  *api.Client
	model   string
	timeout time.Duration
}

// NewEmbedder creates a new Ollama embedder.
func NewEmbedder(cfg Config) (*Embedder, error) {
	host, err := ResolveHost(cfg.Host)
	if err != nil {
		return nil, err
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Embedder{
		client:  api.NewClient(host, http.DefaultClient),
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}, nil
}

// ResolveHost parses host, or reads the Ollama environment when it is empty.
func ResolveHost(host string) (*url.URL, error) {
	if host == "" {
		return envconfig.Host(), nil
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
	}
	return u, nil
}

// Name returns the identifier of this embedder and model.
func (e *Embedder) Name() string { return "ollama:" + e.model }

// Embed creates an embedding for text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.client.Embeddings(ctx, &api.EmbeddingRequest{
		Model:  e.model,
		Prompt: text,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}
	if len(resp.Embedding) == 0 {
		return nil, errors.New("ollama returned an empty embedding")
	}
	vec := make([]float32, len(resp.Embedding))
	for i, v := range resp.Embedding {
		vec[i] = float32(v)
	}
	return vec, nil
}
