package summarizer

import (
	"context"
	"fmt"
	"strings"

	"yatra/internal/domain"
	"yatra/internal/prompt"
)

var _ domain.Summarizer = (*LLMSummarizer)(nil)

// LLMSummarizer asks the generation provider for an abstractive summary.
type LLMSummarizer struct {
	gen     domain.Generator
	prompts *prompt.Store
}

// NewLLMSummarizer creates a summarizer that renders the summarize prompt.
func NewLLMSummarizer(gen domain.Generator, prompts *prompt.Store) *LLMSummarizer {
	if prompts == nil {
		prompts = prompt.Default()
	}
	return &LLMSummarizer{gen: gen, prompts: prompts}
}

// Summarize returns text unchanged when it already fits maxLength words.
// Otherwise the completion, at temperature 0, is cut to maxLength words.
func (s *LLMSummarizer) Summarize(ctx context.Context, text string, minLength, maxLength int) (string, error) {
	if err := checkBounds(minLength, maxLength); err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if CountWords(text) <= maxLength {
		return text, nil
	}
	p, err := s.prompts.Render(prompt.Summarize, prompt.SummarizeVars{
		Text:     text,
		MinWords: minLength,
		MaxWords: maxLength,
	})
	if err != nil {
		return "", err
	}
	// Words run at roughly 1.3 tokens each; leave headroom for the cut.
	out, err := s.gen.Complete(ctx, p, domain.GenerateOptions{Temperature: 0, MaxTokens: maxLength * 2})
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	return ClampWords(out, maxLength), nil
}
