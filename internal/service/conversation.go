package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"yatra/internal/domain"
	"yatra/internal/prompt"
)

// ConversationOptions tunes question answering.
type ConversationOptions struct {
	TopK        int
	Temperature float64
	MaxTokens   int
	// UseHistory adds the session's recent turns to the answer prompt.
	// Retrieval always uses the current question alone.
	UseHistory bool
}

// Conversation answers one question at a time from the shared index.
type Conversation struct {
	retriever domain.Retriever
	generator domain.Generator
	prompts   *prompt.Store
	opts      ConversationOptions
	logger    *log.Logger
}

func NewConversation(retriever domain.Retriever, generator domain.Generator, prompts *prompt.Store, opts ConversationOptions, logger *log.Logger) *Conversation {
	if prompts == nil {
		prompts = prompt.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Conversation{retriever: retriever, generator: generator, prompts: prompts, opts: opts, logger: logger}
}

// Answer retrieves context for question and asks the generator. window is
// ignored unless history is enabled.
func (c *Conversation) Answer(ctx context.Context, question string, window []domain.Turn) (string, error) {
	question = strings.TrimSpace(question)
	docs, err := c.retriever.Retrieve(ctx, question, c.opts.TopK)
	if err != nil {
		return "", fmt.Errorf("retrieving context: %w", err)
	}
	vars := prompt.AnswerVars{Context: strings.Join(docs, "\n\n"), Question: question}
	if c.opts.UseHistory {
		vars.History = window
	}
	p, err := c.prompts.Render(prompt.Answer, vars)
	if err != nil {
		return "", err
	}
	answer, err := c.generator.Complete(ctx, p, domain.GenerateOptions{Temperature: c.opts.Temperature, MaxTokens: c.opts.MaxTokens})
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}
	return answer, nil
}

// Respond is Answer with failures turned into a displayable message.
func (c *Conversation) Respond(ctx context.Context, question string, window []domain.Turn) string {
	answer, err := c.Answer(ctx, question, window)
	if err != nil {
		c.logger.Error("answering failed", "err", err)
		return "Error answering question: " + err.Error()
	}
	return answer
}
