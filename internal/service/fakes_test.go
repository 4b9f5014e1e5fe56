package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"

	"yatra/internal/domain"
)

var errProvider = errors.New("provider unavailable")

type fakeRetriever struct {
	mu      sync.Mutex
	docs    []string
	err     error
	queries []string
}

func (r *fakeRetriever) Retrieve(_ context.Context, query string, _ int) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, query)
	return r.docs, r.err
}

// fakeGenerator is deterministic: the reply depends only on the prompt.
// failOn makes the n-th call (1-based) fail.
type fakeGenerator struct {
	mu      sync.Mutex
	replies []string
	failOn  int
	prompts []string
}

func (g *fakeGenerator) Complete(_ context.Context, prompt string, _ domain.GenerateOptions) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	n := len(g.prompts)
	if n == g.failOn {
		return "", errProvider
	}
	if n <= len(g.replies) {
		return g.replies[n-1], nil
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(prompt))
	return fmt.Sprintf("answer-%08x", h.Sum32()), nil
}

func (g *fakeGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

type fakeSummarizer struct {
	err  error
	args [][2]int
}

func (s *fakeSummarizer) Summarize(_ context.Context, text string, minLength, maxLength int) (string, error) {
	s.args = append(s.args, [2]int{minLength, maxLength})
	if s.err != nil {
		return "", s.err
	}
	return "SUMMARY: " + text, nil
}

type failingExporter struct{}

func (failingExporter) Export(string, string, string) (string, error) {
	return "", errors.New("disk full")
}
