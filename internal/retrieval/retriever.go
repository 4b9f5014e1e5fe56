package retrieval

import (
	"context"
	"fmt"
	"strings"

	"yatra/internal/domain"
)

// DefaultTopK is the number of chunks returned when k is not positive.
const DefaultTopK = 5

// Retriever turns query text into the most similar indexed chunks.
type Retriever struct {
	index *Index
	topK  int
}

var _ domain.Retriever = (*Retriever)(nil)

func NewRetriever(index *Index, topK int) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{index: index, topK: topK}
}

// TopK returns the configured default k.
func (r *Retriever) TopK() int { return r.topK }

// Search embeds query with the index's embedder and returns scored results.
func (r *Retriever) Search(ctx context.Context, query string, k int) ([]domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrEmptyQuery
	}
	if r.index == nil {
		return nil, domain.ErrIndexNotReady
	}
	if k <= 0 {
		k = r.topK
	}
	vec, err := r.index.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	return r.index.Query(ctx, vec, k)
}

// Retrieve is Search projected to chunk text.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]string, error) {
	res, err := r.Search(ctx, query, k)
	if err != nil {
		return nil, err
	}
	texts := make([]string, len(res))
	for i, sr := range res {
		texts[i] = sr.Chunk.Text
	}
	return texts, nil
}
