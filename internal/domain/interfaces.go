package domain

import "context"

// Document represents a single fetched source page or file.
type Document struct {
	ID      string
	Source  string
	Title   string
	Content string
}

// Chunk is a bounded slice of a document used for indexing.
type Chunk struct {
	DocumentID string
	Source     string
	ChunkID    string
	Text       string
	Index      int
}

// SearchResult represents a matching chunk with a relevance score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// Embedder converts free text into a fixed-dimension vector.
// The same embedder configuration must be used at ingestion and query time.
type Embedder interface {
	Name() string
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Chunker splits documents into overlapping chunks suitable for embedding.
type Chunker interface {
	Chunk(documents []Document) []Chunk
}

// VectorStore persists vectors and supports similarity search.
type VectorStore interface {
	Init(ctx context.Context, dimension int) error
	Upsert(ctx context.Context, chunks []Chunk, vectors [][]float32) error
	Search(ctx context.Context, vector []float32, topK int) ([]SearchResult, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

// GenerateOptions controls a single completion call.
type GenerateOptions struct {
	Temperature float64
	MaxTokens   int
}

// Generator is a large-language-model completion capability.
type Generator interface {
	Complete(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// Summarizer compresses text to between minLength and maxLength words.
type Summarizer interface {
	Summarize(ctx context.Context, text string, minLength, maxLength int) (string, error)
}

// Retriever maps a query to the k most similar chunk texts.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]string, error)
}

// ReportExporter renders a title and body into a paginated document at path.
type ReportExporter interface {
	Export(title, body, path string) (string, error)
}
