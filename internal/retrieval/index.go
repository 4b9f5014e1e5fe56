package retrieval

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"yatra/internal/domain"
)

// IngestFunc produces the chunks to index. It is only called when the
// persisted index cannot be reused.
type IngestFunc func(ctx context.Context) ([]domain.Chunk, error)

// BuildOptions configures Build.
type BuildOptions struct {
	PersistDir  string
	Store       domain.VectorStore
	Embedder    domain.Embedder
	Fingerprint string
	Ingest      IngestFunc
	// Rebuild forces re-ingestion even when the manifest matches.
	Rebuild bool
	// Concurrency bounds parallel embedding calls; values below 1 mean 1.
	Concurrency int
	Logger      *log.Logger
}

// Index is a built or loaded vector index, read-only once returned.
type Index struct {
	store    domain.VectorStore
	embedder domain.Embedder
	manifest Manifest
	reused   bool
}

// Build loads the index persisted under opts.PersistDir when its manifest
// matches the embedder and fingerprint, and otherwise ingests, embeds and
// stores every chunk. The manifest is written last, so an interrupted build
// is never mistaken for a valid one.
func Build(ctx context.Context, opts BuildOptions) (*Index, error) {
	if opts.Store == nil || opts.Embedder == nil || opts.Ingest == nil {
		return nil, errors.New("retrieval: store, embedder and ingest are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	if !opts.Rebuild {
		m, err := ReadManifest(opts.PersistDir)
		if err != nil {
			logger.Warn("ignoring unreadable index manifest", "dir", opts.PersistDir, "err", err)
		}
		if m != nil && m.Compatible(opts.Embedder.Name(), opts.Fingerprint) {
			n, err := opts.Store.Count(ctx)
			if err != nil {
				return nil, fmt.Errorf("inspecting persisted index: %w", err)
			}
			if n == m.Chunks {
				logger.Info("loaded persisted index", "dir", opts.PersistDir, "chunks", n, "embedder", m.Embedder)
				return &Index{store: opts.Store, embedder: opts.Embedder, manifest: *m, reused: true}, nil
			}
			logger.Warn("persisted index is incomplete, rebuilding", "want", m.Chunks, "have", n)
		}
	}

	if err := RemoveManifest(opts.PersistDir); err != nil {
		return nil, fmt.Errorf("invalidating manifest: %w", err)
	}

	start := time.Now()
	chunks, err := opts.Ingest(ctx)
	if err != nil {
		return nil, fmt.Errorf("ingesting documents: %w", err)
	}
	if len(chunks) == 0 {
		return nil, domain.ErrNoDocuments
	}

	vectors, err := embedAll(ctx, opts.Embedder, chunks, opts.Concurrency)
	if err != nil {
		return nil, err
	}
	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("chunk %s: %w (got %d, want %d)", chunks[i].ChunkID, domain.ErrDimensionMismatch, len(v), dim)
		}
	}

	if err := opts.Store.Init(ctx, dim); err != nil {
		return nil, fmt.Errorf("initialising vector store: %w", err)
	}
	if err := opts.Store.Upsert(ctx, chunks, vectors); err != nil {
		return nil, fmt.Errorf("storing vectors: %w", err)
	}

	m := Manifest{
		Embedder:    opts.Embedder.Name(),
		Dimension:   dim,
		Fingerprint: opts.Fingerprint,
		Chunks:      len(chunks),
		BuiltAt:     time.Now().UTC(),
	}
	if err := WriteManifest(opts.PersistDir, m); err != nil {
		return nil, err
	}
	logger.Info("built index", "chunks", len(chunks), "dimension", dim, "took", time.Since(start).Round(time.Millisecond))
	return &Index{store: opts.Store, embedder: opts.Embedder, manifest: m}, nil
}

// Manifest returns the description of the served index.
func (ix *Index) Manifest() Manifest { return ix.manifest }

// Reused reports whether the index was loaded without re-ingesting.
func (ix *Index) Reused() bool { return ix.reused }

// Query returns at most k entries in non-increasing similarity order.
func (ix *Index) Query(ctx context.Context, vector []float32, k int) ([]domain.SearchResult, error) {
	if ix == nil || ix.store == nil {
		return nil, domain.ErrIndexNotReady
	}
	if len(vector) != ix.manifest.Dimension {
		return nil, fmt.Errorf("%w: query has %d, index has %d", domain.ErrDimensionMismatch, len(vector), ix.manifest.Dimension)
	}
	res, err := ix.store.Search(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	if len(res) > k {
		res = res[:k]
	}
	return res, nil
}

func embedAll(ctx context.Context, embedder domain.Embedder, chunks []domain.Chunk, concurrency int) ([][]float32, error) {
	if concurrency < 1 {
		concurrency = 1
	}
	vectors := make([][]float32, len(chunks))
	errs := make([]error, len(chunks))
	semaphore := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	for i := range chunks {
		wg.Add(1)
		semaphore <- struct{}{}
		go func(i int) {
			defer func() {
				wg.Done()
				<-semaphore
			}()
			vec, err := embedder.Embed(ctx, chunks[i].Text)
			if err != nil {
				errs[i] = fmt.Errorf("failed to embed chunk %s: %w", chunks[i].ChunkID, err)
				return
			}
			vectors[i] = vec
		}(i)
	}
	wg.Wait()
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return vectors, nil
}
