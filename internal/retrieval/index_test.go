package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatra/internal/domain"
	"yatra/internal/embedding/hashing"
	"yatra/internal/logging"
	"yatra/internal/vectorstore/memory"
	"yatra/internal/vectorstore/sqlite"
)

var corpus = []domain.Chunk{
	{ChunkID: "goa:0", DocumentID: "goa", Source: "https://example.com/goa", Text: "Goa beaches, seafood shacks and nightlife on a modest budget."},
	{ChunkID: "manali:0", DocumentID: "manali", Source: "https://example.com/manali", Text: "Manali trekking trails, snow peaks and river rafting adventures."},
	{ChunkID: "jaipur:0", DocumentID: "jaipur", Source: "https://example.com/jaipur", Text: "Jaipur forts, palaces, bazaars and royal heritage hotels."},
	{ChunkID: "kerala:0", DocumentID: "kerala", Source: "https://example.com/kerala", Text: "Kerala backwaters, houseboats, ayurveda and quiet beaches."},
}

type countingIngest struct {
	calls  int
	chunks []domain.Chunk
	err    error
}

func (c *countingIngest) ingest(context.Context) ([]domain.Chunk, error) {
	c.calls++
	return c.chunks, c.err
}

func buildSQLite(t *testing.T, dir string, ing *countingIngest, fingerprint string) (*Index, func()) {
	t.Helper()
	ctx := context.Background()
	store, err := sqlite.Open(ctx, dir)
	require.NoError(t, err)
	ix, err := Build(ctx, BuildOptions{
		PersistDir:  dir,
		Store:       store,
		Embedder:    hashing.NewEmbedder(256),
		Fingerprint: fingerprint,
		Ingest:      ing.ingest,
		Concurrency: 3,
		Logger:      logging.Discard(),
	})
	require.NoError(t, err)
	return ix, func() { store.Close() }
}

func TestBuild_LoadsPersistedIndexWithoutIngesting(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	ing := &countingIngest{chunks: corpus}

	first, closeFirst := buildSQLite(t, dir, ing, "v1")
	assert.False(t, first.Reused())
	r1 := NewRetriever(first, 0)
	before, err := r1.Search(ctx, "beaches on a budget", 3)
	require.NoError(t, err)
	closeFirst()

	second, closeSecond := buildSQLite(t, dir, ing, "v1")
	defer closeSecond()
	assert.True(t, second.Reused())
	assert.Equal(t, 1, ing.calls, "second build must not re-ingest")

	after, err := NewRetriever(second, 0).Search(ctx, "beaches on a budget", 3)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, first.Manifest().Fingerprint, second.Manifest().Fingerprint)
}

func TestBuild_FingerprintChangeRebuilds(t *testing.T) {
	dir := t.TempDir()
	ing := &countingIngest{chunks: corpus}

	_, closeFirst := buildSQLite(t, dir, ing, "v1")
	closeFirst()
	ix, closeSecond := buildSQLite(t, dir, ing, "v2")
	defer closeSecond()

	assert.False(t, ix.Reused())
	assert.Equal(t, 2, ing.calls)
	assert.Equal(t, len(corpus), ix.Manifest().Chunks)
}

func TestBuild_NoDocumentsIsFatal(t *testing.T) {
	ing := &countingIngest{}
	dir := t.TempDir()
	_, err := Build(context.Background(), BuildOptions{
		PersistDir: dir,
		Store:      memory.NewStorage(),
		Embedder:   hashing.NewEmbedder(32),
		Ingest:     ing.ingest,
		Logger:     logging.Discard(),
	})
	assert.ErrorIs(t, err, domain.ErrNoDocuments)

	m, err := ReadManifest(dir)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestBuild_IngestErrorPropagates(t *testing.T) {
	boom := errors.New("disk on fire")
	_, err := Build(context.Background(), BuildOptions{
		PersistDir: t.TempDir(),
		Store:      memory.NewStorage(),
		Embedder:   hashing.NewEmbedder(32),
		Ingest:     (&countingIngest{err: boom}).ingest,
		Logger:     logging.Discard(),
	})
	assert.ErrorIs(t, err, boom)
}

func TestIndex_QueryOrderingAndSelfMatch(t *testing.T) {
	ctx := context.Background()
	emb := hashing.NewEmbedder(256)
	ix, err := Build(ctx, BuildOptions{
		PersistDir: t.TempDir(),
		Store:      memory.NewStorage(),
		Embedder:   emb,
		Ingest:     (&countingIngest{chunks: corpus}).ingest,
		Logger:     logging.Discard(),
	})
	require.NoError(t, err)

	for _, ch := range corpus {
		vec, err := emb.Embed(ctx, ch.Text)
		require.NoError(t, err)
		res, err := ix.Query(ctx, vec, 2)
		require.NoError(t, err)
		require.LessOrEqual(t, len(res), 2)
		assert.Equal(t, ch.ChunkID, res[0].Chunk.ChunkID)
		assert.InDelta(t, 1.0, res[0].Score, 1e-5)
		for i := 1; i < len(res); i++ {
			assert.GreaterOrEqual(t, res[i-1].Score, res[i].Score)
		}
	}

	_, err = ix.Query(ctx, []float32{1, 2}, 1)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestRetriever(t *testing.T) {
	ctx := context.Background()
	ix, err := Build(ctx, BuildOptions{
		PersistDir: t.TempDir(),
		Store:      memory.NewStorage(),
		Embedder:   hashing.NewEmbedder(256),
		Ingest:     (&countingIngest{chunks: corpus}).ingest,
		Logger:     logging.Discard(),
	})
	require.NoError(t, err)

	r := NewRetriever(ix, 2)
	assert.Equal(t, 2, r.TopK())

	texts, err := r.Retrieve(ctx, "trekking and rafting", 0)
	require.NoError(t, err)
	require.Len(t, texts, 2)
	assert.Contains(t, texts[0], "Manali")

	_, err = r.Retrieve(ctx, "   ", 1)
	assert.ErrorIs(t, err, domain.ErrEmptyQuery)

	_, err = NewRetriever(nil, 1).Retrieve(ctx, "goa", 1)
	assert.ErrorIs(t, err, domain.ErrIndexNotReady)
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, Fingerprint("a", "b"), Fingerprint("a", "b"))
	assert.NotEqual(t, Fingerprint("ab"), Fingerprint("a", "b"))
}
