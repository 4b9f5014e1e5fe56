package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatra/internal/domain"
)

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(ctx, dir)
	require.NoError(t, err)
	require.NoError(t, s.Init(ctx, 2))
	chunks := []domain.Chunk{
		{ChunkID: "d:0", DocumentID: "d", Source: "https://a", Index: 0, Text: "Goa beaches"},
		{ChunkID: "d:1", DocumentID: "d", Source: "https://a", Index: 1, Text: "Leh passes"},
	}
	require.NoError(t, s.Upsert(ctx, chunks, [][]float32{{1, 0}, {0, 1}}))
	before, err := s.Search(ctx, []float32{0, 1}, 2)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := Open(ctx, dir)
	require.NoError(t, err)
	defer reopened.Close()

	n, err := reopened.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	after, err := reopened.Search(ctx, []float32{0, 1}, 2)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, "Leh passes", after[0].Chunk.Text)
	assert.InDelta(t, 1.0, after[0].Score, 1e-6)
}

func TestStore_UpsertReplacesByChunkID(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Init(ctx, 1))
	require.NoError(t, s.Upsert(ctx, []domain.Chunk{{ChunkID: "x", Text: "old"}}, [][]float32{{1}}))
	require.NoError(t, s.Upsert(ctx, []domain.Chunk{{ChunkID: "x", Text: "new"}}, [][]float32{{1}}))

	res, err := s.Search(ctx, []float32{1}, 5)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "new", res[0].Chunk.Text)
}

func TestStore_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Init(ctx, 3))
	err = s.Upsert(ctx, []domain.Chunk{{ChunkID: "x"}}, [][]float32{{1}})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	_, err = s.Search(ctx, []float32{1}, 1)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestFloatBlobRoundTrip(t *testing.T) {
	in := []float32{0, -1.5, 3.25, 1e-7}
	assert.Equal(t, in, bytesToFloat32Slice(float32SliceToBytes(in)))
}
