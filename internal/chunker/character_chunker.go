package chunker

import (
	"strconv"
	"strings"

	"yatra/internal/domain"
)

const (
	// DefaultMaxSize is the default number of runes per chunk.
	DefaultMaxSize = 1000
	// DefaultOverlap is the default number of runes shared by adjacent chunks.
	DefaultOverlap = 20
)

// CharacterChunker splits text into fixed-size rune windows with overlap.
type CharacterChunker struct {
	maxSize int
	overlap int
}

func NewCharacterChunker(maxSize, overlap int) *CharacterChunker {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxSize {
		overlap = maxSize / 4
	}
	return &CharacterChunker{maxSize: maxSize, overlap: overlap}
}

// MaxSize returns the effective chunk size.
func (c *CharacterChunker) MaxSize() int { return c.maxSize }

// Overlap returns the effective overlap.
func (c *CharacterChunker) Overlap() int { return c.overlap }

// Chunk splits every document in order. Output is a pure function of the input.
func (c *CharacterChunker) Chunk(documents []domain.Document) []domain.Chunk {
	var chunks []domain.Chunk
	for _, d := range documents {
		chunks = append(chunks, c.chunkDocument(d)...)
	}
	return chunks
}

func (c *CharacterChunker) chunkDocument(document domain.Document) []domain.Chunk {
	runes := []rune(strings.TrimSpace(document.Content))
	if len(runes) == 0 {
		return nil
	}
	step := c.maxSize - c.overlap
	var chunks []domain.Chunk
	idx := 0
	for start := 0; ; start += step {
		end := start + c.maxSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, domain.Chunk{
			DocumentID: document.ID,
			Source:     document.Source,
			ChunkID:    document.ID + ":" + strconv.Itoa(idx),
			Text:       string(runes[start:end]),
			Index:      idx,
		})
		if end == len(runes) {
			break
		}
		idx++
	}
	return chunks
}

// Chunk is a convenience wrapper around CharacterChunker.
func Chunk(documents []domain.Document, maxSize, overlap int) []domain.Chunk {
	return NewCharacterChunker(maxSize, overlap).Chunk(documents)
}
