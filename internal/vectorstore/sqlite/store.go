// Package sqlite provides a vector store persisted in a single SQLite file.
// Vectors are stored as little-endian float32 blobs and kept in memory for
// brute-force cosine search, which suits the small corpora this tool indexes.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver

	"yatra/internal/domain"
	"yatra/internal/vectorstore"
)

// Ensure Store implements the interface.
var _ vectorstore.Storage = (*Store)(nil)

// FileName is the database file created inside the persist directory.
const FileName = "index.db"

const schema = `
CREATE TABLE IF NOT EXISTS chunks (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	chunk_id    TEXT NOT NULL UNIQUE,
	document_id TEXT NOT NULL,
	source      TEXT NOT NULL,
	position    INTEGER NOT NULL,
	content     TEXT NOT NULL,
	embedding   BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS index_meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

// Store is a SQLite-backed vector store.
type Store struct {
	db   *sql.DB
	path string

	mu        sync.RWMutex
	dimension int
	vectors   [][]float32
	chunks    []domain.Chunk
}

// Open opens or creates the index database inside dir and loads its entries.
func Open(ctx context.Context, dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}
	path := filepath.Join(dir, FileName)
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	s := &Store{db: db, path: path}
	if err := s.load(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

func (s *Store) Init(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return domain.ErrDimensionMismatch
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks`); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO index_meta (key, value) VALUES ('dimension', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, strconv.Itoa(dimension)); err != nil {
		return fmt.Errorf("saving dimension: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.mu.Lock()
	s.dimension = dimension
	s.vectors = nil
	s.chunks = nil
	s.mu.Unlock()
	return nil
}

func (s *Store) Upsert(ctx context.Context, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return domain.ErrDimensionMismatch
	}
	s.mu.RLock()
	dim := s.dimension
	s.mu.RUnlock()
	for _, v := range vectors {
		if len(v) != dim {
			return domain.ErrDimensionMismatch
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (chunk_id, document_id, source, position, content, embedding)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(chunk_id) DO UPDATE SET
			document_id = excluded.document_id,
			source = excluded.source,
			position = excluded.position,
			content = excluded.content,
			embedding = excluded.embedding`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()
	for i, ch := range chunks {
		if _, err := stmt.ExecContext(ctx, ch.ChunkID, ch.DocumentID, ch.Source, ch.Index, ch.Text, float32SliceToBytes(vectors[i])); err != nil {
			return fmt.Errorf("inserting chunk %s: %w", ch.ChunkID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return s.load(ctx)
}

func (s *Store) Search(_ context.Context, vector []float32, topK int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dimension != 0 && len(vector) != s.dimension {
		return nil, domain.ErrDimensionMismatch
	}
	return vectorstore.Rank(vector, s.vectors, s.chunks, topK), nil
}

func (s *Store) Count(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) load(ctx context.Context) error {
	dim := 0
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM index_meta WHERE key = 'dimension'`).Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("reading dimension: %w", err)
	default:
		if dim, err = strconv.Atoi(raw); err != nil {
			return fmt.Errorf("parsing dimension %q: %w", raw, err)
		}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT chunk_id, document_id, source, position, content, embedding FROM chunks ORDER BY id`)
	if err != nil {
		return fmt.Errorf("loading chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	var vectors [][]float32
	for rows.Next() {
		var ch domain.Chunk
		var blob []byte
		if err := rows.Scan(&ch.ChunkID, &ch.DocumentID, &ch.Source, &ch.Index, &ch.Text, &blob); err != nil {
			return fmt.Errorf("scanning chunk: %w", err)
		}
		chunks = append(chunks, ch)
		vectors = append(vectors, bytesToFloat32Slice(blob))
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating chunks: %w", err)
	}

	s.mu.Lock()
	s.dimension = dim
	s.chunks = chunks
	s.vectors = vectors
	s.mu.Unlock()
	return nil
}

func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func bytesToFloat32Slice(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
