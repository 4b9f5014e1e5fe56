package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"yatra/internal/domain"
	"yatra/internal/vectorstore"
)

var _ vectorstore.Storage = (*Storage)(nil)

// DefaultTable is used when no table name is configured.
const DefaultTable = "tour_chunks"

// undefinedTable is the SQLSTATE for a missing relation.
const undefinedTable = "42P01"

// Storage keeps chunks in a pgvector table and searches with cosine distance.
type Storage struct {
	pool  *pgxpool.Pool
	table string
}

// NewStorage connects to PostgreSQL and verifies the connection.
func NewStorage(ctx context.Context, connStr, table string) (*Storage, error) {
	if table == "" {
		table = DefaultTable
	}
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Storage{pool: pool, table: pgx.Identifier{table}.Sanitize()}, nil
}

// Init recreates the chunk table for vectors of the given dimension.
func (s *Storage) Init(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return domain.ErrDimensionMismatch
	}
	if _, err := s.pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("failed to enable pgvector: %w", err)
	}
	if _, err := s.pool.Exec(ctx, `DROP TABLE IF EXISTS `+s.table); err != nil {
		return fmt.Errorf("failed to drop %s: %w", s.table, err)
	}
	_, err := s.pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE %s (
			id          BIGSERIAL PRIMARY KEY,
			chunk_id    TEXT NOT NULL UNIQUE,
			document_id TEXT NOT NULL,
			source      TEXT NOT NULL,
			position    INTEGER NOT NULL,
			content     TEXT NOT NULL,
			embedding   vector(%d) NOT NULL
		)`, s.table, dimension))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", s.table, err)
	}
	return nil
}

func (s *Storage) Upsert(ctx context.Context, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return domain.ErrDimensionMismatch
	}
	batch := &pgx.Batch{}
	query := fmt.Sprintf(`
		INSERT INTO %s (chunk_id, document_id, source, position, content, embedding)
		VALUES ($1, $2, $3, $4, $5, $6::vector)
		ON CONFLICT (chunk_id) DO UPDATE SET
			document_id = EXCLUDED.document_id,
			source = EXCLUDED.source,
			position = EXCLUDED.position,
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding`, s.table)
	for i, ch := range chunks {
		batch.Queue(query, ch.ChunkID, ch.DocumentID, ch.Source, ch.Index, ch.Text, pgvector.NewVector(vectors[i]).String())
	}
	br := s.pool.SendBatch(ctx, batch)
	for i := range chunks {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("failed to store chunk %s: %w", chunks[i].ChunkID, err)
		}
	}
	return br.Close()
}

func (s *Storage) Search(ctx context.Context, vector []float32, topK int) ([]domain.SearchResult, error) {
	if topK <= 0 {
		topK = 5
	}
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT chunk_id, document_id, source, position, content, 1 - (embedding <=> $1::vector) AS score
		FROM %s
		ORDER BY embedding <=> $1::vector, id
		LIMIT $2`, s.table), pgvector.NewVector(vector).String(), topK)
	if err != nil {
		return nil, fmt.Errorf("failed to query similar chunks: %w", err)
	}
	defer rows.Close()

	var results []domain.SearchResult
	for rows.Next() {
		var r domain.SearchResult
		if err := rows.Scan(&r.Chunk.ChunkID, &r.Chunk.DocumentID, &r.Chunk.Source, &r.Chunk.Index, &r.Chunk.Text, &r.Score); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Count returns the number of stored chunks; a missing table counts as empty.
func (s *Storage) Count(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM `+s.table).Scan(&n)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == undefinedTable {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return n, nil
}

func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}
