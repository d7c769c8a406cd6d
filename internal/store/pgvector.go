package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/cloo-solutions/faqrag/internal/domain"
)

// PgStore is a pgvector-backed VectorStore. Nearest-neighbor ordering comes
// from the <=> cosine-distance operator.
type PgStore struct {
	pool *pgxpool.Pool
}

func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

// Replace deletes all existing chunks and inserts the new entries in a
// single transaction.
func (s *PgStore) Replace(ctx context.Context, entries []IndexEntry) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM faq_chunks`); err != nil {
		return err
	}

	for _, entry := range entries {
		_, err := tx.Exec(ctx,
			`INSERT INTO faq_chunks
				(id, chunk_index, source, start_line, end_line, content, embedding)
			 VALUES
				($1, $2, $3, $4, $5, $6, $7)`,
			uuid.NewString(),
			entry.Chunk.Metadata.ChunkIndex,
			entry.Chunk.Metadata.Source,
			entry.Chunk.Metadata.StartLine,
			entry.Chunk.Metadata.EndLine,
			entry.Chunk.Content,
			pgvector.NewVector(entry.Vector),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (s *PgStore) Search(ctx context.Context, vector []float32, k int) ([]domain.RetrievedChunk, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT chunk_index, source, start_line, end_line, content,
		        1 - (embedding <=> $1) AS similarity
		 FROM faq_chunks
		 ORDER BY embedding <=> $1
		 LIMIT $2`,
		pgvector.NewVector(vector), k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.RetrievedChunk
	for rows.Next() {
		var chunk domain.Chunk
		var score float64
		if err := rows.Scan(
			&chunk.Metadata.ChunkIndex,
			&chunk.Metadata.Source,
			&chunk.Metadata.StartLine,
			&chunk.Metadata.EndLine,
			&chunk.Content,
			&score,
		); err != nil {
			return nil, err
		}
		s := score
		results = append(results, domain.RetrievedChunk{Chunk: chunk, SimilarityScore: &s})
	}

	return results, rows.Err()
}

func (s *PgStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM faq_chunks`).Scan(&count)
	return count, err
}

// Close is a no-op; the pool's lifetime belongs to the caller.
func (s *PgStore) Close() error {
	return nil
}
