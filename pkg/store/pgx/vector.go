// Package pgx implements store.VectorStore on Postgres with pgvector.
// Rows are keyed by chunk ID, so upserts are idempotent and rebuilding
// over an unchanged graph yields the same set of vectors.
package pgx

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/polok-dev98/agentpro/pkg/ai"
	"github.com/polok-dev98/agentpro/pkg/chunk"
)

// VectorStorage stores chunk embeddings in the chunk_embeddings table.
type VectorStorage struct {
	conn     *pgxpool.Pool
	embedder ai.Embedder
}

// NewVectorStorageParams configures a VectorStorage.
type NewVectorStorageParams struct {
	Conn     *pgxpool.Pool
	Embedder ai.Embedder
}

// NewVectorStorage creates a VectorStorage backed by the given pool.
func NewVectorStorage(params NewVectorStorageParams) *VectorStorage {
	return &VectorStorage{
		conn:     params.Conn,
		embedder: params.Embedder,
	}
}

// Upsert embeds and writes the given chunks. Existing rows with the same
// chunk ID are overwritten, so re-indexing a chunk is a no-op.
func (s *VectorStorage) Upsert(ctx context.Context, chunks []chunk.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("vector upsert: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, c := range chunks {
		embedding, err := s.embedder.GenerateEmbedding(ctx, []byte(c.Content))
		if err != nil {
			return fmt.Errorf("vector upsert: embed chunk %s: %w", c.ID, err)
		}

		_, err = tx.Exec(
			ctx,
			`INSERT INTO chunk_embeddings (id, content, source, embedding)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (id) DO UPDATE
			 SET content = EXCLUDED.content,
			     source = EXCLUDED.source,
			     embedding = EXCLUDED.embedding`,
			c.ID, c.Content, c.Source, pgvector.NewVector(embedding),
		)
		if err != nil {
			return fmt.Errorf("vector upsert: write chunk %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("vector upsert: commit: %w", err)
	}
	return nil
}

// Rebuild makes the index hold exactly the given chunk set: rows for
// chunks no longer present are dropped, everything else is upserted.
func (s *VectorStorage) Rebuild(ctx context.Context, chunks []chunk.Chunk) error {
	ids := make([]string, 0, len(chunks))
	for _, c := range chunks {
		ids = append(ids, c.ID)
	}

	_, err := s.conn.Exec(
		ctx,
		"DELETE FROM chunk_embeddings WHERE NOT (id = ANY($1))",
		ids,
	)
	if err != nil {
		return fmt.Errorf("vector rebuild: prune: %w", err)
	}

	return s.Upsert(ctx, chunks)
}

// SimilaritySearch embeds the query and returns the contents of the k most
// similar chunks by cosine distance, best match first.
func (s *VectorStorage) SimilaritySearch(ctx context.Context, query string, k int) ([]string, error) {
	embedding, err := s.embedder.GenerateEmbedding(ctx, []byte(query))
	if err != nil {
		return nil, fmt.Errorf("similarity search: embed query: %w", err)
	}

	rows, err := s.conn.Query(
		ctx,
		`SELECT content
		 FROM chunk_embeddings
		 ORDER BY embedding <=> $1
		 LIMIT $2`,
		pgvector.NewVector(embedding), k,
	)
	if err != nil {
		return nil, fmt.Errorf("similarity search: query: %w", err)
	}
	defer rows.Close()

	matches, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("similarity search: collect: %w", err)
	}
	return matches, nil
}
