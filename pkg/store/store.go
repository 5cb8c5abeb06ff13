// Package store defines the persistence interfaces for the knowledge graph
// and the vector index. The graph side is backed by Neo4j, the vector side
// by Postgres with pgvector; both are derived from the same chunk stream
// and are updated together by the ingestion builder.
package store

import (
	"context"

	"github.com/polok-dev98/agentpro/pkg/chunk"
	"github.com/polok-dev98/agentpro/pkg/common"
)

// SearchHit is one scored match from a fulltext index lookup.
type SearchHit struct {
	NodeID string
	Score  float64
}

// Triple is one formatted edge from a neighborhood traversal, direction
// already resolved: Source - Type -> Target.
type Triple struct {
	Source string
	Type   string
	Target string
}

// EntityIndex is the fulltext index over entity ids used by structured
// retrieval.
const EntityIndex = "entity"

// MentionsRelation is the provenance edge type linking a source chunk node
// to the entities extracted from it. Traversals exclude it.
const MentionsRelation = "MENTIONS"

// GraphStore persists and queries the knowledge graph.
type GraphStore interface {
	// AddDocuments appends extraction output to the graph, writing the
	// source chunk as a Document node and tagging every entity with
	// provenance edges.
	AddDocuments(ctx context.Context, docs []common.GraphDocument) error

	// FulltextSearch runs a Lucene fulltext query against the named index
	// and returns at most limit scored node matches.
	FulltextSearch(ctx context.Context, index string, query string, limit int) ([]SearchHit, error)

	// Neighborhood walks exactly one hop in both directions around the
	// node, skipping edges of the excluded type, bounded by limit rows.
	Neighborhood(ctx context.Context, nodeID string, exclude string, limit int) ([]Triple, error)

	// ListChunks returns every stored source chunk, ordered by insertion.
	// The vector index rebuild reads from here so both stores stay derived
	// from the same chunk stream.
	ListChunks(ctx context.Context) ([]chunk.Chunk, error)

	// DeleteAll destructively removes every node and relationship.
	DeleteAll(ctx context.Context) error
}

// VectorStore maintains dense embeddings over source chunks and answers
// similarity queries.
type VectorStore interface {
	// Upsert embeds and writes the given chunks, keyed by chunk ID so
	// re-indexing an unchanged chunk is a no-op overwrite.
	Upsert(ctx context.Context, chunks []chunk.Chunk) error

	// Rebuild replaces the index content with embeddings for exactly the
	// given chunk set (typically everything the graph store holds).
	Rebuild(ctx context.Context, chunks []chunk.Chunk) error

	// SimilaritySearch returns the contents of the k chunks most similar
	// to the query, ordered by similarity rank.
	SimilaritySearch(ctx context.Context, query string, k int) ([]string, error)
}
