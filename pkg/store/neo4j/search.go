package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/polok-dev98/agentpro/pkg/chunk"
	"github.com/polok-dev98/agentpro/pkg/store"
)

// FulltextSearch runs a Lucene fulltext query against the named index and
// returns at most limit scored node ids.
func (s *Store) FulltextSearch(ctx context.Context, index string, query string, limit int) ([]store.SearchHit, error) {
	session := s.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(
			ctx,
			`CALL db.index.fulltext.queryNodes($index, $query, {limit: $limit})
			 YIELD node, score
			 RETURN node.id AS id, score`,
			map[string]any{
				"index": index,
				"query": query,
				"limit": limit,
			},
		)
		if err != nil {
			return nil, err
		}

		var hits []store.SearchHit
		for res.Next(ctx) {
			record := res.Record()
			id, _ := record.Get("id")
			score, _ := record.Get("score")

			nodeID, ok := id.(string)
			if !ok {
				continue
			}
			hit := store.SearchHit{NodeID: nodeID}
			if f, ok := score.(float64); ok {
				hit.Score = f
			}
			hits = append(hits, hit)
		}
		return hits, res.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("neo4j: fulltext search on %s: %w", index, err)
	}

	return result.([]store.SearchHit), nil
}

// Neighborhood walks exactly one hop in both directions around the node,
// skipping edges of the excluded relationship type. Each row is returned
// with direction already resolved into Source - Type -> Target.
func (s *Store) Neighborhood(ctx context.Context, nodeID string, exclude string, limit int) ([]store.Triple, error) {
	session := s.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(
			ctx,
			`MATCH (node {id: $id})
			 CALL {
			   WITH node
			   MATCH (node)-[r]->(neighbor)
			   WHERE type(r) <> $exclude
			   RETURN node.id AS source, type(r) AS relType, neighbor.id AS target
			   UNION ALL
			   WITH node
			   MATCH (node)<-[r]-(neighbor)
			   WHERE type(r) <> $exclude
			   RETURN neighbor.id AS source, type(r) AS relType, node.id AS target
			 }
			 RETURN source, relType, target LIMIT $limit`,
			map[string]any{
				"id":      nodeID,
				"exclude": exclude,
				"limit":   limit,
			},
		)
		if err != nil {
			return nil, err
		}

		var triples []store.Triple
		for res.Next(ctx) {
			record := res.Record()
			source, _ := record.Get("source")
			relType, _ := record.Get("relType")
			target, _ := record.Get("target")

			src, okS := source.(string)
			typ, okT := relType.(string)
			dst, okD := target.(string)
			if !okS || !okT || !okD {
				continue
			}
			triples = append(triples, store.Triple{Source: src, Type: typ, Target: dst})
		}
		return triples, res.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("neo4j: neighborhood of %s: %w", nodeID, err)
	}

	return result.([]store.Triple), nil
}

// ListChunks returns every stored source chunk in insertion order.
func (s *Store) ListChunks(ctx context.Context) ([]chunk.Chunk, error) {
	session := s.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(
			ctx,
			`MATCH (d:Document)
			 RETURN d.id AS id, d.text AS text, d.source AS source
			 ORDER BY d.id`,
			nil,
		)
		if err != nil {
			return nil, err
		}

		var chunks []chunk.Chunk
		for res.Next(ctx) {
			record := res.Record()
			id, _ := record.Get("id")
			text, _ := record.Get("text")
			source, _ := record.Get("source")

			chunkID, okI := id.(string)
			content, okT := text.(string)
			if !okI || !okT {
				continue
			}
			c := chunk.Chunk{
				ID:      chunkID,
				Index:   len(chunks),
				Content: content,
			}
			if src, ok := source.(string); ok {
				c.Source = src
			}
			chunks = append(chunks, c)
		}
		return chunks, res.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("neo4j: list chunks: %w", err)
	}

	return result.([]chunk.Chunk), nil
}
