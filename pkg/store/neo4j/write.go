package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/polok-dev98/agentpro/pkg/common"
)

// AddDocuments appends extraction output to the graph. For every graph
// document it merges a Document node for the source chunk, merges each
// entity under __Entity__ plus its type label, creates the extracted
// relations and links the chunk to its entities with MENTIONS edges.
// Writes for one document happen in a single transaction.
func (s *Store) AddDocuments(ctx context.Context, docs []common.GraphDocument) error {
	session := s.session(ctx)
	defer session.Close(ctx)

	for _, doc := range docs {
		d := doc
		_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			return nil, writeDocument(ctx, tx, d)
		})
		if err != nil {
			return fmt.Errorf("neo4j: write graph document for chunk %s: %w", doc.ChunkID, err)
		}
	}
	return nil
}

func writeDocument(ctx context.Context, tx neo4j.ManagedTransaction, doc common.GraphDocument) error {
	_, err := tx.Run(
		ctx,
		`MERGE (d:Document {id: $id})
		 SET d.text = $text, d.source = $source`,
		map[string]any{
			"id":     doc.ChunkID,
			"text":   doc.ChunkText,
			"source": doc.Source,
		},
	)
	if err != nil {
		return err
	}

	for _, entity := range doc.Entities {
		label := sanitizeToken(entity.Label, "Entity")
		query := fmt.Sprintf(
			`MERGE (e:`+"`__Entity__`"+` {id: $id})
			 SET e:%s
			 WITH e
			 MATCH (d:Document {id: $chunkId})
			 MERGE (d)-[:MENTIONS]->(e)`,
			label,
		)
		_, err := tx.Run(ctx, query, map[string]any{
			"id":      entity.ID,
			"chunkId": doc.ChunkID,
		})
		if err != nil {
			return err
		}
	}

	for _, rel := range doc.Relations {
		relType := sanitizeToken(rel.Type, "RELATED_TO")
		query := fmt.Sprintf(
			`MATCH (a:`+"`__Entity__`"+` {id: $from})
			 MATCH (b:`+"`__Entity__`"+` {id: $to})
			 MERGE (a)-[:%s]->(b)`,
			relType,
		)
		_, err := tx.Run(ctx, query, map[string]any{
			"from": rel.From,
			"to":   rel.To,
		})
		if err != nil {
			return err
		}
	}

	return nil
}
