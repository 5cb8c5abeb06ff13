package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// DeleteAll destructively removes every node and relationship in the
// database. Callers gate this behind the clear confirmation code; the
// store itself does not second-guess.
func (s *Store) DeleteAll(ctx context.Context) error {
	session := s.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, "MATCH (n) DETACH DELETE n", nil)
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("neo4j: delete all: %w", err)
	}
	return nil
}
