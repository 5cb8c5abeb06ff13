// Package neo4j implements store.GraphStore against a Neo4j database.
// Entities carry a shared __Entity__ label plus their extracted type label,
// chunks are Document nodes, and a MENTIONS edge records which chunk an
// entity was extracted from.
package neo4j

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Store is a Neo4j-backed graph store. Create it with NewStore and close
// it when the process shuts down.
type Store struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewStoreParams configures the Neo4j connection.
type NewStoreParams struct {
	URI      string
	Username string
	Password string
	Database string
}

// NewStore connects to Neo4j and verifies the connection.
func NewStore(ctx context.Context, params NewStoreParams) (*Store, error) {
	driver, err := neo4j.NewDriverWithContext(
		params.URI,
		neo4j.BasicAuth(params.Username, params.Password, ""),
	)
	if err != nil {
		return nil, fmt.Errorf("neo4j: create driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("neo4j: verify connectivity: %w", err)
	}

	return &Store{
		driver:   driver,
		database: params.Database,
	}, nil
}

// Close releases the underlying driver.
func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// EnsureIndexes creates the fulltext index over entity ids used by
// structured retrieval. Safe to call on every startup.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	session := s.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(
			ctx,
			"CREATE FULLTEXT INDEX entity IF NOT EXISTS FOR (n:`__Entity__`) ON EACH [n.id]",
			nil,
		)
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("neo4j: ensure fulltext index: %w", err)
	}
	return nil
}

func (s *Store) session(ctx context.Context) neo4j.SessionWithContext {
	return s.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
}

// sanitizeToken reduces a model-chosen label or relationship type to a safe
// Cypher identifier: letters, digits and underscores, starting with a
// letter. Labels and relationship types cannot be query parameters, so they
// are interpolated and must be sanitized.
func sanitizeToken(token string, fallback string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(token)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '_' || r == ' ' || r == '-':
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), "_")
	if out == "" || !unicode.IsLetter(rune(out[0])) {
		return fallback
	}
	return out
}
