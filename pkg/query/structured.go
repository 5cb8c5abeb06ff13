package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/polok-dev98/agentpro/pkg/logger"
	"github.com/polok-dev98/agentpro/pkg/store"
)

const (
	// matchesPerEntity caps how many fulltext hits are expanded per entity.
	matchesPerEntity = 2
	// triplesPerEntity caps the one-hop triples collected per entity,
	// shared across all of its matched nodes.
	triplesPerEntity = 50
)

// StructuredRetrieval resolves each entity name against the graph's
// fulltext index and collects the one-hop neighborhood of the matched
// nodes, leaving provenance edges out. The result is one triple per line:
//
//	Acme Corp - SIGNED_DEAL_WITH -> Globex
//
// An entity whose lookup fails is skipped and the error returned alongside
// whatever the other entities produced, so the caller can degrade instead
// of abort.
func StructuredRetrieval(ctx context.Context, graph store.GraphStore, entities []string) (string, error) {
	var lines []string
	var firstErr error

	for _, entity := range entities {
		q := FulltextQuery(entity)
		if q == "" {
			continue
		}

		hits, err := graph.FulltextSearch(ctx, store.EntityIndex, q, matchesPerEntity)
		if err != nil {
			logger.Warn("graph fulltext lookup failed", "entity", entity, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("fulltext lookup for %q: %w", entity, err)
			}
			continue
		}

		budget := triplesPerEntity
		for _, hit := range hits {
			if budget <= 0 {
				break
			}
			triples, err := graph.Neighborhood(ctx, hit.NodeID, store.MentionsRelation, budget)
			if err != nil {
				logger.Warn("graph neighborhood lookup failed", "node", hit.NodeID, "error", err)
				if firstErr == nil {
					firstErr = fmt.Errorf("neighborhood of %q: %w", hit.NodeID, err)
				}
				continue
			}
			for _, t := range triples {
				if budget <= 0 {
					break
				}
				lines = append(lines, fmt.Sprintf("%s - %s -> %s", t.Source, t.Type, t.Target))
				budget--
			}
		}
	}

	return strings.Join(lines, "\n"), firstErr
}
