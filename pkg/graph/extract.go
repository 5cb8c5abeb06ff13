// Package graph builds the knowledge graph: it drives chunks through LLM
// entity/relation extraction and persists the results to the graph store
// and vector index under per-credential rate limits.
package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/polok-dev98/agentpro/pkg/ai"
	"github.com/polok-dev98/agentpro/pkg/chunk"
	"github.com/polok-dev98/agentpro/pkg/common"
)

type extractEntity struct {
	ID    string `json:"id" jsonschema_description:"Name of the entity exactly as it appears in the text"`
	Label string `json:"label" jsonschema_description:"One of the provided entity types"`
}

type extractRelation struct {
	From string `json:"from" jsonschema_description:"Name of the source entity, as identified above"`
	Type string `json:"type" jsonschema_description:"ALL_CAPS relationship type with underscores"`
	To   string `json:"to" jsonschema_description:"Name of the target entity, as identified above"`
}

type extractResponse struct {
	Entities  []extractEntity   `json:"entities" jsonschema_description:"Entities identified in the text"`
	Relations []extractRelation `json:"relations" jsonschema_description:"Relationships identified in the text"`
}

// DefaultEntityTypes are the types extracted when none are configured.
var DefaultEntityTypes = []string{"PERSON", "ORGANIZATION", "BUSINESS", "LOCATION", "PRODUCT", "EVENT"}

// Extractor converts one text chunk into a GraphDocument with one
// structured-output model call.
type Extractor struct {
	entityTypes []string
	model       string
}

// NewExtractorParams configures an Extractor. EntityTypes defaults to
// DefaultEntityTypes; Model overrides the client default when set.
type NewExtractorParams struct {
	EntityTypes []string
	Model       string
}

// NewExtractor creates an Extractor.
func NewExtractor(params NewExtractorParams) *Extractor {
	types := params.EntityTypes
	if len(types) == 0 {
		types = DefaultEntityTypes
	}
	return &Extractor{
		entityTypes: types,
		model:       params.Model,
	}
}

// Extract asks the model for the entities and relations in the chunk and
// ties the result back to the chunk for source attribution. Relations
// referencing entities the model did not list are dropped.
func (e *Extractor) Extract(ctx context.Context, client ai.Client, c chunk.Chunk) (common.GraphDocument, error) {
	systemPrompt := fmt.Sprintf(ai.ExtractSystemPrompt, strings.Join(e.entityTypes, ","))

	// Greedy sampling: the same chunk should extract to the same graph.
	opts := []ai.GenerateOption{
		ai.WithSystemPrompts(systemPrompt),
		ai.WithTemperature(0),
	}
	if e.model != "" {
		opts = append(opts, ai.WithModel(e.model))
	}

	var res extractResponse
	err := client.GenerateCompletionWithFormat(
		ctx,
		"extract_entities_and_relations",
		"Extract entities and relationships from a provided document chunk.",
		c.Content,
		&res,
		opts...,
	)
	if err != nil {
		return common.GraphDocument{}, err
	}

	doc := common.GraphDocument{
		ChunkID:   c.ID,
		ChunkText: c.Content,
		Source:    c.Source,
		Entities:  make([]common.Entity, 0, len(res.Entities)),
		Relations: make([]common.Relation, 0, len(res.Relations)),
	}

	known := make(map[string]bool, len(res.Entities))
	for _, entity := range res.Entities {
		id := strings.TrimSpace(entity.ID)
		if id == "" || known[id] {
			continue
		}
		known[id] = true
		doc.Entities = append(doc.Entities, common.Entity{
			ID:    id,
			Label: entity.Label,
		})
	}

	for _, rel := range res.Relations {
		from := strings.TrimSpace(rel.From)
		to := strings.TrimSpace(rel.To)
		if !known[from] || !known[to] {
			continue
		}
		doc.Relations = append(doc.Relations, common.Relation{
			From: from,
			Type: rel.Type,
			To:   to,
		})
	}

	return doc, nil
}
