package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/polok-dev98/agentpro/pkg/ai"
)

type entityResponse struct {
	Names []string `json:"names" jsonschema_description:"All the person, organization, or business entities that appear in the text"`
}

// ExtractEntities pulls the entity names mentioned in the question. An
// empty list is a valid outcome for questions that name no entities.
func ExtractEntities(ctx context.Context, client ai.Client, question string) ([]string, error) {
	prompt := fmt.Sprintf(ai.EntityPrompt, question)

	var res entityResponse
	err := client.GenerateCompletionWithFormat(
		ctx,
		"extract_entities",
		"Identify the entities mentioned in a question.",
		prompt,
		&res,
		ai.WithSystemPrompts(ai.EntitySystemPrompt),
	)
	if err != nil {
		return nil, fmt.Errorf("extract entities: %w", err)
	}

	names := make([]string, 0, len(res.Names))
	for _, name := range res.Names {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}
