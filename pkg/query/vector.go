package query

import (
	"context"
	"fmt"

	"github.com/polok-dev98/agentpro/pkg/store"
)

// defaultTopK is how many chunks the vector channel contributes.
const defaultTopK = 4

// VectorRetrieval returns the contents of the chunks most similar to the
// question. k values below one fall back to the default.
func VectorRetrieval(ctx context.Context, vectors store.VectorStore, question string, k int) ([]string, error) {
	if k < 1 {
		k = defaultTopK
	}

	matches, err := vectors.SimilaritySearch(ctx, question, k)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	return matches, nil
}
