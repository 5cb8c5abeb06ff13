package ollama

import (
	"context"
	"strings"

	"github.com/ollama/ollama/api"
)

// GenerateEmbedding creates a vector embedding for the given input text
// using the configured embedding model. Blank input embeds to the zero
// vector without a model round trip.
func (c *Client) GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error) {
	if len(strings.TrimSpace(string(input))) == 0 {
		return make([]float32, c.dimensions), nil
	}

	req := &api.EmbedRequest{
		Model: c.embeddingModel,
		Input: string(input),
	}

	res, err := c.api.Embed(ctx, req)
	if err != nil {
		return nil, err
	}

	out := make([]float32, 0, c.dimensions)
	for _, vec := range res.Embeddings {
		for _, v := range vec {
			if len(out) >= c.dimensions {
				break
			}
			out = append(out, float32(v))
		}
	}
	for len(out) < c.dimensions {
		out = append(out, 0)
	}
	return out, nil
}
