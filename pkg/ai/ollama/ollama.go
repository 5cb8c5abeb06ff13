// Package ollama implements the ai.Embedder interface against a locally
// served embedding model, mirroring the original deployment where the
// embedding model ran next to the service instead of behind a paid API.
package ollama

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
)

// Client generates embeddings through a local Ollama server.
type Client struct {
	embeddingModel string
	dimensions     int

	api *api.Client
}

// NewClientParams configures an embedding Client.
//
// Dimensions fixes the length of returned vectors; model output is
// truncated or zero-padded to it so the vector index schema stays stable
// across model swaps.
type NewClientParams struct {
	BaseURL        string
	EmbeddingModel string
	Dimensions     int
}

const defaultDimensions = 1024

// NewClient creates a Client for the Ollama server at BaseURL.
func NewClient(params NewClientParams) (*Client, error) {
	base, err := url.Parse(params.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama base url: %w", err)
	}

	dim := params.Dimensions
	if dim <= 0 {
		dim = defaultDimensions
	}

	return &Client{
		embeddingModel: params.EmbeddingModel,
		dimensions:     dim,
		api:            api.NewClient(base, http.DefaultClient),
	}, nil
}

// Dimensions returns the fixed embedding vector length.
func (c *Client) Dimensions() int {
	return c.dimensions
}
