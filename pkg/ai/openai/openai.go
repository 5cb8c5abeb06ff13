// Package openai implements the ai.Client interface against any
// OpenAI-compatible chat completion endpoint. The deployment target is the
// Groq API, which speaks the OpenAI wire format; pointing BaseURL at
// api.openai.com works the same way.
package openai

import (
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Client talks to an OpenAI-compatible chat endpoint.
//
// A Client should be created with NewClient. Because ingestion rotates API
// keys per batch, Clients are cheap to construct: they hold no connections
// beyond the SDK's shared HTTP client.
type Client struct {
	chatModel string
	baseURL   string

	api *openai.Client
}

// NewClientParams configures a Client.
//
// ChatModel is the default model for completions; per-call ai.WithModel
// overrides it. BaseURL selects the provider (Groq's OpenAI-compatible
// endpoint in production); empty means api.openai.com.
type NewClientParams struct {
	ChatModel string
	BaseURL   string
	APIKey    string
}

// NewClient creates a Client for the given endpoint and API key.
//
// Example:
//
//	client := openai.NewClient(openai.NewClientParams{
//		ChatModel: "llama-3.1-8b-instant",
//		BaseURL:   "https://api.groq.com/openai/v1",
//		APIKey:    os.Getenv("GROQ_API_KEY"),
//	})
func NewClient(params NewClientParams) *Client {
	options := []option.RequestOption{
		option.WithAPIKey(params.APIKey),
	}
	if params.BaseURL != "" {
		options = append(options, option.WithBaseURL(params.BaseURL))
	}

	api := openai.NewClient(options...)

	return &Client{
		chatModel: params.ChatModel,
		baseURL:   params.BaseURL,
		api:       &api,
	}
}
