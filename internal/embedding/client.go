package embedding

import (
	"context"
	"errors"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Model is the OpenAI model used for section and query embeddings.
const Model = openai.EmbeddingModelTextEmbeddingAda002

// Client wraps the OpenAI client for embedding generation.
type Client struct {
	api *openai.Client
}

// NewClient creates an OpenAI client with the given API key. An empty key
// falls back to the OPENAI_API_KEY environment variable.
func NewClient(apiKey string) (*Client, error) {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.New("OpenAI API key not set")
	}

	api := openai.NewClient(option.WithAPIKey(apiKey))
	return &Client{api: &api}, nil
}

// API returns the underlying OpenAI client for use in other packages
// (chat streaming, transcription).
func (c *Client) API() *openai.Client {
	return c.api
}

// Embed requests a single embedding vector for text.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	resp, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(text),
		},
		Model: Model,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("empty embedding response")
	}
	return resp.Data[0].Embedding, nil
}
