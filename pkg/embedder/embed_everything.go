package embedder

import (
	"context"
	"errors"
	"fmt"

	embedeverything "github.com/soundprediction/go-embedeverything/pkg/embedder"

	"github.com/nestquery/nestquery/pkg/types"
)

// EmbedEverythingClient implements Client over a local embedding model,
// useful when no external provider is available.
type EmbedEverythingClient struct {
	client     *embedeverything.Embedder
	dimensions int
}

// NewEmbedEverythingClient loads the named local model.
func NewEmbedEverythingClient(config Config) (*EmbedEverythingClient, error) {
	client, err := embedeverything.NewEmbedder(config.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to create local embedder: %w", err)
	}

	return &EmbedEverythingClient{
		client:     client,
		dimensions: config.Dimensions,
	}, nil
}

// Embed implements Client.
func (e *EmbedEverythingClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	// go-embedeverything does not support context yet
	embeddings, err := e.client.Embed(texts)
	if err != nil {
		return nil, types.NewProviderError("embedder", err)
	}
	return embeddings, nil
}

// EmbedSingle implements Client.
func (e *EmbedEverythingClient) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, types.NewProviderError("embedder", errors.New("no embeddings returned"))
	}
	return embeddings[0], nil
}

// Dimensions implements Client.
func (e *EmbedEverythingClient) Dimensions() int { return e.dimensions }

// Close implements Client.
func (e *EmbedEverythingClient) Close() error {
	e.client.Close()
	return nil
}

var _ Client = (*EmbedEverythingClient)(nil)
