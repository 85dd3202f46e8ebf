// Package embedder provides text embedding clients for query vectors.
//
// The Client interface abstracts the external embedding provider; the
// search engine only requires EmbedSingle for query text. Implementations
// exist for OpenAI-compatible APIs and for local embedding via
// go-embedeverything, plus a circuit-breaking wrapper for production use.
package embedder

import "context"

// Client is the embedding capability consumed by the search engine.
type Client interface {
	// Embed generates embeddings for the given texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedSingle generates an embedding for a single text.
	EmbedSingle(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding dimensionality.
	Dimensions() int

	// Close cleans up any resources.
	Close() error
}

// Config holds common embedding settings.
type Config struct {
	Model      string
	BaseURL    string
	Dimensions int
	BatchSize  int
}
