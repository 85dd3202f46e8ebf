package embedder

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nestquery/nestquery/pkg/types"
)

const (
	defaultOpenAIModel = "text-embedding-3-small"
	defaultDimensions  = 1536
	defaultBatchSize   = 100
)

// OpenAIEmbedder implements Client for OpenAI-compatible embedding APIs.
type OpenAIEmbedder struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
	batchSize  int
}

// NewOpenAIEmbedder creates an OpenAI embedding client. Empty config
// fields take defaults.
func NewOpenAIEmbedder(apiKey string, config Config) *OpenAIEmbedder {
	clientCfg := openai.DefaultConfig(apiKey)
	if config.BaseURL != "" {
		clientCfg.BaseURL = config.BaseURL
	}

	model := config.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	dimensions := config.Dimensions
	if dimensions <= 0 {
		dimensions = defaultDimensions
	}
	batchSize := config.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	return &OpenAIEmbedder{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      openai.EmbeddingModel(model),
		dimensions: dimensions,
		batchSize:  batchSize,
	}
}

// Embed implements Client, batching requests per provider limits.
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	embeddings := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := min(start+e.batchSize, len(texts))

		resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input:          texts[start:end],
			Model:          e.model,
			EncodingFormat: openai.EmbeddingEncodingFormatFloat,
		})
		if err != nil {
			return nil, types.NewProviderError("embedder", parseAPIError(err))
		}
		if len(resp.Data) != end-start {
			return nil, types.NewProviderError("embedder",
				fmt.Errorf("expected %d embeddings, got %d", end-start, len(resp.Data)))
		}
		for _, d := range resp.Data {
			embeddings = append(embeddings, d.Embedding)
		}
	}
	return embeddings, nil
}

// EmbedSingle implements Client.
func (e *OpenAIEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
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
func (e *OpenAIEmbedder) Dimensions() int { return e.dimensions }

// Close implements Client.
func (e *OpenAIEmbedder) Close() error { return nil }

// parseAPIError extracts a readable message from go-openai errors.
func parseAPIError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("embedding API error %d: %s", reqErr.HTTPStatusCode, string(reqErr.Body))
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("embedding API error %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
	}
	return err
}

var _ Client = (*OpenAIEmbedder)(nil)
