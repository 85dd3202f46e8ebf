package nestquery

import (
	"fmt"
	"log/slog"

	root "github.com/nestquery/nestquery"
	"github.com/nestquery/nestquery/pkg/catalog"
	"github.com/nestquery/nestquery/pkg/config"
	"github.com/nestquery/nestquery/pkg/embedder"
	"github.com/nestquery/nestquery/pkg/graph"
	"github.com/nestquery/nestquery/pkg/telemetry"
	"github.com/nestquery/nestquery/pkg/vectorstore"
)

// buildEngine wires the full engine from configuration: embedding provider
// behind the circuit breaker, Redis vector store, Neo4j graph collector,
// Badger catalog, and the Parquet telemetry recorder.
func buildEngine(cfg *config.Config, logger *slog.Logger) (*root.Engine, error) {
	embedClient, err := buildEmbedder(cfg, logger)
	if err != nil {
		return nil, err
	}

	vectors, err := vectorstore.NewRedisStore(vectorstore.RedisConfig{
		Addrs:     cfg.Vector.Addrs,
		Username:  cfg.Vector.Username,
		Password:  cfg.Vector.Password,
		DB:        cfg.Vector.DB,
		IndexName: cfg.Vector.IndexName,
		KeyPrefix: cfg.Vector.KeyPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to vector store: %w", err)
	}

	reader, err := graph.NewNeo4jReader(cfg.GraphDB.URI, cfg.GraphDB.Username, cfg.GraphDB.Password, cfg.GraphDB.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to graph store: %w", err)
	}

	collector, err := graph.NewCollector(reader, graph.CollectorOptions{
		CentralityNormalizer: cfg.Search.Graph.CentralityNormalizer,
		Concurrency:          cfg.Search.EnrichConcurrency,
		LookupTimeout:        cfg.Search.Timeouts.Enrich,
		Logger:               logger,
	})
	if err != nil {
		return nil, err
	}

	cat, err := catalog.OpenBadgerStore(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	var recorder *telemetry.Recorder
	if cfg.Telemetry.ParquetPath != "" {
		recorder, err = telemetry.NewRecorder(cfg.Telemetry.ParquetPath, logger)
		if err != nil {
			return nil, err
		}
	}

	return root.NewEngine(embedClient, vectors, collector, cat, root.Options{
		Weights:                cfg.Search.Weights,
		GraphBlend:             cfg.Search.Graph,
		FeatureCountNormalizer: cfg.Search.FeatureCountNormalizer,
		OverfetchFactor:        cfg.Search.OverfetchFactor,
		EmbedTimeout:           cfg.Search.Timeouts.Embed,
		RetrieveTimeout:        cfg.Search.Timeouts.Retrieve,
		Recorder:               recorder,
		Logger:                 logger,
	})
}

// buildEmbedder selects the embedding provider and wraps it in the circuit
// breaker when enabled.
func buildEmbedder(cfg *config.Config, logger *slog.Logger) (embedder.Client, error) {
	embedConfig := embedder.Config{
		Model:      cfg.Embedding.Model,
		BaseURL:    cfg.Embedding.BaseURL,
		Dimensions: cfg.Embedding.Dimensions,
	}

	var client embedder.Client
	switch cfg.Embedding.Provider {
	case "openai":
		if cfg.Embedding.APIKey == "" {
			return nil, fmt.Errorf("embedding API key is required for the openai provider")
		}
		client = embedder.NewOpenAIEmbedder(cfg.Embedding.APIKey, embedConfig)
	case "local":
		var err error
		client, err = embedder.NewEmbedEverythingClient(embedConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create local embedder: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding.Provider)
	}

	if cfg.CircuitBreaker.Enabled {
		client = embedder.NewCircuitBreakerClient(client, cfg.CircuitBreaker, logger)
	}
	return client, nil
}
