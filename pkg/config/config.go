// Package config loads and validates the process configuration. The schema
// is strict: unknown keys are rejected at load time so typos fail fast,
// and the fusion weights are validated here, before any search traffic is
// served. Nothing is re-validated per query.
package config

import (
	"os"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/nestquery/nestquery/pkg/embedder"
	"github.com/nestquery/nestquery/pkg/scoring"
	"github.com/nestquery/nestquery/pkg/types"
)

// Config holds all configuration for the application.
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Search pipeline configuration
	Search SearchConfig `mapstructure:"search"`

	// Embedding provider configuration
	Embedding EmbeddingConfig `mapstructure:"embedding"`

	// Vector store configuration
	Vector VectorConfig `mapstructure:"vector"`

	// Relationship graph store configuration
	GraphDB GraphDBConfig `mapstructure:"graphdb"`

	// Catalog store configuration
	Catalog CatalogConfig `mapstructure:"catalog"`

	// Telemetry configuration
	Telemetry TelemetryConfig `mapstructure:"telemetry"`

	// CircuitBreaker configuration for the embedding provider
	CircuitBreaker embedder.CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// SearchConfig holds the search pipeline constants, consumed once at
// engine construction.
type SearchConfig struct {
	Weights                scoring.Weights    `mapstructure:"weights"`
	OverfetchFactor        float64            `mapstructure:"overfetch_factor"`
	FeatureCountNormalizer float64            `mapstructure:"feature_count_normalizer"`
	EnrichConcurrency      int                `mapstructure:"enrich_concurrency"`
	Graph                  scoring.GraphBlend `mapstructure:"graph"`
	Timeouts               TimeoutConfig      `mapstructure:"timeouts"`
}

// TimeoutConfig holds per-stage timeouts. Embed and retrieve timeouts fail
// the whole call; the enrich timeout degrades individual candidates.
type TimeoutConfig struct {
	Embed    time.Duration `mapstructure:"embed"`
	Retrieve time.Duration `mapstructure:"retrieve"`
	Enrich   time.Duration `mapstructure:"enrich"`
}

// EmbeddingConfig holds embedding provider configuration.
type EmbeddingConfig struct {
	Provider   string `mapstructure:"provider"` // openai, local
	Model      string `mapstructure:"model"`
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	Dimensions int    `mapstructure:"dimensions"`
}

// VectorConfig holds vector store configuration.
type VectorConfig struct {
	Addrs     []string `mapstructure:"addrs"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	DB        int      `mapstructure:"db"`
	IndexName string   `mapstructure:"index"`
	KeyPrefix string   `mapstructure:"key_prefix"`
}

// GraphDBConfig holds relationship-graph store configuration.
type GraphDBConfig struct {
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

// CatalogConfig holds catalog store configuration. An empty path opens an
// in-memory catalog.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// TelemetryConfig holds search telemetry configuration.
type TelemetryConfig struct {
	ParquetPath string `mapstructure:"parquet_path"`
}

// Load loads configuration from file and environment variables and
// validates it.
func Load() (*Config, error) {
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config, func(dc *mapstructure.DecoderConfig) {
		// Strict schema: unknown keys are configuration bugs.
		dc.ErrorUnused = true
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, types.NewValidationError("unable to decode config: %v", err)
	}

	overrideWithEnv(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks every load-time invariant.
func (c *Config) Validate() error {
	if err := c.Search.Weights.Validate(); err != nil {
		return err
	}
	if err := c.Search.Graph.Validate(); err != nil {
		return err
	}
	if c.Search.OverfetchFactor < 1 {
		return types.NewValidationError("overfetch_factor must be >= 1, got %g", c.Search.OverfetchFactor)
	}
	if c.Search.FeatureCountNormalizer <= 0 {
		return types.NewValidationError("feature_count_normalizer must be positive, got %g", c.Search.FeatureCountNormalizer)
	}
	if c.Search.EnrichConcurrency <= 0 {
		return types.NewValidationError("enrich_concurrency must be positive, got %d", c.Search.EnrichConcurrency)
	}
	for _, t := range []struct {
		name  string
		value time.Duration
	}{
		{"embed", c.Search.Timeouts.Embed},
		{"retrieve", c.Search.Timeouts.Retrieve},
		{"enrich", c.Search.Timeouts.Enrich},
	} {
		if t.value <= 0 {
			return types.NewValidationError("timeouts.%s must be positive, got %s", t.name, t.value)
		}
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return types.NewValidationError("server port must be in (0, 65535], got %d", c.Server.Port)
	}
	return nil
}

// setDefaults sets default configuration values.
func setDefaults() {
	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// Server defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "release")

	// Search defaults
	viper.SetDefault("search.weights.vector", 0.6)
	viper.SetDefault("search.weights.graph", 0.2)
	viper.SetDefault("search.weights.features", 0.2)
	viper.SetDefault("search.overfetch_factor", 3.0)
	viper.SetDefault("search.feature_count_normalizer", scoring.DefaultFeatureCountNormalizer)
	viper.SetDefault("search.enrich_concurrency", 8)
	viper.SetDefault("search.graph.centrality_normalizer", scoring.DefaultCentralityNormalizer)
	viper.SetDefault("search.graph.similar_edge_normalizer", scoring.DefaultSimilarEdgeNormalizer)
	viper.SetDefault("search.graph.nearby_edge_normalizer", scoring.DefaultNearByEdgeNormalizer)
	viper.SetDefault("search.graph.feature_edge_normalizer", scoring.DefaultFeatureEdgeNormalizer)
	viper.SetDefault("search.graph.edge_blend_cap", scoring.DefaultEdgeBlendCap)
	viper.SetDefault("search.graph.similar_weight", scoring.DefaultSimilarWeight)
	viper.SetDefault("search.graph.nearby_weight", scoring.DefaultNearByWeight)
	viper.SetDefault("search.graph.feature_weight", scoring.DefaultFeatureWeight)
	viper.SetDefault("search.timeouts.embed", "10s")
	viper.SetDefault("search.timeouts.retrieve", "5s")
	viper.SetDefault("search.timeouts.enrich", "3s")

	// Embedding defaults
	viper.SetDefault("embedding.provider", "openai")
	viper.SetDefault("embedding.model", "text-embedding-3-small")
	viper.SetDefault("embedding.dimensions", 1536)

	// Vector store defaults
	viper.SetDefault("vector.addrs", []string{"localhost:6379"})
	viper.SetDefault("vector.index", "idx:listings")
	viper.SetDefault("vector.key_prefix", "listing:")

	// Graph store defaults
	viper.SetDefault("graphdb.uri", "bolt://localhost:7687")
	viper.SetDefault("graphdb.username", "neo4j")
	viper.SetDefault("graphdb.database", "neo4j")

	// Circuit breaker defaults
	viper.SetDefault("circuit_breaker.enabled", true)
	viper.SetDefault("circuit_breaker.max_requests", 1)
	viper.SetDefault("circuit_breaker.interval", 60)
	viper.SetDefault("circuit_breaker.timeout", 30)
	viper.SetDefault("circuit_breaker.ready_to_trip_ratio", 0.6)
}

// overrideWithEnv overrides config with environment variables.
func overrideWithEnv(config *Config) {
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.Embedding.APIKey = apiKey
	}

	if uri := os.Getenv("NEO4J_URI"); uri != "" {
		config.GraphDB.URI = uri
	}
	if user := os.Getenv("NEO4J_USER"); user != "" {
		config.GraphDB.Username = user
	}
	if pass := os.Getenv("NEO4J_PASSWORD"); pass != "" {
		config.GraphDB.Password = pass
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		config.Vector.Addrs = []string{addr}
	}
	if pass := os.Getenv("REDIS_PASSWORD"); pass != "" {
		config.Vector.Password = pass
	}

	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if path := os.Getenv("CATALOG_PATH"); path != "" {
		config.Catalog.Path = path
	}
	if path := os.Getenv("TELEMETRY_PARQUET_PATH"); path != "" {
		config.Telemetry.ParquetPath = path
	}
}
