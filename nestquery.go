package nestquery

import (
	"errors"
	"log/slog"
	"time"

	"github.com/nestquery/nestquery/pkg/catalog"
	"github.com/nestquery/nestquery/pkg/embedder"
	"github.com/nestquery/nestquery/pkg/graph"
	"github.com/nestquery/nestquery/pkg/scoring"
	"github.com/nestquery/nestquery/pkg/telemetry"
	"github.com/nestquery/nestquery/pkg/types"
	"github.com/nestquery/nestquery/pkg/vectorstore"
)

// Engine defaults, used when Options leaves a field zero.
const (
	DefaultOverfetchFactor = 3.0
	DefaultEmbedTimeout    = 10 * time.Second
	DefaultRetrieveTimeout = 5 * time.Second
)

// Engine is the main implementation of the Searcher interface. It owns no
// data itself; it orchestrates the embedding provider, vector store,
// relationship graph, and catalog into ranked results.
type Engine struct {
	embedder  embedder.Client
	vectors   vectorstore.Store
	collector *graph.Collector
	catalog   catalog.Store
	combiner  *scoring.Combiner
	recorder  *telemetry.Recorder
	logger    *slog.Logger

	overfetchFactor float64
	embedTimeout    time.Duration
	retrieveTimeout time.Duration
}

// Options holds engine configuration. Scoring constants are validated at
// construction; a malformed weight set never reaches query time.
type Options struct {
	// Weights are the three fusion weights. Zero value takes the defaults
	// (vector 0.6, graph 0.2, features 0.2).
	Weights scoring.Weights

	// GraphBlend holds the graph-score blend constants. Zero value takes
	// scoring.DefaultGraphBlend.
	GraphBlend scoring.GraphBlend

	// FeatureCountNormalizer is the feature count that saturates the
	// feature score. Zero takes scoring.DefaultFeatureCountNormalizer.
	FeatureCountNormalizer float64

	// OverfetchFactor is the retrieve-stage multiplier over TopK, so that
	// post-scoring filters still leave enough results. Must be >= 1.
	OverfetchFactor float64

	// EmbedTimeout and RetrieveTimeout bound the two fatal pipeline stages.
	EmbedTimeout    time.Duration
	RetrieveTimeout time.Duration

	// Recorder receives per-query telemetry. Nil disables telemetry.
	Recorder *telemetry.Recorder

	// Logger for pipeline diagnostics. Nil takes slog.Default.
	Logger *slog.Logger
}

// NewEngine validates the scoring configuration and assembles an Engine.
// The embedding client and vector store are required; the graph collector
// and catalog are optional and their absence degrades the corresponding
// pipeline stage rather than failing construction.
func NewEngine(embed embedder.Client, vectors vectorstore.Store, collector *graph.Collector, cat catalog.Store, opts Options) (*Engine, error) {
	if embed == nil {
		return nil, types.NewValidationError("embedding client is required")
	}
	if vectors == nil {
		return nil, types.NewValidationError("vector store is required")
	}

	weights := opts.Weights
	if weights == (scoring.Weights{}) {
		weights = scoring.Weights{Vector: 0.6, Graph: 0.2, Features: 0.2}
	}
	blend := opts.GraphBlend
	if blend == (scoring.GraphBlend{}) {
		blend = scoring.DefaultGraphBlend()
	}
	featureNorm := opts.FeatureCountNormalizer
	if featureNorm == 0 {
		featureNorm = scoring.DefaultFeatureCountNormalizer
	}

	combiner, err := scoring.NewCombiner(weights, blend, featureNorm)
	if err != nil {
		return nil, err
	}

	overfetch := opts.OverfetchFactor
	if overfetch == 0 {
		overfetch = DefaultOverfetchFactor
	}
	if overfetch < 1 {
		return nil, types.NewValidationError("overfetch factor must be >= 1, got %g", overfetch)
	}

	embedTimeout := opts.EmbedTimeout
	if embedTimeout <= 0 {
		embedTimeout = DefaultEmbedTimeout
	}
	retrieveTimeout := opts.RetrieveTimeout
	if retrieveTimeout <= 0 {
		retrieveTimeout = DefaultRetrieveTimeout
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		embedder:        embed,
		vectors:         vectors,
		collector:       collector,
		catalog:         cat,
		combiner:        combiner,
		recorder:        opts.Recorder,
		logger:          logger,
		overfetchFactor: overfetch,
		embedTimeout:    embedTimeout,
		retrieveTimeout: retrieveTimeout,
	}, nil
}

// Close releases all backing connections. Errors are joined; Close keeps
// going past a failing component so the rest still shut down.
func (e *Engine) Close() error {
	var errs []error
	if e.collector != nil {
		e.collector.Close()
	}
	if err := e.embedder.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := e.vectors.Close(); err != nil {
		errs = append(errs, err)
	}
	if e.catalog != nil {
		if err := e.catalog.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if e.recorder != nil {
		if err := e.recorder.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
