package graph

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/nestquery/nestquery/pkg/types"
)

// Collector defaults.
const (
	DefaultConcurrency   = 8
	DefaultLookupTimeout = 3 * time.Second
)

// Enrichment is one listing's graph-derived data for a single query.
type Enrichment struct {
	Metrics  types.GraphMetrics
	Related  []string
	Features []string
}

// BatchReport summarizes degraded-mode conditions for one batch. Read
// failures never abort the batch; they surface here once per call.
type BatchReport struct {
	Requested int
	Failed    int
}

// Degraded reports whether any lookup in the batch failed.
func (r *BatchReport) Degraded() bool { return r.Failed > 0 }

// Collector queries the relationship graph for candidate listings and
// summarizes connectivity into GraphMetrics. Lookups within a batch are
// independent reads dispatched on a bounded worker pool; completion order
// does not matter since results are keyed by listing ID.
type Collector struct {
	reader               Reader
	pool                 *ants.Pool
	centralityNormalizer float64
	lookupTimeout        time.Duration
	logger               *slog.Logger
}

// CollectorOptions configures a Collector. Zero values take the defaults
// above; the centrality normalizer has no default because graph density
// varies by catalog and the value comes from configuration.
type CollectorOptions struct {
	CentralityNormalizer float64
	Concurrency          int
	LookupTimeout        time.Duration
	Logger               *slog.Logger
}

// NewCollector creates a Collector with its own bounded worker pool.
func NewCollector(reader Reader, opts CollectorOptions) (*Collector, error) {
	if reader == nil {
		return nil, types.NewValidationError("graph reader is required")
	}
	if opts.CentralityNormalizer <= 0 || math.IsNaN(opts.CentralityNormalizer) {
		return nil, types.NewValidationError("centrality normalizer must be positive, got %g", opts.CentralityNormalizer)
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.LookupTimeout <= 0 {
		opts.LookupTimeout = DefaultLookupTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	pool, err := ants.NewPool(opts.Concurrency)
	if err != nil {
		return nil, err
	}

	return &Collector{
		reader:               reader,
		pool:                 pool,
		centralityNormalizer: opts.CentralityNormalizer,
		lookupTimeout:        opts.LookupTimeout,
		logger:               opts.Logger,
	}, nil
}

// Collect returns one listing's enrichment. A read failure degrades to
// zero metrics with the error returned for the caller to count.
func (c *Collector) Collect(ctx context.Context, listingID string) (*Enrichment, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, c.lookupTimeout)
	defer cancel()

	edges, err := c.reader.Neighborhood(lookupCtx, listingID)
	if err != nil {
		return &Enrichment{}, err
	}
	return c.enrichment(edges), nil
}

// CollectBatch collects enrichments for a candidate set concurrently.
// Failed lookups degrade to zero metrics and are counted in the report;
// only caller cancellation aborts the batch.
func (c *Collector) CollectBatch(ctx context.Context, listingIDs []string) (map[string]*Enrichment, *BatchReport, error) {
	out := make(map[string]*Enrichment, len(listingIDs))
	report := &BatchReport{Requested: len(listingIDs)}

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, id := range listingIDs {
		if err := ctx.Err(); err != nil {
			break
		}

		wg.Add(1)
		task := func() {
			defer wg.Done()
			enrichment, err := c.Collect(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			out[id] = enrichment
			if err != nil && ctx.Err() == nil {
				report.Failed++
				c.logger.Debug("graph lookup degraded", "listing_id", id, "error", err)
			}
		}
		if err := c.pool.Submit(task); err != nil {
			// Pool released mid-call; fall back to inline execution.
			task()
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		// No partial results for a cancelled call.
		return nil, nil, err
	}

	if report.Degraded() {
		c.logger.Warn("graph enrichment degraded",
			"requested", report.Requested, "failed", report.Failed)
	}
	return out, report, nil
}

// Close releases the worker pool. The underlying reader is owned by the
// caller and is not closed here.
func (c *Collector) Close() {
	c.pool.Release()
}

func (c *Collector) enrichment(edges *types.GraphEdges) *Enrichment {
	total := edges.Total()
	return &Enrichment{
		Metrics: types.GraphMetrics{
			CentralityScore:  math.Min(1.0, float64(total)/c.centralityNormalizer),
			SimilarEdgeCount: len(edges.SimilarTo),
			NearByEdgeCount:  len(edges.NearBy),
			FeatureEdgeCount: len(edges.Features),
			FeatureCount:     len(edges.Features),
		},
		Related:  edges.SimilarTo,
		Features: edges.Features,
	}
}
