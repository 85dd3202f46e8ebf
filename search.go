package nestquery

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/nestquery/nestquery/pkg/filter"
	"github.com/nestquery/nestquery/pkg/graph"
	"github.com/nestquery/nestquery/pkg/telemetry"
	"github.com/nestquery/nestquery/pkg/types"
)

// Search runs the hybrid pipeline: embed the query text, retrieve nearest
// candidates from the vector store, hydrate catalog attributes, enrich with
// graph connectivity, fuse scores, filter, and rank.
//
// Embedding and retrieval failures fail the call. Catalog and graph
// failures degrade per candidate and surface once in the response
// diagnostics. An empty result list is success, not an error.
func (e *Engine) Search(ctx context.Context, query *types.SearchQuery) (*types.SearchResponse, error) {
	if query == nil {
		return nil, types.NewValidationError("query is required")
	}
	if err := query.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	diag := types.Diagnostics{QueryID: telemetry.NewQueryID()}
	log := e.logger.With("query_id", diag.QueryID)

	vector, err := e.embedQuery(ctx, query.Text)
	if err != nil {
		return nil, err
	}

	hits, err := e.retrieve(ctx, vector, query.TopK)
	if err != nil {
		return nil, err
	}
	diag.CandidatesRetrieved = len(hits)

	if len(hits) == 0 {
		diag.Took = time.Since(start)
		resp := &types.SearchResponse{Results: []*types.SearchResult{}, Diagnostics: diag}
		e.record(query, resp)
		return resp, nil
	}

	candidates, hydrateFailed, err := e.hydrate(ctx, hits, log)
	if err != nil {
		return nil, err
	}
	if hydrateFailed > 0 {
		diag.Warnings = append(diag.Warnings,
			fmt.Sprintf("catalog attributes missing for %d of %d candidates", hydrateFailed, len(hits)))
	}

	var enrichments map[string]*graph.Enrichment
	if query.GraphBoost && e.collector != nil {
		ids := make([]string, len(candidates))
		for i, c := range candidates {
			ids[i] = c.ID
		}
		var report *graph.BatchReport
		enrichments, report, err = e.collector.CollectBatch(ctx, ids)
		if err != nil {
			return nil, err
		}
		if report.Degraded() {
			diag.GraphDegraded = true
			diag.Warnings = append(diag.Warnings,
				fmt.Sprintf("graph lookups failed for %d of %d candidates", report.Failed, report.Requested))
		}
	}

	results := make([]*types.SearchResult, 0, len(candidates))
	for _, c := range candidates {
		result, err := e.score(c, enrichments[c.ID], query.GraphBoost)
		if err != nil {
			return nil, fmt.Errorf("scoring listing %s: %w", c.ID, err)
		}
		results = append(results, result)
	}

	results = filter.Apply(results, query.Filters)
	rank(results)
	if len(results) > query.TopK {
		results = results[:query.TopK]
	}

	diag.Took = time.Since(start)
	resp := &types.SearchResponse{Results: results, Diagnostics: diag}
	e.record(query, resp)
	log.Debug("search complete",
		"candidates", diag.CandidatesRetrieved,
		"results", len(results),
		"graph_degraded", diag.GraphDegraded,
		"took", diag.Took)
	return resp, nil
}

// embedQuery converts query text into a vector. Provider failures are
// fatal: without a vector there is nothing to retrieve against.
func (e *Engine) embedQuery(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, e.embedTimeout)
	defer cancel()

	vector, err := e.embedder.EmbedSingle(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	return vector, nil
}

// retrieve over-fetches candidates so post-scoring filters still leave
// enough results to fill TopK.
func (e *Engine) retrieve(ctx context.Context, vector []float32, topK int) ([]vectorHit, error) {
	limit := int(math.Ceil(float64(topK) * e.overfetchFactor))
	if limit < topK {
		limit = topK
	}

	ctx, cancel := context.WithTimeout(ctx, e.retrieveTimeout)
	defer cancel()

	hits, err := e.vectors.QueryNearest(ctx, vector, limit)
	if err != nil {
		return nil, fmt.Errorf("retrieving candidates: %w", err)
	}

	out := make([]vectorHit, len(hits))
	for i, h := range hits {
		out[i] = vectorHit{ID: h.ListingID, Score: h.Score}
	}
	return out, nil
}

type vectorHit struct {
	ID    string
	Score float64
}

// hydrate attaches catalog attributes to each hit. A missing or failing
// catalog record degrades that candidate to bare scores instead of
// dropping it; the caller reports the count once in diagnostics. Missing
// and erroring records degrade alike.
func (e *Engine) hydrate(ctx context.Context, hits []vectorHit, log *slog.Logger) ([]*types.SearchCandidate, int, error) {
	candidates := make([]*types.SearchCandidate, 0, len(hits))
	failed := 0
	for _, hit := range hits {
		c := &types.SearchCandidate{ID: hit.ID, VectorScore: hit.Score}
		if e.catalog != nil {
			attrs, err := e.catalog.FetchAttributes(ctx, hit.ID)
			switch {
			case err == nil:
				c.Attributes = *attrs
			case ctx.Err() != nil:
				return nil, failed, ctx.Err()
			default:
				failed++
				if failed == 1 {
					log.Warn("catalog hydration failed", "listing_id", hit.ID, "error", err)
				}
			}
		}
		candidates = append(candidates, c)
	}
	return candidates, failed, nil
}

// score fuses one candidate's signals into a SearchResult.
func (e *Engine) score(c *types.SearchCandidate, enrichment *graph.Enrichment, graphBoost bool) (*types.SearchResult, error) {
	var metrics *types.GraphMetrics
	var related, graphFeatures []string
	if enrichment != nil {
		metrics = &enrichment.Metrics
		related = enrichment.Related
		graphFeatures = enrichment.Features
	}

	// A listing's feature density is the stronger of its catalog listing
	// and its graph feature edges; the two stores lag each other.
	featureCount := len(c.Attributes.Features)
	if metrics != nil && metrics.FeatureCount > featureCount {
		featureCount = metrics.FeatureCount
	}

	breakdown, err := e.combiner.Combine(c.VectorScore, metrics, featureCount, graphBoost)
	if err != nil {
		return nil, err
	}

	features := c.Attributes.Features
	if len(features) == 0 {
		features = graphFeatures
	}

	return &types.SearchResult{
		ID:            c.ID,
		Attributes:    c.Attributes,
		VectorScore:   breakdown.VectorScore,
		GraphScore:    breakdown.GraphScore,
		CombinedScore: breakdown.Combined,
		Related:       related,
		Features:      features,
	}, nil
}

// rank orders results by combined score descending; equal scores break by
// listing ID ascending so identical inputs always rank identically.
func rank(results []*types.SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].CombinedScore != results[j].CombinedScore {
			return results[i].CombinedScore > results[j].CombinedScore
		}
		return results[i].ID < results[j].ID
	})
}

// record emits best-effort telemetry for one completed search.
func (e *Engine) record(query *types.SearchQuery, resp *types.SearchResponse) {
	if e.recorder == nil {
		return
	}
	rec := telemetry.SearchRecord{
		QueryID:             resp.Diagnostics.QueryID,
		QueryText:           query.Text,
		TopK:                query.TopK,
		GraphBoost:          query.GraphBoost,
		CandidatesRetrieved: resp.Diagnostics.CandidatesRetrieved,
		ResultsReturned:     len(resp.Results),
		GraphDegraded:       resp.Diagnostics.GraphDegraded,
		TookMillis:          resp.Diagnostics.Took.Milliseconds(),
		Warnings:            telemetry.JoinWarnings(resp.Diagnostics.Warnings),
	}
	if len(resp.Results) > 0 {
		rec.TopCombinedScore = resp.Results[0].CombinedScore
	}
	e.recorder.Record(rec)
}
