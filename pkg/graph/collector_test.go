package graph_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nestquery/nestquery/pkg/graph"
	"github.com/nestquery/nestquery/pkg/types"
)

func newCollector(t *testing.T, reader graph.Reader, normalizer float64) *graph.Collector {
	t.Helper()
	c, err := graph.NewCollector(reader, graph.CollectorOptions{CentralityNormalizer: normalizer})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestNewCollectorValidation(t *testing.T) {
	_, err := graph.NewCollector(nil, graph.CollectorOptions{CentralityNormalizer: 50})
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = graph.NewCollector(graph.NewMemoryReader(), graph.CollectorOptions{})
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = graph.NewCollector(graph.NewMemoryReader(), graph.CollectorOptions{CentralityNormalizer: -10})
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestCollectDerivesMetrics(t *testing.T) {
	reader := graph.NewMemoryReader()
	reader.SetEdges("lst-1", &types.GraphEdges{
		SimilarTo: []string{"lst-2", "lst-3", "lst-4"},
		NearBy:    []string{"lst-5", "lst-6"},
		Features:  []string{"pool", "garage", "garden", "view", "deck"},
	})

	c := newCollector(t, reader, 20)

	enrichment, err := c.Collect(context.Background(), "lst-1")
	require.NoError(t, err)

	assert.Equal(t, 3, enrichment.Metrics.SimilarEdgeCount)
	assert.Equal(t, 2, enrichment.Metrics.NearByEdgeCount)
	assert.Equal(t, 5, enrichment.Metrics.FeatureEdgeCount)
	assert.Equal(t, 5, enrichment.Metrics.FeatureCount)
	// centrality = min(1, 10/20)
	assert.InDelta(t, 0.5, enrichment.Metrics.CentralityScore, 1e-9)
	assert.Equal(t, []string{"lst-2", "lst-3", "lst-4"}, enrichment.Related)
	assert.Equal(t, []string{"pool", "garage", "garden", "view", "deck"}, enrichment.Features)
}

func TestCollectCentralityClamped(t *testing.T) {
	reader := graph.NewMemoryReader()
	edges := &types.GraphEdges{}
	for i := 0; i < 200; i++ {
		edges.NearBy = append(edges.NearBy, "x")
	}
	reader.SetEdges("dense", edges)

	c := newCollector(t, reader, 50)

	enrichment, err := c.Collect(context.Background(), "dense")
	require.NoError(t, err)
	assert.Equal(t, 1.0, enrichment.Metrics.CentralityScore)
}

func TestCollectUnknownListingIsZero(t *testing.T) {
	c := newCollector(t, graph.NewMemoryReader(), 50)

	enrichment, err := c.Collect(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.Equal(t, types.GraphMetrics{}, enrichment.Metrics)
	assert.Empty(t, enrichment.Related)
}

func TestCollectBatch(t *testing.T) {
	reader := graph.NewMemoryReader()
	reader.SetEdges("a", &types.GraphEdges{SimilarTo: []string{"b"}})
	reader.SetEdges("b", &types.GraphEdges{NearBy: []string{"a"}, Features: []string{"pool"}})

	c := newCollector(t, reader, 10)

	out, report, err := c.CollectBatch(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.False(t, report.Degraded())

	assert.Equal(t, 1, out["a"].Metrics.SimilarEdgeCount)
	assert.Equal(t, 1, out["b"].Metrics.NearByEdgeCount)
	assert.Equal(t, types.GraphMetrics{}, out["c"].Metrics)
}

func TestCollectBatchDegradesFailedLookups(t *testing.T) {
	reader := graph.NewMemoryReader()
	reader.SetEdges("ok", &types.GraphEdges{SimilarTo: []string{"x", "y"}})
	reader.FailFor("broken")

	c := newCollector(t, reader, 10)

	out, report, err := c.CollectBatch(context.Background(), []string{"ok", "broken"})
	require.NoError(t, err)

	// The failed listing degrades to zero metrics; the batch survives.
	assert.Equal(t, 2, out["ok"].Metrics.SimilarEdgeCount)
	assert.Equal(t, types.GraphMetrics{}, out["broken"].Metrics)
	assert.True(t, report.Degraded())
	assert.Equal(t, 1, report.Failed)
}

func TestCollectBatchAllFailuresStillSucceed(t *testing.T) {
	reader := graph.NewMemoryReader()
	reader.SetError(types.ErrGraphUnavailable)

	c := newCollector(t, reader, 10)

	out, report, err := c.CollectBatch(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Len(t, out, 3)
	assert.Equal(t, 3, report.Failed)
	for _, enrichment := range out {
		assert.Equal(t, types.GraphMetrics{}, enrichment.Metrics)
	}
}

func TestCollectBatchCancellation(t *testing.T) {
	reader := graph.NewMemoryReader()
	reader.SetEdges("a", &types.GraphEdges{SimilarTo: []string{"b"}})

	c := newCollector(t, reader, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, report, err := c.CollectBatch(ctx, []string{"a"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, out)
	assert.Nil(t, report)
}

func TestCollectBatchConcurrent(t *testing.T) {
	reader := graph.NewMemoryReader()
	ids := make([]string, 0, 100)
	for i := 0; i < 100; i++ {
		id := "lst-" + string(rune('a'+i%26)) + string(rune('0'+i/26))
		ids = append(ids, id)
		reader.SetEdges(id, &types.GraphEdges{Features: []string{"pool"}})
	}

	collector, err := graph.NewCollector(reader, graph.CollectorOptions{
		CentralityNormalizer: 50,
		Concurrency:          4,
		LookupTimeout:        time.Second,
	})
	require.NoError(t, err)
	defer collector.Close()

	out, report, err := collector.CollectBatch(context.Background(), ids)
	require.NoError(t, err)
	assert.Len(t, out, 100)
	assert.False(t, report.Degraded())
}
