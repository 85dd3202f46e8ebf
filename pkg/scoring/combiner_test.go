package scoring_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nestquery/nestquery/pkg/scoring"
	"github.com/nestquery/nestquery/pkg/types"
)

func defaultCombiner(t *testing.T) *scoring.Combiner {
	t.Helper()
	c, err := scoring.NewCombiner(
		scoring.Weights{Vector: 0.6, Graph: 0.2, Features: 0.2},
		scoring.DefaultGraphBlend(),
		scoring.DefaultFeatureCountNormalizer,
	)
	require.NoError(t, err)
	return c
}

func TestWeightsValidate(t *testing.T) {
	tests := []struct {
		name    string
		weights scoring.Weights
		wantErr bool
	}{
		{name: "sums to one", weights: scoring.Weights{Vector: 0.6, Graph: 0.2, Features: 0.2}},
		{name: "within tolerance", weights: scoring.Weights{Vector: 0.6004, Graph: 0.2, Features: 0.2}},
		{name: "pure vector", weights: scoring.Weights{Vector: 1.0}},
		{name: "sums above one", weights: scoring.Weights{Vector: 0.8, Graph: 0.3, Features: 0.2}, wantErr: true},
		{name: "sums below one", weights: scoring.Weights{Vector: 0.5, Graph: 0.2, Features: 0.2}, wantErr: true},
		{name: "negative weight", weights: scoring.Weights{Vector: 1.2, Graph: -0.1, Features: -0.1}, wantErr: true},
		{name: "NaN weight", weights: scoring.Weights{Vector: math.NaN(), Graph: 0.5, Features: 0.5}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.weights.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, types.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewCombinerRejectsBadConfig(t *testing.T) {
	good := scoring.Weights{Vector: 0.6, Graph: 0.2, Features: 0.2}

	_, err := scoring.NewCombiner(scoring.Weights{Vector: 0.9, Graph: 0.9}, scoring.DefaultGraphBlend(), 15)
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = scoring.NewCombiner(good, scoring.DefaultGraphBlend(), 0)
	assert.ErrorIs(t, err, types.ErrValidation)

	badBlend := scoring.DefaultGraphBlend()
	badBlend.CentralityNormalizer = -1
	_, err = scoring.NewCombiner(good, badBlend, 15)
	assert.ErrorIs(t, err, types.ErrValidation)

	badBlend = scoring.DefaultGraphBlend()
	badBlend.SimilarWeight = 0.9
	_, err = scoring.NewCombiner(good, badBlend, 15)
	assert.ErrorIs(t, err, types.ErrValidation)
}

// The documented blend with the default constants:
// edge_component = 0.5*min(1, 3/5) + 0.25*min(1, 25/20) + 0.25*min(1, 10/10) = 0.80
// graph_score    = min(1, 0.5 + 0.5*0.80) = 0.90
// combined       = 0.8*0.6 + 0.90*0.2 + min(1, 8/15)*0.2 = 0.76667
func TestCombineDocumentedScenario(t *testing.T) {
	c := defaultCombiner(t)

	metrics := &types.GraphMetrics{
		CentralityScore:  0.5,
		SimilarEdgeCount: 3,
		NearByEdgeCount:  25,
		FeatureEdgeCount: 10,
		FeatureCount:     8,
	}

	breakdown, err := c.Combine(0.8, metrics, 8, true)
	require.NoError(t, err)

	assert.InDelta(t, 0.90, breakdown.GraphScore, 1e-9)
	assert.InDelta(t, 8.0/15.0, breakdown.FeatureScore, 1e-9)
	assert.InDelta(t, 0.8*0.6+0.90*0.2+(8.0/15.0)*0.2, breakdown.Combined, 1e-9)
}

func TestCombineBoundedFusion(t *testing.T) {
	c := defaultCombiner(t)

	// Any inputs with per-signal scores in [0,1] must combine into [0,1].
	cases := []struct {
		vector  float64
		metrics types.GraphMetrics
		feats   int
	}{
		{0, types.GraphMetrics{}, 0},
		{1, types.GraphMetrics{CentralityScore: 1, SimilarEdgeCount: 1000, NearByEdgeCount: 1000, FeatureEdgeCount: 1000}, 1000},
		{0.5, types.GraphMetrics{CentralityScore: 0.3, SimilarEdgeCount: 2}, 4},
		{0.999, types.GraphMetrics{CentralityScore: 0.999, FeatureEdgeCount: 7}, 14},
	}

	for _, tc := range cases {
		breakdown, err := c.Combine(tc.vector, &tc.metrics, tc.feats, true)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, breakdown.Combined, 0.0)
		assert.LessOrEqual(t, breakdown.Combined, 1.0)
		assert.LessOrEqual(t, breakdown.GraphScore, 1.0)
	}
}

func TestGraphScoreCentralityDominates(t *testing.T) {
	c := defaultCombiner(t)

	// Centrality alone reaches 1.0.
	full, err := c.GraphScore(&types.GraphMetrics{CentralityScore: 1.0})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, full, 1e-9)

	// Edges alone cap at the blend cap, no matter how many.
	sparse, err := c.GraphScore(&types.GraphMetrics{
		SimilarEdgeCount: 100000,
		NearByEdgeCount:  100000,
		FeatureEdgeCount: 100000,
	})
	require.NoError(t, err)
	assert.InDelta(t, scoring.DefaultEdgeBlendCap, sparse, 1e-9)
}

func TestCombineMonotonic(t *testing.T) {
	c := defaultCombiner(t)

	base := types.GraphMetrics{CentralityScore: 0.4, SimilarEdgeCount: 2, NearByEdgeCount: 5, FeatureEdgeCount: 3}

	t.Run("in vector score", func(t *testing.T) {
		prev := -1.0
		for v := 0.0; v <= 1.0; v += 0.1 {
			b, err := c.Combine(v, &base, 5, true)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, b.Combined, prev)
			prev = b.Combined
		}
	})

	t.Run("in centrality", func(t *testing.T) {
		prev := -1.0
		for cent := 0.0; cent <= 1.0; cent += 0.1 {
			m := base
			m.CentralityScore = cent
			b, err := c.Combine(0.5, &m, 5, true)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, b.Combined, prev)
			prev = b.Combined
		}
	})

	t.Run("in feature count", func(t *testing.T) {
		prev := -1.0
		for feats := 0; feats <= 30; feats += 3 {
			b, err := c.Combine(0.5, &base, feats, true)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, b.Combined, prev)
			prev = b.Combined
		}
	})
}

func TestCombineRejectsInvalidInputs(t *testing.T) {
	c := defaultCombiner(t)

	_, err := c.Combine(math.NaN(), &types.GraphMetrics{}, 0, true)
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = c.Combine(-0.1, &types.GraphMetrics{}, 0, true)
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = c.Combine(0.5, &types.GraphMetrics{}, -1, true)
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = c.Combine(0.5, &types.GraphMetrics{CentralityScore: math.NaN()}, 0, true)
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = c.Combine(0.5, &types.GraphMetrics{SimilarEdgeCount: -1}, 0, true)
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestCombineGraphBoostDisabled(t *testing.T) {
	c := defaultCombiner(t)

	rich := &types.GraphMetrics{CentralityScore: 0.9, SimilarEdgeCount: 5, NearByEdgeCount: 30, FeatureEdgeCount: 9}

	boosted, err := c.Combine(0.7, rich, 12, false)
	require.NoError(t, err)

	// Graph metrics and feature density contribute nothing: vector weight is
	// renormalized to 1.0 for the call.
	assert.InDelta(t, 0.7, boosted.Combined, 1e-9)
	assert.Zero(t, boosted.GraphScore)

	// Identical to a pure-vector weight set.
	pure, err := scoring.NewCombiner(scoring.Weights{Vector: 1.0}, scoring.DefaultGraphBlend(), 15)
	require.NoError(t, err)
	pureBreakdown, err := pure.Combine(0.7, nil, 12, false)
	require.NoError(t, err)
	assert.InDelta(t, pureBreakdown.Combined, boosted.Combined, 1e-9)
}

func TestCombineDeterministic(t *testing.T) {
	c := defaultCombiner(t)
	m := &types.GraphMetrics{CentralityScore: 0.33, SimilarEdgeCount: 4, NearByEdgeCount: 12, FeatureEdgeCount: 6}

	first, err := c.Combine(0.42, m, 7, true)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := c.Combine(0.42, m, 7, true)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	// Inputs are not mutated.
	assert.Equal(t, 0.33, m.CentralityScore)
	assert.Equal(t, 4, m.SimilarEdgeCount)
}
