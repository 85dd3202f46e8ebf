// Package scoring fuses vector similarity, graph connectivity, and feature
// density into a single ranked score. All functions are pure: no I/O, no
// mutation of inputs, deterministic for identical inputs.
package scoring

import (
	"math"

	"github.com/nestquery/nestquery/pkg/types"
)

// WeightTolerance is the allowed floating-point drift when checking that
// the three fusion weights sum to 1.0.
const WeightTolerance = 0.001

// Defaults for the graph-score blend. Density-dependent normalizers are
// configuration; these values suit a mid-size metro catalog.
const (
	DefaultFeatureCountNormalizer = 15.0
	DefaultCentralityNormalizer   = 50.0
	DefaultSimilarEdgeNormalizer  = 5.0
	DefaultNearByEdgeNormalizer   = 20.0
	DefaultFeatureEdgeNormalizer  = 10.0
	DefaultEdgeBlendCap           = 0.5
	DefaultSimilarWeight          = 0.5
	DefaultNearByWeight           = 0.25
	DefaultFeatureWeight          = 0.25
)

// Weights are the three fusion weights. They must be non-negative and sum
// to 1.0 within WeightTolerance; validated once at configuration load, not
// per query.
type Weights struct {
	Vector   float64 `json:"vector" mapstructure:"vector"`
	Graph    float64 `json:"graph" mapstructure:"graph"`
	Features float64 `json:"features" mapstructure:"features"`
}

// Validate checks the weight invariants.
func (w Weights) Validate() error {
	for _, v := range []struct {
		name  string
		value float64
	}{
		{"vector", w.Vector},
		{"graph", w.Graph},
		{"features", w.Features},
	} {
		if math.IsNaN(v.value) {
			return types.NewValidationError("%s weight is NaN", v.name)
		}
		if v.value < 0 {
			return types.NewValidationError("%s weight cannot be negative", v.name)
		}
	}
	if sum := w.Vector + w.Graph + w.Features; math.Abs(sum-1.0) > WeightTolerance {
		return types.NewValidationError("weights must sum to 1.0, got %g", sum)
	}
	return nil
}

// GraphBlend holds the constants of the centrality-dominant graph-score
// blend. Centrality alone can reach a graph score of 1.0; edge counts alone
// cap at EdgeBlendCap, so sparsely connected listings cannot outrank
// well-connected ones on raw edge volume.
type GraphBlend struct {
	CentralityNormalizer  float64 `json:"centrality_normalizer" mapstructure:"centrality_normalizer"`
	SimilarEdgeNormalizer float64 `json:"similar_edge_normalizer" mapstructure:"similar_edge_normalizer"`
	NearByEdgeNormalizer  float64 `json:"nearby_edge_normalizer" mapstructure:"nearby_edge_normalizer"`
	FeatureEdgeNormalizer float64 `json:"feature_edge_normalizer" mapstructure:"feature_edge_normalizer"`
	EdgeBlendCap          float64 `json:"edge_blend_cap" mapstructure:"edge_blend_cap"`
	SimilarWeight         float64 `json:"similar_weight" mapstructure:"similar_weight"`
	NearByWeight          float64 `json:"nearby_weight" mapstructure:"nearby_weight"`
	FeatureWeight         float64 `json:"feature_weight" mapstructure:"feature_weight"`
}

// DefaultGraphBlend returns the default blend constants.
func DefaultGraphBlend() GraphBlend {
	return GraphBlend{
		CentralityNormalizer:  DefaultCentralityNormalizer,
		SimilarEdgeNormalizer: DefaultSimilarEdgeNormalizer,
		NearByEdgeNormalizer:  DefaultNearByEdgeNormalizer,
		FeatureEdgeNormalizer: DefaultFeatureEdgeNormalizer,
		EdgeBlendCap:          DefaultEdgeBlendCap,
		SimilarWeight:         DefaultSimilarWeight,
		NearByWeight:          DefaultNearByWeight,
		FeatureWeight:         DefaultFeatureWeight,
	}
}

// Validate checks the blend invariants.
func (b GraphBlend) Validate() error {
	for _, v := range []struct {
		name  string
		value float64
	}{
		{"centrality_normalizer", b.CentralityNormalizer},
		{"similar_edge_normalizer", b.SimilarEdgeNormalizer},
		{"nearby_edge_normalizer", b.NearByEdgeNormalizer},
		{"feature_edge_normalizer", b.FeatureEdgeNormalizer},
	} {
		if v.value <= 0 || math.IsNaN(v.value) {
			return types.NewValidationError("%s must be positive, got %g", v.name, v.value)
		}
	}
	if b.EdgeBlendCap < 0 || b.EdgeBlendCap > 1 || math.IsNaN(b.EdgeBlendCap) {
		return types.NewValidationError("edge_blend_cap must be in [0,1], got %g", b.EdgeBlendCap)
	}
	for _, v := range []struct {
		name  string
		value float64
	}{
		{"similar_weight", b.SimilarWeight},
		{"nearby_weight", b.NearByWeight},
		{"feature_weight", b.FeatureWeight},
	} {
		if v.value < 0 || math.IsNaN(v.value) {
			return types.NewValidationError("%s cannot be negative", v.name)
		}
	}
	if sum := b.SimilarWeight + b.NearByWeight + b.FeatureWeight; math.Abs(sum-1.0) > WeightTolerance {
		return types.NewValidationError("edge sub-weights must sum to 1.0, got %g", sum)
	}
	return nil
}

// Breakdown exposes the per-signal scores behind one combined score.
type Breakdown struct {
	VectorScore  float64
	GraphScore   float64
	FeatureScore float64
	Combined     float64
}

// Combiner fuses per-candidate signals into one combined score. Inputs and
// constants are fixed at construction; a Combiner is safe for concurrent
// use across queries.
type Combiner struct {
	weights          Weights
	blend            GraphBlend
	featureNormalize float64
}

// NewCombiner validates the configuration and returns a Combiner. A
// malformed weight set fails here, before any search traffic is served.
func NewCombiner(weights Weights, blend GraphBlend, featureCountNormalizer float64) (*Combiner, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if err := blend.Validate(); err != nil {
		return nil, err
	}
	if featureCountNormalizer <= 0 || math.IsNaN(featureCountNormalizer) {
		return nil, types.NewValidationError("feature_count_normalizer must be positive, got %g", featureCountNormalizer)
	}
	return &Combiner{
		weights:          weights,
		blend:            blend,
		featureNormalize: featureCountNormalizer,
	}, nil
}

// Weights returns the configured fusion weights.
func (c *Combiner) Weights() Weights { return c.weights }

// Combine fuses one candidate's signals. With graphBoost disabled the graph
// and feature weights are treated as zero for the call and the vector
// weight absorbs the remainder, so pure-vector and hybrid ranking share one
// code path. NaN or negative inputs are rejected rather than clamped;
// clamping would mask upstream scoring bugs.
func (c *Combiner) Combine(vectorScore float64, metrics *types.GraphMetrics, featureCount int, graphBoost bool) (Breakdown, error) {
	if math.IsNaN(vectorScore) || vectorScore < 0 {
		return Breakdown{}, types.NewValidationError("vector score must be a non-negative number, got %g", vectorScore)
	}
	if featureCount < 0 {
		return Breakdown{}, types.NewValidationError("feature count cannot be negative, got %d", featureCount)
	}

	weights := c.weights
	if !graphBoost {
		weights = Weights{Vector: 1.0}
	}

	graphScore := 0.0
	if graphBoost && metrics != nil {
		var err error
		graphScore, err = c.GraphScore(metrics)
		if err != nil {
			return Breakdown{}, err
		}
	}

	featureScore := math.Min(1.0, float64(featureCount)/c.featureNormalize)

	return Breakdown{
		VectorScore:  vectorScore,
		GraphScore:   graphScore,
		FeatureScore: featureScore,
		Combined: vectorScore*weights.Vector +
			graphScore*weights.Graph +
			featureScore*weights.Features,
	}, nil
}

// GraphScore derives the [0,1] graph signal from graph metrics. The blend
// is centrality-dominant: the edge component is itself in [0,1] and enters
// scaled by EdgeBlendCap, and the sum is min-clamped at 1.
func (c *Combiner) GraphScore(metrics *types.GraphMetrics) (float64, error) {
	if math.IsNaN(metrics.CentralityScore) || metrics.CentralityScore < 0 {
		return 0, types.NewValidationError("centrality score must be a non-negative number, got %g", metrics.CentralityScore)
	}
	if metrics.SimilarEdgeCount < 0 || metrics.NearByEdgeCount < 0 || metrics.FeatureEdgeCount < 0 {
		return 0, types.NewValidationError("edge counts cannot be negative")
	}

	edgeComponent := c.blend.SimilarWeight*math.Min(1.0, float64(metrics.SimilarEdgeCount)/c.blend.SimilarEdgeNormalizer) +
		c.blend.NearByWeight*math.Min(1.0, float64(metrics.NearByEdgeCount)/c.blend.NearByEdgeNormalizer) +
		c.blend.FeatureWeight*math.Min(1.0, float64(metrics.FeatureEdgeCount)/c.blend.FeatureEdgeNormalizer)

	return math.Min(1.0, metrics.CentralityScore+c.blend.EdgeBlendCap*edgeComponent), nil
}
