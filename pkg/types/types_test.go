package types_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nestquery/nestquery/pkg/types"
)

func TestSearchQueryValidate(t *testing.T) {
	tests := []struct {
		name    string
		query   types.SearchQuery
		wantErr bool
	}{
		{
			name:  "valid query",
			query: types.SearchQuery{Text: "two bedroom near downtown", TopK: 10},
		},
		{
			name:    "empty text",
			query:   types.SearchQuery{Text: "", TopK: 10},
			wantErr: true,
		},
		{
			name:    "zero top_k",
			query:   types.SearchQuery{Text: "condo", TopK: 0},
			wantErr: true,
		},
		{
			name:    "negative top_k",
			query:   types.SearchQuery{Text: "condo", TopK: -3},
			wantErr: true,
		},
		{
			name: "malformed filter propagates",
			query: types.SearchQuery{
				Text: "condo",
				TopK: 5,
				Filters: &types.FilterSpec{
					PriceMin: f64(900000),
					PriceMax: f64(100000),
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, types.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGraphEdgesTotal(t *testing.T) {
	edges := &types.GraphEdges{
		SimilarTo: []string{"a", "b"},
		NearBy:    []string{"c"},
		Features:  []string{"pool", "garage", "garden"},
	}
	assert.Equal(t, 6, edges.Total())

	assert.Equal(t, 0, (&types.GraphEdges{}).Total())
}

func TestErrorTaxonomy(t *testing.T) {
	t.Run("validation error unwraps", func(t *testing.T) {
		err := types.NewValidationError("top_k must be positive")
		assert.ErrorIs(t, err, types.ErrValidation)
		assert.Contains(t, err.Error(), "top_k")
	})

	t.Run("provider error unwraps and keeps component", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := types.NewProviderError("embedder", cause)
		assert.ErrorIs(t, err, types.ErrProvider)
		assert.Contains(t, err.Error(), "embedder")
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("taxonomy is distinguishable", func(t *testing.T) {
		assert.NotErrorIs(t, types.NewValidationError("x"), types.ErrProvider)
		assert.NotErrorIs(t, types.NewProviderError("y", errors.New("z")), types.ErrValidation)
	})
}

func f64(v float64) *float64 { return &v }
