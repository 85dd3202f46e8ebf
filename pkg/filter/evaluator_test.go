package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nestquery/nestquery/pkg/filter"
	"github.com/nestquery/nestquery/pkg/types"
)

func f64(v float64) *float64 { return &v }
func strp(s string) *string  { return &s }

func listing(id, city string, price float64) *types.SearchResult {
	return &types.SearchResult{
		ID:         id,
		Attributes: types.ListingAttributes{City: city, Price: price},
	}
}

func TestApplyPriceAndCity(t *testing.T) {
	// Three candidates priced {500k, 750k, 1M} in {SF, SF, Park City};
	// price_max 800k + city SF leaves exactly two.
	results := []*types.SearchResult{
		listing("lst-1", "San Francisco", 500000),
		listing("lst-2", "San Francisco", 750000),
		listing("lst-3", "Park City", 1000000),
	}

	spec := &types.FilterSpec{PriceMax: f64(800000), City: strp("San Francisco")}
	filtered := filter.Apply(results, spec)

	assert.Len(t, filtered, 2)
	assert.Equal(t, "lst-1", filtered[0].ID)
	assert.Equal(t, "lst-2", filtered[1].ID)
}

func TestApplyIdentity(t *testing.T) {
	results := []*types.SearchResult{
		listing("b", "Austin", 100),
		listing("a", "Austin", 200),
	}

	assert.Equal(t, results, filter.Apply(results, nil))
	assert.Equal(t, results, filter.Apply(results, &types.FilterSpec{}))
}

func TestApplyEmptyInput(t *testing.T) {
	spec := &types.FilterSpec{City: strp("Austin")}
	assert.Empty(t, filter.Apply(nil, spec))
	assert.Empty(t, filter.Apply([]*types.SearchResult{}, spec))
}

func TestApplyPreservesOrder(t *testing.T) {
	results := []*types.SearchResult{
		listing("z", "Austin", 100),
		listing("m", "Dallas", 100),
		listing("a", "Austin", 100),
		listing("k", "Austin", 100),
	}

	filtered := filter.Apply(results, &types.FilterSpec{City: strp("Austin")})

	ids := make([]string, 0, len(filtered))
	for _, r := range filtered {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"z", "a", "k"}, ids)
}

func TestApplyIdempotent(t *testing.T) {
	results := []*types.SearchResult{
		listing("1", "Austin", 300000),
		listing("2", "Austin", 900000),
		listing("3", "Dallas", 300000),
	}
	spec := &types.FilterSpec{City: strp("Austin"), PriceMax: f64(500000)}

	once := filter.Apply(results, spec)
	twice := filter.Apply(once, spec)
	assert.Equal(t, once, twice)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	results := []*types.SearchResult{
		listing("1", "Austin", 100),
		listing("2", "Dallas", 100),
	}
	_ = filter.Apply(results, &types.FilterSpec{City: strp("Austin")})

	assert.Len(t, results, 2)
	assert.Equal(t, "1", results[0].ID)
	assert.Equal(t, "2", results[1].ID)
}

func TestApplyCandidates(t *testing.T) {
	candidates := []*types.SearchCandidate{
		{ID: "1", Attributes: types.ListingAttributes{City: "Austin", Bedrooms: 3}},
		{ID: "2", Attributes: types.ListingAttributes{City: "Austin", Bedrooms: 1}},
	}

	min := 2
	filtered := filter.ApplyCandidates(candidates, &types.FilterSpec{BedroomMin: &min})
	assert.Len(t, filtered, 1)
	assert.Equal(t, "1", filtered[0].ID)

	assert.Equal(t, candidates, filter.ApplyCandidates(candidates, nil))
}
