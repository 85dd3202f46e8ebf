package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nestquery/nestquery/pkg/types"
)

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

func TestFilterSpecIsIdentity(t *testing.T) {
	var nilSpec *types.FilterSpec
	assert.True(t, nilSpec.IsIdentity())
	assert.True(t, (&types.FilterSpec{}).IsIdentity())
	assert.False(t, (&types.FilterSpec{City: strp("Austin")}).IsIdentity())
}

func TestFilterSpecValidate(t *testing.T) {
	tests := []struct {
		name    string
		spec    types.FilterSpec
		wantErr string
	}{
		{name: "empty spec"},
		{
			name: "well formed bounds",
			spec: types.FilterSpec{PriceMin: f64(100000), PriceMax: f64(500000), BedroomMin: intp(2)},
		},
		{
			name:    "negative price_min",
			spec:    types.FilterSpec{PriceMin: f64(-1)},
			wantErr: "price_min",
		},
		{
			name:    "inverted price range",
			spec:    types.FilterSpec{PriceMin: f64(800000), PriceMax: f64(200000)},
			wantErr: "exceeds",
		},
		{
			name:    "negative bedroom_min",
			spec:    types.FilterSpec{BedroomMin: intp(-2)},
			wantErr: "bedroom_min",
		},
		{
			name:    "negative area_sqft_max",
			spec:    types.FilterSpec{AreaSqftMax: f64(-100)},
			wantErr: "area_sqft_max",
		},
		{
			name:    "inverted area range",
			spec:    types.FilterSpec{AreaSqftMin: f64(2000), AreaSqftMax: f64(900)},
			wantErr: "area_sqft_min",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, types.ErrValidation)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFilterSpecMatches(t *testing.T) {
	attrs := &types.ListingAttributes{
		Price:        750000,
		Bedrooms:     3,
		Bathrooms:    2,
		AreaSqft:     1600,
		City:         "San Francisco",
		Neighborhood: "Noe Valley",
	}

	tests := []struct {
		name string
		spec *types.FilterSpec
		want bool
	}{
		{name: "nil spec matches", spec: nil, want: true},
		{name: "identity matches", spec: &types.FilterSpec{}, want: true},
		{name: "price in range", spec: &types.FilterSpec{PriceMin: f64(500000), PriceMax: f64(800000)}, want: true},
		{name: "price at inclusive max", spec: &types.FilterSpec{PriceMax: f64(750000)}, want: true},
		{name: "price at inclusive min", spec: &types.FilterSpec{PriceMin: f64(750000)}, want: true},
		{name: "price above max", spec: &types.FilterSpec{PriceMax: f64(700000)}, want: false},
		{name: "city exact match", spec: &types.FilterSpec{City: strp("San Francisco")}, want: true},
		{name: "city is case sensitive", spec: &types.FilterSpec{City: strp("san francisco")}, want: false},
		{name: "bedrooms at min", spec: &types.FilterSpec{BedroomMin: intp(3)}, want: true},
		{name: "bedrooms under min", spec: &types.FilterSpec{BedroomMin: intp(4)}, want: false},
		{name: "neighborhood mismatch", spec: &types.FilterSpec{Neighborhood: strp("Mission")}, want: false},
		{name: "area in range", spec: &types.FilterSpec{AreaSqftMin: f64(1000), AreaSqftMax: f64(1600)}, want: true},
		{
			name: "all bounds together",
			spec: &types.FilterSpec{
				PriceMax:   f64(800000),
				City:       strp("San Francisco"),
				BedroomMin: intp(2),
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.spec.Matches(attrs))
		})
	}
}
