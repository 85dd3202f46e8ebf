// Package dto defines the wire types of the HTTP API, kept separate from
// the engine types so the API surface can evolve independently.
package dto

import "github.com/nestquery/nestquery/pkg/types"

// SearchRequest is the body of POST /api/v1/search.
type SearchRequest struct {
	Query string `json:"query" binding:"required"`
	TopK  int    `json:"top_k"`
	// UseGraphBoost defaults to true when omitted.
	UseGraphBoost *bool          `json:"use_graph_boost,omitempty"`
	Filters       *FilterRequest `json:"filters,omitempty"`
}

// FilterRequest mirrors types.FilterSpec on the wire. Absent fields are
// unconstrained.
type FilterRequest struct {
	PriceMin     *float64 `json:"price_min,omitempty"`
	PriceMax     *float64 `json:"price_max,omitempty"`
	BedroomMin   *int     `json:"bedroom_min,omitempty"`
	BathroomMin  *float64 `json:"bathroom_min,omitempty"`
	AreaSqftMin  *float64 `json:"area_sqft_min,omitempty"`
	AreaSqftMax  *float64 `json:"area_sqft_max,omitempty"`
	City         *string  `json:"city,omitempty"`
	Neighborhood *string  `json:"neighborhood,omitempty"`
}

// DefaultTopK applies when the request omits top_k.
const DefaultTopK = 10

// ToQuery converts the wire request into an engine query.
func (r *SearchRequest) ToQuery() *types.SearchQuery {
	topK := r.TopK
	if topK == 0 {
		topK = DefaultTopK
	}
	graphBoost := true
	if r.UseGraphBoost != nil {
		graphBoost = *r.UseGraphBoost
	}

	q := &types.SearchQuery{
		Text:       r.Query,
		TopK:       topK,
		GraphBoost: graphBoost,
	}
	if r.Filters != nil {
		q.Filters = &types.FilterSpec{
			PriceMin:     r.Filters.PriceMin,
			PriceMax:     r.Filters.PriceMax,
			BedroomMin:   r.Filters.BedroomMin,
			BathroomMin:  r.Filters.BathroomMin,
			AreaSqftMin:  r.Filters.AreaSqftMin,
			AreaSqftMax:  r.Filters.AreaSqftMax,
			City:         r.Filters.City,
			Neighborhood: r.Filters.Neighborhood,
		}
	}
	return q
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
