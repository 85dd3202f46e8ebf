package types

import "time"

// ListingAttributes holds the display attributes of a property listing as
// stored in the catalog. Fields mirror the catalog schema; everything is
// optional except the identifier carried by the surrounding record.
type ListingAttributes struct {
	Price        float64  `json:"price"`
	Bedrooms     int      `json:"bedrooms"`
	Bathrooms    float64  `json:"bathrooms"`
	AreaSqft     float64  `json:"area_sqft"`
	City         string   `json:"city"`
	Neighborhood string   `json:"neighborhood,omitempty"`
	Address      string   `json:"address,omitempty"`
	Description  string   `json:"description,omitempty"`
	Features     []string `json:"features,omitempty"`
}

// SearchCandidate is one listing under consideration during a single query.
// It is assembled from the vector store hit and the catalog attributes and
// is treated as immutable for the duration of the call.
type SearchCandidate struct {
	ID          string            `json:"id"`
	Attributes  ListingAttributes `json:"attributes"`
	VectorScore float64           `json:"vector_score"`
	Embedding   []float32         `json:"embedding,omitempty"`
}

// GraphEdges holds the outgoing edges of one listing in the relationship
// graph, keyed by relationship type. Targets of SimilarTo are listing IDs;
// Features are feature-tag names.
type GraphEdges struct {
	SimilarTo []string `json:"similar_to"`
	NearBy    []string `json:"near_by"`
	Features  []string `json:"features"`
}

// Total returns the total outgoing edge count.
func (e *GraphEdges) Total() int {
	return len(e.SimilarTo) + len(e.NearBy) + len(e.Features)
}

// GraphMetrics summarizes a listing's graph connectivity for scoring.
// Computed fresh per query and never cached across calls.
type GraphMetrics struct {
	CentralityScore  float64 `json:"centrality_score"`
	SimilarEdgeCount int     `json:"similar_edge_count"`
	NearByEdgeCount  int     `json:"nearby_edge_count"`
	FeatureEdgeCount int     `json:"feature_edge_count"`
	FeatureCount     int     `json:"feature_count"`
}

// SearchResult is one ranked listing in the response. Ordered by
// CombinedScore descending, ties broken by ID ascending.
type SearchResult struct {
	ID            string            `json:"id"`
	Attributes    ListingAttributes `json:"attributes"`
	VectorScore   float64           `json:"vector_score"`
	GraphScore    float64           `json:"graph_score"`
	CombinedScore float64           `json:"combined_score"`
	Related       []string          `json:"related,omitempty"`
	Features      []string          `json:"features,omitempty"`
}

// Diagnostics carries per-call metadata. Degraded-mode conditions (graph
// store unreachable) surface here instead of as errors.
type Diagnostics struct {
	QueryID             string        `json:"query_id"`
	CandidatesRetrieved int           `json:"candidates_retrieved"`
	GraphDegraded       bool          `json:"graph_degraded"`
	Warnings            []string      `json:"warnings,omitempty"`
	Took                time.Duration `json:"took"`
}

// SearchResponse is the full output of one search call.
type SearchResponse struct {
	Results     []*SearchResult `json:"results"`
	Diagnostics Diagnostics     `json:"diagnostics"`
}

// SearchQuery is the input to one search call.
type SearchQuery struct {
	Text       string      `json:"text"`
	TopK       int         `json:"top_k"`
	Filters    *FilterSpec `json:"filters,omitempty"`
	GraphBoost bool        `json:"graph_boost"`
}

// Validate checks the query before any external call is made.
func (q *SearchQuery) Validate() error {
	if q.Text == "" {
		return NewValidationError("query text cannot be empty")
	}
	if q.TopK <= 0 {
		return NewValidationError("top_k must be positive")
	}
	if q.Filters != nil {
		if err := q.Filters.Validate(); err != nil {
			return err
		}
	}
	return nil
}
