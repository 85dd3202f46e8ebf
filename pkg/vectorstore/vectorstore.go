// Package vectorstore retrieves nearest-neighbor listing candidates for a
// query embedding. Scores are normalized cosine similarity in [0,1], best
// first.
package vectorstore

import "context"

// Hit is one nearest-neighbor match.
type Hit struct {
	ListingID string  `json:"listing_id"`
	Score     float64 `json:"score"`
}

// Store is the nearest-candidate retrieval capability.
type Store interface {
	// QueryNearest returns up to limit listings ordered by similarity
	// descending.
	QueryNearest(ctx context.Context, vector []float32, limit int) ([]Hit, error)

	// Close releases the underlying connection.
	Close() error
}
