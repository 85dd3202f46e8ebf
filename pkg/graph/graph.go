// Package graph reads the listing relationship graph and summarizes
// per-listing connectivity into scalar metrics for scoring.
//
// The graph itself is an external, read-only dependency: this package never
// mutates it. Implementations of Reader exist for Neo4j and in-memory
// fixtures; the Collector on top is store-agnostic.
package graph

import (
	"context"

	"github.com/nestquery/nestquery/pkg/types"
)

// Reader is the read capability against the relationship graph. A listing
// absent from the graph is a valid input and yields empty edges.
type Reader interface {
	// Neighborhood returns the outgoing edges of one listing grouped by
	// relationship type.
	Neighborhood(ctx context.Context, listingID string) (*types.GraphEdges, error)

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}
