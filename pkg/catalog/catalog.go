// Package catalog hydrates listing display attributes for search results.
// The catalog is populated by an external indexing pipeline; this package
// only reads it.
package catalog

import (
	"context"
	"errors"

	"github.com/nestquery/nestquery/pkg/types"
)

// ErrNotFound is returned when a listing has no catalog record.
var ErrNotFound = errors.New("listing not found in catalog")

// Store is the read capability against the listing catalog.
type Store interface {
	// FetchAttributes returns the display attributes of one listing.
	// Returns ErrNotFound when the listing has no record.
	FetchAttributes(ctx context.Context, listingID string) (*types.ListingAttributes, error)

	// Close releases the underlying store.
	Close() error
}
