package nestquery

import (
	"context"

	"github.com/nestquery/nestquery/pkg/types"
)

// Searcher is the capability contract exposed to callers that only need to
// run searches, such as the HTTP handlers. Consumers accept this interface;
// the module returns the concrete *Engine.
type Searcher interface {
	// Search runs one hybrid search. Validation and provider failures
	// return errors from the pkg/types taxonomy; degraded graph reads
	// surface in the response diagnostics instead.
	Search(ctx context.Context, query *types.SearchQuery) (*types.SearchResponse, error)

	// Close releases all backing connections.
	Close() error
}

var _ Searcher = (*Engine)(nil)
