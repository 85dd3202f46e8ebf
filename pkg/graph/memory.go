package graph

import (
	"context"
	"sync"

	"github.com/nestquery/nestquery/pkg/types"
)

// MemoryReader is an in-memory Reader used by tests and local runs.
type MemoryReader struct {
	mu    sync.RWMutex
	edges map[string]*types.GraphEdges
	err   error
	// failIDs forces read failures for specific listings.
	failIDs map[string]bool
}

// NewMemoryReader creates an empty in-memory graph.
func NewMemoryReader() *MemoryReader {
	return &MemoryReader{
		edges:   make(map[string]*types.GraphEdges),
		failIDs: make(map[string]bool),
	}
}

// SetEdges registers the outgoing edges of a listing.
func (m *MemoryReader) SetEdges(listingID string, edges *types.GraphEdges) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edges[listingID] = edges
}

// SetError makes every read fail with err.
func (m *MemoryReader) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// FailFor makes reads of one listing fail while others succeed.
func (m *MemoryReader) FailFor(listingID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failIDs[listingID] = true
}

// Neighborhood implements Reader.
func (m *MemoryReader) Neighborhood(ctx context.Context, listingID string) (*types.GraphEdges, error) {
	if listingID == "" {
		return nil, types.NewValidationError("listing id cannot be empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.failIDs[listingID] {
		return nil, types.ErrGraphUnavailable
	}
	edges, ok := m.edges[listingID]
	if !ok {
		return &types.GraphEdges{}, nil
	}
	// Copy so callers cannot mutate the fixture.
	return &types.GraphEdges{
		SimilarTo: append([]string(nil), edges.SimilarTo...),
		NearBy:    append([]string(nil), edges.NearBy...),
		Features:  append([]string(nil), edges.Features...),
	}, nil
}

// Close implements Reader.
func (m *MemoryReader) Close(ctx context.Context) error { return nil }

var _ Reader = (*MemoryReader)(nil)
