package catalog

import (
	"context"
	"sync"

	"github.com/nestquery/nestquery/pkg/types"
)

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu       sync.RWMutex
	listings map[string]types.ListingAttributes
	err      error
}

// NewMemoryStore creates an empty in-memory catalog.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{listings: make(map[string]types.ListingAttributes)}
}

// Put registers a listing record.
func (m *MemoryStore) Put(listingID string, attrs types.ListingAttributes) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listings[listingID] = attrs
}

// SetError makes every fetch fail with err.
func (m *MemoryStore) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// FetchAttributes implements Store.
func (m *MemoryStore) FetchAttributes(ctx context.Context, listingID string) (*types.ListingAttributes, error) {
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
	attrs, ok := m.listings[listingID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := attrs
	copied.Features = append([]string(nil), attrs.Features...)
	return &copied, nil
}

// Close implements Store.
func (m *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
