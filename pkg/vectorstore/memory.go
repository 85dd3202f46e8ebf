package vectorstore

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/nestquery/nestquery/pkg/types"
)

// MemoryStore is an in-memory Store that ranks by exact cosine similarity.
// Used by tests and single-node local runs.
type MemoryStore struct {
	mu      sync.RWMutex
	vectors map[string][]float32
	err     error
}

// NewMemoryStore creates an empty in-memory vector store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{vectors: make(map[string][]float32)}
}

// Add registers a listing embedding.
func (m *MemoryStore) Add(listingID string, vector []float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vectors[listingID] = vector
}

// SetError makes every query fail with err.
func (m *MemoryStore) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// QueryNearest implements Store.
func (m *MemoryStore) QueryNearest(ctx context.Context, vector []float32, limit int) ([]Hit, error) {
	if len(vector) == 0 {
		return nil, types.NewValidationError("query vector cannot be empty")
	}
	if limit <= 0 {
		return nil, types.NewValidationError("limit must be positive")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, types.NewProviderError("vector store", m.err)
	}

	hits := make([]Hit, 0, len(m.vectors))
	for id, candidate := range m.vectors {
		// Normalize [-1,1] cosine into the [0,1] score contract.
		similarity := (CosineSimilarity(vector, candidate) + 1) / 2
		hits = append(hits, Hit{ListingID: id, Score: similarity})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ListingID < hits[j].ListingID
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Close implements Store.
func (m *MemoryStore) Close() error { return nil }

// CosineSimilarity computes cosine similarity between two vectors. Vectors
// of mismatched length or zero norm score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	normA = math.Sqrt(normA)
	normB = math.Sqrt(normB)
	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (normA * normB)
}

var _ Store = (*MemoryStore)(nil)
