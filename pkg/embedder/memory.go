package embedder

import (
	"context"
	"hash/fnv"
	"math"
	"sync"

	"github.com/nestquery/nestquery/pkg/types"
)

// MemoryEmbedder is a deterministic in-memory Client for tests. Fixed
// vectors can be registered per text; unregistered texts hash to a stable
// unit vector.
type MemoryEmbedder struct {
	mu         sync.RWMutex
	dimensions int
	fixed      map[string][]float32
	err        error
}

// NewMemoryEmbedder creates a fake embedder of the given dimensionality.
func NewMemoryEmbedder(dimensions int) *MemoryEmbedder {
	return &MemoryEmbedder{
		dimensions: dimensions,
		fixed:      make(map[string][]float32),
	}
}

// SetVector fixes the embedding returned for one text.
func (m *MemoryEmbedder) SetVector(text string, vector []float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fixed[text] = vector
}

// SetError makes every call fail with a provider error wrapping err.
func (m *MemoryEmbedder) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Embed implements Client.
func (m *MemoryEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, types.NewProviderError("embedder", m.err)
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		if v, ok := m.fixed[text]; ok {
			out[i] = v
			continue
		}
		out[i] = m.hashVector(text)
	}
	return out, nil
}

// EmbedSingle implements Client.
func (m *MemoryEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := m.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// Dimensions implements Client.
func (m *MemoryEmbedder) Dimensions() int { return m.dimensions }

// Close implements Client.
func (m *MemoryEmbedder) Close() error { return nil }

func (m *MemoryEmbedder) hashVector(text string) []float32 {
	v := make([]float32, m.dimensions)
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()

	var norm float64
	for i := range v {
		seed = seed*6364136223846793005 + 1442695040888963407
		v[i] = float32(int64(seed>>32)) / float32(math.MaxInt32)
		norm += float64(v[i]) * float64(v[i])
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range v {
			v[i] = float32(float64(v[i]) / norm)
		}
	}
	return v
}

var _ Client = (*MemoryEmbedder)(nil)
