package mock

import (
	"context"
	"hash/fnv"
	"math"
	"sync"
)

// defaultDim is the vector width used when none is configured. Matches the
// hidden size of small protein language models closely enough for tests.
const defaultDim = 384

// MockClient is a test double for embed.Client.
// It allows custom behavior injection via function fields.
type MockClient struct {
	// EmbedBatchFunc is called by EmbedBatch if set.
	// If nil, uses default deterministic behavior.
	EmbedBatchFunc func(ctx context.Context, inputs []string) ([][]float32, error)

	// Dim overrides the width of generated vectors. Zero means defaultDim.
	Dim int

	mu        sync.Mutex
	callCount int
}

// NewMockClient creates a mock client with default deterministic behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// EmbedBatch generates deterministic embeddings for each input.
func (m *MockClient) EmbedBatch(ctx context.Context, inputs []string) ([][]float32, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.EmbedBatchFunc != nil {
		return m.EmbedBatchFunc(ctx, inputs)
	}

	dim := m.Dim
	if dim <= 0 {
		dim = defaultDim
	}
	vectors := make([][]float32, len(inputs))
	for i, input := range inputs {
		vectors[i] = generateDeterministicVector(input, dim)
	}
	return vectors, nil
}

// CallCount returns the number of times EmbedBatch was called.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.EmbedBatchFunc = nil
}

// generateDeterministicVector creates a deterministic embedding vector from
// an input string. It uses FNV hash so the same input always produces the
// same vector.
func generateDeterministicVector(input string, dim int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(input))
	seed := h.Sum32()

	vector := make([]float32, dim)
	for i := 0; i < dim; i++ {
		// LCG constants
		seed = seed*1664525 + 1013904223
		vector[i] = float32(seed%1000)/500.0 - 1.0
	}

	// Normalize to unit length
	var sumSquares float64
	for _, v := range vector {
		sumSquares += float64(v) * float64(v)
	}
	if sumSquares > 0 {
		norm := float32(1.0 / math.Sqrt(sumSquares))
		for i := range vector {
			vector[i] *= norm
		}
	}

	return vector
}
