package mock

import (
	"context"
	"sync/atomic"

	"github.com/poiesic/specmatch/core"
)

// MockAttributeExtractor is a test double for ai.AttributeExtractor.
// It allows custom behavior injection via a function field.
type MockAttributeExtractor struct {
	// ExtractAttributesFunc is called by ExtractAttributes if set.
	// If nil, returns an empty attribute map.
	ExtractAttributesFunc func(ctx context.Context, text string) (map[core.AttributeKey]string, error)

	// Batch matching fans items out on a worker pool, so the counter
	// must tolerate concurrent callers.
	callCount atomic.Int64
}

// NewMockAttributeExtractor creates a mock extractor that by default
// recognizes nothing. Note: Returns concrete type to allow test assertions
// via GetMockExtractor().
func NewMockAttributeExtractor() *MockAttributeExtractor {
	return &MockAttributeExtractor{}
}

// ExtractAttributes returns the injected behavior's result, or an empty map.
func (m *MockAttributeExtractor) ExtractAttributes(ctx context.Context, text string) (map[core.AttributeKey]string, error) {
	m.callCount.Add(1)

	if m.ExtractAttributesFunc != nil {
		return m.ExtractAttributesFunc(ctx, text)
	}

	return map[core.AttributeKey]string{}, nil
}

// CallCount returns the number of times ExtractAttributes was called.
func (m *MockAttributeExtractor) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and any injected behavior.
func (m *MockAttributeExtractor) Reset() {
	m.callCount.Store(0)
	m.ExtractAttributesFunc = nil
}
