package mock

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeterministicVector(t *testing.T) {
	a := DeterministicVector("11kV cable", DefaultDimension)
	b := DeterministicVector("11kV cable", DefaultDimension)
	c := DeterministicVector("1.1kV cable", DefaultDimension)

	require.Len(t, a, DefaultDimension)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestMockEmbedderConcurrentCallCount(t *testing.T) {
	// Batch matching calls the embedder from pool workers, so the call
	// counter is incremented from multiple goroutines at once.
	embedder := NewMockEmbedder()
	ctx := context.Background()

	const callers = 16
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			_, err := embedder.EmbedText(ctx, "11kV cable")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, callers, embedder.CallCount())

	embedder.Reset()
	assert.Equal(t, 0, embedder.CallCount())
}

func TestMockExtractorConcurrentCallCount(t *testing.T) {
	extractor := NewMockAttributeExtractor()
	ctx := context.Background()

	const callers = 16
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			_, err := extractor.ExtractAttributes(ctx, "11kV cable")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, callers, extractor.CallCount())
}
