package concurrency

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTurnQueueReturnsDataInOrder(t *testing.T) {
	t.Parallel()

	q := newTurnQueue[int]()
	const numItems = 100

	for i := 0; i < numItems; i++ {
		q.Push(i)
	}
	require.Equal(t, numItems, q.Len())

	for i := 0; i < numItems; i++ {
		v, found := q.Pop()
		require.True(t, found)
		require.Equal(t, i, v)
	}

	_, found := q.Pop()
	require.False(t, found)
}

func TestTurnQueuePreservesOrderAcrossWrapAndGrowth(t *testing.T) {
	t.Parallel()

	q := newTurnQueue[int]()

	// Advance head so the buffer wraps before it grows.
	for i := 0; i < initialTurnQueueSize; i++ {
		q.Push(i)
	}
	for i := 0; i < initialTurnQueueSize/2; i++ {
		q.Pop()
	}
	next := initialTurnQueueSize
	for i := 0; i < initialTurnQueueSize*4; i++ {
		q.Push(next)
		next++
	}

	expected := initialTurnQueueSize / 2
	for !q.Empty() {
		v, found := q.Pop()
		require.True(t, found)
		require.Equal(t, expected, v)
		expected++
	}
	require.Equal(t, next, expected)
}
