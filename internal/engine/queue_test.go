package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateQueueFIFO(t *testing.T) {
	q := newStateQueue(4)
	assert.Equal(t, 0, q.Len())

	q.Push(3)
	q.Push(1)
	q.Push(2)
	assert.Equal(t, 3, q.Len())

	for _, want := range []int{3, 1, 2} {
		got, ok := q.Pop()
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}

	got, ok := q.Pop()
	assert.False(t, ok)
	assert.Equal(t, Absent, got)
	assert.Equal(t, 0, q.Len())
}

func TestStateQueueInterleaved(t *testing.T) {
	q := newStateQueue(2)
	q.Push(0)
	s, _ := q.Pop()
	assert.Equal(t, 0, s)

	q.Push(5)
	q.Push(6)
	assert.Equal(t, 2, q.Len())
	s, _ = q.Pop()
	assert.Equal(t, 5, s)
}
