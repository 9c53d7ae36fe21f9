package queue

import (
	"strconv"
	"testing"

	"github.com/pbanos/orchard/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func task(id int) *Task {
	return &Task{Node: &tree.Node{ID: strconv.Itoa(id)}}
}

func TestQueueFIFO(t *testing.T) {
	q := New()
	_, ok := q.Pull()
	assert.False(t, ok)
	for i := 1; i <= 3; i++ {
		q.Push(task(i))
	}
	assert.Equal(t, 3, q.Len())
	for i := 1; i <= 3; i++ {
		got, ok := q.Pull()
		require.True(t, ok)
		assert.Equal(t, strconv.Itoa(i), got.ID())
	}
	assert.Equal(t, 0, q.Len())
	_, ok = q.Pull()
	assert.False(t, ok)
}

func TestQueueWrapsAround(t *testing.T) {
	q := New()
	next, expected := 1, 1
	for round := 0; round < 5; round++ {
		for i := 0; i < 3; i++ {
			q.Push(task(next))
			next++
		}
		for i := 0; i < 2; i++ {
			got, ok := q.Pull()
			require.True(t, ok)
			assert.Equal(t, strconv.Itoa(expected), got.ID())
			expected++
		}
	}
	assert.Equal(t, 5, q.Len())
	for got, ok := q.Pull(); ok; got, ok = q.Pull() {
		assert.Equal(t, strconv.Itoa(expected), got.ID())
		expected++
	}
	assert.Equal(t, next, expected)
}
