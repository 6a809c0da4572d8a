package arenaqueue

import (
	"testing"

	"github.com/i5heu/GoLinkedQueue/internal/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ queue.Interface = (*ArenaQueue)(nil)

// freeCount walks the free list.
func freeCount(q *ArenaQueue) int {
	n := 0
	for idx := q.free; idx != none; idx = q.cells[idx].next {
		n++
	}
	return n
}

// checkInvariants verifies head/tail consistency and that every cell is
// either queued or free, never both.
func checkInvariants(t *testing.T, q *ArenaQueue) {
	t.Helper()
	if q.head == none {
		require.Equal(t, none, q.tail)
	} else {
		require.NotEqual(t, none, q.tail)
		last := q.head
		for q.cells[last].next != none {
			last = q.cells[last].next
		}
		require.Equal(t, q.tail, last)
	}
	require.Equal(t, q.Cap(), q.Size()+freeCount(q))
}

func TestNewIsEmpty(t *testing.T) {
	for _, hint := range []int{-1, 0, 16} {
		q := New(hint)
		assert.Equal(t, 0, q.Size())
		assert.Equal(t, "[NULL]", q.String())
		_, err := q.Peek()
		assert.ErrorIs(t, err, ErrEmpty)
		_, err = q.Pop()
		assert.ErrorIs(t, err, ErrEmpty)
		checkInvariants(t, q)
	}
}

func TestFIFOOrder(t *testing.T) {
	const n = 10000
	q := New(0)
	for i := 0; i < n; i++ {
		q.Append(i)
		require.Equal(t, i+1, q.Size())
	}
	for i := 0; i < n; i++ {
		v, err := q.Pop()
		require.NoError(t, err)
		require.Equal(t, i, v)
	}
	checkInvariants(t, q)
	_, err := q.Pop()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestPopReusesCells(t *testing.T) {
	q := New(0)
	q.Append(1)
	q.Append(2)
	require.Equal(t, 2, q.Cap())

	v, err := q.Pop()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	checkInvariants(t, q)

	q.Append(3)
	assert.Equal(t, 2, q.Cap(), "append must reuse the released cell")
	assert.Equal(t, []int{2, 3}, q.Values())
	checkInvariants(t, q)
}

func TestClear(t *testing.T) {
	q := New(4)
	q.Clear()
	checkInvariants(t, q)

	for _, v := range []int{10, 20, 30} {
		q.Append(v)
	}
	q.Clear()
	assert.Equal(t, 0, q.Size())
	assert.Equal(t, "[NULL]", q.String())
	assert.False(t, q.Contains(10))
	assert.Equal(t, 3, freeCount(q))
	checkInvariants(t, q)

	q.Clear()
	checkInvariants(t, q)

	for _, v := range []int{4, 5, 6, 7} {
		q.Append(v)
	}
	assert.Equal(t, 4, q.Cap())
	assert.Equal(t, []int{4, 5, 6, 7}, q.Values())
	checkInvariants(t, q)
}

func TestGet(t *testing.T) {
	q := New(0)
	q.Append(10)
	q.Append(20)

	v, err := q.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 10, v)

	for _, pos := range []int{0, 3, -4} {
		_, err = q.Get(pos)
		assert.ErrorIs(t, err, ErrInvalidPosition, "position %d", pos)
	}
}

func TestRoundTrip(t *testing.T) {
	q := New(0)
	q.Append(10)
	q.Append(20)
	q.Append(30)

	assert.Equal(t, "[10]->[20]->[30]->[NULL]", q.String())
	v, err := q.Peek()
	require.NoError(t, err)
	assert.Equal(t, 10, v)
	assert.Equal(t, 3, q.Size())
	assert.True(t, q.Contains(30))
	assert.False(t, q.Contains(60))

	v, err = q.Pop()
	require.NoError(t, err)
	assert.Equal(t, 10, v)
	assert.Equal(t, "[20]->[30]->[NULL]", q.String())

	q.Clear()
	assert.Equal(t, "[NULL]", q.String())
	assert.Equal(t, 0, q.Size())
}
