package linkedqueue

import (
	"fmt"
	"io"

	"github.com/i5heu/GoLinkedQueue/internal/queue"
	"github.com/i5heu/GoLinkedQueue/pkg/node"
)

// ErrEmpty is returned by Peek, Pop and PopBack on an empty queue.
var ErrEmpty = queue.ErrEmpty

// Queue is a FIFO of ints backed by a singly-linked chain of nodes.
// head owns the chain; tail only caches its last node for O(1) append.
// The zero value is an empty queue ready to use. Queue is not safe for
// concurrent use.
type Queue struct {
	head *node.Node
	tail *node.Node
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{}
}

// Append adds value after the current last element.
func (q *Queue) Append(value int) {
	n := node.New(value)
	if q.head == nil {
		q.head = n
	} else if err := q.tail.Attach(n); err != nil {
		// tail always is the last node of the chain
		panic(fmt.Sprintf("linkedqueue: corrupted tail: %v", err))
	}
	q.tail = n
}

// Peek returns the first element without removing it.
func (q *Queue) Peek() (int, error) {
	if q.head == nil {
		return 0, ErrEmpty
	}
	return q.head.Value, nil
}

// Pop removes and returns the first element.
func (q *Queue) Pop() (int, error) {
	value, err := q.Peek()
	if err != nil {
		return 0, err
	}
	old := q.head
	q.head = old.Detach()
	if q.head == nil {
		q.tail = nil
	}
	return value, nil
}

// PopBack removes and returns the last element. It walks the chain to find
// the new tail, so it is O(n).
func (q *Queue) PopBack() (int, error) {
	if q.head == nil {
		return 0, ErrEmpty
	}
	value := q.tail.Value
	prev, err := node.Penultimate(q.head)
	if err != nil {
		// single element
		q.head, q.tail = nil, nil
		return value, nil
	}
	prev.Detach()
	q.tail = prev
	return value, nil
}

// Get returns the element at the 1-based position counted from the front.
func (q *Queue) Get(position int) (int, error) {
	n, err := node.At(q.head, position)
	if err != nil {
		return 0, fmt.Errorf("get position %d of %d: %w", position, q.Size(), err)
	}
	return n.Value, nil
}

// Size counts the queued elements.
func (q *Queue) Size() int {
	return node.Count(q.head)
}

// Contains reports whether value is queued.
func (q *Queue) Contains(value int) bool {
	return node.Contains(q.head, value)
}

// Clear releases every node and leaves the queue empty.
func (q *Queue) Clear() {
	node.Release(q.head)
	q.head, q.tail = nil, nil
}

// Values returns the queued elements in FIFO order.
func (q *Queue) Values() []int {
	values := make([]int, 0, q.Size())
	for cur := q.head; cur != nil; cur = cur.Next() {
		values = append(values, cur.Value)
	}
	return values
}

// WriteTo renders the queue to w, e.g. [10]->[20]->[NULL].
func (q *Queue) WriteTo(w io.Writer) (int64, error) {
	return node.Write(w, q.head)
}

func (q *Queue) String() string {
	return node.Render(q.head)
}
