package queue

import (
	"errors"
	"io"
)

// ErrEmpty is returned by Peek and Pop when no element is queued.
var ErrEmpty = errors.New("queue is empty")

// Interface is the contract every FIFO int queue in this module satisfies.
// Implementations are single-goroutine; none of them lock.
type Interface interface {
	// Append adds value as the last element.
	Append(value int)

	// Peek returns the first element without removing it.
	// It returns ErrEmpty when no element is queued.
	Peek() (int, error)

	// Pop removes and returns the first element.
	Pop() (int, error)

	// Size returns how many elements are currently queued.
	Size() int

	// Contains reports whether value is currently queued.
	Contains(value int) bool

	// Clear drops every element. Clearing an empty queue is a no-op.
	Clear()

	// Values returns a snapshot of the queued elements in FIFO order.
	Values() []int

	String() string
	io.WriterTo
}
