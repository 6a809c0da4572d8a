package arenaqueue

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/i5heu/GoLinkedQueue/internal/queue"
	"github.com/i5heu/GoLinkedQueue/pkg/node"
)

// ErrEmpty is returned by Peek and Pop on an empty queue.
var ErrEmpty = queue.ErrEmpty

var ErrInvalidPosition = node.ErrInvalidPosition

// none marks a missing link.
const none int32 = -1

// cell is one node of the arena. next links either the queue chain or,
// for released cells, the free list.
type cell struct {
	value int
	next  int32
}

// ArenaQueue is a FIFO of ints whose nodes live in a single slice and are
// linked by index. Popped cells go on a free list and are handed out again
// by later appends, so a cell is released exactly once per use.
// Use New to create one; the zero value is not ready for use.
// ArenaQueue is not safe for concurrent use.
type ArenaQueue struct {
	cells []cell
	head  int32
	tail  int32
	free  int32
}

// New creates an empty queue. sizeHint preallocates that many cells; the
// arena grows past it as needed.
func New(sizeHint int) *ArenaQueue {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &ArenaQueue{
		cells: make([]cell, 0, sizeHint),
		head:  none,
		tail:  none,
		free:  none,
	}
}

// alloc takes a cell from the free list, or extends the arena.
func (q *ArenaQueue) alloc(value int) int32 {
	if q.free != none {
		idx := q.free
		q.free = q.cells[idx].next
		q.cells[idx] = cell{value: value, next: none}
		return idx
	}
	q.cells = append(q.cells, cell{value: value, next: none})
	return int32(len(q.cells) - 1)
}

// release puts the cell at idx on the free list.
func (q *ArenaQueue) release(idx int32) {
	q.cells[idx] = cell{next: q.free}
	q.free = idx
}

// Append adds value after the current last element.
func (q *ArenaQueue) Append(value int) {
	idx := q.alloc(value)
	if q.head == none {
		q.head = idx
	} else {
		q.cells[q.tail].next = idx
	}
	q.tail = idx
}

// Peek returns the first element without removing it.
func (q *ArenaQueue) Peek() (int, error) {
	if q.head == none {
		return 0, ErrEmpty
	}
	return q.cells[q.head].value, nil
}

// Pop removes and returns the first element.
func (q *ArenaQueue) Pop() (int, error) {
	value, err := q.Peek()
	if err != nil {
		return 0, err
	}
	old := q.head
	q.head = q.cells[old].next
	q.release(old)
	if q.head == none {
		q.tail = none
	}
	return value, nil
}

// Get returns the element at the 1-based position counted from the front.
func (q *ArenaQueue) Get(position int) (int, error) {
	if position >= 1 {
		i := 1
		for idx := q.head; idx != none; idx = q.cells[idx].next {
			if i == position {
				return q.cells[idx].value, nil
			}
			i++
		}
	}
	return 0, fmt.Errorf("get position %d of %d: %w", position, q.Size(), ErrInvalidPosition)
}

// Size counts the queued elements.
func (q *ArenaQueue) Size() int {
	n := 0
	for idx := q.head; idx != none; idx = q.cells[idx].next {
		n++
	}
	return n
}

// Cap returns how many cells the arena holds, queued or free.
func (q *ArenaQueue) Cap() int {
	return len(q.cells)
}

// Contains reports whether value is queued.
func (q *ArenaQueue) Contains(value int) bool {
	for idx := q.head; idx != none; idx = q.cells[idx].next {
		if q.cells[idx].value == value {
			return true
		}
	}
	return false
}

// Clear returns every queued cell to the free list.
func (q *ArenaQueue) Clear() {
	for idx := q.head; idx != none; {
		next := q.cells[idx].next
		q.release(idx)
		idx = next
	}
	q.head, q.tail = none, none
}

// Values returns the queued elements in FIFO order.
func (q *ArenaQueue) Values() []int {
	values := make([]int, 0, q.Size())
	for idx := q.head; idx != none; idx = q.cells[idx].next {
		values = append(values, q.cells[idx].value)
	}
	return values
}

// WriteTo renders the queue to w in the same form as node.Write.
func (q *ArenaQueue) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for idx := q.head; idx != none; idx = q.cells[idx].next {
		n, err := io.WriteString(w, "["+strconv.Itoa(q.cells[idx].value)+"]"+node.Separator)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	n, err := io.WriteString(w, node.Terminator)
	total += int64(n)
	return total, err
}

func (q *ArenaQueue) String() string {
	var sb strings.Builder
	// strings.Builder never fails
	_, _ = q.WriteTo(&sb)
	return sb.String()
}
