package node

import (
	"errors"
	"io"
	"strconv"
	"strings"
)

const (
	// Separator joins two rendered nodes.
	Separator = "->"
	// Terminator marks the end of every rendered chain, including an empty one.
	Terminator = "[NULL]"
)

var (
	ErrInvalidPosition = errors.New("invalid position")
	ErrNoPenultimate   = errors.New("chain has no penultimate node")
	ErrLinked          = errors.New("node already has a successor")
)

// Node is one cell of a singly-linked chain. A node exclusively owns the
// chain reachable through its successor.
type Node struct {
	Value int
	next  *Node
}

// New allocates a node holding value with no successor.
func New(value int) *Node {
	return &Node{Value: value}
}

// Next returns the successor or nil.
func (n *Node) Next() *Node {
	return n.next
}

// Attach makes next the successor of n. It refuses to drop an existing
// successor so a chain can only be extended at its end.
func (n *Node) Attach(next *Node) error {
	if n.next != nil {
		return ErrLinked
	}
	n.next = next
	return nil
}

// Detach moves the successor chain out of n and returns it.
func (n *Node) Detach() *Node {
	next := n.next
	n.next = nil
	return next
}

// At returns the node at the 1-based position counted from start.
func At(start *Node, position int) (*Node, error) {
	if position < 1 {
		return nil, ErrInvalidPosition
	}
	cur := start
	for i := 1; cur != nil; i++ {
		if i == position {
			return cur, nil
		}
		cur = cur.next
	}
	return nil, ErrInvalidPosition
}

// Penultimate returns the node right before the last one.
func Penultimate(start *Node) (*Node, error) {
	if start == nil || start.next == nil {
		return nil, ErrNoPenultimate
	}
	cur := start
	for cur.next.next != nil {
		cur = cur.next
	}
	return cur, nil
}

// Count returns the number of nodes from start to the end of the chain.
func Count(start *Node) int {
	n := 0
	for cur := start; cur != nil; cur = cur.next {
		n++
	}
	return n
}

// Contains reports whether value is held by any node from start onward.
func Contains(start *Node, value int) bool {
	for cur := start; cur != nil; cur = cur.next {
		if cur.Value == value {
			return true
		}
	}
	return false
}

// Release breaks every link of the chain starting at start. Afterwards no
// node of the old chain reaches any other, so the caller must drop its
// references into it.
func Release(start *Node) {
	for cur := start; cur != nil; {
		cur = cur.Detach()
	}
}

// Write renders the chain to w as [v]->[v]->[NULL].
func Write(w io.Writer, start *Node) (int64, error) {
	var total int64
	for cur := start; cur != nil; cur = cur.next {
		n, err := io.WriteString(w, "["+strconv.Itoa(cur.Value)+"]"+Separator)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	n, err := io.WriteString(w, Terminator)
	total += int64(n)
	return total, err
}

// Render returns the textual form produced by Write.
func Render(start *Node) string {
	var sb strings.Builder
	// strings.Builder never fails
	_, _ = Write(&sb, start)
	return sb.String()
}
