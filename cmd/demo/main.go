package main

import (
	"fmt"
	"io"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/i5heu/GoLinkedQueue/pkg/linkedqueue"
)

var logger = log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))

// run appends 10, 20 and 30, inspects the queue, pops once and clears it,
// printing every step to w.
func run(w io.Writer) error {
	q := linkedqueue.New()

	q.Append(10)
	q.Append(20)
	q.Append(30)

	fmt.Fprintln(w, q)
	head, err := q.Peek()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Head: %d\n", head)
	fmt.Fprintf(w, "size: %d\n", q.Size())
	fmt.Fprintf(w, "Has 30? %t\n", q.Contains(30))
	fmt.Fprintf(w, "Has 60? %t\n", q.Contains(60))

	if _, err := q.Pop(); err != nil {
		return err
	}
	fmt.Fprintln(w, q)

	q.Clear()
	fmt.Fprintln(w, q)
	return nil
}

func main() {
	if err := run(os.Stdout); err != nil {
		level.Error(logger).Log("tag", "[ERR]", "struct", "Queue", "err", err)
		os.Exit(1)
	}
}
