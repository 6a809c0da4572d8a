package testbench

import (
	"context"
	"fmt"
	"time"

	"github.com/i5heu/GoLinkedQueue/internal/queue"
)

// Workload selects the operation mix RunTimedTest drives.
type Workload string

const (
	// Steady keeps the queue at Depth by alternating one append with one pop.
	Steady Workload = "steady"
	// Burst appends Depth values and then pops all of them.
	Burst Workload = "burst"
	// Scan runs Contains lookups for the last queued value.
	Scan Workload = "scan"
)

// Workloads lists every workload in reporting order.
var Workloads = []Workload{Steady, Burst, Scan}

// Config describes one timed run: how deep the queue is kept and which
// operation mix is driven against it.
type Config struct {
	Depth    int
	Workload Workload
}

// Result is what one timed run measured.
type Result struct {
	Ops     int64
	Elapsed time.Duration
}

// Throughput returns operations per second.
func (r Result) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Ops) / r.Elapsed.Seconds()
}

// checkEvery is how many operations run between deadline checks.
const checkEvery = 256

// RunTimedTest fills q to cfg.Depth and runs cfg.Workload against it until
// testDuration expires. Every popped value is compared against the value
// valueGenerator produced for it; an out of order value or an unexpected
// empty queue is returned as an error. q is cleared before returning.
func RunTimedTest[Q queue.Interface](
	q Q,
	cfg Config,
	testDuration time.Duration,
	valueGenerator func(int) int,
) (Result, error) {
	if cfg.Depth < 1 {
		return Result{}, fmt.Errorf("depth must be at least 1, got %d", cfg.Depth)
	}

	ctx, cancel := context.WithTimeout(context.Background(), testDuration)
	defer cancel()
	defer q.Clear()

	q.Clear()
	var produced, consumed int
	push := func() {
		q.Append(valueGenerator(produced))
		produced++
	}
	pop := func() error {
		v, err := q.Pop()
		if err != nil {
			return fmt.Errorf("pop %d of %d: %w", consumed, produced, err)
		}
		if want := valueGenerator(consumed); v != want {
			return fmt.Errorf("pop %d: got %d, want %d", consumed, v, want)
		}
		consumed++
		return nil
	}

	var step func() (int64, error)
	switch cfg.Workload {
	case Steady:
		step = func() (int64, error) {
			push()
			return 2, pop()
		}
	case Burst:
		step = func() (int64, error) {
			for i := 0; i < cfg.Depth; i++ {
				push()
			}
			for i := 0; i < cfg.Depth; i++ {
				if err := pop(); err != nil {
					return int64(cfg.Depth + i), err
				}
			}
			return int64(2 * cfg.Depth), nil
		}
	case Scan:
		step = func() (int64, error) {
			if !q.Contains(valueGenerator(produced - 1)) {
				return 1, fmt.Errorf("value %d missing from queue", valueGenerator(produced-1))
			}
			return 1, nil
		}
	default:
		return Result{}, fmt.Errorf("unknown workload %q", cfg.Workload)
	}

	// Burst fills the queue itself; the others run against a full one.
	if cfg.Workload != Burst {
		for i := 0; i < cfg.Depth; i++ {
			push()
		}
	}

	var ops int64
	start := time.Now()
	for {
		for i := 0; i < checkEvery; i++ {
			n, err := step()
			ops += n
			if err != nil {
				return Result{Ops: ops, Elapsed: time.Since(start)}, err
			}
		}
		if ctx.Err() != nil {
			break
		}
	}
	elapsed := time.Since(start)

	if cfg.Workload != Burst {
		if size := q.Size(); size != cfg.Depth {
			return Result{Ops: ops, Elapsed: elapsed}, fmt.Errorf("queue size drifted to %d, want %d", size, cfg.Depth)
		}
	}
	return Result{Ops: ops, Elapsed: elapsed}, nil
}
