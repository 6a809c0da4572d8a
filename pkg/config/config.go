package config

import "github.com/i5heu/GoLinkedQueue/internal/testbench"

// Config is an alias for testbench.Config. This allows other programs to
// describe a benchmark run without pulling in the runner itself.
type Config = testbench.Config

// Workload is an alias for testbench.Workload.
type Workload = testbench.Workload

const (
	Steady = testbench.Steady
	Burst  = testbench.Burst
	Scan   = testbench.Scan
)
