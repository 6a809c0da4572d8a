package main

import (
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/plot"
)

// BenchmarkResult holds one benchmark result as written by cmd/bench.
type BenchmarkResult struct {
	Implementation string  `json:"implementation"`
	Workload       string  `json:"workload"`
	Depth          int     `json:"depth"`
	NumOps         int64   `json:"num_ops"`
	TestDuration   string  `json:"test_duration"`
	ActualElapsed  string  `json:"actual_elapsed"`
	Throughput     float64 `json:"throughput_ops_sec"`
	Timestamp      int64   `json:"timestamp"`
	GoVersion      string  `json:"go_version"`
}

// FullReport represents a complete test session. System info is not needed here.
type FullReport struct {
	SessionTime string            `json:"session_time"`
	Benchmarks  []BenchmarkResult `json:"benchmarks"`
}

// depthStats holds "5%-avg-min", median, and "5%-avg-max" for one depth.
type depthStats struct {
	x      float64 // category index plus offset
	depth  float64 // original depth value
	min    float64 // "average of bottom 5%"
	median float64
	max    float64 // "average of top 5%"
}

// statsPoints implements XYer and YErrorer for depthStats, so we can plot lines + error bars.
type statsPoints []depthStats

func (s statsPoints) Len() int                { return len(s) }
func (s statsPoints) XY(i int) (x, y float64) { return s[i].x, s[i].median }
func (s statsPoints) YError(i int) (low, high float64) {
	low = s[i].median - s[i].min
	high = s[i].max - s[i].median
	return low, high
}

// categoryTicks implements a categorical X-axis: 0,1,2,... => labels for depths.
type categoryTicks struct {
	positions []float64
	labels    []string
}

func (ct categoryTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for i, pos := range ct.positions {
		if pos >= min && pos <= max {
			ticks = append(ticks, plot.Tick{Value: pos, Label: ct.labels[i]})
		}
	}
	return ticks
}

// groupByWorkload maps workload -> implementation -> depth -> ns/op samples.
// Results with an unparsable elapsed time or no operations are skipped.
func groupByWorkload(sessions []FullReport) map[string]map[string]map[float64][]float64 {
	out := make(map[string]map[string]map[float64][]float64)
	for _, session := range sessions {
		for _, b := range session.Benchmarks {
			dur, err := time.ParseDuration(b.ActualElapsed)
			if err != nil || b.NumOps == 0 {
				continue
			}
			implMap, ok := out[b.Workload]
			if !ok {
				implMap = make(map[string]map[float64][]float64)
				out[b.Workload] = implMap
			}
			if _, ok := implMap[b.Implementation]; !ok {
				implMap[b.Implementation] = make(map[float64][]float64)
			}
			nsPerOp := float64(dur.Nanoseconds()) / float64(b.NumOps)
			x := float64(b.Depth)
			implMap[b.Implementation][x] = append(implMap[b.Implementation][x], nsPerOp)
		}
	}
	return out
}

// buildStats computes "average of bottom 5%", median, and "average of top 5%"
// per depth, ordered by depth.
func buildStats(depthMap map[float64][]float64) []depthStats {
	var out []depthStats
	for x, vals := range depthMap {
		if len(vals) == 0 {
			continue
		}
		sorted := append([]float64(nil), vals...)
		sort.Float64s(sorted)
		out = append(out, depthStats{
			x:      x,
			depth:  x,
			min:    averageOfRange(sorted, 0.0, 0.05),
			median: median(sorted),
			max:    averageOfRange(sorted, 0.95, 1.0),
		})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].depth < out[b].depth })
	return out
}

// averageOfRange returns the average of sortedVals in [startFrac, endFrac] of its length.
// E.g. averageOfRange(vals, 0, 0.05) is the average of the bottom 5%.
func averageOfRange(sortedVals []float64, startFrac, endFrac float64) float64 {
	n := len(sortedVals)
	if n == 0 {
		return 0
	}
	startIndex := int(float64(n) * startFrac)
	endIndex := int(float64(n) * endFrac)
	if startIndex < 0 {
		startIndex = 0
	}
	if endIndex > n {
		endIndex = n
	}
	if startIndex >= endIndex {
		// fallback to median if 5% slice is too small
		return median(sortedVals)
	}
	sum := 0.0
	for i := startIndex; i < endIndex; i++ {
		sum += sortedVals[i]
	}
	return sum / float64(endIndex-startIndex)
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	return 0.5 * (sorted[mid-1] + sorted[mid])
}

// formatNs nicely formats a nanoseconds value in ns, µs, ms, or s.
func formatNs(ns float64) string {
	switch {
	case ns < 1e3:
		return fmt.Sprintf("%.0fns", ns)
	case ns < 1e6:
		return fmt.Sprintf("%.1fµs", ns/1e3)
	case ns < 1e9:
		return fmt.Sprintf("%.1fms", ns/1e6)
	default:
		return fmt.Sprintf("%.2fs", ns/1e9)
	}
}
