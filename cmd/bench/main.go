package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/i5heu/GoLinkedQueue/internal/queue"
	"github.com/i5heu/GoLinkedQueue/internal/testbench"
	"github.com/i5heu/GoLinkedQueue/pkg/arenaqueue"
	"github.com/i5heu/GoLinkedQueue/pkg/config"
	"github.com/i5heu/GoLinkedQueue/pkg/linkedqueue"
)

var logger = log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))

// BenchmarkResult holds results for one test run.
type BenchmarkResult struct {
	Implementation string  `json:"implementation"`
	Workload       string  `json:"workload"`
	Depth          int     `json:"depth"`
	NumOps         int64   `json:"num_ops"`
	TestDuration   string  `json:"test_duration"`  // e.g. "1s"
	ActualElapsed  string  `json:"actual_elapsed"` // measured time
	Throughput     float64 `json:"throughput_ops_sec"`
	Timestamp      int64   `json:"timestamp"`
	GoVersion      string  `json:"go_version"`
}

// SystemInfo holds system information.
type SystemInfo struct {
	NumCPU      int     `json:"num_cpu"`
	CPUModel    string  `json:"cpu_model,omitempty"`
	CPUSpeedMHz float64 `json:"cpu_speed_mhz,omitempty"`
	GOARCH      string  `json:"go_arch"`
	TotalMemory uint64  `json:"total_memory_bytes,omitempty"`
}

// FullReport represents a complete test session.
type FullReport struct {
	SessionTime string            `json:"session_time"`
	SystemInfo  SystemInfo        `json:"system_info"`
	Benchmarks  []BenchmarkResult `json:"benchmarks"`
}

// Implementation represents a queue implementation.
type Implementation struct {
	name        string
	description string
	pkgName     string
	authors     []string
	features    []string
	newQueue    func(sizeHint int) queue.Interface
}

// loadSessions reads previously exported sessions. A missing file yields no sessions.
func loadSessions(filename string) ([]FullReport, error) {
	data, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", filename)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var sessions []FullReport
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, errors.Wrapf(err, "unmarshalling %s", filename)
	}
	return sessions, nil
}

// saveSessions appends sessions to the ones already stored in filename.
func saveSessions(filename string, sessions []FullReport) error {
	previous, err := loadSessions(filename)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(append(previous, sessions...), "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshalling sessions")
	}
	return errors.Wrapf(os.WriteFile(filename, data, 0644), "writing %s", filename)
}

// outputMarkdownTable loads the JSON file and prints a Markdown table of its last session.
func outputMarkdownTable(jsonFile string) error {
	sessions, err := loadSessions(jsonFile)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		return errors.Errorf("no sessions found in %s", jsonFile)
	}
	fmt.Print(markdownTable(sessions[len(sessions)-1]))
	return nil
}

// markdownTable renders one session sorted by throughput, fastest first.
func markdownTable(session FullReport) string {
	implMetaMap := make(map[string]Implementation)
	for _, impl := range getImplementations() {
		implMetaMap[impl.name] = impl
	}

	rows := append([]BenchmarkResult(nil), session.Benchmarks...)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Throughput > rows[j].Throughput
	})

	var sb strings.Builder
	sb.WriteString("## Last Session Benchmark Summary\n\n")
	sb.WriteString("| Implementation       | Package      | Features                 | Workload | Depth  | Throughput (ops/sec) |\n")
	sb.WriteString("|----------------------|--------------|--------------------------|----------|--------|----------------------|\n")
	for _, r := range rows {
		meta := implMetaMap[r.Implementation]
		fmt.Fprintf(&sb, "| %-20s | %-12s | %-24s | %-8s | %6d | %20.0f |\n",
			r.Implementation, meta.pkgName, strings.Join(meta.features, ", "), r.Workload, r.Depth, r.Throughput)
	}
	return sb.String()
}

// parseDepths parses a comma separated list of positive queue depths.
func parseDepths(s string) ([]int, error) {
	var depths []int
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		d, err := strconv.Atoi(f)
		if err != nil {
			return nil, errors.Wrapf(err, "depth %q", f)
		}
		if d < 1 {
			return nil, errors.Errorf("depth %d must be at least 1", d)
		}
		depths = append(depths, d)
	}
	if len(depths) == 0 {
		return nil, errors.New("no depths given")
	}
	return depths, nil
}

func main() {
	// Flags.
	testIterations := flag.Int("iter", 3, "Number of test iterations per configuration")
	testDuration := flag.Duration("duration", time.Second, "Duration of each timed run")
	depthsFlag := flag.String("depths", "1,16,256,4096", "Comma separated queue depths to test")
	jsonExport := flag.Bool("json", false, "Export results as JSON to -jsonfile")
	markdown := flag.Bool("markdown-table", false, "Output markdown table from -jsonfile and exit")
	jsonFile := flag.String("jsonfile", "test-results.json", "Path to JSON results file")
	progressFlag := flag.Bool("progress", false, "Display a progress bar with ETA")
	flag.Parse()

	if *markdown {
		if err := outputMarkdownTable(*jsonFile); err != nil {
			level.Error(logger).Log("msg", "can not render markdown table", "err", err)
			os.Exit(1)
		}
		return
	}

	depths, err := parseDepths(*depthsFlag)
	if err != nil {
		level.Error(logger).Log("msg", "invalid -depths", "err", err)
		os.Exit(1)
	}

	var configs []config.Config
	for _, w := range testbench.Workloads {
		for _, d := range depths {
			configs = append(configs, config.Config{Depth: d, Workload: w})
		}
	}

	impls := getImplementations()
	totalTests := len(configs) * (*testIterations) * len(impls)

	var bar *progressbar.ProgressBar
	if *progressFlag {
		bar = progressbar.NewOptions(totalTests,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Progress"),
			progressbar.OptionSetWidth(20),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionClearOnFinish(),
		)
	}

	sysInfo := gatherSystemInfo()
	level.Info(logger).Log("msg", "starting benchmark", "tests", totalTests, "cpu", sysInfo.CPUModel, "duration", *testDuration)

	var results []BenchmarkResult
	for _, cfg := range configs {
		fmt.Printf("  [Workload: %s, depth=%d]\n", cfg.Workload, cfg.Depth)
		for iteration := 1; iteration <= *testIterations; iteration++ {
			fmt.Printf("    iteration %d/%d\n", iteration, *testIterations)
			for _, impl := range impls {
				runtime.GC()
				q := impl.newQueue(cfg.Depth)

				res, err := testbench.RunTimedTest(q, cfg, *testDuration, func(i int) int { return i })
				if err != nil {
					level.Error(logger).Log("msg", "queue failed integrity check", "impl", impl.name, "workload", cfg.Workload, "depth", cfg.Depth, "err", err)
					os.Exit(1)
				}

				fmt.Printf("    %s => ops=%d, throughput=%.0f ops/s, took=%v\n",
					impl.name, res.Ops, res.Throughput(), res.Elapsed)
				if bar != nil {
					_ = bar.Add(1)
				}

				results = append(results, BenchmarkResult{
					Implementation: impl.name,
					Workload:       string(cfg.Workload),
					Depth:          cfg.Depth,
					NumOps:         res.Ops,
					TestDuration:   testDuration.String(),
					ActualElapsed:  res.Elapsed.String(),
					Throughput:     res.Throughput(),
					Timestamp:      time.Now().Unix(),
					GoVersion:      runtime.Version(),
				})
			}
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	session := FullReport{
		SessionTime: time.Now().Format(time.RFC3339),
		SystemInfo:  sysInfo,
		Benchmarks:  results,
	}
	fmt.Println()
	fmt.Print(markdownTable(session))

	if *jsonExport {
		if err := saveSessions(*jsonFile, []FullReport{session}); err != nil {
			level.Error(logger).Log("msg", "can not export results", "err", err)
			os.Exit(1)
		}
		level.Info(logger).Log("msg", "wrote results", "file", *jsonFile)
	}
}

// gatherSystemInfo collects basic CPU and memory details.
func gatherSystemInfo() SystemInfo {
	var cpuModel string
	var cpuSpeed float64
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		cpuModel = infos[0].ModelName
		cpuSpeed = infos[0].Mhz
	} else if err != nil {
		level.Warn(logger).Log("msg", "can not read cpu info", "err", err)
	}

	var totalMemory uint64
	if vm, err := mem.VirtualMemory(); err == nil {
		totalMemory = vm.Total
	} else {
		level.Warn(logger).Log("msg", "can not read memory info", "err", err)
	}

	return SystemInfo{
		NumCPU:      runtime.NumCPU(),
		CPUModel:    cpuModel,
		CPUSpeedMHz: cpuSpeed,
		GOARCH:      runtime.GOARCH,
		TotalMemory: totalMemory,
	}
}

// getImplementations enumerates our different queue implementations.
func getImplementations() []Implementation {
	return []Implementation{
		{
			name:        "LinkedQueue",
			pkgName:     "linkedqueue",
			description: "Singly-linked chain of heap nodes with a cached tail for O(1) append.",
			authors:     []string{"Mia Heidenstedt <heidenstedt.org>"},
			features:    []string{"FIFO", "PopBack", "Zero-Value"},
			newQueue: func(int) queue.Interface {
				return linkedqueue.New()
			},
		},
		{
			name:        "ArenaQueue",
			pkgName:     "arenaqueue",
			description: "Nodes stored in one slice and linked by index, popped cells recycled through a free list.",
			authors:     []string{"Mia Heidenstedt <heidenstedt.org>"},
			features:    []string{"FIFO", "Arena"},
			newQueue: func(sizeHint int) queue.Interface {
				return arenaqueue.New(sizeHint)
			},
		},
	}
}
