package main

import (
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/i5heu/GoLinkedQueue/internal/queue"
	"github.com/i5heu/GoLinkedQueue/internal/testbench"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withAllQueues is a test helper that loops over all implementations
// and calls your test function for each one.
// NOTE: Feature filtering is done inside the subtest to avoid skipping at parent level.
func withAllQueues(t *testing.T, testedFeatures []string, fn func(t *testing.T, impl Implementation)) {
	t.Helper()
	for _, impl := range getImplementations() {
		impl := impl // capture range variable

		t.Run(impl.name, func(t *testing.T) {
			if impl.newQueue == nil {
				t.Skipf("Skipping stub implementation %q", impl.name)
				return
			}
			for _, feature := range testedFeatures {
				found := false
				for _, implFeature := range impl.features {
					if feature == implFeature {
						found = true
						break
					}
				}
				if !found {
					t.Skipf("Skipping: missing feature %q", feature)
					return
				}
			}
			t.Logf("Starting %s (impl: %q, features: %v)", t.Name(), impl.name, impl.features)
			fn(t, impl)
		})
	}
}

// getEnvInt reads an integer from an environment variable with a default value.
func getEnvInt(name string, defaultVal int) int {
	if v := os.Getenv(name); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return i
		}
	}
	return defaultVal
}

// Test size configuration via environment variables:
//
//	FIFO_TEST_SIZE - number of elements for ordering tests (default: 10000)
func getTestSize() int {
	return getEnvInt("FIFO_TEST_SIZE", 10000)
}

func TestFreshQueue(t *testing.T) {
	withAllQueues(t, nil, func(t *testing.T, impl Implementation) {
		q := impl.newQueue(0)
		assert.Equal(t, 0, q.Size())
		assert.Equal(t, "[NULL]", q.String())
		_, err := q.Peek()
		assert.ErrorIs(t, err, queue.ErrEmpty)
		_, err = q.Pop()
		assert.ErrorIs(t, err, queue.ErrEmpty)
	})
}

func TestSizeAfterAppends(t *testing.T) {
	withAllQueues(t, nil, func(t *testing.T, impl Implementation) {
		q := impl.newQueue(0)
		n := getTestSize()
		for i := 0; i < n; i++ {
			q.Append(rand.Int())
		}
		assert.Equal(t, n, q.Size())
	})
}

func TestStrictFIFOOrdering(t *testing.T) {
	withAllQueues(t, []string{"FIFO"}, func(t *testing.T, impl Implementation) {
		q := impl.newQueue(0)
		n := getTestSize()
		values := make([]int, n)
		for i := range values {
			values[i] = rand.Int()
			q.Append(values[i])
		}
		for i, want := range values {
			got, err := q.Pop()
			require.NoError(t, err)
			if got != want {
				t.Fatalf("FIFO violation at %d: expected %d, got %d", i, want, got)
			}
			require.Equal(t, n-i-1, q.Size())
		}
		_, err := q.Peek()
		assert.ErrorIs(t, err, queue.ErrEmpty)
	})
}

func TestPeekIsStable(t *testing.T) {
	withAllQueues(t, nil, func(t *testing.T, impl Implementation) {
		q := impl.newQueue(0)
		q.Append(5)
		q.Append(6)
		for i := 0; i < 10; i++ {
			v, err := q.Peek()
			require.NoError(t, err)
			assert.Equal(t, 5, v)
		}
		assert.Equal(t, 2, q.Size())
	})
}

func TestContainsTracksQueuedValues(t *testing.T) {
	withAllQueues(t, nil, func(t *testing.T, impl Implementation) {
		q := impl.newQueue(0)
		queued := map[int]bool{}
		for i := 0; i < 200; i++ {
			v := rand.Intn(50)
			q.Append(v)
			queued[v] = true
		}
		for v := -10; v < 60; v++ {
			assert.Equal(t, queued[v], q.Contains(v), "value %d", v)
		}
		q.Clear()
		for v := range queued {
			assert.False(t, q.Contains(v))
		}
	})
}

func TestClearIsIdempotent(t *testing.T) {
	withAllQueues(t, nil, func(t *testing.T, impl Implementation) {
		q := impl.newQueue(0)
		q.Clear()
		q.Clear()
		assert.Equal(t, 0, q.Size())

		q.Append(1)
		q.Clear()
		q.Clear()
		assert.Equal(t, 0, q.Size())
		assert.Equal(t, "[NULL]", q.String())
	})
}

func TestRepeatedFillAndDrain(t *testing.T) {
	withAllQueues(t, []string{"FIFO"}, func(t *testing.T, impl Implementation) {
		const size = 128
		const cycles = 100
		q := impl.newQueue(size)

		for cycle := 0; cycle < cycles; cycle++ {
			for i := 0; i < size; i++ {
				q.Append(cycle*size + i)
			}
			for i := 0; i < size; i++ {
				got, err := q.Pop()
				if err != nil {
					t.Fatalf("Cycle %d: failed to pop at position %d: %v", cycle, i, err)
				}
				if got != cycle*size+i {
					t.Fatalf("Cycle %d: FIFO violation at %d: expected %d, got %d", cycle, i, cycle*size+i, got)
				}
			}
			if q.Size() != 0 {
				t.Fatalf("Cycle %d: queue not empty after drain", cycle)
			}
		}
	})
}

func TestDemoRoundTrip(t *testing.T) {
	withAllQueues(t, nil, func(t *testing.T, impl Implementation) {
		q := impl.newQueue(0)
		q.Append(10)
		q.Append(20)
		q.Append(30)
		assert.Equal(t, "[10]->[20]->[30]->[NULL]", q.String())

		v, err := q.Pop()
		require.NoError(t, err)
		assert.Equal(t, 10, v)
		assert.Equal(t, "[20]->[30]->[NULL]", q.String())
		assert.Equal(t, []int{20, 30}, q.Values())

		q.Clear()
		assert.Equal(t, "[NULL]", q.String())
	})
}

func TestTimedRunAllImplementations(t *testing.T) {
	withAllQueues(t, nil, func(t *testing.T, impl Implementation) {
		for _, w := range testbench.Workloads {
			cfg := testbench.Config{Depth: 16, Workload: w}
			res, err := testbench.RunTimedTest(impl.newQueue(cfg.Depth), cfg, 10*time.Millisecond, func(i int) int { return i * 7 })
			require.NoError(t, err, "workload %s", w)
			assert.Positive(t, res.Ops)
		}
	})
}

func TestParseDepths(t *testing.T) {
	depths, err := parseDepths("1, 16,,256")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 16, 256}, depths)

	for _, bad := range []string{"", "x", "0", "4,-1"} {
		_, err := parseDepths(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestSessionsRoundTripAndMarkdown(t *testing.T) {
	file := filepath.Join(t.TempDir(), "results.json")

	sessions, err := loadSessions(file)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	first := FullReport{SessionTime: "a", Benchmarks: []BenchmarkResult{
		{Implementation: "LinkedQueue", Workload: "steady", Depth: 1, Throughput: 10},
	}}
	second := FullReport{SessionTime: "b", Benchmarks: []BenchmarkResult{
		{Implementation: "LinkedQueue", Workload: "steady", Depth: 1, Throughput: 10},
		{Implementation: "ArenaQueue", Workload: "steady", Depth: 1, Throughput: 20},
	}}
	require.NoError(t, saveSessions(file, []FullReport{first}))
	require.NoError(t, saveSessions(file, []FullReport{second}))

	sessions, err = loadSessions(file)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "b", sessions[1].SessionTime)

	table := markdownTable(sessions[1])
	assert.Contains(t, table, "| ArenaQueue")
	assert.Less(t, strings.Index(table, "ArenaQueue"), strings.Index(table, "LinkedQueue"), "rows sorted by throughput")

	require.NoError(t, os.WriteFile(file, []byte("{"), 0644))
	_, err = loadSessions(file)
	assert.ErrorContains(t, err, "unmarshalling")
}
