package perf

import (
	"bytes"
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meftunca/numbench/pkg/config"
)

// scriptedBench returns the given results in order and counts how often the
// body would have run.
type scriptedBench struct {
	results []testing.BenchmarkResult
	calls   int
}

func (s *scriptedBench) run(func(b *testing.B)) testing.BenchmarkResult {
	r := s.results[s.calls%len(s.results)]
	s.calls++
	return r
}

type collectingRecorder struct {
	results []Result
}

func (c *collectingRecorder) RecordResult(r Result) { c.results = append(c.results, r) }

func noop() {}

func TestTimeitValidation(t *testing.T) {
	r := NewRunner(config.RunnerConfig{Samples: 1})

	assert.ErrorIs(t, r.Timeit("", "f()", "", noop, 1), ErrInvalidCase)
	assert.ErrorIs(t, r.Timeit("nil", "f()", "", nil, 1), ErrInvalidCase)
	assert.ErrorIs(t, r.Timeit("zero", "f()", "", noop, 0), ErrInvalidCase)

	require.NoError(t, r.Timeit("ok", "f()", "import f", noop, 3))
	assert.ErrorIs(t, r.Timeit("ok", "g()", "", noop, 1), ErrDuplicateCase)

	cases := r.Cases()
	require.Len(t, cases, 1)
	assert.Equal(t, "ok", cases[0].Name)
	assert.Equal(t, "f()", cases[0].Stmt)
	assert.Equal(t, "import f", cases[0].Setup)
	assert.Equal(t, 3, cases[0].InnerLoops)
}

func TestTimeitConcurrent(t *testing.T) {
	r := NewRunner(config.RunnerConfig{Samples: 1})
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			assert.NoError(t, r.Timeit(name, name+"()", "", noop, 1))
		}(name)
	}
	wg.Wait()

	assert.Len(t, r.Cases(), len(names))
}

func TestRunNoCases(t *testing.T) {
	_, err := NewRunner(config.RunnerConfig{Samples: 1}).Run(context.Background())
	assert.ErrorIs(t, err, ErrNoCases)
}

func TestRunRequiresSamples(t *testing.T) {
	r := NewRunner(config.RunnerConfig{Samples: 0})
	require.NoError(t, r.Timeit("case", "case()", "", noop, 1))

	_, err := r.Run(context.Background())
	assert.Error(t, err)
}

func TestRunSamples(t *testing.T) {
	bench := &scriptedBench{results: []testing.BenchmarkResult{
		{N: 100, T: 100 * time.Microsecond, MemAllocs: 0, MemBytes: 0}, // warmup, discarded
		{N: 100, T: 40 * time.Microsecond, MemAllocs: 1000, MemBytes: 16000},
		{N: 100, T: 50 * time.Microsecond, MemAllocs: 1000, MemBytes: 16000},
		{N: 100, T: 60 * time.Microsecond, MemAllocs: 1000, MemBytes: 16000},
	}}
	rec := &collectingRecorder{}
	r := NewRunner(config.RunnerConfig{Warmups: 1, Samples: 3},
		WithBenchmarkFunc(bench.run),
		WithRecorder(rec),
	)
	require.NoError(t, r.Timeit("case", "case()", "", noop, 10))

	results, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, 4, bench.calls)
	assert.Equal(t, []float64{40, 50, 60}, res.Samples)
	assert.InDelta(t, 50, res.Mean, 1e-9)
	assert.InDelta(t, 10, res.StdDev, 1e-9)
	assert.Equal(t, 40.0, res.Min)
	assert.Equal(t, 60.0, res.Max)
	assert.Equal(t, uint64(3000), res.Calls)
	assert.InDelta(t, 1, res.AllocsPerCall, 1e-9)
	assert.InDelta(t, 16, res.BytesPerCall, 1e-9)

	require.Len(t, rec.results, 1)
	assert.Equal(t, res.Name, rec.results[0].Name)
}

func TestRunSingleSampleHasNoDeviation(t *testing.T) {
	bench := &scriptedBench{results: []testing.BenchmarkResult{{N: 10, T: time.Microsecond}}}
	r := NewRunner(config.RunnerConfig{Samples: 1}, WithBenchmarkFunc(bench.run))
	require.NoError(t, r.Timeit("single", "single()", "", noop, 1))

	results, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 100, results[0].Mean, 1e-9)
	assert.Equal(t, 0.0, results[0].StdDev)
}

func TestRunOrderAndPartialFailure(t *testing.T) {
	bench := &scriptedBench{results: []testing.BenchmarkResult{
		{N: 10, T: time.Microsecond},
		{},
	}}
	r := NewRunner(config.RunnerConfig{Samples: 1}, WithBenchmarkFunc(bench.run))
	require.NoError(t, r.Timeit("first", "first()", "", noop, 1))
	require.NoError(t, r.Timeit("second", "second()", "", noop, 1))

	results, err := r.Run(context.Background())
	assert.ErrorIs(t, err, ErrBenchmarkFailed)
	require.Len(t, results, 1)
	assert.Equal(t, "first", results[0].Name)
}

func TestRunCancelled(t *testing.T) {
	bench := &scriptedBench{results: []testing.BenchmarkResult{{N: 1, T: time.Nanosecond}}}
	r := NewRunner(config.RunnerConfig{Samples: 5}, WithBenchmarkFunc(bench.run))
	require.NoError(t, r.Timeit("case", "case()", "", noop, 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, bench.calls)
}

func TestRunCallsFunctionInnerLoopsTimes(t *testing.T) {
	var calls int
	r := NewRunner(config.RunnerConfig{Samples: 1}, WithBenchmarkFunc(
		func(f func(b *testing.B)) testing.BenchmarkResult {
			b := &testing.B{N: 4}
			f(b)
			return testing.BenchmarkResult{N: b.N, T: time.Microsecond}
		}))
	require.NoError(t, r.Timeit("count", "count()", "", func() { calls++ }, 10))

	_, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 40, calls)
}

func TestFormatTiming(t *testing.T) {
	tests := []struct {
		ns   float64
		want string
	}{
		{0, "0.00 ns"},
		{0.8, "0.80 ns"},
		{41.27, "41.3 ns"},
		{412.7, "413 ns"},
		{1250, "1.25 us"},
		{2_500_000, "2.50 ms"},
		{3e9, "3.00 sec"},
		{9.996, "10.0 ns"},
		{99.96, "100 ns"},
		{999.6, "1.00 us"},
		{999_999.7, "1.00 ms"},
		{999_999_999.7, "1.00 sec"},
		{2e12, "2000 sec"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTiming(tt.ns), "%v ns", tt.ns)
	}
}

func TestSummary(t *testing.T) {
	res := Result{Name: "one_million", Mean: 41.27, StdDev: 0.8}
	assert.Equal(t, "one_million: Mean +- std dev: 41.3 ns +- 0.80 ns", Summary(res))

	var buf bytes.Buffer
	require.NoError(t, WriteSummaries(&buf, []Result{res, {Name: "b", Mean: 1}}))
	assert.Equal(t, "one_million: Mean +- std dev: 41.3 ns +- 0.80 ns\nb: Mean +- std dev: 1.00 ns +- 0.00 ns\n", buf.String())
}

func TestSuiteRoundTrip(t *testing.T) {
	started := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	suite := NewSuite(started, []Result{{
		Name:       "one_million",
		Stmt:       "probe.OneMillion()",
		InnerLoops: 10,
		Samples:    []float64{40, 42},
		Mean:       41,
		StdDev:     1.4,
		Calls:      20,
	}})
	assert.NotEmpty(t, suite.RunID)
	assert.NotEmpty(t, suite.GoVersion)

	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, WriteSuite(path, suite))

	got, err := ReadSuite(path)
	require.NoError(t, err)
	assert.Equal(t, suite.RunID, got.RunID)
	assert.True(t, started.Equal(got.StartedAt))
	assert.Equal(t, suite.Results, got.Results)
}

func TestWriteSuiteBadPath(t *testing.T) {
	err := WriteSuite(filepath.Join(t.TempDir(), "missing", "results.json"), NewSuite(time.Now(), nil))
	assert.Error(t, err)
}
