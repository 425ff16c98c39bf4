// Package perf times registered cases with the testing package's benchmark
// driver, outside of "go test".
package perf

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/aclements/go-moremath/stats"

	"github.com/meftunca/numbench/pkg/config"
	"github.com/meftunca/numbench/pkg/numfmt"
)

var (
	// ErrInvalidCase is returned by Timeit for an empty name, a nil function
	// or fewer than one inner loop.
	ErrInvalidCase = errors.New("perf: invalid case")
	// ErrDuplicateCase is returned by Timeit when the name is already taken.
	ErrDuplicateCase = errors.New("perf: duplicate case")
	// ErrNoCases is returned by Run when nothing is registered.
	ErrNoCases = errors.New("perf: no cases registered")
	// ErrBenchmarkFailed is returned by Run when a sample completes no
	// iterations, which is how testing.Benchmark reports a failed body.
	ErrBenchmarkFailed = errors.New("perf: benchmark failed")
)

// Case is one registered timing case. Stmt and Setup describe Func for
// reports; Func is what runs.
type Case struct {
	Name       string `json:"name"`
	Stmt       string `json:"stmt"`
	Setup      string `json:"setup"`
	InnerLoops int    `json:"inner_loops"`
	Func       func() `json:"-"`
}

// Result holds the measured samples of one case. Timings are nanoseconds per
// call of the case function, i.e. already divided by InnerLoops.
type Result struct {
	Name          string    `json:"name"`
	Stmt          string    `json:"stmt"`
	Setup         string    `json:"setup"`
	InnerLoops    int       `json:"inner_loops"`
	Samples       []float64 `json:"samples_ns"`
	Mean          float64   `json:"mean_ns"`
	StdDev        float64   `json:"stddev_ns"`
	Min           float64   `json:"min_ns"`
	Max           float64   `json:"max_ns"`
	Calls         uint64    `json:"calls"`
	AllocsPerCall float64   `json:"allocs_per_call"`
	BytesPerCall  float64   `json:"bytes_per_call"`
}

// Recorder receives every finished result.
type Recorder interface {
	RecordResult(Result)
}

// BenchmarkFunc runs one benchmark body; testing.Benchmark by default.
type BenchmarkFunc func(f func(b *testing.B)) testing.BenchmarkResult

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger for case progress. The default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// WithRecorder passes every finished result to rec.
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

// WithBenchmarkFunc replaces testing.Benchmark. RunnerConfig.MinTime is then
// left to f.
func WithBenchmarkFunc(f BenchmarkFunc) Option {
	return func(r *Runner) {
		r.bench = f
		r.customBench = true
	}
}

// Runner collects cases and times them one after another.
type Runner struct {
	cfg         config.RunnerConfig
	logger      *slog.Logger
	recorder    Recorder
	bench       BenchmarkFunc
	customBench bool

	mu    sync.Mutex
	cases []Case
	names map[string]struct{}
}

// NewRunner returns a Runner with no cases.
func NewRunner(cfg config.RunnerConfig, opts ...Option) *Runner {
	r := &Runner{
		cfg:    cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		bench:  testing.Benchmark,
		names:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Timeit registers fn under name. stmt is the call expression being timed
// and setup the statement that brings it into scope; both are kept for
// reports. Each timed iteration calls fn innerLoops times.
func (r *Runner) Timeit(name, stmt, setup string, fn func(), innerLoops int) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidCase)
	case fn == nil:
		return fmt.Errorf("%w: %s has no function", ErrInvalidCase, name)
	case innerLoops < 1:
		return fmt.Errorf("%w: %s inner loops must be at least 1, got %d", ErrInvalidCase, name, innerLoops)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.names[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateCase, name)
	}
	r.names[name] = struct{}{}
	r.cases = append(r.cases, Case{
		Name:       name,
		Stmt:       stmt,
		Setup:      setup,
		InnerLoops: innerLoops,
		Func:       fn,
	})
	r.logger.Debug("case registered", "case", name, "stmt", stmt, "inner_loops", innerLoops)
	return nil
}

// Cases returns the registered cases in registration order.
func (r *Runner) Cases() []Case {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Case(nil), r.cases...)
}

// Run times every registered case. Results of cases finished before an
// error are returned along with it.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	cases := r.Cases()
	if len(cases) == 0 {
		return nil, ErrNoCases
	}
	if r.cfg.Samples < 1 {
		return nil, fmt.Errorf("perf: samples must be at least 1, got %d", r.cfg.Samples)
	}
	if r.cfg.MinTime > 0 && !r.customBench {
		if err := setBenchTime(r.cfg.MinTime); err != nil {
			return nil, fmt.Errorf("set bench time: %w", err)
		}
	}

	results := make([]Result, 0, len(cases))
	for _, c := range cases {
		res, err := r.runCase(ctx, c)
		if err != nil {
			return results, err
		}
		if r.recorder != nil {
			r.recorder.RecordResult(res)
		}
		results = append(results, res)
	}
	return results, nil
}

func (r *Runner) runCase(ctx context.Context, c Case) (Result, error) {
	start := time.Now()
	r.logger.Info("running case", "case", c.Name, "warmups", r.cfg.Warmups, "samples", r.cfg.Samples)

	fn, inner := c.Func, c.InnerLoops
	body := func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			for j := 0; j < inner; j++ {
				fn()
			}
		}
	}

	res := Result{
		Name:       c.Name,
		Stmt:       c.Stmt,
		Setup:      c.Setup,
		InnerLoops: c.InnerLoops,
		Samples:    make([]float64, 0, r.cfg.Samples),
	}
	var allocs, bytes float64
	for i := 0; i < r.cfg.Warmups+r.cfg.Samples; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		br := r.bench(body)
		if br.N <= 0 {
			return Result{}, fmt.Errorf("%w: %s", ErrBenchmarkFailed, c.Name)
		}
		if i < r.cfg.Warmups {
			continue
		}

		calls := float64(br.N) * float64(inner)
		res.Samples = append(res.Samples, float64(br.T.Nanoseconds())/calls)
		res.Calls += uint64(br.N) * uint64(inner)
		allocs += float64(br.MemAllocs) / calls
		bytes += float64(br.MemBytes) / calls
	}

	n := float64(len(res.Samples))
	sample := stats.Sample{Xs: res.Samples}
	res.Mean = sample.Mean()
	if len(res.Samples) > 1 {
		res.StdDev = sample.StdDev()
	}
	if math.IsNaN(res.StdDev) {
		res.StdDev = 0
	}
	res.Min, res.Max = sample.Bounds()
	res.AllocsPerCall = allocs / n
	res.BytesPerCall = bytes / n

	r.logger.Info("case finished",
		"case", c.Name,
		"mean", FormatTiming(res.Mean),
		"stddev", FormatTiming(res.StdDev),
		"calls", numfmt.FormatUint(res.Calls, numfmt.English),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return res, nil
}

var initTesting sync.Once

// testing.Benchmark reads its duration from the -test.benchtime flag, which
// only exists once testing.Init has run.
func setBenchTime(d time.Duration) error {
	initTesting.Do(testing.Init)
	return flag.Set("test.benchtime", d.String())
}
