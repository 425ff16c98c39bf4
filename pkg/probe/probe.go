// Package probe holds the one_million formatting case: 1,000,000 rendered
// with English thousands grouping.
package probe

import (
	"context"

	"github.com/meftunca/numbench/pkg/numfmt"
	"github.com/meftunca/numbench/pkg/perf"
)

const (
	// OneMillionValue is the formatted operand.
	OneMillionValue = 1_000_000

	// Name is the case name reported by the runner.
	Name = "one_million"
	// Stmt is the call being timed.
	Stmt = "probe.OneMillion()"
	// Setup brings Stmt into scope.
	Setup = `import "github.com/meftunca/numbench/pkg/probe"`
	// InnerLoops is how many calls make up one timed iteration.
	InnerLoops = 10
)

// sink keeps the compiler from discarding the formatting call.
var sink string

// OneMillion formats OneMillionValue and throws the result away.
func OneMillion() {
	sink = Format()
}

// Format returns what OneMillion computes: "1,000,000".
func Format() string {
	return numfmt.FormatInt(OneMillionValue, numfmt.English)
}

// Registrar accepts timing cases; *perf.Runner implements it.
type Registrar interface {
	Timeit(name, stmt, setup string, fn func(), innerLoops int) error
}

// Register adds the one_million case to r.
func Register(r Registrar) error {
	return r.Timeit(Name, Stmt, Setup, OneMillion, InnerLoops)
}

// Main registers the case with runner and times it.
func Main(ctx context.Context, runner *perf.Runner) ([]perf.Result, error) {
	if err := Register(runner); err != nil {
		return nil, err
	}
	return runner.Run(ctx)
}
