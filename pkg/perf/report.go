package perf

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/google/uuid"

	numbenchjson "github.com/meftunca/numbench/pkg/json"
	"github.com/meftunca/numbench/pkg/version"
)

var timingUnits = []struct {
	scale float64
	name  string
}{
	{1, "ns"},
	{1e3, "us"},
	{1e6, "ms"},
	{1e9, "sec"},
}

// FormatTiming renders a duration given in nanoseconds as ns, us, ms or sec,
// e.g. "41.3 ns" or "1.25 us". Unit and precision follow the rounded value,
// so 999.6 ns prints as "1.00 us", not "1000 ns".
func FormatTiming(ns float64) string {
	i := 0
	for i < len(timingUnits)-1 && ns >= timingUnits[i+1].scale {
		i++
	}
	for {
		v := ns / timingUnits[i].scale
		prec := timingPrecision(v)
		s := strconv.FormatFloat(v, 'f', prec, 64)
		// Rounding up can cross into fewer decimals: 9.996 -> 10.0.
		for {
			r, _ := strconv.ParseFloat(s, 64)
			p := timingPrecision(r)
			if p >= prec {
				break
			}
			prec = p
			s = strconv.FormatFloat(v, 'f', prec, 64)
		}
		if r, _ := strconv.ParseFloat(s, 64); r >= 1000 && i < len(timingUnits)-1 {
			i++
			continue
		}
		return s + " " + timingUnits[i].name
	}
}

func timingPrecision(v float64) int {
	switch {
	case v >= 100:
		return 0
	case v >= 10:
		return 1
	}
	return 2
}

// Summary is the one-line report for a result:
//
//	one_million: Mean +- std dev: 41.3 ns +- 0.80 ns
func Summary(r Result) string {
	return fmt.Sprintf("%s: Mean +- std dev: %s +- %s", r.Name, FormatTiming(r.Mean), FormatTiming(r.StdDev))
}

// WriteSummaries writes one Summary line per result.
func WriteSummaries(w io.Writer, results []Result) error {
	for _, r := range results {
		if _, err := fmt.Fprintln(w, Summary(r)); err != nil {
			return err
		}
	}
	return nil
}

// Suite is the content of a result file.
type Suite struct {
	RunID     string    `json:"run_id"`
	Version   string    `json:"version"`
	GoVersion string    `json:"go_version"`
	StartedAt time.Time `json:"started_at"`
	Results   []Result  `json:"results"`
}

func NewSuite(startedAt time.Time, results []Result) *Suite {
	return &Suite{
		RunID:     uuid.NewString(),
		Version:   version.Version,
		GoVersion: runtime.Version(),
		StartedAt: startedAt.UTC(),
		Results:   results,
	}
}

// WriteSuite writes s to path with the configured JSON encoder.
func WriteSuite(path string, s *Suite) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create result file: %w", err)
	}
	if err := numbenchjson.NewEncoder(f).Encode(s); err != nil {
		f.Close()
		return fmt.Errorf("encode results: %w", err)
	}
	return f.Close()
}

// ReadSuite loads a result file written by WriteSuite.
func ReadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read result file: %w", err)
	}
	var s Suite
	if err := numbenchjson.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}
	return &s, nil
}
