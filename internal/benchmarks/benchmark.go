// Package benchmarks implements the TAIB benchmark routines. Each routine is a
// pure function of the latency model: it sweeps a fixed list of inputs and
// returns one row per input. Recording rows and drawing charts is the
// Runner's job.
package benchmarks

import (
	"context"
	"fmt"
	"math"
	"strings"

	"taib-bench/internal/logging"
	"taib-bench/internal/model"
	"taib-bench/internal/plot"
	"taib-bench/internal/results"

	"github.com/sirupsen/logrus"
)

type Benchmark interface {
	ID() results.TestID
	Description() string
	Run(m model.Model) []results.Row
}

// Charter is implemented by benchmarks whose sweep is worth plotting.
type Charter interface {
	Sweep(rows []results.Row) plot.Sweep
}

// Incomplete is implemented by benchmarks whose definition is known to be
// partial. The returned string says what is missing.
type Incomplete interface {
	Incomplete() string
}

var registry = map[results.TestID]Benchmark{
	results.TestKerr:    Kerr{},
	results.TestVoid:    Void{},
	results.TestBell:    Bell{},
	results.TestShapiro: Shapiro{},
	results.TestQubits:  Qubits{},
}

func Get(id results.TestID) (Benchmark, error) {
	b, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("no benchmark registered for %q", id)
	}
	return b, nil
}

// All returns every registered benchmark in canonical order.
func All() []Benchmark {
	out := make([]Benchmark, 0, len(results.TestIDs))
	for _, id := range results.TestIDs {
		out = append(out, registry[id])
	}
	return out
}

// DefaultSelection is the set run when nothing is selected explicitly.
// Incomplete benchmarks only run when asked for by name.
func DefaultSelection() []results.TestID {
	var ids []results.TestID
	for _, b := range All() {
		if _, partial := b.(Incomplete); partial {
			continue
		}
		ids = append(ids, b.ID())
	}
	return ids
}

// Resolve parses benchmark names, keeping their order and rejecting duplicates.
func Resolve(names []string) ([]Benchmark, error) {
	if len(names) == 0 {
		var out []Benchmark
		for _, id := range DefaultSelection() {
			out = append(out, registry[id])
		}
		return out, nil
	}

	seen := make(map[results.TestID]bool, len(names))
	out := make([]Benchmark, 0, len(names))
	for _, name := range names {
		id, err := results.ParseTestID(name)
		if err != nil {
			return nil, err
		}
		if seen[id] {
			return nil, fmt.Errorf("benchmark %s selected more than once", id)
		}
		seen[id] = true
		b, err := Get(id)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// SweepHandler receives the chart of a Charter right after its rows were recorded.
type SweepHandler func(ctx context.Context, b Benchmark, sweep plot.Sweep) error

type Runner struct {
	model   model.Model
	onSweep SweepHandler
	logger  *logrus.Logger
	bench   *logrus.Logger
}

func NewRunner(m model.Model, onSweep SweepHandler) *Runner {
	return &Runner{
		model:   m,
		onSweep: onSweep,
		logger:  logging.GetLogger(),
		bench:   logging.GetBenchLogger(),
	}
}

// Run executes the benchmarks one after another and appends their rows to
// table in execution order. Only the sweep handler can fail.
func (r *Runner) Run(ctx context.Context, table *results.Table, benches ...Benchmark) error {
	for _, b := range benches {
		if err := ctx.Err(); err != nil {
			return err
		}

		if partial, ok := b.(Incomplete); ok {
			r.logger.WithFields(logrus.Fields{
				"benchmark": b.ID(),
				"missing":   partial.Incomplete(),
			}).Warn("Running incomplete benchmark")
		}

		rows := b.Run(r.model)
		table.Append(rows...)

		for i, row := range rows {
			r.bench.WithFields(rowFields(i, row)).Debug("Recorded row")
		}
		r.logger.WithFields(summaryFields(b.ID(), rows)).Info("Benchmark complete")

		charter, ok := b.(Charter)
		if !ok || r.onSweep == nil {
			continue
		}
		if err := r.onSweep(ctx, b, charter.Sweep(rows)); err != nil {
			r.logger.WithField("benchmark", b.ID()).WithError(err).Error("Failed to present sweep")
			return fmt.Errorf("present %s sweep: %w", b.ID(), err)
		}
	}
	return nil
}

func rowFields(index int, row results.Row) logrus.Fields {
	fields := logrus.Fields{
		"test_id": row.TestID,
		"index":   index,
		"p1":      row.P1,
		"taib":    row.TAIB,
		"sigma":   row.Sigma,
	}
	if v, ok := results.Value(row.P2); ok {
		fields["p2"] = v
	}
	if v, ok := results.Value(row.Ref); ok {
		fields["ref"] = v
	}
	if v, ok := results.Value(row.Delta); ok {
		fields["delta"] = v
	}
	return fields
}

func summaryFields(id results.TestID, rows []results.Row) logrus.Fields {
	fields := logrus.Fields{
		"benchmark": id,
		"rows":      len(rows),
	}
	maxDelta := math.Inf(-1)
	for _, row := range rows {
		if v, ok := results.Value(row.Delta); ok && v > maxDelta {
			maxDelta = v
		}
	}
	if !math.IsInf(maxDelta, -1) {
		fields["max_delta_pct"] = maxDelta
	}
	return fields
}

// Names returns the ids of benches joined for log output.
func Names(benches []Benchmark) string {
	names := make([]string, 0, len(benches))
	for _, b := range benches {
		names = append(names, string(b.ID()))
	}
	return strings.Join(names, ",")
}
