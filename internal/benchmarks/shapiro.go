package benchmarks

import (
	"taib-bench/internal/model"
	"taib-bench/internal/results"
)

var shapiroDistances = []float64{1, 2, 5, 10}

// Shapiro is a delay analogue: the excess latency over tau_0. The reference
// is exactly zero, so the deviation is taken relative to tau_0 instead.
type Shapiro struct{}

func (Shapiro) ID() results.TestID { return results.TestShapiro }

func (Shapiro) Description() string { return "Shapiro delay analogue" }

func (Shapiro) Run(m model.Model) []results.Row {
	rows := make([]results.Row, 0, len(shapiroDistances))
	for _, d := range shapiroDistances {
		f := 1.0 / (d * d)
		lat := m.Latency(f) - m.Tau0
		delta := (lat / m.Tau0) * 100.0

		rows = append(rows, results.Row{
			TestID: results.TestShapiro,
			P1:     d,
			Ref:    results.Float(0.0),
			TAIB:   lat,
			Delta:  results.Float(delta),
			Sigma:  m.Sigma(f),
		})
	}
	return rows
}
