package benchmarks

import (
	"math"

	"taib-bench/internal/model"
	"taib-bench/internal/results"
)

var voidRadii = []float64{10, 20, 30, 40, 50}

// Void measures the model's response inside a cosmic void. The driving
// quantity does not depend on the radius; only the reference does.
type Void struct{}

func (Void) ID() results.TestID { return results.TestVoid }

func (Void) Description() string { return "Cosmic void response" }

func (Void) Run(m model.Model) []results.Row {
	rows := make([]results.Row, 0, len(voidRadii))
	for _, r := range voidRadii {
		f := m.A * 0.1
		lat := m.Latency(f)
		ref := -(r * r) * 1e-6
		delta := math.Abs((lat-math.Abs(ref))/math.Abs(ref)) * 100.0

		rows = append(rows, results.Row{
			TestID: results.TestVoid,
			P1:     r,
			Ref:    results.Float(ref),
			TAIB:   lat,
			Delta:  results.Float(delta),
			Sigma:  m.Sigma(f),
		})
	}
	return rows
}
