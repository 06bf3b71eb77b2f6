package benchmarks

import (
	"math"

	"taib-bench/internal/model"
	"taib-bench/internal/plot"
	"taib-bench/internal/plot/mappings"
	"taib-bench/internal/results"
)

// Impact parameters in Schwarzschild radii.
var kerrImpactParameters = []float64{3.0, 5.0, 10.0, 20.0, 50.0}

const kerrSpin = 0.9

// Kerr compares light deflection by a spinning mass against the weak-field
// GR value 4/b.
type Kerr struct{}

func (Kerr) ID() results.TestID { return results.TestKerr }

func (Kerr) Description() string { return "Kerr deflection benchmark" }

func (Kerr) Run(m model.Model) []results.Row {
	rows := make([]results.Row, 0, len(kerrImpactParameters))
	for _, b := range kerrImpactParameters {
		f := (1.0 / (b * b)) * (1.0 - kerrSpin/b)
		lat := m.Latency(f)

		taibDefl := (4.0 / b) * (lat / m.Tau0)
		refDefl := 4.0 / b
		delta := math.Abs((taibDefl-refDefl)/refDefl) * 100.0

		rows = append(rows, results.Row{
			TestID: results.TestKerr,
			P1:     b,
			P2:     results.Float(kerrSpin),
			Ref:    results.Float(refDefl),
			TAIB:   taibDefl,
			Delta:  results.Float(delta),
			Sigma:  m.Sigma(f),
		})
	}
	return rows
}

func (Kerr) Sweep(rows []results.Row) plot.Sweep {
	taib := plot.Series{Name: "TAIB", Style: mappings.GetSeriesStyle(0)}
	ref := plot.Series{Name: "GR reference", Style: mappings.ReferenceStyle}
	for _, row := range rows {
		taib.X = append(taib.X, row.P1)
		taib.Y = append(taib.Y, row.TAIB)
		if v, ok := results.Value(row.Ref); ok {
			ref.X = append(ref.X, row.P1)
			ref.Y = append(ref.Y, v)
		}
	}
	return plot.Sweep{
		Name:   string(results.TestKerr),
		Title:  "Kerr deflection benchmark",
		XLabel: "Impact parameter b (Rs)",
		YLabel: "Deflection (rad)",
		LogY:   true,
		Series: []plot.Series{taib, ref},
	}
}
