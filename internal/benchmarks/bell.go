package benchmarks

import (
	"math"

	"taib-bench/internal/model"
	"taib-bench/internal/plot"
	"taib-bench/internal/plot/mappings"
	"taib-bench/internal/results"
)

// Distances in Planck lengths: six points evenly spaced in log10 from 1e10 to 1e40.
var bellDistances = logspace(10, 40, 6)

// Bell tracks entanglement fidelity decay with distance. There is no
// reference curve, so the deviation is fixed at zero.
type Bell struct{}

func (Bell) ID() results.TestID { return results.TestBell }

func (Bell) Description() string { return "Entanglement coherence limit" }

func (Bell) Run(m model.Model) []results.Row {
	rows := make([]results.Row, 0, len(bellDistances))
	for _, d := range bellDistances {
		lat := (d / m.Tau0) * (m.A * m.Epsilon)
		fid := math.Exp(-lat)

		rows = append(rows, results.Row{
			TestID: results.TestBell,
			P1:     d,
			TAIB:   fid,
			Delta:  results.Float(0.0),
			Sigma:  lat / m.A,
		})
	}
	return rows
}

func (Bell) Sweep(rows []results.Row) plot.Sweep {
	fid := plot.Series{Name: "TAIB", Style: mappings.GetSeriesStyle(0)}
	for _, row := range rows {
		fid.X = append(fid.X, row.P1)
		fid.Y = append(fid.Y, row.TAIB)
	}
	return plot.Sweep{
		Name:   string(results.TestBell),
		Title:  "Entanglement coherence limit",
		XLabel: "Distance (Lp)",
		YLabel: "Fidelity",
		LogX:   true,
		Series: []plot.Series{fid},
	}
}

// logspace returns num points 10^x with x evenly spaced over [start, stop].
func logspace(start, stop float64, num int) []float64 {
	if num <= 0 {
		return nil
	}
	if num == 1 {
		return []float64{math.Pow(10, start)}
	}
	out := make([]float64, num)
	step := (stop - start) / float64(num-1)
	for i := range out {
		exp := start + float64(i)*step
		if i == num-1 {
			exp = stop
		}
		out[i] = math.Pow(10, exp)
	}
	return out
}
