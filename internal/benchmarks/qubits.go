package benchmarks

import (
	"taib-bench/internal/model"
	"taib-bench/internal/results"
)

var qubitCounts = []float64{2, 10, 50, 100, 1000}

// Qubits estimates coherence time as the register grows. No reference
// formula is known for it, so rows carry neither Ref nor Delta.
type Qubits struct{}

func (Qubits) ID() results.TestID { return results.TestQubits }

func (Qubits) Description() string { return "N-qubit scalability" }

func (Qubits) Incomplete() string {
	return "reference coherence formula is undefined; rows have no ref or delta"
}

func (Qubits) Run(m model.Model) []results.Row {
	rows := make([]results.Row, 0, len(qubitCounts))
	for _, n := range qubitCounts {
		f := n * m.A * m.Epsilon
		tCoh := 1.0 / (f*1e120 + 1e-12)

		rows = append(rows, results.Row{
			TestID: results.TestQubits,
			P1:     n,
			TAIB:   tCoh,
			Sigma:  m.Sigma(f),
		})
	}
	return rows
}
