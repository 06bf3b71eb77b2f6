// Package model holds the TAIB latency formula and its constants.
package model

import (
	"fmt"
	"math"
)

// Reference constants of the latency formula.
const (
	DefaultA       = 2.9e-122
	DefaultEpsilon = 4.28
	DefaultTau0    = 1.0
)

// Model is the TAIB latency model. It is a value type: once built at startup
// the constants never change.
type Model struct {
	A       float64 `json:"a" yaml:"a"`
	Epsilon float64 `json:"epsilon" yaml:"epsilon"`
	Tau0    float64 `json:"tau_0" yaml:"tau_0"`
}

func Default() Model {
	return Model{A: DefaultA, Epsilon: DefaultEpsilon, Tau0: DefaultTau0}
}

// New validates the constants and returns a model built from them.
func New(a, epsilon, tau0 float64) (Model, error) {
	m := Model{A: a, Epsilon: epsilon, Tau0: tau0}
	if err := m.Validate(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m Model) Validate() error {
	for _, c := range []struct {
		name  string
		value float64
	}{
		{"a", m.A},
		{"epsilon", m.Epsilon},
		{"tau_0", m.Tau0},
	} {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) || c.value <= 0 {
			return fmt.Errorf("model constant %s must be positive and finite, got %v", c.name, c.value)
		}
	}
	return nil
}

// Latency returns tau_0 * (1 + ln(1 + fLoc/a) / epsilon).
//
// fLoc must be non-negative; anything else is a caller bug and panics.
// Overflow is not guarded: an infinite fLoc yields an infinite latency.
func (m Model) Latency(fLoc float64) float64 {
	if fLoc < 0 || math.IsNaN(fLoc) {
		panic(fmt.Sprintf("model: latency of negative local frequency %v", fLoc))
	}
	return m.Tau0 * (1.0 + (1.0/m.Epsilon)*math.Log1p(fLoc/m.A))
}

// Sigma normalises a driving quantity by the baseline constant a.
func (m Model) Sigma(f float64) float64 {
	return f / m.A
}
