// Package results holds the append-only table of benchmark rows.
package results

import (
	"fmt"
	"iter"
	"strings"
)

type TestID string

const (
	TestKerr    TestID = "KERR"
	TestVoid    TestID = "VOID"
	TestBell    TestID = "BELL"
	TestShapiro TestID = "SHAPIRO"
	TestQubits  TestID = "QUBITS"
)

// TestIDs lists every benchmark tag in canonical order.
var TestIDs = []TestID{TestKerr, TestVoid, TestBell, TestShapiro, TestQubits}

func (id TestID) Valid() bool {
	switch id {
	case TestKerr, TestVoid, TestBell, TestShapiro, TestQubits:
		return true
	}
	return false
}

func (id TestID) String() string {
	return string(id)
}

// ParseTestID accepts a tag in any case.
func ParseTestID(s string) (TestID, error) {
	id := TestID(strings.ToUpper(strings.TrimSpace(s)))
	if !id.Valid() {
		return "", fmt.Errorf("unknown benchmark %q (expected one of %v)", s, TestIDs)
	}
	return id, nil
}

// Row is one sweep point. Optional slots are nil when a benchmark does not
// define them.
type Row struct {
	TestID TestID
	P1     float64
	P2     *float64
	Ref    *float64
	TAIB   float64
	Delta  *float64
	Sigma  float64
	Aux1   *float64
	Aux2   *float64
}

// Float returns a pointer to a copy of v, for filling optional row slots.
func Float(v float64) *float64 {
	return &v
}

// Value dereferences an optional slot; ok is false when it is unset.
func Value(p *float64) (v float64, ok bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

// clone deep-copies the optional slots so stored rows never alias caller memory.
func (r Row) clone() Row {
	cp := r
	cp.P2 = copyFloat(r.P2)
	cp.Ref = copyFloat(r.Ref)
	cp.Delta = copyFloat(r.Delta)
	cp.Aux1 = copyFloat(r.Aux1)
	cp.Aux2 = copyFloat(r.Aux2)
	return cp
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Table is an ordered, append-only collection of rows. Insertion order is
// execution order. It is owned by a single caller and is not safe for
// concurrent use.
type Table struct {
	rows []Row
}

func NewTable() *Table {
	return &Table{}
}

// Record appends one row. An invalid test id is a programming error and panics.
func (t *Table) Record(row Row) {
	if !row.TestID.Valid() {
		panic(fmt.Sprintf("results: record with invalid test id %q", row.TestID))
	}
	t.rows = append(t.rows, row.clone())
}

func (t *Table) Append(rows ...Row) {
	for _, r := range rows {
		t.Record(r)
	}
}

func (t *Table) Len() int {
	return len(t.rows)
}

// All yields rows in insertion order. The sequence may be ranged over any
// number of times; rows recorded between iterations are included.
func (t *Table) All() iter.Seq[Row] {
	return func(yield func(Row) bool) {
		for i := 0; i < len(t.rows); i++ {
			if !yield(t.rows[i].clone()) {
				return
			}
		}
	}
}

// Rows returns a copy of every row.
func (t *Table) Rows() []Row {
	out := make([]Row, 0, len(t.rows))
	for r := range t.All() {
		out = append(out, r)
	}
	return out
}

// Filter returns the rows produced by one benchmark, in insertion order.
func (t *Table) Filter(id TestID) []Row {
	var out []Row
	for r := range t.All() {
		if r.TestID == id {
			out = append(out, r)
		}
	}
	return out
}

// CountByTest returns the number of rows per benchmark.
func (t *Table) CountByTest() map[TestID]int {
	counts := make(map[TestID]int)
	for _, r := range t.rows {
		counts[r.TestID]++
	}
	return counts
}
