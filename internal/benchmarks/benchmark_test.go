package benchmarks

import (
	"context"
	"errors"
	"math"
	"testing"

	"taib-bench/internal/model"
	"taib-bench/internal/plot"
	"taib-bench/internal/results"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowFor(t *testing.T, rows []results.Row, p1 float64) results.Row {
	t.Helper()
	for _, r := range rows {
		if r.P1 == p1 {
			return r
		}
	}
	t.Fatalf("no row with p1=%v", p1)
	return results.Row{}
}

func TestKerr_ImpactParameterFive(t *testing.T) {
	m := model.Default()
	rows := Kerr{}.Run(m)
	require.Len(t, rows, 5)

	row := rowFor(t, rows, 5)
	f := (1.0 / 25.0) * (1.0 - 0.9/5.0)
	assert.InEpsilon(t, 0.0328, f, 1e-12)

	ref, ok := results.Value(row.Ref)
	require.True(t, ok)
	assert.Equal(t, 0.8, ref)

	wantTAIB := (4.0 / 5.0) * (m.Latency(f) / 1.0)
	assert.InEpsilon(t, wantTAIB, row.TAIB, 1e-9)

	delta, ok := results.Value(row.Delta)
	require.True(t, ok)
	assert.InEpsilon(t, math.Abs(row.TAIB-0.8)/0.8*100, delta, 1e-9)

	spin, ok := results.Value(row.P2)
	require.True(t, ok)
	assert.Equal(t, 0.9, spin)
	assert.InEpsilon(t, f/m.A, row.Sigma, 1e-12)
}

func TestKerr_RowsInSweepOrder(t *testing.T) {
	rows := Kerr{}.Run(model.Default())
	var bs []float64
	for _, r := range rows {
		assert.Equal(t, results.TestKerr, r.TestID)
		bs = append(bs, r.P1)
		d, ok := results.Value(r.Delta)
		require.True(t, ok)
		assert.GreaterOrEqual(t, d, 0.0)
	}
	assert.Equal(t, []float64{3, 5, 10, 20, 50}, bs)
}

func TestVoid_ConstantDrive(t *testing.T) {
	m := model.Default()
	rows := Void{}.Run(m)
	require.Len(t, rows, 5)

	lat := m.Latency(m.A * 0.1)
	for _, r := range rows {
		assert.Equal(t, lat, r.TAIB)
		assert.Equal(t, rows[0].TAIB, r.TAIB)
		assert.InEpsilon(t, 0.1, r.Sigma, 1e-12)
		assert.Nil(t, r.P2)
	}

	row := rowFor(t, rows, 30)
	ref, ok := results.Value(row.Ref)
	require.True(t, ok)
	assert.InEpsilon(t, -900e-6, ref, 1e-12)

	delta, ok := results.Value(row.Delta)
	require.True(t, ok)
	assert.InEpsilon(t, math.Abs((lat-900e-6)/900e-6)*100, delta, 1e-12)
}

func TestBell_FidelityDecay(t *testing.T) {
	m := model.Default()
	rows := Bell{}.Run(m)
	require.Len(t, rows, 6)

	prev := math.Inf(1)
	for _, r := range rows {
		assert.Greater(t, r.TAIB, 0.0)
		assert.LessOrEqual(t, r.TAIB, 1.0)
		assert.LessOrEqual(t, r.TAIB, prev)
		prev = r.TAIB

		assert.InEpsilon(t, math.Exp(-r.P1*(m.A*m.Epsilon)), r.TAIB, 1e-12)
		assert.Nil(t, r.Ref)
		delta, ok := results.Value(r.Delta)
		require.True(t, ok)
		assert.Equal(t, 0.0, delta)
	}
}

func TestBell_FidelityDecayWithStrongCoupling(t *testing.T) {
	// with a large enough epsilon the decay is visible
	m := model.Model{A: 1e-40, Epsilon: 1, Tau0: 1}
	rows := Bell{}.Run(m)
	assert.Less(t, rows[len(rows)-1].TAIB, rows[0].TAIB)
	for i := 1; i < len(rows); i++ {
		assert.LessOrEqual(t, rows[i].TAIB, rows[i-1].TAIB)
	}
}

func TestLogspace(t *testing.T) {
	want := []float64{1e10, 1e16, 1e22, 1e28, 1e34, 1e40}
	got := logspace(10, 40, 6)
	require.Len(t, got, len(want))
	for i := range want {
		assert.InEpsilon(t, want[i], got[i], 1e-12)
	}
	assert.Nil(t, logspace(0, 1, 0))
	assert.Equal(t, []float64{100}, logspace(2, 5, 1))
}

func TestShapiro_UnitDistance(t *testing.T) {
	m := model.Default()
	rows := Shapiro{}.Run(m)
	require.Len(t, rows, 4)

	row := rowFor(t, rows, 1)
	lat := m.Latency(1.0) - 1.0
	assert.Equal(t, lat, row.TAIB)

	delta, ok := results.Value(row.Delta)
	require.True(t, ok)
	assert.Equal(t, lat*100, delta)

	ref, ok := results.Value(row.Ref)
	require.True(t, ok)
	assert.Equal(t, 0.0, ref)
}

func TestQubits_NoReference(t *testing.T) {
	m := model.Default()
	rows := Qubits{}.Run(m)
	require.Len(t, rows, 5)
	for _, r := range rows {
		assert.Nil(t, r.Ref)
		assert.Nil(t, r.Delta)
		f := r.P1 * m.A * m.Epsilon
		assert.InEpsilon(t, 1.0/(f*1e120+1e-12), r.TAIB, 1e-12)
		assert.InEpsilon(t, r.P1*m.Epsilon, r.Sigma, 1e-9)
	}
	var b Benchmark = Qubits{}
	_, partial := b.(Incomplete)
	assert.True(t, partial)
}

func TestDefaultSelection_SkipsIncomplete(t *testing.T) {
	assert.Equal(t, []results.TestID{
		results.TestKerr, results.TestVoid, results.TestBell, results.TestShapiro,
	}, DefaultSelection())
	assert.Len(t, All(), 5)
}

func TestResolve(t *testing.T) {
	benches, err := Resolve([]string{"bell", "KERR", "qubits"})
	require.NoError(t, err)
	assert.Equal(t, "BELL,KERR,QUBITS", Names(benches))

	_, err = Resolve([]string{"kerr", "Kerr"})
	assert.Error(t, err)

	_, err = Resolve([]string{"lensing"})
	assert.Error(t, err)

	benches, err = Resolve(nil)
	require.NoError(t, err)
	assert.Equal(t, "KERR,VOID,BELL,SHAPIRO", Names(benches))
}

func TestRunner_TableOrdering(t *testing.T) {
	table := results.NewTable()
	runner := NewRunner(model.Default(), nil)
	require.NoError(t, runner.Run(context.Background(), table, Kerr{}, Void{}, Bell{}))

	rows := table.Rows()
	require.Len(t, rows, 16)
	for i, r := range rows {
		switch {
		case i < 5:
			assert.Equal(t, results.TestKerr, r.TestID, "row %d", i)
		case i < 10:
			assert.Equal(t, results.TestVoid, r.TestID, "row %d", i)
		default:
			assert.Equal(t, results.TestBell, r.TestID, "row %d", i)
		}
	}
}

func TestRunner_SweepsOnlyForCharters(t *testing.T) {
	var got []string
	handler := func(_ context.Context, b Benchmark, sweep plot.Sweep) error {
		got = append(got, sweep.Name)
		assert.Equal(t, string(b.ID()), sweep.Name)
		return nil
	}

	table := results.NewTable()
	runner := NewRunner(model.Default(), handler)
	require.NoError(t, runner.Run(context.Background(), table, All()...))

	assert.Equal(t, []string{"KERR", "BELL"}, got)
	assert.Equal(t, 5+5+6+4+5, table.Len())
}

func TestRunner_SweepErrorStops(t *testing.T) {
	boom := errors.New("boom")
	handler := func(context.Context, Benchmark, plot.Sweep) error { return boom }

	table := results.NewTable()
	err := NewRunner(model.Default(), handler).Run(context.Background(), table, Kerr{}, Void{})
	require.ErrorIs(t, err, boom)
	// KERR rows are recorded before the chart is drawn; VOID never ran
	assert.Equal(t, 5, table.Len())
}

func TestRunner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	table := results.NewTable()
	err := NewRunner(model.Default(), nil).Run(ctx, table, Kerr{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, table.Len())
}

func TestKerrSweep(t *testing.T) {
	k := Kerr{}
	sweep := k.Sweep(k.Run(model.Default()))
	assert.True(t, sweep.LogY)
	assert.False(t, sweep.LogX)
	require.Len(t, sweep.Series, 2)
	assert.Equal(t, "TAIB", sweep.Series[0].Name)
	assert.Equal(t, "GR reference", sweep.Series[1].Name)
	assert.Len(t, sweep.Series[1].Y, 5)
	assert.Equal(t, 4.0/3.0, sweep.Series[1].Y[0])
}

func TestBellSweep(t *testing.T) {
	b := Bell{}
	sweep := b.Sweep(b.Run(model.Default()))
	assert.True(t, sweep.LogX)
	require.Len(t, sweep.Series, 1)
	assert.Len(t, sweep.Series[0].X, 6)
	assert.Equal(t, "Distance (Lp)", sweep.XLabel)
}
