package plot

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"taib-bench/internal/logging"
	"taib-bench/internal/model"
	"taib-bench/internal/plot/mappings"
)

func kerrLikeSweep() Sweep {
	return Sweep{
		Name:   "KERR",
		Title:  "Kerr deflection benchmark",
		XLabel: "Impact parameter b (Rs)",
		YLabel: "Deflection (rad)",
		LogY:   true,
		Series: []Series{
			{Name: "TAIB", X: []float64{3, 5, 10}, Y: []float64{87.8, 51.2, 25.6}, Style: mappings.GetSeriesStyle(0)},
			{Name: "GR reference", X: []float64{3, 5, 10}, Y: []float64{4.0 / 3.0, 0.8, 0.4}, Style: mappings.ReferenceStyle},
		},
	}
}

func testMeta() Meta {
	return Meta{
		RunName:   "paper",
		RunID:     4,
		RowCount:  3,
		Model:     model.Default(),
		Generated: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestGenerateSweepPlot(t *testing.T) {
	gen := NewSweepPlotGenerator(mappings.DefaultPaperStyle(), logging.GetLogger())

	plotTikz, wrapperTex, err := gen.Generate(context.Background(), kerrLikeSweep(), testMeta())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	for _, want := range []string{
		"% Generated on 2025-03-01 12:00:00",
		"% Run: paper (id 4)",
		"% Model: a=2.9e-122 epsilon=4.28 tau_0=1",
		"https://doi.org/10.5281/zenodo.18171045",
		`\begin{tikzpicture}`,
		"title={ Kerr deflection benchmark }",
		"ymode=log,",
		"(3,87.8)",
		"(10,0.4)",
		`\addlegendentry{ GR reference }`,
		"dashed",
	} {
		if !strings.Contains(plotTikz, want) {
			t.Errorf("expected %q in plot:\n%s", want, plotTikz)
		}
	}
	if strings.Contains(plotTikz, "xmode=log") {
		t.Error("x axis should be linear")
	}

	for _, want := range []string{
		`\input{./taib-kerr.tikz }`,
		`\label{fig:taib-kerr}`,
		`\caption[Kerr deflection benchmark]`,
	} {
		if !strings.Contains(wrapperTex, want) {
			t.Errorf("expected %q in wrapper:\n%s", want, wrapperTex)
		}
	}
}

func TestGenerateSingleSeriesHasNoLegend(t *testing.T) {
	gen := NewSweepPlotGenerator(mappings.DefaultPaperStyle(), logging.GetLogger())
	sweep := Sweep{
		Name:   "BELL",
		Title:  "Entanglement coherence limit",
		XLabel: "Distance (Lp)",
		YLabel: "Fidelity",
		LogX:   true,
		Series: []Series{{Name: "TAIB", X: []float64{1e10, 1e16, 1e22}, Y: []float64{1, 1, 1}, Style: mappings.GetSeriesStyle(0)}},
	}

	plotTikz, _, err := gen.Generate(context.Background(), sweep, testMeta())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.Contains(plotTikz, "xmode=log,") {
		t.Error("expected log x axis")
	}
	if !strings.Contains(plotTikz, "(1e+10,1)") {
		t.Errorf("expected first coordinate, got:\n%s", plotTikz)
	}
	if strings.Contains(plotTikz, "addlegendentry") {
		t.Error("single series should not have a legend")
	}
	// a flat linear range still gets a visible band
	if !strings.Contains(plotTikz, "ymin=0.95, ymax=1.05") {
		t.Errorf("unexpected y limits in:\n%s", plotTikz)
	}
}

func TestGenerateRejectsUndrawableSweep(t *testing.T) {
	gen := NewSweepPlotGenerator(mappings.DefaultPaperStyle(), logging.GetLogger())
	sweep := Sweep{
		Name:   "KERR",
		LogY:   true,
		Series: []Series{{Name: "TAIB", X: []float64{1, 2}, Y: []float64{0, math.NaN()}}},
	}
	if _, _, err := gen.Generate(context.Background(), sweep, testMeta()); err == nil {
		t.Fatal("expected error when no point can be drawn")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := gen.Generate(ctx, kerrLikeSweep(), testMeta()); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestPointsDropsUndrawable(t *testing.T) {
	sweep := Sweep{LogY: true}
	pts, dropped := sweep.points(Series{
		X: []float64{1, 2, 3, 4, 5},
		Y: []float64{10, 0, -1, math.Inf(1), 20},
	})
	if dropped != 3 {
		t.Errorf("dropped = %d, want 3", dropped)
	}
	if len(pts) != 2 || pts[1].x != 5 {
		t.Errorf("unexpected points %v", pts)
	}
}

func TestAxisLimits(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
		log      bool
		lo, hi   float64
	}{
		{"log snaps to decades", 3, 50, true, 1, 100},
		{"log single decade", 1, 1, true, 0.1, 10},
		{"linear padding", 0, 10, false, -0.5, 10.5},
		{"linear flat", 1, 1, false, 0.95, 1.05},
		{"linear flat zero", 0, 0, false, -1, 1},
		{"empty linear", math.Inf(1), math.Inf(-1), false, 0, 1},
	}
	for _, tt := range tests {
		lo, hi := axisLimits(tt.min, tt.max, tt.log)
		if math.Abs(lo-tt.lo) > 1e-12 || math.Abs(hi-tt.hi) > 1e-12 {
			t.Errorf("%s: got (%v, %v), want (%v, %v)", tt.name, lo, hi, tt.lo, tt.hi)
		}
	}
}

func TestPresentWritesFiles(t *testing.T) {
	dir := t.TempDir()
	pm := NewPlotManager(Options{Dir: dir})

	written, err := pm.Present(context.Background(), kerrLikeSweep(), testMeta())
	if err != nil {
		t.Fatalf("Present failed: %v", err)
	}
	for _, path := range []string{written.Tikz, written.Wrapper, written.PNG} {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("expected output %s: %v", path, err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", path)
		}
	}
	if filepath.Base(written.PNG) != "taib-kerr.png" {
		t.Errorf("unexpected png name %s", written.PNG)
	}

	png, err := os.ReadFile(written.PNG)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("png output lacks PNG signature")
	}
}

func TestPresentDisplay(t *testing.T) {
	var out bytes.Buffer
	dir := filepath.Join(t.TempDir(), "unused")
	pm := NewPlotManager(Options{Dir: dir, Display: true, Stdout: &out})

	if _, err := pm.Present(context.Background(), kerrLikeSweep(), testMeta()); err != nil {
		t.Fatalf("Present failed: %v", err)
	}
	if !strings.Contains(out.String(), `\begin{tikzpicture}`) {
		t.Errorf("expected TikZ on stdout, got %q", out.String())
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("display mode should not write files")
	}
}
