package plot

import (
	"math"
	"strings"
	"time"

	"taib-bench/internal/model"
	"taib-bench/internal/plot/mappings"
)

// Series is one curve of a sweep. X and Y have equal length.
type Series struct {
	Name  string
	X     []float64
	Y     []float64
	Style mappings.PlotStyle
}

// Sweep is everything needed to draw one benchmark's chart.
type Sweep struct {
	Name   string
	Title  string
	XLabel string
	YLabel string
	LogX   bool
	LogY   bool
	Series []Series
}

// Meta describes the run a chart belongs to; it ends up in generated comments.
type Meta struct {
	RunName     string
	RunID       int
	Description string
	RowCount    int
	Model       model.Model
	Generated   time.Time
}

// FileStem is the file name prefix used for a sweep's outputs.
func (s Sweep) FileStem() string {
	return "taib-" + strings.ToLower(s.Name)
}

type point struct {
	x, y float64
}

// points returns the drawable points of a series. Non-finite values, and
// non-positive values on a log axis, cannot be drawn and are dropped.
func (s Sweep) points(series Series) (pts []point, dropped int) {
	n := len(series.X)
	if len(series.Y) < n {
		n = len(series.Y)
	}
	for i := 0; i < n; i++ {
		x, y := series.X[i], series.Y[i]
		if !drawable(x, s.LogX) || !drawable(y, s.LogY) {
			dropped++
			continue
		}
		pts = append(pts, point{x: x, y: y})
	}
	return pts, dropped
}

func drawable(v float64, logAxis bool) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return !logAxis || v > 0
}

// axisLimits pads the data range. Log axes snap outward to whole decades.
func axisLimits(dataMin, dataMax float64, logAxis bool) (float64, float64) {
	if math.IsInf(dataMin, 0) || math.IsInf(dataMax, 0) {
		if logAxis {
			return 1, 10
		}
		return 0, 1
	}
	if logAxis {
		lo := math.Pow(10, math.Floor(math.Log10(dataMin)))
		hi := math.Pow(10, math.Ceil(math.Log10(dataMax)))
		if lo == hi {
			lo /= 10
			hi *= 10
		}
		return lo, hi
	}
	if dataMin == dataMax {
		pad := math.Abs(dataMin) * 0.05
		if pad == 0 {
			pad = 1
		}
		return dataMin - pad, dataMax + pad
	}
	span := dataMax - dataMin
	return dataMin - span*0.05, dataMax + span*0.05
}

// bounds returns the padded axis limits across every drawable point.
func (s Sweep) bounds() (xMin, xMax, yMin, yMax float64) {
	xMin, yMin = math.Inf(1), math.Inf(1)
	xMax, yMax = math.Inf(-1), math.Inf(-1)
	for _, series := range s.Series {
		pts, _ := s.points(series)
		for _, p := range pts {
			xMin = math.Min(xMin, p.x)
			xMax = math.Max(xMax, p.x)
			yMin = math.Min(yMin, p.y)
			yMax = math.Max(yMax, p.y)
		}
	}
	xMin, xMax = axisLimits(xMin, xMax, s.LogX)
	yMin, yMax = axisLimits(yMin, yMax, s.LogY)
	return xMin, xMax, yMin, yMax
}
