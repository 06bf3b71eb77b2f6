package plot

import (
	"fmt"
	"io"
	"math"

	"taib-bench/internal/plot/mappings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// PNGOptions sizes the raster output. Zero values fall back to the paper style.
type PNGOptions struct {
	Width  int
	Height int
}

// RenderPNG draws a sweep with go-chart. Log axes are drawn on log10-transformed
// values with decade tick labels.
func RenderPNG(w io.Writer, sweep Sweep, style mappings.PaperStyle, opts PNGOptions) error {
	width, height := style.PixelSize()
	if opts.Width > 0 {
		width = opts.Width
	}
	if opts.Height > 0 {
		height = opts.Height
	}

	var series []chart.Series
	for _, s := range sweep.Series {
		pts, _ := sweep.points(s)
		if len(pts) == 0 {
			continue
		}
		xs := make([]float64, 0, len(pts))
		ys := make([]float64, 0, len(pts))
		for _, p := range pts {
			xs = append(xs, axisValue(p.x, sweep.LogX))
			ys = append(ys, axisValue(p.y, sweep.LogY))
		}
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style:   seriesStyle(s.Style),
		})
	}
	if len(series) == 0 {
		return fmt.Errorf("sweep %s has no drawable points", sweep.Name)
	}

	xMin, xMax, yMin, yMax := sweep.bounds()
	gridStyle := chart.Style{
		StrokeColor: drawing.ColorBlack.WithAlpha(uint8(255 * style.GridOpacity)),
		StrokeWidth: 1,
	}

	ch := chart.Chart{
		Title:      sweep.Title,
		TitleStyle: chart.Style{FontSize: style.TitleSize},
		Width:      width,
		Height:     height,
		DPI:        style.DPI,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:           sweep.XLabel,
			NameStyle:      chart.Style{FontSize: style.LabelSize},
			Style:          chart.Style{FontSize: style.TickSize},
			Range:          &chart.ContinuousRange{Min: axisValue(xMin, sweep.LogX), Max: axisValue(xMax, sweep.LogX)},
			ValueFormatter: tickFormatter(sweep.LogX),
			GridMajorStyle: gridStyle,
		},
		YAxis: chart.YAxis{
			Name:           sweep.YLabel,
			NameStyle:      chart.Style{FontSize: style.LabelSize},
			Style:          chart.Style{FontSize: style.TickSize},
			Range:          &chart.ContinuousRange{Min: axisValue(yMin, sweep.LogY), Max: axisValue(yMax, sweep.LogY)},
			ValueFormatter: tickFormatter(sweep.LogY),
			GridMajorStyle: gridStyle,
		},
		Series: series,
	}
	if len(series) > 1 {
		ch.Elements = []chart.Renderable{chart.LegendThin(&ch, chart.Style{FontSize: style.LegendSize})}
	}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render %s chart: %w", sweep.Name, err)
	}
	return nil
}

func axisValue(v float64, logAxis bool) float64 {
	if logAxis {
		return math.Log10(v)
	}
	return v
}

func tickFormatter(logAxis bool) chart.ValueFormatter {
	if !logAxis {
		return func(v interface{}) string {
			if f, ok := v.(float64); ok {
				return fmt.Sprintf("%.3g", f)
			}
			return ""
		}
	}
	return func(v interface{}) string {
		if f, ok := v.(float64); ok {
			return fmt.Sprintf("1e%.0f", f)
		}
		return ""
	}
}

func seriesStyle(ps mappings.PlotStyle) chart.Style {
	col := drawing.ColorFromHex(ps.HexColor)
	st := chart.Style{
		StrokeColor: col,
		StrokeWidth: 2,
	}
	if ps.Dashed {
		st.StrokeDashArray = []float64{6, 4}
	}
	if ps.ShowDots {
		st.DotColor = col
		st.DotWidth = 4
	}
	return st
}
