package plot

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"time"

	"taib-bench/internal/plot/mappings"
	plotTemplate "taib-bench/internal/plot/templates/plot"
	wrapperTemplate "taib-bench/internal/plot/templates/wrapper"

	"github.com/sirupsen/logrus"
)

// SweepPlotGenerator renders sweeps as pgfplots source plus a LaTeX figure wrapper.
type SweepPlotGenerator struct {
	style  mappings.PaperStyle
	logger *logrus.Logger
}

func NewSweepPlotGenerator(style mappings.PaperStyle, logger *logrus.Logger) *SweepPlotGenerator {
	return &SweepPlotGenerator{
		style:  style,
		logger: logger,
	}
}

func (g *SweepPlotGenerator) Generate(ctx context.Context, sweep Sweep, meta Meta) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	g.logger.WithFields(logrus.Fields{
		"benchmark": sweep.Name,
		"series":    len(sweep.Series),
		"log_x":     sweep.LogX,
		"log_y":     sweep.LogY,
	}).Debug("Generating sweep plot")

	if len(sweep.Series) == 0 {
		return "", "", fmt.Errorf("sweep %s has no series", sweep.Name)
	}

	plotData, err := g.preparePlotData(sweep, meta)
	if err != nil {
		return "", "", fmt.Errorf("failed to prepare plot data: %w", err)
	}

	plotOutput, err := g.renderPlot(plotData)
	if err != nil {
		return "", "", fmt.Errorf("failed to render plot: %w", err)
	}

	wrapperOutput, err := g.renderWrapper(g.prepareWrapperData(sweep, meta))
	if err != nil {
		return "", "", fmt.Errorf("failed to render wrapper: %w", err)
	}

	return plotOutput, wrapperOutput, nil
}

func (g *SweepPlotGenerator) preparePlotData(sweep Sweep, meta Meta) (*plotTemplate.PlotData, error) {
	var plotSeries []plotTemplate.PlotSeries
	total := 0

	for _, series := range sweep.Series {
		pts, dropped := sweep.points(series)
		if dropped > 0 {
			g.logger.WithFields(logrus.Fields{
				"benchmark": sweep.Name,
				"series":    series.Name,
				"dropped":   dropped,
			}).Warn("Dropping points that cannot be drawn on this axis")
		}

		ps := plotTemplate.PlotSeries{
			Name:        series.Name,
			Style:       series.Style.ToTikzOptions(),
			LegendEntry: series.Name,
			PointCount:  len(pts),
			Dropped:     dropped,
			Coordinates: make([]string, 0, len(pts)),
		}
		for _, p := range pts {
			ps.Coordinates = append(ps.Coordinates, fmt.Sprintf("(%s,%s)", tikzNumber(p.x), tikzNumber(p.y)))
		}
		total += len(pts)
		plotSeries = append(plotSeries, ps)
	}

	if total == 0 {
		return nil, fmt.Errorf("sweep %s has no drawable points", sweep.Name)
	}

	xMin, xMax, yMin, yMax := sweep.bounds()

	return &plotTemplate.PlotData{
		GeneratedDate: generatedDate(meta),
		RunName:       meta.RunName,
		RunID:         meta.RunID,
		Description:   meta.Description,
		Benchmark:     sweep.Name,
		RowCount:      meta.RowCount,
		A:             tikzNumber(meta.Model.A),
		Epsilon:       tikzNumber(meta.Model.Epsilon),
		Tau0:          tikzNumber(meta.Model.Tau0),
		Title:         sweep.Title,
		XLabel:        sweep.XLabel,
		YLabel:        sweep.YLabel,
		TitleFont:     g.style.TikzFont(g.style.TitleSize),
		LabelFont:     g.style.TikzFont(g.style.LabelSize),
		TickFont:      g.style.TikzFont(g.style.TickSize),
		LegendFont:    g.style.TikzFont(g.style.LegendSize),
		WidthIn:       tikzNumber(g.style.FigureWidthIn),
		HeightIn:      tikzNumber(g.style.FigureHeightIn),
		GridOpacity:   tikzNumber(g.style.GridOpacity),
		LogX:          sweep.LogX,
		LogY:          sweep.LogY,
		XMin:          tikzNumber(xMin),
		XMax:          tikzNumber(xMax),
		YMin:          tikzNumber(yMin),
		YMax:          tikzNumber(yMax),
		ShowLegend:    len(sweep.Series) > 1,
		Plots:         plotSeries,
	}, nil
}

func (g *SweepPlotGenerator) prepareWrapperData(sweep Sweep, meta Meta) *wrapperTemplate.WrapperData {
	return &wrapperTemplate.WrapperData{
		GeneratedDate: generatedDate(meta),
		RunName:       meta.RunName,
		Benchmark:     sweep.Name,
		PlotFileName:  sweep.FileStem() + ".tikz",
		ShortCaption:  sweep.Title,
		Caption:       fmt.Sprintf("%s: %s against %s", sweep.Title, sweep.YLabel, sweep.XLabel),
		Label:         strings.ToLower(sweep.Name),
	}
}

func (g *SweepPlotGenerator) renderPlot(data *plotTemplate.PlotData) (string, error) {
	tmpl, err := template.New("plot").Parse(plotTemplate.PlotTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse plot template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute plot template: %w", err)
	}

	return buf.String(), nil
}

func (g *SweepPlotGenerator) renderWrapper(data *wrapperTemplate.WrapperData) (string, error) {
	tmpl, err := template.New("wrapper").Parse(wrapperTemplate.WrapperTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse wrapper template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute wrapper template: %w", err)
	}

	return buf.String(), nil
}

// tikzNumber formats a float so pgfplots can parse it (no "+Inf", no locale).
func tikzNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', 8, 64)
}

func generatedDate(meta Meta) string {
	ts := meta.Generated
	if ts.IsZero() {
		ts = time.Now()
	}
	return ts.Format("2006-01-02 15:04:05")
}
