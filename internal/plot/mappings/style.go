package mappings

import "fmt"

// PaperStyle is the figure style used for every chart: serif text at journal
// sizes on a 7x4.5 inch canvas.
type PaperStyle struct {
	FontFamily     string
	TitleSize      float64
	LabelSize      float64
	TickSize       float64
	LegendSize     float64
	FigureWidthIn  float64
	FigureHeightIn float64
	DPI            float64
	SaveDPI        float64
	GridOpacity    float64
}

func DefaultPaperStyle() PaperStyle {
	return PaperStyle{
		FontFamily:     "serif",
		TitleSize:      10,
		LabelSize:      9,
		TickSize:       8,
		LegendSize:     7,
		FigureWidthIn:  7,
		FigureHeightIn: 4.5,
		DPI:            200,
		SaveDPI:        300,
		GridOpacity:    0.2,
	}
}

// PixelSize is the raster size of a figure at the on-screen DPI.
func (ps PaperStyle) PixelSize() (int, int) {
	return int(ps.FigureWidthIn * ps.DPI), int(ps.FigureHeightIn * ps.DPI)
}

// TikzFont returns the pgfplots font option for a point size.
func (ps PaperStyle) TikzFont(size float64) string {
	family := `\rmfamily`
	if ps.FontFamily == "sans-serif" {
		family = `\sffamily`
	}
	return fmt.Sprintf(`\fontsize{%g}{%g}\selectfont%s`, size, size*1.2, family)
}

type PlotStyle struct {
	Color       string
	HexColor    string
	LineStyle   string
	LineWidth   string
	Mark        string
	MarkOptions string
	Dashed      bool
	ShowDots    bool
}

var SeriesStyles = []PlotStyle{
	{Color: "blue", HexColor: "1f77b4", LineStyle: "solid", LineWidth: "thick", Mark: "*", MarkOptions: "scale=0.6,fill=blue", ShowDots: true},
	{Color: "orange", HexColor: "ff7f0e", LineStyle: "solid", LineWidth: "thick", Mark: "square*", MarkOptions: "scale=0.5,fill=orange", ShowDots: true},
	{Color: "green!70!black", HexColor: "2ca02c", LineStyle: "solid", LineWidth: "thick", Mark: "triangle*", MarkOptions: "scale=0.6,fill=green!70!black", ShowDots: true},
	{Color: "red", HexColor: "d62728", LineStyle: "solid", LineWidth: "thick", Mark: "diamond*", MarkOptions: "scale=0.6,fill=red", ShowDots: true},
}

// ReferenceStyle draws analytic reference curves: dashed, no markers.
var ReferenceStyle = PlotStyle{
	Color:     "black",
	HexColor:  "333333",
	LineStyle: "densely dashed",
	LineWidth: "thick",
	Mark:      "none",
	Dashed:    true,
}

func GetSeriesStyle(seriesIndex int) PlotStyle {
	if seriesIndex < 0 {
		seriesIndex = 0
	}
	return SeriesStyles[seriesIndex%len(SeriesStyles)]
}

func (ps PlotStyle) ToTikzOptions() string {
	options := ps.Color
	if ps.LineStyle != "" {
		options += "," + ps.LineStyle
	}
	if ps.LineWidth != "" {
		options += "," + ps.LineWidth
	}
	if ps.Mark != "none" && ps.Mark != "" {
		options += ",mark=" + ps.Mark
		if ps.MarkOptions != "" {
			options += ",mark options={" + ps.MarkOptions + "}"
		}
	} else {
		options += ",no markers"
	}
	return options
}
