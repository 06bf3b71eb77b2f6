package templates

const PlotTemplate = `% Generated on {{.GeneratedDate}}
%
% Run: {{.RunName}}{{if .RunID}} (id {{.RunID}}){{end}}
% Description: {{.Description}}
% Benchmark: {{.Benchmark}}
% Rows: {{.RowCount}}
% Model: a={{.A}} epsilon={{.Epsilon}} tau_0={{.Tau0}}
% Reference: Applied Base Information Theory (TAIB), https://doi.org/10.5281/zenodo.18171045
%
\begin{tikzpicture}
	\begin{axis}[
		title={ {{.Title}} },
		title style={font={{.TitleFont}}},
		xlabel={ {{.XLabel}} },
		ylabel={ {{.YLabel}} },
		label style={font={{.LabelFont}}},
		tick label style={font={{.TickFont}}},
		width={{.WidthIn}}in,
		height={{.HeightIn}}in,
{{- if .LogX}}
		xmode=log,
{{- end}}
{{- if .LogY}}
		ymode=log,
{{- end}}
		xmin={{.XMin}}, xmax={{.XMax}},
		ymin={{.YMin}}, ymax={{.YMax}},
		grid=major,
		grid style={opacity={{.GridOpacity}}},
{{- if .ShowLegend}}
		legend pos=north east,
		legend style={font={{.LegendFont}}},
{{- end}}
	]

{{range .Plots}}
% Series: {{.Name}} ({{.PointCount}} points{{if .Dropped}}, {{.Dropped}} dropped{{end}})
\addplot+[{{.Style}}]
  coordinates {
{{range .Coordinates}}    {{.}}
{{end}}  };
{{- if $.ShowLegend}}
\addlegendentry{ {{.LegendEntry}} }
{{- end}}

{{end}}
	\end{axis}
\end{tikzpicture}
`

type PlotData struct {
	GeneratedDate string
	RunName       string
	RunID         int
	Description   string
	Benchmark     string
	RowCount      int
	A             string
	Epsilon       string
	Tau0          string
	Title         string
	XLabel        string
	YLabel        string
	TitleFont     string
	LabelFont     string
	TickFont      string
	LegendFont    string
	WidthIn       string
	HeightIn      string
	GridOpacity   string
	LogX          bool
	LogY          bool
	XMin          string
	XMax          string
	YMin          string
	YMax          string
	ShowLegend    bool
	Plots         []PlotSeries
}

type PlotSeries struct {
	Name        string
	Style       string
	LegendEntry string
	PointCount  int
	Dropped     int
	Coordinates []string
}
