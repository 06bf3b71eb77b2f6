package templates

const WrapperTemplate = `% Generated on {{.GeneratedDate}}
% Run: {{.RunName}}
% Benchmark: {{.Benchmark}}
\begin{center}
    \begin{figure}[H]
    \centering
    \resizebox{1\linewidth}{!}{\input{./{{.PlotFileName}} }}
    \caption[{{.ShortCaption}}]{ {{.Caption}} }
    \label{fig:taib-{{.Label}}}
    \end{figure}
\end{center}
`

type WrapperData struct {
	GeneratedDate string
	RunName       string
	Benchmark     string
	PlotFileName  string
	ShortCaption  string
	Caption       string
	Label         string
}
