package plot

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"taib-bench/internal/logging"
	"taib-bench/internal/plot/mappings"

	"github.com/sirupsen/logrus"
)

type OutputFormat string

const (
	OutputTikz OutputFormat = "tikz"
	OutputPNG  OutputFormat = "png"
)

// Options controls where and how the PlotManager emits charts.
type Options struct {
	Dir     string
	Formats []OutputFormat
	PNG     PNGOptions
	// Display writes the TikZ source to Stdout instead of the plot directory.
	Display bool
	Stdout  io.Writer
}

type PlotManager struct {
	sweepGenerator *SweepPlotGenerator
	style          mappings.PaperStyle
	opts           Options
	logger         *logrus.Logger
}

func NewPlotManager(opts Options) *PlotManager {
	logger := logging.GetLogger()
	style := mappings.DefaultPaperStyle()

	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if len(opts.Formats) == 0 {
		opts.Formats = []OutputFormat{OutputTikz, OutputPNG}
	}

	return &PlotManager{
		sweepGenerator: NewSweepPlotGenerator(style, logger),
		style:          style,
		opts:           opts,
		logger:         logger,
	}
}

// Written lists the files produced for one sweep.
type Written struct {
	Tikz    string
	Wrapper string
	PNG     string
}

// Present emits one sweep in every configured format.
func (pm *PlotManager) Present(ctx context.Context, sweep Sweep, meta Meta) (*Written, error) {
	out := &Written{}

	if pm.opts.Display {
		plotTikz, _, err := pm.GenerateSweepPlot(ctx, sweep, meta)
		if err != nil {
			return nil, err
		}
		fmt.Fprintln(pm.opts.Stdout, plotTikz)
		return out, nil
	}

	if err := os.MkdirAll(pm.opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create plot dir: %w", err)
	}

	for _, format := range pm.opts.Formats {
		switch format {
		case OutputTikz:
			plotTikz, wrapperTex, err := pm.GenerateSweepPlot(ctx, sweep, meta)
			if err != nil {
				return nil, err
			}
			out.Tikz = filepath.Join(pm.opts.Dir, sweep.FileStem()+".tikz")
			if err := os.WriteFile(out.Tikz, []byte(plotTikz), 0o644); err != nil {
				return nil, fmt.Errorf("failed to write %s: %w", out.Tikz, err)
			}
			out.Wrapper = filepath.Join(pm.opts.Dir, sweep.FileStem()+"-wrapper.tex")
			if err := os.WriteFile(out.Wrapper, []byte(wrapperTex), 0o644); err != nil {
				return nil, fmt.Errorf("failed to write %s: %w", out.Wrapper, err)
			}
		case OutputPNG:
			out.PNG = filepath.Join(pm.opts.Dir, sweep.FileStem()+".png")
			if err := pm.writePNG(out.PNG, sweep); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unknown plot format %q", format)
		}
	}

	pm.logger.WithFields(logrus.Fields{
		"benchmark": sweep.Name,
		"tikz":      out.Tikz,
		"png":       out.PNG,
	}).Info("Chart written")

	return out, nil
}

func (pm *PlotManager) GenerateSweepPlot(ctx context.Context, sweep Sweep, meta Meta) (plotTikz, wrapperTex string, err error) {
	return pm.sweepGenerator.Generate(ctx, sweep, meta)
}

func (pm *PlotManager) RenderPNG(w io.Writer, sweep Sweep) error {
	return RenderPNG(w, sweep, pm.style, pm.opts.PNG)
}

func (pm *PlotManager) writePNG(path string, sweep Sweep) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := pm.RenderPNG(f, sweep); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}
