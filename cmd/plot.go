package cmd

import (
	"context"
	"fmt"
	"os"

	"taib-bench/internal/benchmarks"
	"taib-bench/internal/database"
	"taib-bench/internal/logging"
	"taib-bench/internal/plot"
	"taib-bench/internal/results"

	"github.com/spf13/cobra"
)

func newPlotCommand() *cobra.Command {
	var artifactPath, benchmarkName, pngPath string
	var onlyPlot, onlyWrapper bool

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "Generate a chart from a run artifact",
		Long:  "Generate LaTeX/TikZ (and optionally PNG) charts from a spooled run artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateSweepPlot(cmd, artifactPath, benchmarkName, pngPath, onlyPlot, onlyWrapper)
		},
	}

	plotCmd.Flags().StringVar(&artifactPath, "from", "", "Run artifact (.json.gz) written by run")
	plotCmd.Flags().StringVar(&benchmarkName, "benchmark", "", "Benchmark to chart (e.g. KERR)")
	plotCmd.Flags().StringVar(&pngPath, "png", "", "Also render the chart as PNG to this path")
	plotCmd.Flags().BoolVar(&onlyPlot, "plot", false, "Print only the plot file (TikZ)")
	plotCmd.Flags().BoolVar(&onlyWrapper, "wrapper", false, "Print only the wrapper file (LaTeX)")
	plotCmd.MarkFlagRequired("from")
	plotCmd.MarkFlagRequired("benchmark")

	return plotCmd
}

func generateSweepPlot(cmd *cobra.Command, artifactPath, benchmarkName, pngPath string, onlyPlot, onlyWrapper bool) error {
	logger := logging.GetLogger()
	logger.WithField("artifact", artifactPath).WithField("benchmark", benchmarkName).Debug("Generating sweep plot")

	artifact, err := database.ReadSpoolArtifact(artifactPath)
	if err != nil {
		logger.WithError(err).Error("Failed to read run artifact")
		return err
	}
	table, err := artifact.Table()
	if err != nil {
		return err
	}

	id, err := results.ParseTestID(benchmarkName)
	if err != nil {
		return err
	}
	b, err := benchmarks.Get(id)
	if err != nil {
		return err
	}
	charter, ok := b.(benchmarks.Charter)
	if !ok {
		return fmt.Errorf("benchmark %s has no chart", id)
	}
	rows := table.Filter(id)
	if len(rows) == 0 {
		return fmt.Errorf("artifact %s holds no %s rows", artifactPath, id)
	}

	sweep := charter.Sweep(rows)
	meta := plot.Meta{
		RunName:   artifact.RunName,
		RunID:     artifact.RunID,
		RowCount:  table.Len(),
		Model:     artifact.Model,
		Generated: artifact.CreatedAt,
	}
	if artifact.Metadata != nil {
		meta.Description = artifact.Metadata.Description
	}

	plotMgr := plot.NewPlotManager(plot.Options{Stdout: cmd.OutOrStdout()})

	plotTikz, wrapperTex, err := plotMgr.GenerateSweepPlot(context.Background(), sweep, meta)
	if err != nil {
		logger.WithError(err).Error("Failed to generate plot")
		return fmt.Errorf("failed to generate plot: %w", err)
	}

	// Determine what to print
	showPlot := !onlyWrapper
	showWrapper := !onlyPlot
	out := cmd.OutOrStdout()

	if showPlot {
		fmt.Fprintln(out, plotTikz)
		if showWrapper {
			fmt.Fprintln(out)
		}
	}

	if showWrapper {
		fmt.Fprintln(out, wrapperTex)
	}

	if pngPath != "" {
		f, err := os.Create(pngPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", pngPath, err)
		}
		if err := plotMgr.RenderPNG(f, sweep); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to render png: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		logger.WithField("path", pngPath).Info("PNG chart written")
	}

	logger.Debug("Sweep plot generated successfully")
	return nil
}
