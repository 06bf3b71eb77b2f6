package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taib-bench/internal/benchmarks"
	"taib-bench/internal/config"
	"taib-bench/internal/database"
	"taib-bench/internal/export"
	"taib-bench/internal/logging"
	"taib-bench/internal/metrics"
	"taib-bench/internal/model"
	"taib-bench/internal/plot"
	"taib-bench/internal/report"
	"taib-bench/internal/results"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type runOptions struct {
	configFile  string
	benchmarks  []string
	csv         string
	report      string
	plotDir     string
	noPlot      bool
	display     bool
	spoolDir    string
	metricsFile string
}

type TaibBench struct {
	config        *config.BenchmarkConfig
	configContent string
	configFile    string
	model         model.Model
	benches       []benchmarks.Benchmark
	table         *results.Table
	dbClient      database.ResultWriter
	plotMgr       *plot.PlotManager
	runID         int
	checksum      string
	startTime     time.Time
	endTime       time.Time
	out           io.Writer
}

func newRunCommand() *cobra.Command {
	opts := &runOptions{}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the benchmarks",
		Long:  "Run the selected benchmarks against the latency model and write every configured output",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runBenchmark(ctx, cmd, opts)
		},
	}

	runCmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "Path to benchmark configuration file (built-in defaults when omitted)")
	runCmd.Flags().StringSliceVar(&opts.benchmarks, "benchmarks", nil, "Comma-separated benchmarks to run, in order (e.g. kerr,void,bell)")
	runCmd.Flags().StringVar(&opts.csv, "csv", "", "Write the result table to this CSV file (empty disables)")
	runCmd.Flags().StringVar(&opts.report, "report", "", "Report format printed after the run: markdown, json or none")
	runCmd.Flags().StringVar(&opts.plotDir, "plot-dir", "", "Directory for chart output")
	runCmd.Flags().BoolVar(&opts.noPlot, "no-plot", false, "Do not draw charts")
	runCmd.Flags().BoolVar(&opts.display, "print", false, "Print chart TikZ to stdout instead of writing files")
	runCmd.Flags().StringVar(&opts.spoolDir, "spool-dir", "", "Directory for the run artifact (empty disables)")
	runCmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus textfile metrics to this path")

	return runCmd
}

// applyOverrides copies explicitly set flags over the loaded configuration.
func applyOverrides(cmd *cobra.Command, cfg *config.BenchmarkConfig, opts *runOptions) error {
	flags := cmd.Flags()
	info := &cfg.Benchmark

	if flags.Changed("benchmarks") {
		info.Benchmarks = opts.benchmarks
	}
	if flags.Changed("csv") {
		info.Output.CSV = opts.csv
	}
	if flags.Changed("report") {
		switch opts.report {
		case "markdown", "json", "none":
			info.Output.Report = opts.report
		default:
			return fmt.Errorf("invalid report format %q (expected markdown, json or none)", opts.report)
		}
	}
	if flags.Changed("plot-dir") {
		info.Plot.Dir = opts.plotDir
	}
	if opts.noPlot {
		info.Plot.Enabled = false
	}
	if flags.Changed("spool-dir") {
		info.Output.SpoolDir = opts.spoolDir
	}
	if flags.Changed("metrics-file") {
		info.Output.MetricsFile = opts.metricsFile
	}
	return nil
}

func runBenchmark(ctx context.Context, cmd *cobra.Command, opts *runOptions) error {
	logger := logging.GetLogger()

	bench := &TaibBench{
		configFile: opts.configFile,
		table:      results.NewTable(),
		out:        cmd.OutOrStdout(),
	}

	var err error
	bench.config, bench.configContent, err = config.LoadConfigWithContent(opts.configFile)
	if err != nil {
		logger.WithField("config_file", opts.configFile).WithError(err).Error("Failed to load configuration")
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyOverrides(cmd, bench.config, opts); err != nil {
		return err
	}

	// Set log level from configuration unless the flag already did
	if !cmd.Flags().Changed("log-level") && bench.config.Benchmark.LogLevel != "" {
		if err := logging.SetLogLevel(bench.config.Benchmark.LogLevel); err != nil {
			logger.WithField("log_level", bench.config.Benchmark.LogLevel).WithError(err).Warn("Invalid log level in config, using INFO")
			logging.SetLogLevel("info")
		} else {
			logger.WithField("log_level", bench.config.Benchmark.LogLevel).Debug("Log level set from configuration")
		}
	}

	bench.model, err = bench.config.GetModel()
	if err != nil {
		return fmt.Errorf("invalid model: %w", err)
	}
	bench.benches, err = benchmarks.Resolve(bench.config.Benchmark.Benchmarks)
	if err != nil {
		return fmt.Errorf("invalid benchmark selection: %w", err)
	}
	bench.checksum, err = config.RunChecksum(bench.config)
	if err != nil {
		return err
	}

	// Initialize database client
	if bench.config.Benchmark.Data.DB.Enabled() {
		client, err := database.NewInfluxDBClient(ctx, bench.config.Benchmark.Data.DB)
		if err != nil {
			logger.WithError(err).Error("Failed to create database client")
			return fmt.Errorf("failed to create database client: %w", err)
		}
		bench.dbClient = client
		defer bench.dbClient.Close()

		lastID, err := bench.dbClient.GetLastRunID(ctx)
		if err != nil {
			logger.WithError(err).Error("Failed to get last run ID")
			return fmt.Errorf("failed to get last run ID: %w", err)
		}
		bench.runID = lastID + 1
	} else {
		logger.Debug("No InfluxDB configured, results stay local")
	}

	if plotCfg := bench.config.Benchmark.Plot; plotCfg.Enabled {
		bench.plotMgr = plot.NewPlotManager(plotOptions(plotCfg, opts.display, bench.out))
	}

	logger.WithFields(logrus.Fields{
		"run_id":       bench.runID,
		"name":         bench.config.Benchmark.Name,
		"benchmarks":   benchmarks.Names(bench.benches),
		"run_checksum": bench.checksum,
	}).Info("Starting benchmark run")

	bench.startTime = time.Now()
	if err := bench.execute(ctx); err != nil {
		logger.WithError(err).Error("Benchmark run failed")
		return fmt.Errorf("benchmark run failed: %w", err)
	}
	bench.endTime = time.Now()

	if err := bench.writeOutputs(ctx); err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"rows":     bench.table.Len(),
		"duration": bench.endTime.Sub(bench.startTime).String(),
	}).Info("Benchmark run completed successfully")
	return nil
}

func plotOptions(cfg config.PlotConfig, display bool, out io.Writer) plot.Options {
	var formats []plot.OutputFormat
	if cfg.Tikz {
		formats = append(formats, plot.OutputTikz)
	}
	if cfg.PNG {
		formats = append(formats, plot.OutputPNG)
	}
	return plot.Options{
		Dir:     cfg.Dir,
		Formats: formats,
		PNG:     plot.PNGOptions{Width: cfg.Width, Height: cfg.Height},
		Display: display,
		Stdout:  out,
	}
}

func (tb *TaibBench) execute(ctx context.Context) error {
	var onSweep benchmarks.SweepHandler
	if tb.plotMgr != nil {
		onSweep = func(ctx context.Context, b benchmarks.Benchmark, sweep plot.Sweep) error {
			_, err := tb.plotMgr.Present(ctx, sweep, tb.plotMeta())
			return err
		}
	}

	runner := benchmarks.NewRunner(tb.model, onSweep)
	return runner.Run(ctx, tb.table, tb.benches...)
}

func (tb *TaibBench) plotMeta() plot.Meta {
	return plot.Meta{
		RunName:     tb.config.Benchmark.Name,
		RunID:       tb.runID,
		Description: tb.config.Benchmark.Description,
		RowCount:    tb.table.Len(),
		Model:       tb.model,
		Generated:   time.Now(),
	}
}

func (tb *TaibBench) reportHeader() report.Header {
	return report.Header{
		RunName:  tb.config.Benchmark.Name,
		RunID:    tb.runID,
		Checksum: tb.checksum,
		A:        tb.model.A,
		Epsilon:  tb.model.Epsilon,
		Tau0:     tb.model.Tau0,
	}
}

// writeOutputs drives every configured sink in turn. The spool artifact is
// written before the database so a failed upload still leaves the run on disk.
func (tb *TaibBench) writeOutputs(ctx context.Context) error {
	logger := logging.GetLogger()
	output := tb.config.Benchmark.Output

	if output.CSV != "" {
		if err := export.WriteCSVFile(output.CSV, tb.table); err != nil {
			logger.WithField("path", output.CSV).WithError(err).Error("Failed to write CSV")
			return fmt.Errorf("failed to write csv: %w", err)
		}
		logger.WithField("path", output.CSV).Info("Results written to CSV")
	}

	if err := writeReport(tb.out, output.Report, tb.reportHeader(), tb.table.Rows()); err != nil {
		return err
	}

	metadata := database.CollectRunMetadata(tb.runID, tb.config, tb.configContent, tb.model, tb.table, tb.startTime, tb.endTime, Version)

	if output.SpoolDir != "" {
		artifact := database.BuildSpoolArtifact(tb.runID, tb.config, tb.configContent, tb.model, tb.table, metadata, tb.startTime, tb.endTime)
		path, err := database.WriteSpoolArtifact(output.SpoolDir, artifact)
		if err != nil {
			logger.WithField("spool_dir", output.SpoolDir).WithError(err).Error("Failed to write spool artifact")
			return fmt.Errorf("failed to write spool artifact: %w", err)
		}
		logger.WithField("path", path).Info("Run artifact written")
	}

	if tb.dbClient != nil {
		if err := tb.dbClient.WriteResults(ctx, tb.runID, tb.table.Rows(), tb.endTime); err != nil {
			logger.WithError(err).Error("Failed to write results to InfluxDB")
			return err
		}
		if err := tb.dbClient.WriteMetadata(ctx, metadata); err != nil {
			logger.WithError(err).Error("Failed to write run metadata to InfluxDB")
			return err
		}
		logger.WithField("run_id", tb.runID).Info("Results written to InfluxDB")
	}

	if output.MetricsFile != "" {
		if err := metrics.WriteTextfile(output.MetricsFile, tb.config.Benchmark.Name, tb.table); err != nil {
			logger.WithError(err).Error("Failed to write metrics")
			return err
		}
	}

	return nil
}

func writeReport(w io.Writer, format string, header report.Header, rows []results.Row) error {
	switch format {
	case "", "none":
		return nil
	case "json":
		return report.GenerateJSON(w, header, rows)
	case "markdown":
		return report.Generate(w, header, rows)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}
