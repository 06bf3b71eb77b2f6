package cmd

import (
	"fmt"

	"taib-bench/internal/benchmarks"
	"taib-bench/internal/config"
	"taib-bench/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newValidateCommand() *cobra.Command {
	var configFile string

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a benchmark configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig(cmd, configFile)
		},
	}

	validateCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to benchmark configuration file")
	validateCmd.MarkFlagRequired("config")

	return validateCmd
}

func validateConfig(cmd *cobra.Command, configFile string) error {
	logger := logging.GetLogger()

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		logger.WithField("config_file", configFile).WithError(err).Error("Configuration validation failed")
		return err
	}

	benches, err := benchmarks.Resolve(cfg.Benchmark.Benchmarks)
	if err != nil {
		return err
	}
	checksum, err := config.RunChecksum(cfg)
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"config_file":  configFile,
		"benchmarks":   benchmarks.Names(benches),
		"run_checksum": checksum,
		"influxdb":     cfg.Benchmark.Data.DB.Enabled(),
	}).Info("Configuration is valid")

	fmt.Fprintf(cmd.OutOrStdout(), "%s: valid (%s, checksum %s)\n", configFile, benchmarks.Names(benches), checksum)
	return nil
}
