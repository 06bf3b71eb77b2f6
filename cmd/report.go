package cmd

import (
	"taib-bench/internal/database"
	"taib-bench/internal/logging"
	"taib-bench/internal/report"

	"github.com/spf13/cobra"
)

func newReportCommand() *cobra.Command {
	var artifactPath string
	var asJSON bool

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Print the report of a spooled run",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger()

			artifact, err := database.ReadSpoolArtifact(artifactPath)
			if err != nil {
				logger.WithField("artifact", artifactPath).WithError(err).Error("Failed to read run artifact")
				return err
			}

			header := report.Header{
				RunName:  artifact.RunName,
				RunID:    artifact.RunID,
				Checksum: artifact.RunChecksum,
				A:        artifact.Model.A,
				Epsilon:  artifact.Model.Epsilon,
				Tau0:     artifact.Model.Tau0,
			}

			format := "markdown"
			if asJSON {
				format = "json"
			}
			return writeReport(cmd.OutOrStdout(), format, header, artifact.Rows)
		},
	}

	reportCmd.Flags().StringVar(&artifactPath, "from", "", "Run artifact (.json.gz) written by run")
	reportCmd.Flags().BoolVar(&asJSON, "json", false, "Print the rows as JSON")
	reportCmd.MarkFlagRequired("from")

	return reportCmd
}
