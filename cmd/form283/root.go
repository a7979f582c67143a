package main

import (
	"github.com/spf13/cobra"

	"github.com/btlforms/form283/internal/api"
	"github.com/btlforms/form283/version"
)

var (
	cfgFile      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "form283",
	Short: "Extraction post-processing and validation for BL/283 injury forms",
	Long: `form283 validates structured data extracted from scanned Israeli
National Insurance work-injury forms (BL/283).

Given an extracted record it:
  - Repairs OCR formatting damage (split digit groups, fragmented dates)
  - Canonicalizes categorical fields (health funds, gender)
  - Validates field content (ID checksum, dates, phones)
  - Scores completeness and accuracy into a validation report

It can also run the full document pipeline: OCR a scanned PDF, extract a
record with an LLM, and validate the result.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.form283/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
