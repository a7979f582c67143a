package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/btlforms/form283/internal/api"
	"github.com/btlforms/form283/internal/config"
	"github.com/btlforms/form283/internal/eval"
	"github.com/btlforms/form283/internal/report"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <fixtures-dir>",
	Short: "Score extraction quality against ground-truth fixtures",
	Long: `Evaluate extracted records against hand-labeled ground truth.

Each fixture is a YAML file pairing an extracted record with its expected
values. Records are normalized on both sides before comparison, so
formatting noise does not count against extraction quality.

Example fixture (doc-1.yaml):
  document_id: doc-1
  record:
    idNumber: "12|34|56782"
    gender: male
  expected:
    idNumber: "123456782"
    gender: זכר`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fixtures, err := eval.LoadFixtures(args[0])
		if err != nil {
			return err
		}

		mgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		}))
		builder := report.NewBuilder(mgr.Get().Scoring, logger)

		return api.Output(eval.Evaluate(builder, fixtures))
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
}
