package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/btlforms/form283/internal/api"
	"github.com/btlforms/form283/internal/config"
	"github.com/btlforms/form283/internal/report"
)

var validateDocumentID string

var validateCmd = &cobra.Command{
	Use:   "validate [record.json]",
	Short: "Validate an extracted record locally",
	Long: `Validate an extracted form record without a running server.

Reads the record as JSON from the given file, or from stdin when no file
is given, and prints the validation report.

Examples:
  form283 validate record.json
  cat record.json | form283 validate
  form283 validate record.json -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		documentID := validateDocumentID

		if len(args) == 1 {
			data, err = os.ReadFile(args[0])
			if documentID == "" {
				name := filepath.Base(args[0])
				documentID = strings.TrimSuffix(name, filepath.Ext(name))
			}
		} else {
			data, err = io.ReadAll(cmd.InOrStdin())
			if documentID == "" {
				documentID = "stdin"
			}
		}
		if err != nil {
			return fmt.Errorf("failed to read record: %w", err)
		}

		mgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		}))
		builder := report.NewBuilder(mgr.Get().Scoring, logger)

		rep, err := builder.BuildJSON(documentID, data)
		if err != nil {
			return err
		}
		return api.Output(rep)
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateDocumentID, "document-id", "", "Document identifier for the report")

	rootCmd.AddCommand(validateCmd)
}
