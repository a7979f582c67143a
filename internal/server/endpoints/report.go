package endpoints

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/btlforms/form283/internal/api"
	"github.com/btlforms/form283/internal/forms"
	"github.com/btlforms/form283/internal/report"
	"github.com/btlforms/form283/internal/svcctx"
)

// ReportEndpoint handles POST /api/v1/reports. It takes an extracted record
// as JSON and returns its validation report. Structurally invalid payloads
// are rejected with 422; bad field content always produces a report.
type ReportEndpoint struct{}

var _ api.Endpoint = (*ReportEndpoint)(nil)

func (e *ReportEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/v1/reports", e.handler
}

func (e *ReportEndpoint) RequiresProviders() bool { return false }

func (e *ReportEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	builder := svcctx.BuilderFrom(r.Context())
	if builder == nil {
		writeError(w, http.StatusServiceUnavailable, "report builder not initialized")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to read body: %v", err))
		return
	}

	documentID := r.URL.Query().Get("document_id")
	if documentID == "" {
		documentID = uuid.New().String()
	}

	rep, err := builder.BuildJSON(documentID, body)
	if err != nil {
		var structural *forms.StructuralError
		if errors.As(err, &structural) {
			writeError(w, http.StatusUnprocessableEntity, structural.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, rep)
}

func (e *ReportEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "report <record.json>",
		Short: "Validate an extracted record and print its report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			client := api.NewClient(getServerURL())
			var rep report.Report
			if err := client.PostRaw(cmd.Context(), "/api/v1/reports", data, &rep); err != nil {
				return err
			}
			return api.Output(rep)
		},
	}
}
