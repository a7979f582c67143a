package endpoints

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/spf13/cobra"

	formapi "github.com/btlforms/form283/internal/api"
	"github.com/btlforms/form283/internal/report"
	"github.com/btlforms/form283/internal/svcctx"
)

// PipelineResponse is the result of a full document run: OCR, extraction,
// then validation.
type PipelineResponse struct {
	Report       *report.Report `json:"report"`
	Pages        int            `json:"pages"`
	OCRProvider  string         `json:"ocr_provider"`
	ModelUsed    string         `json:"model_used"`
	Attempts     int            `json:"attempts"`
	PromptTokens int            `json:"prompt_tokens"`
	OutputTokens int            `json:"output_tokens"`
}

// PipelineEndpoint handles POST /api/v1/pipeline with a multipart PDF upload.
type PipelineEndpoint struct{}

var _ formapi.Endpoint = (*PipelineEndpoint)(nil)

func (e *PipelineEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/v1/pipeline", e.handler
}

func (e *PipelineEndpoint) RequiresProviders() bool { return true }

func (e *PipelineEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	const maxMemory = 50 << 20 // 50MB, scanned forms are a handful of pages
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["file"]
	if len(files) != 1 {
		writeError(w, http.StatusBadRequest, "exactly one file must be uploaded")
		return
	}
	fh := files[0]
	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("file %s is not a PDF", fh.Filename))
		return
	}

	src, err := fh.Open()
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to open uploaded file: %v", err))
		return
	}
	document, err := io.ReadAll(src)
	src.Close()
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read uploaded file: %v", err))
		return
	}

	pages, err := api.PageCount(bytes.NewReader(document), nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid PDF: %v", err))
		return
	}

	ocrProvider := svcctx.OCRFrom(r.Context())
	extractor := svcctx.ExtractorFrom(r.Context())
	builder := svcctx.BuilderFrom(r.Context())
	logger := svcctx.LoggerFrom(r.Context())

	documentID := r.FormValue("document_id")
	if documentID == "" {
		documentID = uuid.New().String()
	}

	logger.Info("pipeline started",
		"document_id", documentID,
		"file", fh.Filename,
		"pages", pages,
	)

	ocrResult, err := ocrProvider.ProcessDocument(r.Context(), document)
	if err != nil {
		writeError(w, http.StatusBadGateway, fmt.Sprintf("OCR failed: %v", err))
		return
	}

	extraction, err := extractor.Extract(r.Context(), ocrResult.Text)
	if err != nil {
		writeError(w, http.StatusBadGateway, fmt.Sprintf("extraction failed: %v", err))
		return
	}

	rep := builder.Build(documentID, extraction.Record)

	writeJSON(w, http.StatusOK, PipelineResponse{
		Report:       rep,
		Pages:        pages,
		OCRProvider:  ocrProvider.Name(),
		ModelUsed:    extraction.ModelUsed,
		Attempts:     extraction.Attempts,
		PromptTokens: extraction.PromptTokens,
		OutputTokens: extraction.OutputTokens,
	})
}

func (e *PipelineEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "pipeline <scan.pdf>",
		Short: "Run OCR, extraction and validation on a scanned form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := formapi.NewClient(getServerURL())
			var resp PipelineResponse
			if err := client.PostFile(cmd.Context(), "/api/v1/pipeline", "file", args[0], &resp); err != nil {
				return err
			}
			return formapi.Output(resp)
		},
	}
}
