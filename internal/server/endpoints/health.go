package endpoints

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/btlforms/form283/internal/api"
	"github.com/btlforms/form283/internal/forms"
	"github.com/btlforms/form283/internal/svcctx"
)

// HealthResponse is the response for health check endpoints.
type HealthResponse struct {
	Status string `json:"status"`
}

// HealthEndpoint handles GET /health.
type HealthEndpoint struct{}

var _ api.Endpoint = (*HealthEndpoint)(nil)

func (e *HealthEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/health", e.handler
}

func (e *HealthEndpoint) RequiresProviders() bool { return false }

func (e *HealthEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (e *HealthEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/health", &resp); err != nil {
				return err
			}
			fmt.Printf("Status: %s\n", resp.Status)
			return nil
		},
	}
}

// StatusResponse is the detailed status response.
type StatusResponse struct {
	Server      string          `json:"server"`
	SchemaLeafs int             `json:"schema_leaves"`
	Providers   ProvidersStatus `json:"providers"`
}

// ProvidersStatus shows which pipeline providers are configured.
type ProvidersStatus struct {
	OCR string `json:"ocr"`
	LLM string `json:"llm"`
}

// StatusEndpoint handles GET /status.
type StatusEndpoint struct{}

var _ api.Endpoint = (*StatusEndpoint)(nil)

func (e *StatusEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/status", e.handler
}

func (e *StatusEndpoint) RequiresProviders() bool { return false }

func (e *StatusEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Server:      "running",
		SchemaLeafs: forms.LeafCount(),
		Providers: ProvidersStatus{
			OCR: "not_configured",
			LLM: "not_configured",
		},
	}

	if ocrProvider := svcctx.OCRFrom(r.Context()); ocrProvider != nil {
		resp.Providers.OCR = ocrProvider.Name()
	}
	if svcctx.ExtractorFrom(r.Context()) != nil {
		resp.Providers.LLM = "configured"
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *StatusEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get detailed server status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StatusResponse
			if err := client.Get(cmd.Context(), "/status", &resp); err != nil {
				return err
			}
			fmt.Printf("Server: %s\n", resp.Server)
			fmt.Printf("Schema leaves: %d\n", resp.SchemaLeafs)
			fmt.Printf("Providers:\n")
			fmt.Printf("  OCR: %s\n", resp.Providers.OCR)
			fmt.Printf("  LLM: %s\n", resp.Providers.LLM)
			return nil
		},
	}
}
