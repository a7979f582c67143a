// Package endpoints defines the HTTP API surface. Every endpoint doubles as
// a CLI command via the api.Endpoint interface.
package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/btlforms/form283/internal/api"
)

// All returns all endpoint instances.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&StatusEndpoint{},

		// Schema endpoint
		&SchemaEndpoint{},

		// Validation report endpoint
		&ReportEndpoint{},

		// Full document pipeline endpoint
		&PipelineEndpoint{},
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
