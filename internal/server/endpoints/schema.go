package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/btlforms/form283/internal/api"
	"github.com/btlforms/form283/internal/forms"
)

// SchemaField describes one field of the form schema.
type SchemaField struct {
	Path       string   `json:"path"`
	Kind       string   `json:"kind"`
	DigitLen   int      `json:"digit_len,omitempty"`
	Vocabulary []string `json:"vocabulary,omitempty"`
}

// SchemaResponse lists the form schema fields and leaf paths.
type SchemaResponse struct {
	Fields []SchemaField `json:"fields"`
	Leaves []string      `json:"leaves"`
}

// SchemaEndpoint handles GET /api/v1/schema.
type SchemaEndpoint struct{}

var _ api.Endpoint = (*SchemaEndpoint)(nil)

func (e *SchemaEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/v1/schema", e.handler
}

func (e *SchemaEndpoint) RequiresProviders() bool { return false }

func (e *SchemaEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	specs := forms.Fields()
	resp := SchemaResponse{
		Fields: make([]SchemaField, 0, len(specs)),
		Leaves: forms.Leaves(),
	}
	for _, spec := range specs {
		resp.Fields = append(resp.Fields, SchemaField{
			Path:       spec.Path,
			Kind:       string(spec.Kind),
			DigitLen:   spec.DigitLen,
			Vocabulary: spec.Vocabulary,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (e *SchemaEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Show the form record schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp SchemaResponse
			if err := client.Get(cmd.Context(), "/api/v1/schema", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
