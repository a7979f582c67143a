// Package report assembles the validation report returned to callers:
// normalized record, validator findings, and scores. Building a report is a
// pure computation - no I/O, no shared state - so concurrent builds need no
// coordination.
package report

import (
	"log/slog"

	"github.com/btlforms/form283/internal/forms"
	"github.com/btlforms/form283/internal/normalize"
	"github.com/btlforms/form283/internal/score"
	"github.com/btlforms/form283/internal/validate"
)

// Completeness summarizes the fill ratio of a record.
type Completeness struct {
	Filled int     `json:"filled" yaml:"filled"`
	Total  int     `json:"total" yaml:"total"`
	Ratio  float64 `json:"ratio" yaml:"ratio"`
}

// Report is the result of one extraction run. It is created fresh per
// request, immutable once built, and never persisted.
type Report struct {
	DocumentID   string           `json:"document_id" yaml:"document_id"`
	Record       forms.FormRecord `json:"record" yaml:"record"`
	Issues       []validate.Issue `json:"issues" yaml:"issues"`
	Completeness Completeness     `json:"completeness" yaml:"completeness"`
	Accuracy     float64          `json:"accuracy" yaml:"accuracy"`
	Valid        bool             `json:"valid" yaml:"valid"`
}

// Errors returns the error-severity issue count.
func (r *Report) Errors() int {
	n := 0
	for _, issue := range r.Issues {
		if issue.IsError() {
			n++
		}
	}
	return n
}

// Warnings returns the warning-severity issue count.
func (r *Report) Warnings() int {
	return len(r.Issues) - r.Errors()
}

// Builder builds validation reports. It carries only configuration, so one
// Builder is safe for concurrent use.
type Builder struct {
	weights score.Weights
	logger  *slog.Logger
}

// NewBuilder creates a Builder with the given scoring weights.
func NewBuilder(weights score.Weights, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{weights: weights, logger: logger}
}

// Build runs the full pipeline over a structurally valid record:
// normalize, validate every field, score, assemble. The caller's record is
// never modified; the report holds a normalized copy.
func (b *Builder) Build(documentID string, raw forms.FormRecord) *Report {
	normalized := normalize.Record(raw)
	issues := validate.Run(normalized)

	filled, total, ratio := score.Completeness(normalized)
	accuracy := score.Accuracy(ratio, issues, b.weights)

	rep := &Report{
		DocumentID: documentID,
		Record:     normalized,
		Issues:     issues,
		Completeness: Completeness{
			Filled: filled,
			Total:  total,
			Ratio:  ratio,
		},
		Accuracy: accuracy,
		Valid:    true,
	}
	for _, issue := range issues {
		if issue.IsError() {
			rep.Valid = false
			break
		}
	}

	b.logger.Info("validation report built",
		"document_id", documentID,
		"errors", rep.Errors(),
		"warnings", rep.Warnings(),
		"completeness", ratio,
		"accuracy", accuracy,
	)
	return rep
}

// BuildJSON decodes a raw JSON record and builds its report. Shape
// violations return a *forms.StructuralError and no report - malformed
// field content never prevents a report, malformed record structure does.
func (b *Builder) BuildJSON(documentID string, data []byte) (*Report, error) {
	record, err := forms.Decode(data)
	if err != nil {
		return nil, err
	}
	return b.Build(documentID, record), nil
}
