// Package score computes the completeness and accuracy scores of a form
// record. Both are pure functions of the normalized record and the
// validator findings.
package score

import (
	"github.com/btlforms/form283/internal/forms"
	"github.com/btlforms/form283/internal/validate"
)

// Weights are the per-issue penalties subtracted from completeness when
// deriving the accuracy score.
type Weights struct {
	ErrorPenalty   float64 `json:"error_penalty" mapstructure:"error_penalty"`
	WarningPenalty float64 `json:"warning_penalty" mapstructure:"warning_penalty"`
}

// DefaultWeights match the penalties used by the production scoring layer.
func DefaultWeights() Weights {
	return Weights{ErrorPenalty: 0.05, WarningPenalty: 0.02}
}

// Completeness counts the filled leaves against the fixed schema leaf total.
// It is purely structural: an invalid filled value still counts as filled.
func Completeness(record forms.FormRecord) (filled, total int, ratio float64) {
	flat := forms.Flatten(record)
	total = forms.LeafCount()
	for _, path := range forms.Leaves() {
		if flat[path] != "" {
			filled++
		}
	}
	if total == 0 {
		return 0, 0, 0
	}
	return filled, total, float64(filled) / float64(total)
}

// Accuracy derives the overall score from completeness and the issue list:
// each error subtracts the error penalty and each warning the warning
// penalty, floored at zero. Accuracy never exceeds completeness - filling a
// field incorrectly can only cost relative to leaving it blank.
func Accuracy(completeness float64, issues []validate.Issue, w Weights) float64 {
	acc := completeness
	for _, issue := range issues {
		if issue.IsError() {
			acc -= w.ErrorPenalty
		} else {
			acc -= w.WarningPenalty
		}
	}
	if acc < 0 {
		return 0
	}
	if acc > completeness {
		return completeness
	}
	return acc
}

// Score computes both measures in one call.
func Score(record forms.FormRecord, issues []validate.Issue, w Weights) (completeness, accuracy float64) {
	_, _, completeness = Completeness(record)
	accuracy = Accuracy(completeness, issues, w)
	return completeness, accuracy
}
