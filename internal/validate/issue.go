// Package validate holds the independent, composable field validators that
// run over a normalized form record. Validators never fail on malformed
// input - malformed input is the condition being detected, reported as an
// Issue inside a successfully built report.
package validate

// Severity classifies an issue. Errors mean the value breaks a hard rule
// (bad checksum, impossible date); warnings flag soft concerns that keep
// the record reviewable rather than rejecting it.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Machine-stable reason codes. The UI keys display logic off these, so they
// must not change between releases.
const (
	CodeIDLength      = "id_length"
	CodeIDChecksum    = "id_checksum"
	CodeDateRange     = "date_range"
	CodeDatePartial   = "date_partial"
	CodeDateOrder     = "date_order"
	CodeDateDuplicate = "date_duplicate"
	CodePhoneFormat   = "phone_format"
	CodeDigitsLength  = "digits_length"
	CodeCategory      = "category_unknown"
)

// Issue is one field-level finding.
type Issue struct {
	Path     string   `json:"path" yaml:"path"`
	Severity Severity `json:"severity" yaml:"severity"`
	Code     string   `json:"code" yaml:"code"`
	Message  string   `json:"message" yaml:"message"`
}

// IsError reports whether the issue carries error severity.
func (i Issue) IsError() bool { return i.Severity == SeverityError }

func errorIssue(path, code, message string) *Issue {
	return &Issue{Path: path, Severity: SeverityError, Code: code, Message: message}
}

func warningIssue(path, code, message string) *Issue {
	return &Issue{Path: path, Severity: SeverityWarning, Code: code, Message: message}
}
