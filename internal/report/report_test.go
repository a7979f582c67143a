package report

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/btlforms/form283/internal/forms"
	"github.com/btlforms/form283/internal/score"
	"github.com/btlforms/form283/internal/validate"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestBuildCleanRecord(t *testing.T) {
	builder := NewBuilder(score.DefaultWeights(), discardLogger())

	raw := forms.FormRecord{
		LastName:        "כהן",
		FirstName:       "דוד",
		IDNumber:        "000000018",
		MobilePhone:     "050-123-4567",
		DateOfInjury:    forms.DateField{Day: "10", Month: "06", Year: "2023"},
		FormFillingDate: forms.DateField{Day: "12", Month: "06", Year: "2023"},
	}

	rep := builder.Build("doc-1", raw)

	if rep.Errors() != 0 {
		t.Errorf("Errors() = %d, want 0; issues: %+v", rep.Errors(), rep.Issues)
	}
	if !rep.Valid {
		t.Error("Valid = false, want true")
	}
	if rep.Record.MobilePhone != "0501234567" {
		t.Errorf("report mobile = %q, want separators stripped", rep.Record.MobilePhone)
	}
	// With no issues the accuracy equals the completeness ratio.
	if math.Abs(rep.Accuracy-rep.Completeness.Ratio) > 1e-9 {
		t.Errorf("accuracy = %v, completeness = %v, want equal", rep.Accuracy, rep.Completeness.Ratio)
	}
	if rep.Completeness.Filled != 10 {
		t.Errorf("filled = %d, want 10", rep.Completeness.Filled)
	}
	if rep.Completeness.Total != forms.LeafCount() {
		t.Errorf("total = %d, want %d", rep.Completeness.Total, forms.LeafCount())
	}
}

func TestBuildFlagsErrors(t *testing.T) {
	builder := NewBuilder(score.DefaultWeights(), discardLogger())

	rep := builder.Build("doc-2", forms.FormRecord{
		IDNumber:     "123456789", // bad checksum
		DateOfInjury: forms.DateField{Day: "31", Month: "04", Year: "2023"},
	})

	if rep.Valid {
		t.Error("Valid = true with error issues")
	}
	if rep.Errors() != 2 {
		t.Errorf("Errors() = %d, want 2; issues: %+v", rep.Errors(), rep.Issues)
	}
	if rep.Accuracy >= rep.Completeness.Ratio {
		t.Errorf("accuracy %v not penalized below completeness %v", rep.Accuracy, rep.Completeness.Ratio)
	}
}

func TestBuildWarningsKeepRecordValid(t *testing.T) {
	builder := NewBuilder(score.DefaultWeights(), discardLogger())

	rep := builder.Build("doc-3", forms.FormRecord{
		DateOfInjury:    forms.DateField{Day: "20", Month: "06", Year: "2023"},
		FormFillingDate: forms.DateField{Day: "12", Month: "06", Year: "2023"},
	})

	if !rep.Valid {
		t.Errorf("Valid = false with warnings only; issues: %+v", rep.Issues)
	}
	if rep.Warnings() == 0 {
		t.Error("expected ordering warning")
	}
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	builder := NewBuilder(score.DefaultWeights(), discardLogger())
	raw := forms.FormRecord{IDNumber: "12|34|56782"}
	snapshot := raw

	_ = builder.Build("doc-4", raw)

	if diff := cmp.Diff(snapshot, raw); diff != "" {
		t.Errorf("input record mutated (-before +after):\n%s", diff)
	}
}

func TestBuildDeterministic(t *testing.T) {
	builder := NewBuilder(score.DefaultWeights(), discardLogger())
	raw := forms.FormRecord{
		IDNumber:    "12345678a",
		Gender:      "male",
		MobilePhone: "050",
	}

	first := builder.Build("doc-5", raw)
	second := builder.Build("doc-5", raw)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("identical inputs produced different reports (-first +second):\n%s", diff)
	}
}

func TestBuildJSON(t *testing.T) {
	builder := NewBuilder(score.DefaultWeights(), discardLogger())

	t.Run("valid payload", func(t *testing.T) {
		rep, err := builder.BuildJSON("doc-6", []byte(`{
			"idNumber": "000000018",
			"mobilePhone": "050-1234567"
		}`))
		if err != nil {
			t.Fatalf("BuildJSON() error = %v", err)
		}
		if rep.DocumentID != "doc-6" {
			t.Errorf("document id = %q", rep.DocumentID)
		}
		if rep.Errors() != 0 {
			t.Errorf("Errors() = %d, want 0; issues: %+v", rep.Errors(), rep.Issues)
		}
	})

	t.Run("structural violation rejects the document", func(t *testing.T) {
		rep, err := builder.BuildJSON("doc-7", []byte(`{"dateOfInjury": "10/06/2023"}`))
		if rep != nil {
			t.Error("report returned for structurally invalid payload")
		}
		var structural *forms.StructuralError
		if !errors.As(err, &structural) {
			t.Errorf("error = %v, want *forms.StructuralError", err)
		}
	})

	t.Run("invalid field content still yields a report", func(t *testing.T) {
		rep, err := builder.BuildJSON("doc-8", []byte(`{"idNumber": "not-an-id"}`))
		if err != nil {
			t.Fatalf("BuildJSON() error = %v", err)
		}
		if rep.Valid {
			t.Error("Valid = true for record with a bad ID")
		}
	})
}

func TestReportJSONShape(t *testing.T) {
	builder := NewBuilder(score.DefaultWeights(), discardLogger())
	rep := builder.Build("doc-9", forms.FormRecord{IDNumber: "123456789"})

	data, err := json.Marshal(rep)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	for _, key := range []string{"document_id", "record", "issues", "completeness", "accuracy", "valid"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("report JSON missing %q", key)
		}
	}

	issues, ok := decoded["issues"].([]any)
	if !ok || len(issues) == 0 {
		t.Fatalf("issues = %v, want non-empty array", decoded["issues"])
	}
	issue := issues[0].(map[string]any)
	if issue["severity"] != string(validate.SeverityError) {
		t.Errorf("issue severity = %v", issue["severity"])
	}
}
