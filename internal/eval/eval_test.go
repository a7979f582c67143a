package eval

import (
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/btlforms/form283/internal/forms"
	"github.com/btlforms/form283/internal/report"
	"github.com/btlforms/form283/internal/score"
)

func testBuilder() *report.Builder {
	return report.NewBuilder(score.DefaultWeights(), slog.New(slog.DiscardHandler))
}

func TestEvaluatePerfectExtraction(t *testing.T) {
	record := forms.FormRecord{
		LastName:     "כהן",
		IDNumber:     "000000018",
		DateOfInjury: forms.DateField{Day: "10", Month: "06", Year: "2023"},
	}
	fixtures := []Fixture{{DocumentID: "doc-1", Record: record, Expected: record}}

	summary := Evaluate(testBuilder(), fixtures)

	if summary.FieldAccuracy != 1 {
		t.Errorf("FieldAccuracy = %v, want 1", summary.FieldAccuracy)
	}
	doc := summary.Documents[0]
	if doc.FieldsExpected != 5 || doc.FieldMatches != 5 {
		t.Errorf("matches = %d/%d, want 5/5", doc.FieldMatches, doc.FieldsExpected)
	}
	if len(doc.Mismatches) != 0 {
		t.Errorf("unexpected mismatches: %+v", doc.Mismatches)
	}
}

func TestEvaluateNormalizesBothSides(t *testing.T) {
	// Separators and aliases differ but the canonical values agree.
	fixtures := []Fixture{{
		DocumentID: "doc-2",
		Record: forms.FormRecord{
			IDNumber: "12|34|56782",
			Gender:   "male",
		},
		Expected: forms.FormRecord{
			IDNumber: "123456782",
			Gender:   "זכר",
		},
	}}

	summary := Evaluate(testBuilder(), fixtures)
	if summary.FieldAccuracy != 1 {
		t.Errorf("FieldAccuracy = %v, want 1; docs: %+v", summary.FieldAccuracy, summary.Documents)
	}
}

func TestEvaluateCountsMismatches(t *testing.T) {
	fixtures := []Fixture{{
		DocumentID: "doc-3",
		Record: forms.FormRecord{
			LastName:  "לוי",
			FirstName: "משה",
		},
		Expected: forms.FormRecord{
			LastName:  "כהן",
			FirstName: "משה",
			IDNumber:  "000000018", // missed by extraction
		},
	}}

	summary := Evaluate(testBuilder(), fixtures)
	doc := summary.Documents[0]

	if doc.FieldsExpected != 3 {
		t.Fatalf("FieldsExpected = %d, want 3", doc.FieldsExpected)
	}
	if doc.FieldMatches != 1 {
		t.Errorf("FieldMatches = %d, want 1", doc.FieldMatches)
	}
	if want := 1.0 / 3.0; math.Abs(doc.FieldAccuracy-want) > 1e-9 {
		t.Errorf("FieldAccuracy = %v, want %v", doc.FieldAccuracy, want)
	}
	if len(doc.Mismatches) != 2 {
		t.Errorf("Mismatches = %+v, want 2 entries", doc.Mismatches)
	}
}

func TestEvaluateAggregates(t *testing.T) {
	record := forms.FormRecord{LastName: "כהן"}
	fixtures := []Fixture{
		{DocumentID: "a", Record: record, Expected: record},
		{DocumentID: "b", Record: forms.FormRecord{}, Expected: record},
	}

	summary := Evaluate(testBuilder(), fixtures)

	// 1 of 1 matched in doc a, 0 of 1 in doc b.
	if summary.FieldAccuracy != 0.5 {
		t.Errorf("FieldAccuracy = %v, want 0.5", summary.FieldAccuracy)
	}
	if len(summary.Documents) != 2 {
		t.Fatalf("Documents = %d, want 2", len(summary.Documents))
	}
	wantAvg := (summary.Documents[0].ReportAccuracy + summary.Documents[1].ReportAccuracy) / 2
	if math.Abs(summary.AverageReportAccuracy-wantAvg) > 1e-9 {
		t.Errorf("AverageReportAccuracy = %v, want %v", summary.AverageReportAccuracy, wantAvg)
	}
}

func TestLoadFixtures(t *testing.T) {
	dir := t.TempDir()
	fixture := `
document_id: doc-9
record:
  lastName: כהן
  idNumber: "123456782"
  dateOfInjury:
    day: "10"
    month: "06"
    year: "2023"
expected:
  lastName: כהן
  idNumber: "123456782"
`
	if err := os.WriteFile(filepath.Join(dir, "doc-9.yaml"), []byte(fixture), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	fixtures, err := LoadFixtures(dir)
	if err != nil {
		t.Fatalf("LoadFixtures() error = %v", err)
	}
	if len(fixtures) != 1 {
		t.Fatalf("fixtures = %d, want 1", len(fixtures))
	}
	f := fixtures[0]
	if f.DocumentID != "doc-9" || f.Record.LastName != "כהן" || f.Record.DateOfInjury.Day != "10" {
		t.Errorf("fixture = %+v", f)
	}
	if f.Expected.IDNumber != "123456782" {
		t.Errorf("expected.idNumber = %q", f.Expected.IDNumber)
	}
}

func TestLoadFixturesEmptyDir(t *testing.T) {
	if _, err := LoadFixtures(t.TempDir()); err == nil {
		t.Error("LoadFixtures() should fail on a directory without fixtures")
	}
}
