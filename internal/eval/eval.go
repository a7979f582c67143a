// Package eval scores extraction quality against ground-truth fixtures.
package eval

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/btlforms/form283/internal/forms"
	"github.com/btlforms/form283/internal/normalize"
	"github.com/btlforms/form283/internal/report"
)

// Fixture pairs an extracted record with its hand-labeled ground truth.
type Fixture struct {
	DocumentID string           `yaml:"document_id"`
	Record     forms.FormRecord `yaml:"record"`
	Expected   forms.FormRecord `yaml:"expected"`
}

// Mismatch is one leaf where extraction and ground truth disagree.
type Mismatch struct {
	Path string `json:"path" yaml:"path"`
	Got  string `json:"got" yaml:"got"`
	Want string `json:"want" yaml:"want"`
}

// DocumentResult is the evaluation of a single document.
type DocumentResult struct {
	DocumentID     string     `json:"document_id" yaml:"document_id"`
	FieldMatches   int        `json:"field_matches" yaml:"field_matches"`
	FieldsExpected int        `json:"fields_expected" yaml:"fields_expected"`
	FieldAccuracy  float64    `json:"field_accuracy" yaml:"field_accuracy"`
	ReportAccuracy float64    `json:"report_accuracy" yaml:"report_accuracy"`
	Completeness   float64    `json:"completeness" yaml:"completeness"`
	Errors         int        `json:"errors" yaml:"errors"`
	Warnings       int        `json:"warnings" yaml:"warnings"`
	Mismatches     []Mismatch `json:"mismatches,omitempty" yaml:"mismatches,omitempty"`
}

// Summary aggregates evaluation across all fixtures.
type Summary struct {
	Documents []DocumentResult `json:"documents" yaml:"documents"`

	// FieldAccuracy is the micro-average: total matches over total
	// expected fields across all documents.
	FieldAccuracy float64 `json:"field_accuracy" yaml:"field_accuracy"`

	// AverageReportAccuracy is the mean of the per-document report scores.
	AverageReportAccuracy float64 `json:"average_report_accuracy" yaml:"average_report_accuracy"`
}

// LoadFixtures reads all fixture files (*.yaml, *.yml) from a directory,
// sorted by filename for stable evaluation order.
func LoadFixtures(dir string) ([]Fixture, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	if len(names) == 0 {
		return nil, fmt.Errorf("no fixture files in %s", dir)
	}

	fixtures := make([]Fixture, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read fixture %s: %w", name, err)
		}
		var f Fixture
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse fixture %s: %w", name, err)
		}
		if f.DocumentID == "" {
			f.DocumentID = strings.TrimSuffix(name, filepath.Ext(name))
		}
		fixtures = append(fixtures, f)
	}

	return fixtures, nil
}

// Evaluate builds a report for each fixture and compares the normalized
// record against the ground truth, leaf by leaf. Both sides are normalized
// before comparison so formatting differences (separators, padding, aliases)
// do not count as extraction errors.
func Evaluate(builder *report.Builder, fixtures []Fixture) *Summary {
	summary := &Summary{
		Documents: make([]DocumentResult, 0, len(fixtures)),
	}

	totalMatches, totalExpected := 0, 0
	var accuracySum float64

	for _, fixture := range fixtures {
		rep := builder.Build(fixture.DocumentID, fixture.Record)

		got := forms.Flatten(rep.Record)
		want := forms.Flatten(normalize.Record(fixture.Expected))

		result := DocumentResult{
			DocumentID:     fixture.DocumentID,
			ReportAccuracy: rep.Accuracy,
			Completeness:   rep.Completeness.Ratio,
			Errors:         rep.Errors(),
			Warnings:       rep.Warnings(),
		}

		for _, path := range forms.Leaves() {
			if want[path] == "" {
				continue
			}
			result.FieldsExpected++
			if got[path] == want[path] {
				result.FieldMatches++
			} else {
				result.Mismatches = append(result.Mismatches, Mismatch{
					Path: path,
					Got:  got[path],
					Want: want[path],
				})
			}
		}

		if result.FieldsExpected > 0 {
			result.FieldAccuracy = float64(result.FieldMatches) / float64(result.FieldsExpected)
		}

		totalMatches += result.FieldMatches
		totalExpected += result.FieldsExpected
		accuracySum += rep.Accuracy

		summary.Documents = append(summary.Documents, result)
	}

	if totalExpected > 0 {
		summary.FieldAccuracy = float64(totalMatches) / float64(totalExpected)
	}
	if len(fixtures) > 0 {
		summary.AverageReportAccuracy = accuracySum / float64(len(fixtures))
	}

	return summary
}
