package validate

import (
	"fmt"
	"strconv"

	"github.com/btlforms/form283/internal/forms"
)

// Run executes every applicable validator over a normalized record and
// returns the findings in deterministic order: per-field issues in schema
// declaration order, then cross-field date checks. Validators are
// independent; nothing short-circuits.
func Run(record forms.FormRecord) []Issue {
	var issues []Issue

	flat := forms.Flatten(record)
	for _, spec := range forms.Fields() {
		var issue *Issue
		switch spec.Kind {
		case forms.KindID:
			issue = CheckIDNumber(spec.Path, flat[spec.Path])
		case forms.KindDate:
			issue = CheckDate(spec.Path, record.DateGroup(spec.Path))
		case forms.KindMobilePhone:
			issue = CheckMobilePhone(spec.Path, flat[spec.Path])
		case forms.KindLandlinePhone:
			issue = CheckLandlinePhone(spec.Path, flat[spec.Path])
		case forms.KindDigits:
			issue = CheckDigits(spec.Path, flat[spec.Path], spec.DigitLen)
		case forms.KindCategorical:
			issue = CheckCategory(spec.Path, flat[spec.Path], spec.Vocabulary)
		}
		if issue != nil {
			issues = append(issues, *issue)
		}
	}

	issues = append(issues, crossDateIssues(record)...)
	return issues
}

// crossDateIssues checks the event-date sequence (injury, form filling,
// receipt at clinic). Violations are warnings only: OCR noise and
// back-dating make them plausible on genuine forms, so they flag the record
// for review without invalidating it.
func crossDateIssues(record forms.FormRecord) []Issue {
	specs := forms.EventDates()

	type eventDate struct {
		path string
		key  int // comparable yyyymmdd, -1 when absent or invalid
	}
	dates := make([]eventDate, 0, len(specs))
	for _, spec := range specs {
		d := record.DateGroup(spec.Path)
		key := -1
		if d.Complete() && CheckDate(spec.Path, d) == nil {
			key = dateKey(d)
		}
		dates = append(dates, eventDate{path: spec.Path, key: key})
	}

	var issues []Issue

	// Ordering: each adjacent pair in event order.
	for i := 1; i < len(dates); i++ {
		prev, cur := dates[i-1], dates[i]
		if prev.key < 0 || cur.key < 0 {
			continue
		}
		if prev.key > cur.key {
			issues = append(issues, *warningIssue(cur.path, CodeDateOrder,
				fmt.Sprintf("%s is earlier than %s", cur.path, prev.path)))
		}
	}

	// Duplicates: identical groups are suspicious (OCR often copies one
	// date into several boxes) but are never auto-corrected - silently
	// reassigning values risks corrupting correct data.
	for i := 0; i < len(dates); i++ {
		for j := i + 1; j < len(dates); j++ {
			if dates[i].key >= 0 && dates[i].key == dates[j].key {
				issues = append(issues, *warningIssue(dates[j].path, CodeDateDuplicate,
					fmt.Sprintf("%s is identical to %s", dates[j].path, dates[i].path)))
			}
		}
	}

	return issues
}

func dateKey(d forms.DateField) int {
	day, _ := strconv.Atoi(d.Day)
	month, _ := strconv.Atoi(d.Month)
	year, _ := strconv.Atoi(d.Year)
	return year*10000 + month*100 + day
}
