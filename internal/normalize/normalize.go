// Package normalize repairs noisy OCR/LLM-extracted field values into
// canonical form. Normalization is pure: it never fails, never records
// issues (validators do that), and never mutates its input.
package normalize

import (
	"strconv"
	"strings"

	"github.com/btlforms/form283/internal/forms"
)

// Record returns a normalized copy of raw. Rules are applied per field from
// the schema descriptor; no rule reads another field's output, so the result
// is order-independent and idempotent.
func Record(raw forms.FormRecord) forms.FormRecord {
	flat := forms.Flatten(raw)

	for _, spec := range forms.Fields() {
		switch spec.Kind {
		case forms.KindID, forms.KindDigits, forms.KindMobilePhone, forms.KindLandlinePhone:
			flat[spec.Path] = digitsOnly(flat[spec.Path])

		case forms.KindDate:
			day, month, year := repairDate(
				flat[spec.Path+".day"],
				flat[spec.Path+".month"],
				flat[spec.Path+".year"],
			)
			flat[spec.Path+".day"] = day
			flat[spec.Path+".month"] = month
			flat[spec.Path+".year"] = year

		case forms.KindCategorical:
			flat[spec.Path] = canonical(spec.Path, flat[spec.Path])
		}
	}

	return forms.FromFlat(flat)
}

// digitsOnly strips everything that is not an ASCII digit. OCR fragmentation
// inserts pipes, spaces and stray letters into digit runs; stripping them
// glues the run back together without reordering digits.
func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// repairDate normalizes one day/month/year group: digits only per sub-field,
// a day/month swap when the month slot holds an impossible value, zero
// padding to two characters, and two-digit year expansion.
func repairDate(day, month, year string) (string, string, string) {
	day = digitsOnly(day)
	month = digitsOnly(month)
	year = digitsOnly(year)

	// A month above 12 next to a day that could be a month is a swapped
	// pair. Swapping inside one group is safe; reassigning values across
	// groups is not, so identical groups are left for validators to flag.
	if d, err1 := strconv.Atoi(day); err1 == nil {
		if m, err2 := strconv.Atoi(month); err2 == nil && m > 12 && d >= 1 && d <= 12 {
			day, month = month, day
		}
	}

	day = padTwo(day)
	month = padTwo(month)
	year = expandYear(year)

	return day, month, year
}

func padTwo(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// yearPivot splits two-digit years: 00-30 are 2000s, 31-99 are 1900s.
const yearPivot = 30

// expandYear expands exactly-two-digit years around the pivot. Four-digit
// years (and anything else) pass through for the validator to judge.
func expandYear(year string) string {
	if len(year) != 2 {
		return year
	}
	n, err := strconv.Atoi(year)
	if err != nil {
		return year
	}
	if n <= yearPivot {
		return "20" + year
	}
	return "19" + year
}
