package validate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/btlforms/form283/internal/forms"
)

// CheckIDNumber validates the Israeli ID check digit. The value must be
// exactly 9 digits; each digit is weighted 1 or 2 alternating from the left,
// products above 9 are reduced by 9, and the sum must divide by 10.
func CheckIDNumber(path, value string) *Issue {
	if value == "" {
		return nil
	}
	if len(value) != 9 || !isDigits(value) {
		return errorIssue(path, CodeIDLength,
			fmt.Sprintf("Israeli ID must be 9 digits (got %d)", len(value)))
	}

	sum := 0
	for i, r := range value {
		n := int(r - '0')
		if i%2 == 1 {
			n *= 2
		}
		if n > 9 {
			n -= 9
		}
		sum += n
	}
	if sum%10 != 0 {
		return errorIssue(path, CodeIDChecksum, "invalid Israeli ID check digit")
	}
	return nil
}

// CheckDate validates one day/month/year group. An entirely empty group is
// not provided and passes; a partially filled group is a warning; out of
// range components are errors naming the offending component.
func CheckDate(path string, d forms.DateField) *Issue {
	if d.Empty() {
		return nil
	}
	if !d.Complete() {
		return warningIssue(path, CodeDatePartial,
			"incomplete date: missing day, month, or year")
	}

	day, err := strconv.Atoi(d.Day)
	if err != nil || day < 1 || day > 31 {
		return errorIssue(path, CodeDateRange, fmt.Sprintf("invalid day: %s", d.Day))
	}
	month, err := strconv.Atoi(d.Month)
	if err != nil || month < 1 || month > 12 {
		return errorIssue(path, CodeDateRange, fmt.Sprintf("invalid month: %s", d.Month))
	}
	year, err := strconv.Atoi(d.Year)
	if err != nil || year < 1900 || year > 2100 {
		return errorIssue(path, CodeDateRange, fmt.Sprintf("invalid year: %s", d.Year))
	}
	if max := daysInMonth(month, year); day > max {
		return errorIssue(path, CodeDateRange,
			fmt.Sprintf("invalid day: month %02d of %d has %d days", month, year, max))
	}
	return nil
}

// CheckMobilePhone validates the mobile shape: exactly 10 digits starting
// with the 05 prefix.
func CheckMobilePhone(path, value string) *Issue {
	if value == "" {
		return nil
	}
	if len(value) != 10 || !isDigits(value) || !strings.HasPrefix(value, "05") {
		return errorIssue(path, CodePhoneFormat,
			"mobile phone must be 10 digits starting with 05")
	}
	return nil
}

// landlineAreaDigits are the second digits of valid landline area codes
// (02, 03, 04, 08, 09).
const landlineAreaDigits = "23489"

// CheckLandlinePhone validates the landline shape: exactly 9 digits starting
// with 0 and a valid area-code digit.
func CheckLandlinePhone(path, value string) *Issue {
	if value == "" {
		return nil
	}
	if len(value) != 9 || !isDigits(value) || value[0] != '0' ||
		!strings.ContainsRune(landlineAreaDigits, rune(value[1])) {
		return errorIssue(path, CodePhoneFormat,
			"landline phone must be 9 digits starting with a valid area code")
	}
	return nil
}

// CheckDigits validates a fixed-length digit field such as the postal code.
// These are lower-stakes fields, so a mismatch is a warning rather than an
// error.
func CheckDigits(path, value string, wantLen int) *Issue {
	if value == "" {
		return nil
	}
	if len(value) != wantLen || !isDigits(value) {
		return warningIssue(path, CodeDigitsLength,
			fmt.Sprintf("expected %d digits, got %d", wantLen, len(value)))
	}
	return nil
}

// CheckCategory validates a categorical value against its vocabulary. The
// normalizer already mapped known aliases, so anything left unrecognized is
// a low-confidence extraction worth a warning.
func CheckCategory(path, value string, vocabulary []string) *Issue {
	if value == "" {
		return nil
	}
	for _, v := range vocabulary {
		if value == v {
			return nil
		}
	}
	return warningIssue(path, CodeCategory,
		fmt.Sprintf("value %q is not one of the expected options", value))
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func daysInMonth(month, year int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if isLeapYear(year) {
			return 29
		}
		return 28
	}
	return 0
}

func isLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}
