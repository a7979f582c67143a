package normalize

import "strings"

// aliasTables maps categorical field paths to case-insensitive alias tables.
// Keys are lowercased; values are the canonical tokens from the schema
// vocabulary. Unrecognized values pass through unchanged - the validator
// decides whether that is a problem.
var aliasTables = map[string]map[string]string{
	"medicalInstitutionFields.healthFundMember": {
		"כללית":        "כללית",
		"שירותי בריאות כללית": "כללית",
		"clalit":       "כללית",
		"klalit":       "כללית",
		"מכבי":         "מכבי",
		"מכבי שירותי בריאות":  "מכבי",
		"maccabi":      "מכבי",
		"macabi":       "מכבי",
		"makabi":       "מכבי",
		"מאוחדת":       "מאוחדת",
		"קופת חולים מאוחדת":   "מאוחדת",
		"meuhedet":     "מאוחדת",
		"meuchedet":    "מאוחדת",
		"לאומית":       "לאומית",
		"לאומית שירותי בריאות": "לאומית",
		"leumit":       "לאומית",
	},
	"gender": {
		"זכר":    "זכר",
		"ז":      "זכר",
		"male":   "זכר",
		"m":      "זכר",
		"נקבה":   "נקבה",
		"נ":      "נקבה",
		"female": "נקבה",
		"f":      "נקבה",
	},
}

// canonical maps a categorical value onto its canonical token.
func canonical(path, value string) string {
	if value == "" {
		return ""
	}
	table, ok := aliasTables[path]
	if !ok {
		return value
	}
	if canon, ok := table[strings.ToLower(strings.TrimSpace(value))]; ok {
		return canon
	}
	return value
}
