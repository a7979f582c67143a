package forms

// Kind selects which normalization and validation rules apply to a field.
// Dispatch is a schema lookup, not type-based branching: adding a field to
// the form means adding a row to the registry below.
type Kind string

const (
	// KindScalar is free text. Passed through untouched.
	KindScalar Kind = "scalar"
	// KindID is the 9-digit Israeli ID with check digit.
	KindID Kind = "id"
	// KindDigits is a fixed-length digit string (low stakes, e.g. postal code).
	KindDigits Kind = "digits"
	// KindDate is a day/month/year group.
	KindDate Kind = "date"
	// KindMobilePhone is a 10-digit mobile number with the 05 prefix.
	KindMobilePhone Kind = "mobile-phone"
	// KindLandlinePhone is a 9-digit landline with a valid area code.
	KindLandlinePhone Kind = "landline-phone"
	// KindCategorical is a value from a small fixed vocabulary.
	KindCategorical Kind = "categorical"
)

// FieldSpec describes one named field of the form schema.
type FieldSpec struct {
	// Path is the dot-free field name for scalars, or the group name for
	// date groups ("dateOfInjury"). Nested scalars use dotted paths
	// ("address.postalCode").
	Path string

	Kind Kind

	// DigitLen is the expected digit count for KindDigits fields.
	DigitLen int

	// Vocabulary lists the canonical tokens for KindCategorical fields.
	Vocabulary []string

	// EventOrder sequences event dates for cross-field ordering checks:
	// injury(1) must not be later than filling(2), which must not be later
	// than receipt(3). Zero means the date takes no part in ordering.
	EventOrder int
}

// Canonical health funds and gender tokens. Hebrew is the canonical form;
// the normalizer maps Latin transliterations onto these.
var (
	HealthFunds = []string{"כללית", "מכבי", "מאוחדת", "לאומית"}
	Genders     = []string{"זכר", "נקבה"}
)

// registry is the single source of truth for the form schema. The engine
// never hard-codes field behavior elsewhere; it looks it up here.
var registry = []FieldSpec{
	{Path: "lastName", Kind: KindScalar},
	{Path: "firstName", Kind: KindScalar},
	{Path: "idNumber", Kind: KindID},
	{Path: "gender", Kind: KindCategorical, Vocabulary: Genders},
	{Path: "dateOfBirth", Kind: KindDate},
	{Path: "address.street", Kind: KindScalar},
	{Path: "address.houseNumber", Kind: KindScalar},
	{Path: "address.entrance", Kind: KindScalar},
	{Path: "address.apartment", Kind: KindScalar},
	{Path: "address.city", Kind: KindScalar},
	{Path: "address.postalCode", Kind: KindDigits, DigitLen: 7},
	{Path: "address.poBox", Kind: KindScalar},
	{Path: "landlinePhone", Kind: KindLandlinePhone},
	{Path: "mobilePhone", Kind: KindMobilePhone},
	{Path: "jobType", Kind: KindScalar},
	{Path: "dateOfInjury", Kind: KindDate, EventOrder: 1},
	{Path: "timeOfInjury", Kind: KindScalar},
	{Path: "accidentLocation", Kind: KindScalar},
	{Path: "accidentAddress", Kind: KindScalar},
	{Path: "accidentDescription", Kind: KindScalar},
	{Path: "injuredBodyPart", Kind: KindScalar},
	{Path: "signature", Kind: KindScalar},
	{Path: "formFillingDate", Kind: KindDate, EventOrder: 2},
	{Path: "formReceiptDateAtClinic", Kind: KindDate, EventOrder: 3},
	{Path: "medicalInstitutionFields.healthFundMember", Kind: KindCategorical, Vocabulary: HealthFunds},
	{Path: "medicalInstitutionFields.natureOfAccident", Kind: KindScalar},
	{Path: "medicalInstitutionFields.medicalDiagnoses", Kind: KindScalar},
}

// Fields returns the schema descriptor in declaration order.
func Fields() []FieldSpec {
	specs := make([]FieldSpec, len(registry))
	copy(specs, registry)
	return specs
}

// Lookup returns the spec for a field path.
func Lookup(path string) (FieldSpec, bool) {
	for _, s := range registry {
		if s.Path == path {
			return s, true
		}
	}
	return FieldSpec{}, false
}

// EventDates returns the date groups that participate in ordering checks,
// sorted by EventOrder.
func EventDates() []FieldSpec {
	var out []FieldSpec
	for order := 1; ; order++ {
		found := false
		for _, s := range registry {
			if s.Kind == KindDate && s.EventOrder == order {
				out = append(out, s)
				found = true
			}
		}
		if !found {
			return out
		}
	}
}

// Leaves returns every leaf path of the schema in declaration order. Date
// groups expand to their day/month/year sub-paths.
func Leaves() []string {
	var leaves []string
	for _, s := range registry {
		if s.Kind == KindDate {
			leaves = append(leaves, s.Path+".day", s.Path+".month", s.Path+".year")
			continue
		}
		leaves = append(leaves, s.Path)
	}
	return leaves
}

// LeafCount is the fixed leaf total the completeness score divides by.
func LeafCount() int {
	return len(Leaves())
}
