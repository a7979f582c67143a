// Package forms defines the canonical structured record for the National
// Insurance work-injury form (בל/283) and the static schema descriptor that
// drives normalization and validation.
package forms

// DateField is a day/month/year group. Sub-fields are strings so that a
// partially extracted date ("" for missing parts) is representable.
type DateField struct {
	Day   string `json:"day" yaml:"day"`
	Month string `json:"month" yaml:"month"`
	Year  string `json:"year" yaml:"year"`
}

// Empty reports whether no sub-field was extracted.
func (d DateField) Empty() bool {
	return d.Day == "" && d.Month == "" && d.Year == ""
}

// Complete reports whether all sub-fields were extracted.
func (d DateField) Complete() bool {
	return d.Day != "" && d.Month != "" && d.Year != ""
}

// AddressField groups the address leaves of the form.
type AddressField struct {
	Street      string `json:"street" yaml:"street"`
	HouseNumber string `json:"houseNumber" yaml:"houseNumber"`
	Entrance    string `json:"entrance" yaml:"entrance"`
	Apartment   string `json:"apartment" yaml:"apartment"`
	City        string `json:"city" yaml:"city"`
	PostalCode  string `json:"postalCode" yaml:"postalCode"`
	POBox       string `json:"poBox" yaml:"poBox"`
}

// MedicalInstitutionFields groups the clinic-filled section of the form.
type MedicalInstitutionFields struct {
	HealthFundMember string `json:"healthFundMember" yaml:"healthFundMember"`
	NatureOfAccident string `json:"natureOfAccident" yaml:"natureOfAccident"`
	MedicalDiagnoses string `json:"medicalDiagnoses" yaml:"medicalDiagnoses"`
}

// FormRecord is one extracted form. Every leaf is a string; the empty string
// means "not extracted". Leaves are never null - the JSON decoder rejects
// records that use null or a non-string type for a leaf.
type FormRecord struct {
	LastName                string                   `json:"lastName" yaml:"lastName"`
	FirstName               string                   `json:"firstName" yaml:"firstName"`
	IDNumber                string                   `json:"idNumber" yaml:"idNumber"`
	Gender                  string                   `json:"gender" yaml:"gender"`
	DateOfBirth             DateField                `json:"dateOfBirth" yaml:"dateOfBirth"`
	Address                 AddressField             `json:"address" yaml:"address"`
	LandlinePhone           string                   `json:"landlinePhone" yaml:"landlinePhone"`
	MobilePhone             string                   `json:"mobilePhone" yaml:"mobilePhone"`
	JobType                 string                   `json:"jobType" yaml:"jobType"`
	DateOfInjury            DateField                `json:"dateOfInjury" yaml:"dateOfInjury"`
	TimeOfInjury            string                   `json:"timeOfInjury" yaml:"timeOfInjury"`
	AccidentLocation        string                   `json:"accidentLocation" yaml:"accidentLocation"`
	AccidentAddress         string                   `json:"accidentAddress" yaml:"accidentAddress"`
	AccidentDescription     string                   `json:"accidentDescription" yaml:"accidentDescription"`
	InjuredBodyPart         string                   `json:"injuredBodyPart" yaml:"injuredBodyPart"`
	Signature               string                   `json:"signature" yaml:"signature"`
	FormFillingDate         DateField                `json:"formFillingDate" yaml:"formFillingDate"`
	FormReceiptDateAtClinic DateField                `json:"formReceiptDateAtClinic" yaml:"formReceiptDateAtClinic"`
	MedicalInstitution      MedicalInstitutionFields `json:"medicalInstitutionFields" yaml:"medicalInstitutionFields"`
}

// DateGroup returns the date group at the given schema path.
// Returns the zero DateField for non-date paths.
func (r *FormRecord) DateGroup(path string) DateField {
	switch path {
	case "dateOfBirth":
		return r.DateOfBirth
	case "dateOfInjury":
		return r.DateOfInjury
	case "formFillingDate":
		return r.FormFillingDate
	case "formReceiptDateAtClinic":
		return r.FormReceiptDateAtClinic
	}
	return DateField{}
}
