package forms

// leafPointers maps every schema leaf path to its field inside r.
// Flatten, FromFlat and the scoring engine all derive from this one table so
// the path set cannot drift from the struct layout.
func leafPointers(r *FormRecord) map[string]*string {
	return map[string]*string{
		"lastName":  &r.LastName,
		"firstName": &r.FirstName,
		"idNumber":  &r.IDNumber,
		"gender":    &r.Gender,

		"dateOfBirth.day":   &r.DateOfBirth.Day,
		"dateOfBirth.month": &r.DateOfBirth.Month,
		"dateOfBirth.year":  &r.DateOfBirth.Year,

		"address.street":      &r.Address.Street,
		"address.houseNumber": &r.Address.HouseNumber,
		"address.entrance":    &r.Address.Entrance,
		"address.apartment":   &r.Address.Apartment,
		"address.city":        &r.Address.City,
		"address.postalCode":  &r.Address.PostalCode,
		"address.poBox":       &r.Address.POBox,

		"landlinePhone": &r.LandlinePhone,
		"mobilePhone":   &r.MobilePhone,
		"jobType":       &r.JobType,

		"dateOfInjury.day":   &r.DateOfInjury.Day,
		"dateOfInjury.month": &r.DateOfInjury.Month,
		"dateOfInjury.year":  &r.DateOfInjury.Year,

		"timeOfInjury":        &r.TimeOfInjury,
		"accidentLocation":    &r.AccidentLocation,
		"accidentAddress":     &r.AccidentAddress,
		"accidentDescription": &r.AccidentDescription,
		"injuredBodyPart":     &r.InjuredBodyPart,
		"signature":           &r.Signature,

		"formFillingDate.day":   &r.FormFillingDate.Day,
		"formFillingDate.month": &r.FormFillingDate.Month,
		"formFillingDate.year":  &r.FormFillingDate.Year,

		"formReceiptDateAtClinic.day":   &r.FormReceiptDateAtClinic.Day,
		"formReceiptDateAtClinic.month": &r.FormReceiptDateAtClinic.Month,
		"formReceiptDateAtClinic.year":  &r.FormReceiptDateAtClinic.Year,

		"medicalInstitutionFields.healthFundMember": &r.MedicalInstitution.HealthFundMember,
		"medicalInstitutionFields.natureOfAccident": &r.MedicalInstitution.NatureOfAccident,
		"medicalInstitutionFields.medicalDiagnoses": &r.MedicalInstitution.MedicalDiagnoses,
	}
}

// Flatten returns the record as a path -> value table using dot-separated
// leaf paths, e.g. "dateOfBirth.day".
func Flatten(r FormRecord) map[string]string {
	ptrs := leafPointers(&r)
	flat := make(map[string]string, len(ptrs))
	for path, p := range ptrs {
		flat[path] = *p
	}
	return flat
}

// FromFlat rebuilds a record from a path -> value table. Missing paths
// become empty leaves; unknown paths are ignored.
func FromFlat(flat map[string]string) FormRecord {
	var r FormRecord
	for path, p := range leafPointers(&r) {
		*p = flat[path]
	}
	return r
}

// Leaf returns the value at a leaf path.
func Leaf(r FormRecord, path string) string {
	if p, ok := leafPointers(&r)[path]; ok {
		return *p
	}
	return ""
}
