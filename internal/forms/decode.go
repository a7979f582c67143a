package forms

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/record.json
var schemaFS embed.FS

// recordSchema is compiled once at startup. The embedded schema is part of
// the build, so a compile failure is a programmer error.
var recordSchema = mustCompileRecordSchema()

func mustCompileRecordSchema() *jsonschema.Schema {
	raw, err := schemaFS.ReadFile("schemas/record.json")
	if err != nil {
		panic(fmt.Sprintf("forms: read embedded record schema: %v", err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("record.json", bytes.NewReader(raw)); err != nil {
		panic(fmt.Sprintf("forms: load record schema: %v", err))
	}
	schema, err := compiler.Compile("record.json")
	if err != nil {
		panic(fmt.Sprintf("forms: compile record schema: %v", err))
	}
	return schema
}

// SchemaJSON returns the raw embedded record schema. Callers use it to tell
// extraction models what shape to produce.
func SchemaJSON() []byte {
	raw, err := schemaFS.ReadFile("schemas/record.json")
	if err != nil {
		panic(fmt.Sprintf("forms: read embedded record schema: %v", err))
	}
	return raw
}

// StructuralError means the input does not have the shape of a form record:
// a leaf that should be a string is an object, a date group is a scalar, a
// field is null, or an unknown field is present. It is the only condition
// that rejects a request outright - bad field *content* never does.
type StructuralError struct {
	Reason string
	Err    error
}

func (e *StructuralError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("structural error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("structural error: %s", e.Reason)
}

func (e *StructuralError) Unwrap() error { return e.Err }

// Decode parses raw JSON into a FormRecord, enforcing the record shape.
// Missing fields decode to empty strings; shape violations return a
// *StructuralError.
func Decode(data []byte) (FormRecord, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return FormRecord{}, &StructuralError{Reason: "invalid JSON", Err: err}
	}

	if err := recordSchema.Validate(doc); err != nil {
		return FormRecord{}, &StructuralError{Reason: "record does not match form schema", Err: err}
	}

	var r FormRecord
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&r); err != nil {
		return FormRecord{}, &StructuralError{Reason: "record decode failed", Err: err}
	}
	return r, nil
}
