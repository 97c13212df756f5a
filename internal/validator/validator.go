package validator

// The CUE validator is the contract guard on the JSON report. If a field
// name drifts or a category outside UNUSED/UNDRIVEN leaks through, CI
// consumers silently misread the report; better to crash here with a
// clear error than emit a report nobody can trust.

import (
	"embed"
	"encoding/json"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

//go:embed report_schema.cue
var schemaFS embed.FS

// Validator validates the JSON lint report against the CUE schema
// contract.
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
}

// New creates a new Validator with the embedded CUE schema
func New() (*Validator, error) {
	ctx := cuecontext.New()

	schemaBytes, err := schemaFS.ReadFile("report_schema.cue")
	if err != nil {
		return nil, fmt.Errorf("loading embedded schema: %w", err)
	}

	schema := ctx.CompileBytes(schemaBytes)
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", schema.Err())
	}

	return &Validator{
		ctx:    ctx,
		schema: schema,
	}, nil
}

// Validate checks that the report conforms to the CUE schema.
// Returns nil if valid, or a detailed error explaining what failed.
func (v *Validator) Validate(report interface{}) error {
	jsonBytes, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling report to JSON: %w", err)
	}
	return v.ValidateJSON(jsonBytes)
}

// ValidateJSON validates JSON bytes directly against the schema
func (v *Validator) ValidateJSON(jsonBytes []byte) error {
	dataValue := v.ctx.CompileBytes(jsonBytes)
	if dataValue.Err() != nil {
		return fmt.Errorf("compiling JSON as CUE: %w", dataValue.Err())
	}

	reportDef := v.schema.LookupPath(cue.ParsePath("#Report"))
	if reportDef.Err() != nil {
		return fmt.Errorf("looking up #Report definition: %w", reportDef.Err())
	}

	unified := reportDef.Unify(dataValue)
	if err := unified.Validate(); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	return nil
}

// ValidationErrors returns detailed information about all validation
// errors, one message per failing field.
func (v *Validator) ValidationErrors(report interface{}) []string {
	jsonBytes, err := json.Marshal(report)
	if err != nil {
		return []string{fmt.Sprintf("marshal error: %v", err)}
	}

	dataValue := v.ctx.CompileBytes(jsonBytes)
	if dataValue.Err() != nil {
		return []string{fmt.Sprintf("compile error: %v", dataValue.Err())}
	}

	reportDef := v.schema.LookupPath(cue.ParsePath("#Report"))
	if reportDef.Err() != nil {
		return []string{fmt.Sprintf("schema lookup error: %v", reportDef.Err())}
	}

	unified := reportDef.Unify(dataValue)
	err = unified.Validate()
	if err == nil {
		return nil
	}

	var errs []string
	for _, e := range errors.Errors(err) {
		errs = append(errs, e.Error())
	}
	return errs
}
