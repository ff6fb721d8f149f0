// Package schemas provides JSON Schema validation for registry seeds and analysis reports.
package schemas

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	schemafiles "github.com/jonathan/skill-matcher/schemas"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// RegistrySchema returns the embedded registry seed schema.
func RegistrySchema() string {
	return mustLoad(schemafiles.RegistryFile)
}

// AnalysisReportSchema returns the embedded analysis report schema.
func AnalysisReportSchema() string {
	return mustLoad(schemafiles.AnalysisReportFile)
}

func mustLoad(name string) string {
	data, err := schemafiles.Load(name)
	if err != nil {
		panic(fmt.Sprintf("schemas: embedded schema %s missing: %v", name, err))
	}
	return string(data)
}

// ValidateDocument validates an already decoded document (maps, slices and
// scalars as produced by encoding/json or yaml.v3) against schema content.
func ValidateDocument(schemaContent string, doc any) error {
	return validate(
		"(embedded schema)",
		gojsonschema.NewStringLoader(schemaContent),
		gojsonschema.NewGoLoader(doc),
	)
}

// ValidateReport validates an encoded analysis report against the embedded
// report schema.
func ValidateReport(data []byte) error {
	return validateString(schemafiles.AnalysisReportFile, AnalysisReportSchema(), string(data))
}

func validateString(name, schemaContent, jsonContent string) error {
	return validate(
		name,
		gojsonschema.NewStringLoader(schemaContent),
		gojsonschema.NewStringLoader(jsonContent),
	)
}

func validate(path string, schemaLoader, documentLoader gojsonschema.JSONLoader) error {
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    path,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
