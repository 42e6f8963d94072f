// Package schemas validates externally supplied profiles and job lists
// against the embedded JSON Schema documents.
package schemas

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/smart-applier/internal/types"
	schemafiles "github.com/jonathan/smart-applier/schemas"
)

// FieldError is a single violation at a JSON path
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every violation found in one document. It matches
// types.ErrInvalidInput under errors.Is.
type ValidationError struct {
	Schema string
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	parts := make([]string, len(ve.Errors))
	for i, fe := range ve.Errors {
		parts[i] = fmt.Sprintf("%d. %s: %s", i+1, fe.Field, fe.Message)
	}
	return fmt.Sprintf("%s: %d violation(s): %s", ve.Schema, len(ve.Errors), strings.Join(parts, "; "))
}

func (ve *ValidationError) Is(target error) bool {
	return target == types.ErrInvalidInput
}

// Fields returns the distinct paths that failed, in report order
func (ve *ValidationError) Fields() []string {
	seen := make(map[string]bool, len(ve.Errors))
	var out []string
	for _, fe := range ve.Errors {
		if !seen[fe.Field] {
			seen[fe.Field] = true
			out = append(out, fe.Field)
		}
	}
	return out
}

// SchemaLoadError means the schema could not be compiled or the document was
// not JSON at all
type SchemaLoadError struct {
	Schema  string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("schema %s: %s: %v", e.Schema, e.Message, e.Cause)
	}
	return fmt.Sprintf("schema %s: %s", e.Schema, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

var (
	compiledMu sync.Mutex
	compiled   = make(map[string]*gojsonschema.Schema)
)

// compile returns the embedded schema name, compiling it on first use
func compile(name string) (*gojsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()
	if s, ok := compiled[name]; ok {
		return s, nil
	}
	data, err := schemafiles.Read(name)
	if err != nil {
		return nil, &SchemaLoadError{Schema: name, Message: "embedded schema missing", Cause: err}
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &SchemaLoadError{Schema: name, Message: "invalid schema", Cause: err}
	}
	compiled[name] = s
	return s, nil
}

// ValidateJSONString validates a document against an ad hoc schema
func ValidateJSONString(schemaContent, jsonContent string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schemaContent),
		gojsonschema.NewStringLoader(jsonContent))
	if err != nil {
		return &SchemaLoadError{Schema: "(inline)", Message: "validation could not run", Cause: err}
	}
	return resultError("(inline)", result)
}

// ValidateProfileJSON checks a profile document
func ValidateProfileJSON(jsonContent string) error {
	return validateEmbedded(schemafiles.ProfileSchema, jsonContent)
}

// ValidateJobsJSON checks a job list document
func ValidateJobsJSON(jsonContent string) error {
	return validateEmbedded(schemafiles.JobsSchema, jsonContent)
}

func validateEmbedded(name, jsonContent string) error {
	s, err := compile(name)
	if err != nil {
		return err
	}
	result, err := s.Validate(gojsonschema.NewStringLoader(jsonContent))
	if err != nil {
		return &SchemaLoadError{Schema: name, Message: "document is not valid JSON", Cause: err}
	}
	return resultError(name, result)
}

func resultError(name string, result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}
	ve := &ValidationError{Schema: name, Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return ve
}

// IsValidationError reports whether err carries schema violations
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
