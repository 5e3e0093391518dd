// Package dto holds the JSON shapes shared by the HTTP and MCP adapters.
package dto

import (
	"errors"

	"github.com/aretw0/concerto/pkg/domain"
)

// Violation is the wire form of a *domain.ValidationError.
type Violation struct {
	Code     string `json:"code" jsonschema_description:"Machine-readable error kind, e.g. missing_required_property"`
	Message  string `json:"message" jsonschema_description:"Human-readable description"`
	Path     string `json:"path,omitempty" jsonschema_description:"JSON path of the offending value"`
	Class    string `json:"class,omitempty"`
	Property string `json:"property,omitempty"`
	Expected string `json:"expected,omitempty"`
	Found    string `json:"found,omitempty"`
}

// ValidationResult is the outcome of validating one document.
type ValidationResult struct {
	Valid bool       `json:"valid" jsonschema_description:"True when the document conforms to the metamodel"`
	Error *Violation `json:"error,omitempty" jsonschema_description:"The first violation found"`
}

// NewValidationResult converts the error returned by a validation call.
func NewValidationResult(err error) ValidationResult {
	if err == nil {
		return ValidationResult{Valid: true}
	}
	return ValidationResult{Error: NewViolation(err)}
}

// NewViolation converts any error; non-validation errors only carry a message.
func NewViolation(err error) *Violation {
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		return &Violation{Code: "error", Message: err.Error()}
	}
	return &Violation{
		Code:     ve.Kind.Code(),
		Message:  ve.Error(),
		Path:     string(ve.Path),
		Class:    ve.Class,
		Property: ve.Property,
		Expected: ve.Expected,
		Found:    ve.Found,
	}
}
