package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrLaptopNotFound signals an unknown laptop id.
	ErrLaptopNotFound = errors.New("laptop not found")
	// ErrInvalidCriteria signals search criteria that failed validation.
	ErrInvalidCriteria = errors.New("invalid search criteria")
	// ErrInvalidInput signals a malformed request outside of search criteria.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCatalog signals a catalog file that cannot be loaded.
	ErrInvalidCatalog = errors.New("invalid catalog")

	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrGenerationQuotaExceeded signals an exhausted generation token budget.
	ErrGenerationQuotaExceeded = errors.New("generation quota exceeded")
	// ErrGenerationProviderError signals a text or speech provider failure.
	ErrGenerationProviderError = errors.New("generation provider error")
	// ErrGenerationUnavailable signals that the provider circuit is open.
	ErrGenerationUnavailable = errors.New("generation provider unavailable")
	// ErrNotImplemented signals an unimplemented or unconfigured feature.
	ErrNotImplemented = errors.New("not implemented")
)

// FieldError describes a single rejected input field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError wraps ErrInvalidCriteria (or ErrInvalidInput) with per-field details.
type ValidationError struct {
	kind   error
	Fields []FieldError
}

// NewValidationError creates a validation error of the given kind.
func NewValidationError(kind error, fields []FieldError) error {
	return &ValidationError{kind: kind, Fields: fields}
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return fmt.Sprintf("%s: %s", e.kind.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return e.kind }
