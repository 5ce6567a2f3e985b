package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrCaseNotFound covers both missing cases and cases owned by someone else.
	ErrCaseNotFound = errors.New("case not found")
	ErrNotFound     = errors.New("record not found")
	ErrForbidden    = errors.New("insufficient permissions")
	ErrInvalidLogin = errors.New("invalid email or password")
)

// ValidationError carries per-field messages for bad input.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, "; "))
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Message: "Validation error",
		Fields:  map[string]string{field: message},
	}
}

// BusinessRuleError rejects an operation that is valid input but not allowed
// in the current state, e.g. deleting a case that is in progress.
type BusinessRuleError struct {
	Message string
}

func (e *BusinessRuleError) Error() string {
	return e.Message
}

func newBusinessRuleError(format string, args ...any) *BusinessRuleError {
	return &BusinessRuleError{Message: fmt.Sprintf(format, args...)}
}
