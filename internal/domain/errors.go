package domain

import (
	"errors"
	"strings"
)

var (
	// ErrStoreUnavailable is returned by every data operation when no document
	// store is configured.
	ErrStoreUnavailable = errors.New("database not configured")
	// ErrInvalidID is returned when an identifier is not in the store's format.
	ErrInvalidID = errors.New("invalid id")
	// ErrNotFound is returned when a well-formed identifier matches nothing.
	ErrNotFound = errors.New("not found")
	// ErrNoFields is returned when a partial update carries no field.
	ErrNoFields = errors.New("no fields to update")
)

// FieldError describes one rejected field, named as it appears in JSON.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError lists every field that failed schema validation.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether field is among the rejected fields.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}
