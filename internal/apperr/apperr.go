package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound matches every *NotFoundError via errors.Is
	ErrNotFound = errors.New("not found")

	// ErrMalformedRequest is returned when a request body cannot be decoded
	ErrMalformedRequest = errors.New("Invalid JSON in request body.")
)

// ValidationError carries one message per offending field
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages(), "; ")
}

// Messages returns "field: message" entries ordered by field name
func (e *ValidationError) Messages() []string {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+": "+e.Fields[k])
	}
	return out
}

// Invalid builds a ValidationError for a single field
func Invalid(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// FieldErrors accumulates per-field messages. The first message recorded for
// a field wins.
type FieldErrors map[string]string

func (f FieldErrors) Add(field, message string) {
	if _, ok := f[field]; !ok {
		f[field] = message
	}
}

// Err returns nil when nothing was recorded
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: map[string]string(f)}
}

// NotFoundError reports a missing primary or parent record
type NotFoundError struct {
	Resource string
	ID       any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %v does not exist.", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func NotFound(resource string, id any) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// IsValidation reports whether err wraps a *ValidationError
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// Messages flattens any error into the list shape used by GraphQL payloads
func Messages(err error) []string {
	if err == nil {
		return []string{}
	}
	if ve, ok := IsValidation(err); ok {
		return ve.Messages()
	}
	return []string{err.Error()}
}
