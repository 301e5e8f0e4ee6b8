package resource

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationErrors maps field names to human-readable problems. A nil
// or empty map means the draft is valid.
type ValidationErrors map[string]string

// Error implements the error interface
func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}

	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var b strings.Builder
	b.WriteString("validation failed: ")
	for i, field := range fields {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(fmt.Sprintf("%s: %s", field, v[field]))
	}
	return b.String()
}

// Form is a pending create or edit draft with its field-level errors.
// It lives from Begin{Create,Edit} until cancel or successful submit.
type Form[T any] struct {
	// Draft is the in-progress resource value. Callers mutate it
	// directly between Begin and Submit.
	Draft T

	// Errors holds the last validation result for display.
	Errors ValidationErrors

	editing bool
}

// Editing reports whether the form targets an existing resource
// (submit will PUT) rather than a new one (submit will POST).
func (f *Form[T]) Editing() bool {
	return f.editing
}
