package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lexflow/backend/internal/wizard"
)

// ErrForbidden is returned when a caller touches a draft they do not own.
var ErrForbidden = errors.New("forbidden")

// ErrSuperseded is returned when a catalog lookup was overtaken by a newer
// request for the same key; the stale result is discarded, never returned.
var ErrSuperseded = errors.New("superseded by a newer request")

// ValidationError carries field-keyed violations for step-local validation
// failures. It is always recoverable by correcting input.
type ValidationError struct {
	Violations wizard.Violations
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Violations))
	for k := range e.Violations {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Violations[k]))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func violation(field, code string) error {
	return &ValidationError{Violations: wizard.Violations{field: code}}
}
