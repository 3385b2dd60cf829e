package config

import (
	"fmt"
	"io"
	"strings"
)

// Kind classifies a failed validation rule.
type Kind string

const (
	KindMissing    Kind = "MissingRequiredField"
	KindCoercion   Kind = "TypeCoercionFailure"
	KindRange      Kind = "RangeViolation"
	KindFormat     Kind = "FormatViolation"
	KindCrossField Kind = "CrossFieldViolation"
	KindEnum       Kind = "EnumViolation"
	KindLength     Kind = "LengthViolation"
)

// Violation is one failed rule on one field.
type Violation struct {
	Field   string `json:"field"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return v.Field + ": " + v.Message
}

// ValidationError carries every violation found in a single validation pass.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		lines = append(lines, v.String())
	}
	return fmt.Sprintf("invalid configuration: %s", strings.Join(lines, "; "))
}

// Has reports whether a violation of kind exists for field.
func (e *ValidationError) Has(field string, kind Kind) bool {
	for _, v := range e.Violations {
		if v.Field == field && v.Kind == kind {
			return true
		}
	}
	return false
}

// Report writes one "FIELD: message" line per violation.
func Report(w io.Writer, err *ValidationError) error {
	if _, werr := fmt.Fprintln(w, "invalid environment configuration:"); werr != nil {
		return werr
	}
	for _, v := range err.Violations {
		if _, werr := fmt.Fprintf(w, "  %s\n", v); werr != nil {
			return werr
		}
	}
	return nil
}
