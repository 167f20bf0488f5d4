package validation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kbukum/kafkasample/errors"
)

// Severity tells the caller what to do with a Violation.
type Severity int

const (
	// SeverityError violations must stop startup.
	SeverityError Severity = iota
	// SeverityWarning violations are logged and ignored.
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Violation is a single validation finding for a field.
type Violation struct {
	Field    string   `json:"field"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

func (v Violation) String() string {
	return v.Field + ": " + v.Message
}

// Validator collects violations. The zero value is not usable; call New.
type Validator struct {
	violations []Violation
}

// New creates a new Validator.
func New() *Validator {
	return &Validator{violations: make([]Violation, 0)}
}

// AddError records an error-severity violation.
func (v *Validator) AddError(field, message string) *Validator {
	v.violations = append(v.violations, Violation{Field: field, Message: message, Severity: SeverityError})
	return v
}

// AddWarning records a warning-severity violation.
func (v *Validator) AddWarning(field, message string) *Validator {
	v.violations = append(v.violations, Violation{Field: field, Message: message, Severity: SeverityWarning})
	return v
}

// Required checks that a string is not blank.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "is required")
	}
	return v
}

// NotEmpty checks that a slice has at least one element.
func (v *Validator) NotEmpty(field string, n int) *Validator {
	if n == 0 {
		v.AddError(field, "must not be empty")
	}
	return v
}

// Min checks that a number is at least minVal.
func (v *Validator) Min(field string, value, minVal int) *Validator {
	if value < minVal {
		v.AddError(field, fmt.Sprintf("must be at least %d", minVal))
	}
	return v
}

// OneOf checks that a non-empty value is in allowed.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value == "" || slices.Contains(allowed, value) {
		return v
	}
	v.AddError(field, fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")))
	return v
}

// Custom records an error when condition is false.
func (v *Validator) Custom(condition bool, field, message string) *Validator {
	if !condition {
		v.AddError(field, message)
	}
	return v
}

// Merge appends violations collected elsewhere.
func (v *Validator) Merge(violations []Violation) *Validator {
	v.violations = append(v.violations, violations...)
	return v
}

// Violations returns all findings in the order they were recorded.
func (v *Validator) Violations() []Violation {
	return v.violations
}

// HasErrors reports whether any error-severity violation was recorded.
func (v *Validator) HasErrors() bool {
	return len(Errors(v.violations)) > 0
}

// Err returns an AppError listing the error-severity violations, or nil.
// Warnings never produce an error.
func (v *Validator) Err() error {
	errs := Errors(v.violations)
	if len(errs) == 0 {
		return nil
	}
	messages := make([]string, len(errs))
	for i, e := range errs {
		messages[i] = e.String()
	}
	return errors.Validation(strings.Join(messages, "; ")).WithDetail("fields", errs)
}

// Errors filters violations down to the error-severity ones.
func Errors(violations []Violation) []Violation {
	return filter(violations, SeverityError)
}

// Warnings filters violations down to the warning-severity ones.
func Warnings(violations []Violation) []Violation {
	return filter(violations, SeverityWarning)
}

func filter(violations []Violation, s Severity) []Violation {
	var out []Violation
	for _, v := range violations {
		if v.Severity == s {
			out = append(out, v)
		}
	}
	return out
}
