package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kbukum/yake/errors"
)

// Validator collects problems found while checking a definition, so that a
// single error can report all of them.
type Validator struct {
	errors []FieldError
}

// FieldError is one problem. Field is a dotted target path or config key.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates an empty Validator.
func New() *Validator {
	return &Validator{}
}

// AddError records a problem with field.
func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any problem was recorded.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns the recorded problems in the order they were found.
func (v *Validator) Errors() []FieldError {
	return v.errors
}

// Validate returns an INVALID_INPUT AppError listing every problem, or nil.
func (v *Validator) Validate() *errors.AppError {
	return v.ValidateAs(errors.ErrCodeInvalidInput)
}

// ValidateAs is Validate with a caller-chosen error code.
func (v *Validator) ValidateAs(code errors.ErrorCode) *errors.AppError {
	if !v.HasErrors() {
		return nil
	}

	messages := make([]string, len(v.errors))
	for i, e := range v.errors {
		messages[i] = e.Field + ": " + e.Message
	}

	return errors.New(code, strings.Join(messages, "; ")).
		WithDetail("fields", v.errors)
}

// Required checks that value is not blank.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "is required")
	}
	return v
}

// OneOf checks that value is one of allowed.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.AddError(field, fmt.Sprintf("must be one of: %s (got %q)", strings.Join(allowed, ", "), value))
	return v
}

// Custom records message when condition is false.
func (v *Validator) Custom(condition bool, field, message string) *Validator {
	if !condition {
		v.AddError(field, message)
	}
	return v
}

// Name checks a local target name: non-blank, without separator or whitespace.
// It reports whether the name is usable.
func (v *Validator) Name(field, name string) bool {
	switch {
	case strings.TrimSpace(name) == "":
		v.AddError(field, "target name is required")
		return false
	case strings.ContainsAny(name, ". \t\r\n"):
		v.AddError(field, "name must not contain '.' or whitespace")
		return false
	}
	return true
}

// Assignments checks that every entry is KEY=VALUE with a non-blank key.
func (v *Validator) Assignments(field string, entries []string) *Validator {
	for _, kv := range entries {
		key, _, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(key) == "" {
			v.AddError(field, "entry "+strconv.Quote(kv)+" is not KEY=VALUE")
		}
	}
	return v
}
