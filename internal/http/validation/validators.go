// Package validation checks raw form and prompt values before they reach the
// action services. Messages are in French, ready for an error toast.
package validation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Validator is a function that validates a string value and returns an error message if invalid.
type Validator func(v string) string

// Required validates that a field is not blank and does not exceed maxLen characters.
// Uses rune count for proper Unicode support.
func Required(fieldName string, maxLen int) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return fieldName + " est requis."
		}
		if utf8.RuneCountInString(v) > maxLen {
			return fmt.Sprintf("%s ne peut pas dépasser %d caractères.", fieldName, maxLen)
		}
		return ""
	}
}

// IntRange validates that a field is an integer between minVal and maxVal.
func IntRange(fieldName string, minVal, maxVal int) Validator {
	return func(v string) string {
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fieldName + " doit être un nombre."
		}
		if i < minVal || i > maxVal {
			return fmt.Sprintf("%s doit être compris entre %d et %d.", fieldName, minVal, maxVal)
		}
		return ""
	}
}

// Bool validates that a field is a boolean literal accepted by strconv.ParseBool.
func Bool(fieldName string) Validator {
	return func(v string) string {
		if _, err := strconv.ParseBool(strings.TrimSpace(v)); err != nil {
			return fieldName + " doit valoir true ou false."
		}
		return ""
	}
}

// OneOf validates that a field matches one of the provided options (case-insensitive).
// An empty option list accepts any value.
func OneOf(fieldName string, options []string) Validator {
	return func(v string) string {
		if len(options) == 0 {
			return ""
		}
		v = strings.TrimSpace(v)
		for _, opt := range options {
			if strings.EqualFold(v, opt) {
				return ""
			}
		}
		return fmt.Sprintf("%s doit être l'une des valeurs : %s", fieldName, strings.Join(options, ", "))
	}
}

// FieldValidator provides a fluent API for validating multiple fields.
type FieldValidator struct {
	errors map[string]string
}

// New creates a new FieldValidator instance.
func New() *FieldValidator {
	return &FieldValidator{errors: make(map[string]string)}
}

// Validate validates a field with one or more validators.
// It stops at the first error for each field.
func (fv *FieldValidator) Validate(field, value string, validators ...Validator) *FieldValidator {
	for _, v := range validators {
		if err := v(value); err != "" {
			fv.errors[field] = err
			break // Stop at first error per field
		}
	}
	return fv
}

// Errors returns the accumulated validation errors.
func (fv *FieldValidator) Errors() map[string]string {
	return fv.errors
}

// Valid reports whether no field failed.
func (fv *FieldValidator) Valid() bool { return len(fv.errors) == 0 }

// First returns the message of the first failing field in name order, or "".
func (fv *FieldValidator) First() string {
	if len(fv.errors) == 0 {
		return ""
	}
	fields := make([]string, 0, len(fv.errors))
	for f := range fv.errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fv.errors[fields[0]]
}
