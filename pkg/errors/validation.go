package errors

import (
	"math"
	"strings"
	"unicode"
)

// maxFieldNameLength bounds attribute and entity field names.
const maxFieldNameLength = 128

// ValidateFieldName validates a record field name used as a grouping
// attribute or entity field.
//
// The validation rules are intentionally conservative:
//   - No empty or whitespace-only names
//   - No control characters
//   - Maximum length of 128 characters
//
// Whether the field exists in a given schema is checked by the builders.
func ValidateFieldName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "field name cannot be empty")
	}

	if len(name) > maxFieldNameLength {
		return New(ErrCodeInvalidInput, "field name too long (max %d characters)", maxFieldNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "field name contains invalid control characters")
		}
	}

	return nil
}

// ValidateFieldNames validates each name and rejects duplicates.
func ValidateFieldNames(names []string) error {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if err := ValidateFieldName(n); err != nil {
			return err
		}
		if seen[n] {
			return New(ErrCodeInvalidInput, "field %q listed more than once", n)
		}
		seen[n] = true
	}
	return nil
}

// ValidateDimension checks that a viewport or padding value is a finite,
// non-negative number.
func ValidateDimension(label string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidConfig, "%s must be a finite number", label)
	}
	if v < 0 {
		return New(ErrCodeInvalidConfig, "%s cannot be negative (got %g)", label, v)
	}
	return nil
}

// ValidateHexColor checks for a #rgb or #rrggbb color literal.
func ValidateHexColor(c string) error {
	if !strings.HasPrefix(c, "#") || (len(c) != 4 && len(c) != 7) {
		return New(ErrCodeInvalidConfig, "invalid color %q (want #rgb or #rrggbb)", c)
	}
	for _, r := range c[1:] {
		if !unicode.Is(unicode.ASCII_Hex_Digit, r) {
			return New(ErrCodeInvalidConfig, "invalid color %q (want #rgb or #rrggbb)", c)
		}
	}
	return nil
}
