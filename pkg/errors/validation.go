package errors

import (
	"strings"
	"unicode"
)

// ValidateXref validates a cross-reference identifier supplied by a user
// (focal person id, dataset person id). It accepts the id with or without
// the surrounding "@" delimiters and rejects anything that could not be a
// GEDCOM xref.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or whitespace
//   - No interior "@" once the delimiters are stripped
//   - Maximum length of 64 characters
func ValidateXref(id string) error {
	id = strings.Trim(id, "@")
	if id == "" {
		return New(ErrCodeInvalidXref, "person id cannot be empty")
	}
	if len(id) > 64 {
		return New(ErrCodeInvalidXref, "person id too long (max 64 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidXref, "person id contains invalid characters")
		}
		if r == '@' {
			return New(ErrCodeInvalidXref, "person id contains embedded @")
		}
	}
	return nil
}

// ValidateGenerationLimit validates a generation limit flag or parameter.
// Valid values are -1 (unlimited) and any non-negative count.
func ValidateGenerationLimit(name string, limit int) error {
	if limit < -1 {
		return New(ErrCodeInvalidLimit, "%s must be -1 (unlimited) or >= 0, got %d", name, limit)
	}
	return nil
}
