package errors

import (
	"strings"
	"unicode"
)

// maxIDLength bounds node and edge identifiers.
const maxIDLength = 256

// ValidateNodeID validates a node identifier coming from the parser.
//
// The validation rules are intentionally conservative:
//   - No empty ids
//   - No control characters (ids end up in DOT, SVG and cache keys)
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidGraph, "node id cannot be empty")
	}

	if len(id) > maxIDLength {
		return New(ErrCodeInvalidGraph, "node id too long (max %d characters)", maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidGraph, "node id %q contains control characters", id)
		}
	}

	return nil
}

// ValidateLabel validates a display label. Labels may span several lines
// (WHERE conditions are one per line), so newlines and tabs are allowed.
func ValidateLabel(label string) error {
	for _, r := range label {
		if r == '\n' || r == '\t' {
			continue
		}
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidGraph, "label %q contains control characters", label)
		}
	}
	return nil
}

// ValidateFormat checks that format is one of allowed (case-sensitive).
func ValidateFormat(format string, allowed []string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(allowed, ", "))
}
