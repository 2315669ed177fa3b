package styles

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"unicode/utf8"
)

// SeparatorPrefix marks a column row that is drawn as a divider rather than
// a column name.
const SeparatorPrefix = "---"

// IsSeparator reports whether a column row is a divider.
func IsSeparator(col string) bool { return strings.HasPrefix(col, SeparatorPrefix) }

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// Truncate shortens s to at most maxChars runes, ending in "..".
func Truncate(s string, maxChars int) string {
	maxChars = max(3, maxChars)
	if utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	r := []rune(s)
	return string(r[:maxChars-2]) + ".."
}

// Lines splits a label on newlines. WHERE labels carry one condition per
// line.
func Lines(label string) []string {
	if label == "" {
		return []string{""}
	}
	return strings.Split(label, "\n")
}

func fmtPath(format string, args ...any) string { return fmt.Sprintf(format, args...) }
