package layout

import (
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// labelOrder compares two labels. It returns a negative number, zero or a
// positive number like [strings.Compare].
type labelOrder func(a, b string) int

// newLabelOrder builds the comparator for a collation tag. The empty tag
// yields byte-wise comparison. A collator is not safe for concurrent use,
// so each layout run builds its own.
func newLabelOrder(tag string) labelOrder {
	if tag == "" {
		return strings.Compare
	}
	c := collate.New(language.Make(tag))
	return c.CompareString
}
