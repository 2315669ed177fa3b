package layout

import (
	"golang.org/x/text/language"

	"github.com/matzehuels/dfdlayout/pkg/dag/transform"
	"github.com/matzehuels/dfdlayout/pkg/dfd"
	apperr "github.com/matzehuels/dfdlayout/pkg/errors"
)

const (
	// DefaultHorizontalSpacing is the distance between level columns.
	DefaultHorizontalSpacing = 350.0

	// DefaultVerticalSpacing is the distance between adjacent lanes.
	DefaultVerticalSpacing = 180.0

	// DefaultGapRatio is the minimum vertical distance between two nodes of
	// the same level, as a fraction of the vertical spacing.
	DefaultGapRatio = 0.9
)

// Options configures a layout run. The zero value is not valid; start from
// [DefaultOptions].
type Options struct {
	HorizontalSpacing float64               `json:"horizontal_spacing"`
	VerticalSpacing   float64               `json:"vertical_spacing"`
	GapRatio          float64               `json:"gap_ratio"`
	OutputLabel       string                `json:"output_label"`
	CyclePolicy       transform.CyclePolicy `json:"cycle_policy"`

	// Collation is a BCP 47 language tag. When set, labels are ordered
	// with that language's collation rules instead of byte-wise.
	Collation string `json:"collation,omitempty"`
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		HorizontalSpacing: DefaultHorizontalSpacing,
		VerticalSpacing:   DefaultVerticalSpacing,
		GapRatio:          DefaultGapRatio,
		OutputLabel:       dfd.OutputLabel,
		CyclePolicy:       transform.CycleReject,
	}
}

// MinGap returns the minimum vertical distance between nodes of one level.
func (o Options) MinGap() float64 { return o.VerticalSpacing * o.GapRatio }

// Validate reports the first invalid setting as an INVALID_OPTION error.
func (o Options) Validate() error {
	if o.HorizontalSpacing <= 0 {
		return apperr.New(apperr.ErrCodeInvalidOption, "horizontal spacing must be positive, got %v", o.HorizontalSpacing)
	}
	if o.VerticalSpacing <= 0 {
		return apperr.New(apperr.ErrCodeInvalidOption, "vertical spacing must be positive, got %v", o.VerticalSpacing)
	}
	if o.GapRatio <= 0 {
		return apperr.New(apperr.ErrCodeInvalidOption, "gap ratio must be positive, got %v", o.GapRatio)
	}
	switch o.CyclePolicy {
	case transform.CycleReject, transform.CycleTolerate, transform.CycleBreak:
	default:
		return apperr.New(apperr.ErrCodeInvalidOption, "unknown cycle policy %v", o.CyclePolicy)
	}
	if o.Collation != "" {
		if _, err := language.Parse(o.Collation); err != nil {
			return apperr.Wrap(apperr.ErrCodeInvalidOption, err, "invalid collation %q", o.Collation)
		}
	}
	return nil
}

// Option adjusts Options.
type Option func(*Options)

// WithSpacing sets the column and lane distances.
func WithSpacing(horizontal, vertical float64) Option {
	return func(o *Options) {
		o.HorizontalSpacing = horizontal
		o.VerticalSpacing = vertical
	}
}

// WithGapRatio sets the minimum same-level gap as a fraction of the
// vertical spacing.
func WithGapRatio(r float64) Option { return func(o *Options) { o.GapRatio = r } }

// WithCyclePolicy selects how cyclic input is handled.
func WithCyclePolicy(p transform.CyclePolicy) Option {
	return func(o *Options) { o.CyclePolicy = p }
}

// WithOutputLabel changes the label that marks the output node.
func WithOutputLabel(label string) Option { return func(o *Options) { o.OutputLabel = label } }

// WithCollator orders labels using the collation rules of tag.
func WithCollator(tag language.Tag) Option {
	return func(o *Options) { o.Collation = tag.String() }
}

// WithOptions replaces all settings at once.
func WithOptions(opts Options) Option { return func(o *Options) { *o = opts } }
