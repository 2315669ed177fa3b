// Package pipeline provides the layout → render pipeline shared by the
// CLI and the HTTP server.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Layout: compute positions and route styles for a parser graph
//  2. Render: generate outputs (JSON, SVG, DOT, Graphviz SVG, PNG, PDF)
//
// Both stages are cached through a [cache.Cache]: layouts by the hash of
// the input graph plus the layout options, artifacts by the hash of the
// layout plus the render options.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, g, pipeline.Options{
//	    Formats: []string{"svg", "json"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	l, err := runner.Layout(ctx, g, opts)
//	artifacts, err := runner.Render(ctx, l, opts)
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dfdlayout/pkg/cache"
	apperr "github.com/matzehuels/dfdlayout/pkg/errors"
	"github.com/matzehuels/dfdlayout/pkg/graph"
	"github.com/matzehuels/dfdlayout/pkg/layout"
)

// Output formats.
const (
	FormatJSON     = "json"
	FormatSVG      = "svg"
	FormatDOT      = "dot"
	FormatGraphviz = "graphviz"
	FormatPNG      = "png"
	FormatPDF      = "pdf"
)

// Formats lists the supported output formats.
var Formats = []string{FormatJSON, FormatSVG, FormatDOT, FormatGraphviz, FormatPNG, FormatPDF}

// ContentType returns the MIME type of a format's output.
func ContentType(format string) string {
	switch format {
	case FormatJSON:
		return "application/json"
	case FormatSVG, FormatGraphviz:
		return "image/svg+xml"
	case FormatDOT:
		return "text/vnd.graphviz"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// Extension returns the file extension for a format, without the dot.
func Extension(format string) string {
	switch format {
	case FormatGraphviz:
		return "graphviz.svg"
	default:
		return format
	}
}

// DefaultFormats is used when Options.Formats is empty.
var DefaultFormats = []string{FormatSVG}

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout settings. Zero fields take the layout defaults.
	Layout layout.Options `json:"layout"`

	// Diagnostics embeds the intermediate layout structure in the JSON
	// output.
	Diagnostics bool `json:"diagnostics,omitempty"`

	// Render options
	Formats        []string `json:"formats,omitempty"`
	HideColumns    bool     `json:"hide_columns,omitempty"`
	HideEdgeLabels bool     `json:"hide_edge_labels,omitempty"`
	Interactive    bool     `json:"interactive,omitempty"`
	Scale          float64  `json:"scale,omitempty"`

	// Refresh skips cache lookups; results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// GraphHash is the content hash of the input graph.
	GraphHash string

	// Layout is the positioned diagram.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // layout came from cache
	RenderHit bool // every artifact came from cache
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	return apperr.ValidateFormat(format, Formats)
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// SetLayoutDefaults fills zero layout fields with the layout defaults.
func (o *Options) SetLayoutDefaults() {
	def := layout.DefaultOptions()
	if o.Layout.HorizontalSpacing == 0 {
		o.Layout.HorizontalSpacing = def.HorizontalSpacing
	}
	if o.Layout.VerticalSpacing == 0 {
		o.Layout.VerticalSpacing = def.VerticalSpacing
	}
	if o.Layout.GapRatio == 0 {
		o.Layout.GapRatio = def.GapRatio
	}
	if o.Layout.OutputLabel == "" {
		o.Layout.OutputLabel = def.OutputLabel
	}
}

// ValidateForLayout applies layout defaults and validates them.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	return o.Layout.Validate()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = DefaultFormats
	}
	if o.Scale <= 0 {
		o.Scale = 2.0
	}
}

// ValidateForRender applies render defaults and validates formats.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// ValidateAndSetDefaults prepares options for a full run. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		HorizontalSpacing: o.Layout.HorizontalSpacing,
		VerticalSpacing:   o.Layout.VerticalSpacing,
		GapRatio:          o.Layout.GapRatio,
		OutputLabel:       o.Layout.OutputLabel,
		CyclePolicy:       o.Layout.CyclePolicy.String(),
		Collation:         o.Layout.Collation,
		Diagnostics:       o.Diagnostics,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
// Settings that do not affect a format are left out so, for example,
// toggling columns does not invalidate cached JSON.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatJSON:
	case FormatPNG:
		k.Scale = o.Scale
		fallthrough
	default:
		k.Columns = !o.HideColumns
		k.Labels = !o.HideEdgeLabels
		k.Interactive = o.Interactive && format == FormatSVG
	}
	return k
}
