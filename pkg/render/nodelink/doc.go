// Package nodelink renders positioned data-flow diagrams through Graphviz.
//
// [ToDOT] emits DOT with every node pinned at its computed position, so the
// neato engine reproduces the layout rather than computing its own. Tables
// become HTML-like labels listing their columns; logic operators become
// rounded boxes coloured by logic type.
//
//	dot := nodelink.ToDOT(diagram, nodelink.DefaultOptions())
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Rendering uses [github.com/goccy/go-graphviz], which embeds Graphviz, so
// no dot binary is needed. PDF and PNG conversion requires librsvg
// (rsvg-convert).
package nodelink
