// Package sink writes positioned data-flow diagrams to output formats.
//
// [RenderSVG] draws the diagram natively: node boxes at their layout
// positions, straight or stepped connectors depending on each edge's route
// style, and column lists under table headers. [RenderPDF] and [RenderPNG]
// convert that SVG with librsvg.
//
//	svg := sink.RenderSVG(diagram, sink.WithColumns(false))
//	pdf, err := sink.RenderPDF(ctx, diagram)
//
// Visual appearance comes from a [styles.Style]; the default is
// [styles.Simple].
//
// [styles.Style]: github.com/matzehuels/dfdlayout/pkg/render/styles#Style
// [styles.Simple]: github.com/matzehuels/dfdlayout/pkg/render/styles#Simple
package sink
