// Package render provides output rendering for positioned data-flow
// diagrams.
//
// # Overview
//
// A diagram coming out of the layout engine carries absolute node
// positions and a route style per edge. This package and its subpackages
// turn it into files:
//
//   - Native SVG, PDF and PNG (in [sink])
//   - Graphviz DOT and neato-rendered SVG (in [nodelink])
//   - Shared drawing primitives and colours (in [styles])
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// (from librsvg). Both sinks use them.
//
//	svg := sink.RenderSVG(diagram)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [sink]: github.com/matzehuels/dfdlayout/pkg/render/sink
// [nodelink]: github.com/matzehuels/dfdlayout/pkg/render/nodelink
// [styles]: github.com/matzehuels/dfdlayout/pkg/render/styles
package render
