package sink

import (
	"context"

	"github.com/matzehuels/dfdlayout/pkg/dfd"
	"github.com/matzehuels/dfdlayout/pkg/render"
)

// RenderPDF renders the diagram as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, d dfd.Diagram, opts ...SVGOption) ([]byte, error) {
	return render.ToPDF(ctx, RenderSVG(d, opts...))
}
