package sink

import (
	"context"

	"github.com/matzehuels/dfdlayout/pkg/dfd"
	"github.com/matzehuels/dfdlayout/pkg/render"
)

// DefaultPNGScale renders PNGs at twice the SVG resolution.
const DefaultPNGScale = 2.0

// RenderPNG renders the diagram as PNG via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, d dfd.Diagram, scale float64, opts ...SVGOption) ([]byte, error) {
	if scale <= 0 {
		scale = DefaultPNGScale
	}
	return render.ToPNG(ctx, RenderSVG(d, opts...), scale)
}
