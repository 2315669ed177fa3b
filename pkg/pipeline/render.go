package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	apperr "github.com/matzehuels/dfdlayout/pkg/errors"
	"github.com/matzehuels/dfdlayout/pkg/graph"
	"github.com/matzehuels/dfdlayout/pkg/render/nodelink"
	"github.com/matzehuels/dfdlayout/pkg/render/sink"
)

// RenderFromLayout renders every requested format without caching.
// Formats are rendered concurrently; the first failure cancels the rest.
func RenderFromLayout(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	var mu sync.Mutex
	out := make(map[string][]byte, len(opts.Formats))

	g, ctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			data, err := renderFormat(ctx, l, format, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", format, err)
			}
			mu.Lock()
			out[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func renderFormat(ctx context.Context, l graph.Layout, format string, opts Options) ([]byte, error) {
	d := l.Diagram()
	svgOpts := []sink.SVGOption{
		sink.WithColumns(!opts.HideColumns),
		sink.WithEdgeLabels(!opts.HideEdgeLabels),
	}
	dotOpts := nodelink.Options{Columns: !opts.HideColumns, EdgeLabels: !opts.HideEdgeLabels}

	switch format {
	case FormatJSON:
		return graph.MarshalLayout(l)
	case FormatSVG:
		if opts.Interactive {
			svgOpts = append(svgOpts, sink.WithInteraction())
		}
		return sink.RenderSVG(d, svgOpts...), nil
	case FormatDOT:
		return []byte(nodelink.ToDOT(d, dotOpts)), nil
	case FormatGraphviz:
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(d, dotOpts))
	case FormatPNG:
		return sink.RenderPNG(ctx, d, opts.Scale, svgOpts...)
	case FormatPDF:
		return sink.RenderPDF(ctx, d, svgOpts...)
	default:
		return nil, apperr.New(apperr.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
}
