package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	apperr "github.com/matzehuels/dfdlayout/pkg/errors"
)

// rsvgConvert is the librsvg command line converter.
const rsvgConvert = "rsvg-convert"

// ToPDF converts an SVG document to PDF with rsvg-convert.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return convert(ctx, svg, "-f", "pdf")
}

// ToPNG converts an SVG document to PNG with rsvg-convert. A scale of 2.0
// doubles the resolution; values <= 0 mean 1.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return convert(ctx, svg, "-f", "png", "-z", fmt.Sprintf("%.2f", scale))
}

// Available reports whether rsvg-convert is on PATH.
func Available() bool {
	_, err := exec.LookPath(rsvgConvert)
	return err == nil
}

func convert(ctx context.Context, svg []byte, args ...string) ([]byte, error) {
	path, err := exec.LookPath(rsvgConvert)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeUnsupported, err, "%s not found; install librsvg for PDF and PNG output", rsvgConvert)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = bytes.NewReader(svg)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, apperr.Wrap(apperr.ErrCodeTimeout, ctxErr, "%s", rsvgConvert)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%s: %s", rsvgConvert, strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("%s: %w", rsvgConvert, err)
	}
	return stdout.Bytes(), nil
}
