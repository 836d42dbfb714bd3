package sink

import (
	"context"

	"github.com/matzehuels/platemap/pkg/plate"
	"github.com/matzehuels/platemap/pkg/render"
)

// DefaultZoom is the PNG resolution multiplier.
const DefaultZoom = 2.0

// RenderPNG renders g as PNG via SVG conversion. The SVG is drawn static,
// without hover styling.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, g plate.Grid, zoom float64, opts ...Option) ([]byte, error) {
	if zoom <= 0 {
		zoom = DefaultZoom
	}
	svg := RenderSVG(g, append(opts[:len(opts):len(opts)], WithStatic())...)
	return render.ToPNG(ctx, svg, zoom)
}

// RenderPDF renders g as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, g plate.Grid, opts ...Option) ([]byte, error) {
	svg := RenderSVG(g, append(opts[:len(opts):len(opts)], WithStatic())...)
	return render.ToPDF(ctx, svg)
}
