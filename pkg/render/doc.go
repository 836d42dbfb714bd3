// Package render turns plate grids into pictures.
//
// # Overview
//
// Rendering consumes the output boundary of a layout, [plate.Grid], and
// never reaches back into the layout itself. This package provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Continuous colorscales (in [colorscale] subpackage)
//   - Output formats: SVG, JSON, DOT, PNG, PDF (in [sink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg):
//
//	svg := sink.RenderSVG(l.Grid(), opts...)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x zoom
//
// When rsvg-convert is missing both return an UNSUPPORTED error; callers
// can check [Available] up front.
//
// [plate.Grid]: github.com/matzehuels/platemap/pkg/plate.Grid
// [colorscale]: github.com/matzehuels/platemap/pkg/render/colorscale
// [sink]: github.com/matzehuels/platemap/pkg/render/sink
package render
