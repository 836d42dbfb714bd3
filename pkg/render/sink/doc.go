// Package sink provides output formats for plate grids.
//
// # Overview
//
// Every renderer consumes a [plate.Grid] and shares one set of [Option]
// values, so an SVG and the JSON describing it agree on geometry and fill.
//
//   - [RenderSVG]: interactive SVG with hover titles
//   - [RenderJSON]: populated wells with pixel centers and resolved fills
//   - [RenderDOT]: Graphviz source with pinned well positions
//   - [RenderGraphviz]: SVG laid out by Graphviz neato from [RenderDOT]
//   - [RenderPNG], [RenderPDF]: raster and print output via rsvg-convert
//
// # Geometry
//
// Wells sit on a 60px pitch multiplied by [WithScale]. The left margin grows
// with the row count to fit row letters. The default well diameter is
// min(60, 500/max(rows, columns)) and the header font min(14,
// 160/max(rows, columns)); overlay text is two points smaller.
//
// # Color
//
// Wells with an explicit color keep it. When the grid reports
// UseDefaultColorscale, wells with a value but no color are filled from the
// colorscale (Blues unless [WithColorscale] says otherwise), normalized over
// the range of those values. [WithShowScale] adds a colorbar titled "Value".
// Everything else is transparent.
//
// [plate.Grid]: github.com/matzehuels/platemap/pkg/plate.Grid
package sink
