// Package grid maps flat well sequences onto plate coordinates.
//
// A plate with [Dims]{Rows: r, Columns: c} has r×c wells. A linear index in
// [0, r×c) addresses one of them according to a fill [Direction]:
//
//   - [Horizontal] (row-major): A1, A2, ... A12, B1, ...
//   - [Vertical] (column-major): A1, B1, ... H1, A2, ...
//
// [ToCoord] and [ToLinear] are exact inverses for every in-range input in
// both directions.
//
//	d := grid.Plate96
//	c, _ := grid.ToCoord(12, d, grid.Horizontal) // B1
//	c, _ = grid.ToCoord(12, d, grid.Vertical)    // E2
//
// Standard plate sizes are available through [Format].
package grid
