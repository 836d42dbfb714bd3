// Package plate assembles well data into an immutable plate layout.
//
// A [Layout] is built once, from either of two inputs, and never mutated:
//
//   - [FromLabels] / [FromEntries]: attributes keyed by well label
//     ("A1", "h012", ...). Labels are normalized, so "A1" and "a01" name
//     the same well and supplying both is a [errors.ErrCodeDuplicateWellLabel]
//     failure rather than a silent overwrite.
//   - [FromSequences]: parallel value/color/text slices placed onto the
//     plate in a fill [grid.Direction].
//
// Either way the result is the same coordinate → [Attributes] table. A
// layout that fails validation is never returned partially built.
//
// # Rendering boundary
//
// [Layout.Grid] hands renderers a finished, ordered list of [Well] records
// plus the plate size and a UseDefaultColorscale flag. The flag is set when
// some well has a value but no explicit color: color policy belongs to the
// renderer, not the layout.
//
// # Export
//
// [Layout.ToLabelMap] returns the populated wells keyed by canonical label;
// feeding it back into [FromLabels] with the same dimensions reproduces the
// layout.
//
// [errors.ErrCodeDuplicateWellLabel]: github.com/matzehuels/platemap/pkg/errors.ErrCodeDuplicateWellLabel
package plate
