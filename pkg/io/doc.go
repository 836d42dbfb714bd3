// Package io reads and writes plate definition files.
//
// # Overview
//
// A plate definition declares the plate size and its wells in one of two
// shapes. Label-keyed definitions name each well:
//
//	{
//	  "rows": 8,
//	  "columns": 12,
//	  "wells": {
//	    "A1": {"value": 0.5, "text": "blank"},
//	    "H12": {"color": "#d62728"}
//	  }
//	}
//
// Sequence definitions list values in fill order and let the grid mapper
// place them:
//
//	{
//	  "format": 96,
//	  "direction": "vertical",
//	  "values": [0.1, 0.2, null, 0.4],
//	  "text": "values"
//	}
//
// The same fields are accepted from TOML files:
//
//	rows = 2
//	columns = 3
//
//	[wells.A1]
//	value = 1.5
//
// # Fields
//
//   - rows, columns: plate size
//   - format: a standard well count (6, 12, 24, 48, 96, 384, 1536) used
//     when rows and columns are omitted
//   - wells: label-keyed attributes (value, color, text)
//   - values, colors, text: parallel per-well sequences
//   - direction: "horizontal" (default) or "vertical"
//
// "text" is either a list of strings or the literal "values", which labels
// each well with its formatted value. wells and the sequence fields are
// mutually exclusive.
//
// # Import and Export
//
// [ImportFile] picks the decoder from the file extension; [ReadJSON] and
// [ReadTOML] decode from any io.Reader. [Definition.Build] validates the
// definition and produces a [plate.Layout].
//
// [WriteJSON] and [WriteTOML] write a layout back out in label-keyed form,
// which re-imports to an identical layout.
package io
