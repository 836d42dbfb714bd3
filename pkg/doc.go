// Package pkg provides the core libraries for platemap.
//
// # Overview
//
// Platemap turns microplate descriptions into renderable layouts. The pkg
// directory is organized into three areas:
//
//  1. Plate algebra: [well] (label codec), [grid] (fill-order mapping) and
//     [plate] (validated, immutable layouts)
//  2. Boundaries: [io] (JSON and TOML plate files) and [render] (SVG, JSON,
//     DOT, PNG and PDF sinks)
//  3. Infrastructure: [pipeline] (build → render orchestration), [cache]
//     (file, redis and null artifact caches), [observability] and [errors]
//
// # Architecture
//
// The typical data flow:
//
//	plate.json / plate.toml
//	         ↓
//	   io.Definition        decode, pick label-keyed or sequence form
//	         ↓
//	   plate.Layout         well.Parse / grid.ToCoord, duplicate checks
//	         ↓
//	   plate.Grid           rows, columns, populated wells
//	         ↓
//	   render/sink          SVG, JSON, DOT → PNG/PDF via rsvg-convert
//
// Everything up to [plate] is pure and safe for concurrent use. The
// [pipeline] adds caching keyed on a hash of the canonical label-keyed
// export, so a plate given as a value sequence and the same plate given
// label by label share artifacts.
//
// [well]: https://pkg.go.dev/github.com/matzehuels/platemap/pkg/well
// [grid]: https://pkg.go.dev/github.com/matzehuels/platemap/pkg/grid
// [plate]: https://pkg.go.dev/github.com/matzehuels/platemap/pkg/plate
// [io]: https://pkg.go.dev/github.com/matzehuels/platemap/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/platemap/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/platemap/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/platemap/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/platemap/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/platemap/pkg/errors
package pkg
