// Package pipeline provides the build → render pipeline for platemap.
//
// This package turns a plate definition into rendered artifacts, and is
// shared by the CLI and the HTTP server so both behave identically.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Build: validate a [plateio.Definition] into a [plate.Layout]
//  2. Render: draw the layout's grid in each requested format
//
// Rendered artifacts are cached under a hash of the layout's canonical
// label-keyed JSON plus the render options, so two definitions that
// describe the same plate (one label-keyed, one as sequences) share cache
// entries.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, def, pipeline.Options{
//	    Formats: []string{"svg", "json"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// [plateio.Definition]: github.com/matzehuels/platemap/pkg/io.Definition
// [plate.Layout]: github.com/matzehuels/platemap/pkg/plate.Layout
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/platemap/pkg/cache"
	"github.com/matzehuels/platemap/pkg/errors"
	"github.com/matzehuels/platemap/pkg/plate"
	"github.com/matzehuels/platemap/pkg/render/colorscale"
	"github.com/matzehuels/platemap/pkg/render/sink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultScale multiplies every pixel dimension.
	DefaultScale = 1.0

	// DefaultTextColor is the overlay text color.
	DefaultTextColor = "black"

	// DefaultZoom is the PNG resolution multiplier.
	DefaultZoom = sink.DefaultZoom
)

// Format constants for output formats.
const (
	FormatSVG    = "svg"
	FormatJSON   = "json"
	FormatPNG    = "png"
	FormatPDF    = "pdf"
	FormatDOT    = "dot"
	FormatNeato  = "neato"
	FormatExport = "export"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:    true,
	FormatJSON:   true,
	FormatPNG:    true,
	FormatPDF:    true,
	FormatDOT:    true,
	FormatNeato:  true,
	FormatExport: true,
}

// FormatExtensions maps formats to output file extensions.
var FormatExtensions = map[string]string{
	FormatSVG:    ".svg",
	FormatJSON:   ".json",
	FormatPNG:    ".png",
	FormatPDF:    ".pdf",
	FormatDOT:    ".dot",
	FormatNeato:  ".neato.svg",
	FormatExport: ".plate.json",
}

// FormatNames lists the supported formats in sorted order.
func FormatNames() []string {
	out := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains render configuration. It supports JSON for API requests.
type Options struct {
	Formats    []string `json:"formats,omitempty"`
	Scale      float64  `json:"scale,omitempty"`
	MarkerSize float64  `json:"marker_size,omitempty"`
	TextSize   float64  `json:"text_size,omitempty"`
	TextColor  string   `json:"text_color,omitempty"`
	Colorscale string   `json:"colorscale,omitempty"`
	ShowScale  bool     `json:"show_scale,omitempty"`
	Zoom       float64  `json:"zoom,omitempty"`

	// Refresh skips cache reads but still writes results.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	scale     colorscale.Scale
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ID identifies this run in logs and API responses.
	ID string

	// Layout is the built plate.
	Layout *plate.Layout

	// PlateHash is the content hash of the layout's canonical export.
	PlateHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether every artifact came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Wells      int
	Populated  int
	BuildTime  time.Duration
	RenderTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid. Formats are case-sensitive.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(FormatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every option and fills in defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	o.Formats = dedupe(o.Formats)
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}

	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Zoom == 0 {
		o.Zoom = DefaultZoom
	}
	for name, v := range map[string]float64{"scale": o.Scale, "marker_size": o.MarkerSize, "text_size": o.TextSize, "zoom": o.Zoom} {
		if v < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "%s must not be negative, got %g", name, v)
		}
	}

	if o.TextColor == "" {
		o.TextColor = DefaultTextColor
	}
	if err := errors.ValidateColor(o.TextColor); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "text_color")
	}

	s, err := colorscale.Parse(o.Colorscale)
	if err != nil {
		return err
	}
	o.scale = s
	o.Colorscale = s.Name

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// SinkOptions translates the options for the sink package.
func (o *Options) SinkOptions() []sink.Option {
	opts := []sink.Option{
		sink.WithScale(o.Scale),
		sink.WithTextColor(o.TextColor),
		sink.WithColorscale(o.scale),
	}
	if o.MarkerSize > 0 {
		opts = append(opts, sink.WithMarkerSize(o.MarkerSize))
	}
	if o.TextSize > 0 {
		opts = append(opts, sink.WithTextSize(o.TextSize))
	}
	if o.ShowScale {
		opts = append(opts, sink.WithShowScale())
	}
	return opts
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:     format,
		Scale:      o.Scale,
		MarkerSize: o.MarkerSize,
		TextSize:   o.TextSize,
		TextColor:  o.TextColor,
		Colorscale: o.Colorscale,
		ShowScale:  o.ShowScale,
	}
	if format == FormatPNG {
		k.Zoom = o.Zoom
	}
	return k
}

func dedupe(formats []string) []string {
	seen := make(map[string]bool, len(formats))
	out := formats[:0:0]
	for _, f := range formats {
		f = strings.TrimSpace(f)
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
