package sink

import (
	"context"

	"github.com/matzehuels/platemap/pkg/render/colorscale"
)

// Option configures the SVG, JSON and DOT renderers.
type Option func(*options)

type options struct {
	scale      float64
	markerSize float64
	textSize   float64
	textColor  string
	showScale  bool
	colorscale colorscale.Scale
	static     bool
	ctx        context.Context
}

func newOptions(opts ...Option) options {
	o := options{
		scale:      1,
		textColor:  "black",
		colorscale: colorscale.MustParse(colorscale.Default),
		ctx:        context.Background(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithScale multiplies every pixel dimension of the plate.
func WithScale(s float64) Option { return func(o *options) { o.scale = s } }

// WithMarkerSize overrides the well diameter in pixels.
func WithMarkerSize(px float64) Option { return func(o *options) { o.markerSize = px } }

// WithTextSize overrides the overlay text size in pixels.
func WithTextSize(px float64) Option { return func(o *options) { o.textSize = px } }

// WithTextColor sets the overlay text color (default "black").
func WithTextColor(c string) Option { return func(o *options) { o.textColor = c } }

// WithShowScale draws a colorbar when the plate uses the colorscale.
func WithShowScale() Option { return func(o *options) { o.showScale = true } }

// WithColorscale replaces the default Blues scale.
func WithColorscale(s colorscale.Scale) Option { return func(o *options) { o.colorscale = s } }

// WithStatic omits the hover CSS, for raster conversion.
func WithStatic() Option { return func(o *options) { o.static = true } }

// WithContext stops the per-well loops once ctx is done. The output is then
// truncated; callers check ctx.Err() afterwards.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// canceled reports whether the render context is done.
func (o options) canceled() bool { return o.ctx.Err() != nil }
