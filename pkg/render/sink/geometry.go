package sink

import (
	"github.com/matzehuels/platemap/pkg/plate"
)

// Plate drawing constants, in plate units where adjacent wells are 1 apart.
const (
	cellPixels   = 60.0
	xOffset      = 0.4
	leftEdge     = 0.5
	bottomEdge   = 0.5
	axisPad      = 1.0
	headerLift   = 0.4
	framePadL    = 0.62
	framePadR    = 0.38
	frameBottom  = 0.72
	notchSize    = 0.5
	borderWidth  = 4.0
	frameWidth   = 2.0
	colorbarPx   = 18.0
	colorbarGap  = 24.0
	colorbarText = 48.0
)

// geometry maps plate coordinates to pixels for one grid at one scale.
type geometry struct {
	rows, cols int
	scale      float64

	marginL, marginR, marginT, marginB float64
	plotW, plotH                       float64
	xMin, xMax, yMin, yMax             float64

	markerSize float64
	fontSize   float64
	textSize   float64

	colorbar bool
}

func newGeometry(g plate.Grid, o options) geometry {
	scale := o.scale
	if scale <= 0 {
		scale = 1
	}
	longest := float64(max(g.Rows, g.Columns))

	geo := geometry{
		rows:    g.Rows,
		cols:    g.Columns,
		scale:   scale,
		marginL: scale * (20 + 5*float64(g.Rows)),
		marginR: scale * 20,
		marginT: scale * 20,
		marginB: scale * 20,
		plotW:   cellPixels * scale * float64(g.Columns),
		plotH:   cellPixels * scale * float64(g.Rows),
		xMin:    leftEdge - axisPad,
		xMax:    float64(g.Columns) + xOffset + leftEdge + axisPad,
		yMin:    bottomEdge - axisPad,
		yMax:    float64(g.Rows) + 1 + axisPad,

		markerSize: min(60, float64(int(500/longest))),
		fontSize:   min(14, float64(int(160/longest))),
	}
	geo.textSize = geo.fontSize - 2

	if o.markerSize > 0 {
		geo.markerSize = o.markerSize
	}
	if o.textSize > 0 {
		geo.textSize = o.textSize
	}
	geo.colorbar = o.showScale && g.UseDefaultColorscale
	if geo.colorbar {
		geo.marginR += scale * (colorbarGap + colorbarPx + colorbarText)
	}
	return geo
}

// Width is the full drawing width in pixels.
func (g geometry) Width() float64 { return g.plotW + g.marginL + g.marginR }

// Height is the full drawing height in pixels.
func (g geometry) Height() float64 { return g.plotH + g.marginT + g.marginB }

// X maps a plate x coordinate to pixels.
func (g geometry) X(x float64) float64 {
	return g.marginL + (x-g.xMin)/(g.xMax-g.xMin)*g.plotW
}

// Y maps a plate y coordinate to pixels. Plate y grows upward.
func (g geometry) Y(y float64) float64 {
	return g.marginT + (g.yMax-y)/(g.yMax-g.yMin)*g.plotH
}

// wellCenter returns the pixel center of the well at (row, column).
func (g geometry) wellCenter(row, col int) (x, y float64) {
	return g.X(float64(col+1) + xOffset), g.Y(float64(g.rows - row))
}

// radius is the marker radius in pixels.
func (g geometry) radius() float64 { return g.markerSize / 2 }
