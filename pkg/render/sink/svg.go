package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/matzehuels/platemap/pkg/plate"
	"github.com/matzehuels/platemap/pkg/well"
)

const fontFamily = `Helvetica, Arial, sans-serif`

const wellInteractionCSS = `
    .well circle { transition: stroke-width 0.15s ease; }
    .well:hover circle { stroke-width: 3; }
    .well-text { pointer-events: none; }`

const colorbarSteps = 10

// RenderSVG draws g as a plate: wells as circles in their grid positions,
// column numbers above, row letters on the left, a gray inner frame and a
// black border with the A1 corner clipped. Each well carries a hover title
// with its label and value.
func RenderSVG(g plate.Grid, opts ...Option) []byte {
	o := newOptions(opts...)
	geo := newGeometry(g, o)
	paint := newPainter(g, o.colorscale)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		geo.Width(), geo.Height(), geo.Width(), geo.Height())
	if !o.static {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", wellInteractionCSS)
	}
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="white"/>`+"\n")

	renderFrame(&buf, geo)
	renderHeaders(&buf, geo)
	renderWells(&buf, g, geo, paint, o)
	if geo.colorbar {
		renderColorbar(&buf, geo, paint)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderFrame(buf *bytes.Buffer, geo geometry) {
	rows, cols := float64(geo.rows), float64(geo.cols)

	x0, x1 := geo.X(framePadL+xOffset), geo.X(cols+xOffset+framePadR)
	y0, y1 := geo.Y(rows+framePadR), geo.Y(frameBottom)
	fmt.Fprintf(buf, `  <rect class="frame" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="darkgray" stroke-width="%.0f"/>`+"\n",
		x0, y0, x1-x0, y1-y0, frameWidth)

	left, right := leftEdge, cols+xOffset+leftEdge
	top := rows + 1
	fmt.Fprintf(buf, `  <path class="border" d="M %.1f %.1f L %.1f %.1f L %.1f %.1f L %.1f %.1f L %.1f %.1f Z" fill="none" stroke="black" stroke-width="%.0f" stroke-linejoin="round"/>`+"\n",
		geo.X(left), geo.Y(bottomEdge),
		geo.X(right), geo.Y(bottomEdge),
		geo.X(right), geo.Y(top),
		geo.X(left+notchSize), geo.Y(top),
		geo.X(left), geo.Y(rows+bottomEdge),
		borderWidth)
}

func renderHeaders(buf *bytes.Buffer, geo geometry) {
	y := geo.Y(float64(geo.rows) + headerLift)
	for c := 1; c <= geo.cols; c++ {
		fmt.Fprintf(buf, `  <text class="col-label" x="%.1f" y="%.1f" text-anchor="middle" font-family="%s" font-size="%.0f">%d</text>`+"\n",
			geo.X(float64(c)+xOffset), y, fontFamily, geo.fontSize, c)
	}

	x := geo.X(leftEdge + 0.08*geo.scale)
	for r := 0; r < geo.rows; r++ {
		letters, _ := well.RowLetters(r)
		fmt.Fprintf(buf, `  <text class="row-label" x="%.1f" y="%.1f" text-anchor="start" dominant-baseline="central" font-family="%s" font-size="%.0f">%s</text>`+"\n",
			x, geo.Y(float64(geo.rows-r)), fontFamily, geo.fontSize, letters)
	}
}

func renderWells(buf *bytes.Buffer, g plate.Grid, geo geometry, paint painter, o options) {
	populated := make(map[well.Coord]plate.Well, len(g.Wells))
	for _, w := range g.Wells {
		populated[w.Coord] = w
	}

	r := geo.radius()
	for row := 0; row < g.Rows; row++ {
		if o.canceled() {
			return
		}
		for col := 0; col < g.Columns; col++ {
			c := well.Coord{Row: row, Column: col}
			w, ok := populated[c]
			if !ok {
				w = plate.Well{Coord: c, Label: c.String()}
			}
			cx, cy := geo.wellCenter(row, col)

			fmt.Fprintf(buf, `  <g class="well" id="well-%s">`+"\n", w.Label)
			fmt.Fprintf(buf, "    <title>%s</title>\n", escapeXML(hoverText(w)))
			fmt.Fprintf(buf, `    <circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="black" stroke-width="1"/>`+"\n",
				cx, cy, r, paint.fill(w))
			buf.WriteString("  </g>\n")
		}
	}

	for _, w := range g.Wells {
		if w.Text == "" {
			continue
		}
		cx, cy := geo.wellCenter(w.Row, w.Column)
		fmt.Fprintf(buf, `  <text class="well-text" x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="central" font-family="%s" font-size="%.0f" fill="%s">%s</text>`+"\n",
			cx, cy, fontFamily, geo.textSize, escapeXML(o.textColor), escapeXML(w.Text))
	}
}

func renderColorbar(buf *bytes.Buffer, geo geometry, paint painter) {
	x := geo.marginL + geo.plotW + geo.scale*colorbarGap
	w := geo.scale * colorbarPx
	top, bottom := geo.Y(float64(geo.rows)+bottomEdge), geo.Y(bottomEdge)

	buf.WriteString("  <defs>\n")
	buf.WriteString(`    <linearGradient id="colorscale" x1="0" y1="1" x2="0" y2="0">` + "\n")
	for i := 0; i <= colorbarSteps; i++ {
		t := float64(i) / colorbarSteps
		fmt.Fprintf(buf, `      <stop offset="%.2f" stop-color="%s"/>`+"\n", t, paint.scale.Hex(t))
	}
	buf.WriteString("    </linearGradient>\n  </defs>\n")

	fmt.Fprintf(buf, `  <rect class="colorbar" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="url(#colorscale)" stroke="black" stroke-width="1"/>`+"\n",
		x, top, w, bottom-top)
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-family="%s" font-size="%.0f">Value</text>`+"\n",
		x, top-geo.fontSize/2, fontFamily, geo.fontSize)
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" dominant-baseline="central" font-family="%s" font-size="%.0f">%s</text>`+"\n",
		x+w+4, top, fontFamily, geo.fontSize, formatTick(paint.hi))
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" dominant-baseline="central" font-family="%s" font-size="%.0f">%s</text>`+"\n",
		x+w+4, bottom, fontFamily, geo.fontSize, formatTick(paint.lo))
}

// hoverText is the label, plus the value on a second line when set.
func hoverText(w plate.Well) string {
	if w.Value == nil {
		return w.Label
	}
	return w.Label + "\n" + w.FormatValue()
}

func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
