package sink

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/platemap/pkg/errors"
	"github.com/matzehuels/platemap/pkg/plate"
	"github.com/matzehuels/platemap/pkg/well"
)

// Graphviz works in inches and points.
const pointsPerInch = 72.0

// RenderDOT converts g to Graphviz DOT source. Every well becomes a node
// pinned at the same position it has in [RenderSVG], so a neato layout
// reproduces the plate. Wells without attributes are drawn hollow.
func RenderDOT(g plate.Grid, opts ...Option) []byte {
	o := newOptions(opts...)
	geo := newGeometry(g, o)
	paint := newPainter(g, o.colorscale)

	populated := make(map[well.Coord]plate.Well, len(g.Wells))
	for _, w := range g.Wells {
		populated[w.Coord] = w
	}

	var buf bytes.Buffer
	buf.WriteString("graph plate {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"white\";\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	fmt.Fprintf(&buf, "  node [shape=circle, fixedsize=true, width=%.3f, style=filled, fontsize=%.0f, fontcolor=%s, fontname=\"Helvetica\"];\n",
		geo.markerSize/pointsPerInch, geo.textSize, dotQuote(o.textColor))
	buf.WriteString("\n")

	for row := 0; row < g.Rows; row++ {
		if o.canceled() {
			break
		}
		for col := 0; col < g.Columns; col++ {
			c := well.Coord{Row: row, Column: col}
			w, ok := populated[c]
			if !ok {
				w = plate.Well{Coord: c, Label: c.String()}
			}
			x, y := geo.wellCenter(row, col)
			attrs := []string{
				fmt.Sprintf("pos=\"%.2f,%.2f!\"", x/pointsPerInch, (geo.Height()-y)/pointsPerInch),
				"label=" + dotQuote(w.Text),
				"tooltip=" + dotQuote(hoverText(w)),
				"fillcolor=" + dotQuote(dotColor(paint.fill(w))),
			}
			fmt.Fprintf(&buf, "  %q [%s];\n", w.Label, strings.Join(attrs, ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.Bytes()
}

// dotColor adapts CSS color forms Graphviz does not read.
func dotColor(c string) string {
	if c == transparent {
		return "transparent"
	}
	return c
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// dotQuote quotes s as a DOT string literal.
func dotQuote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}

// RenderGraphviz lays out DOT source with neato, honoring pinned
// positions, and returns SVG.
func RenderGraphviz(ctx context.Context, dot []byte) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes(dot)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render DOT")
	}
	return buf.Bytes(), nil
}
