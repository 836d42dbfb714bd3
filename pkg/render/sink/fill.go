package sink

import (
	"github.com/matzehuels/platemap/pkg/plate"
	"github.com/matzehuels/platemap/pkg/render/colorscale"
)

const transparent = "rgba(0,0,0,0)"

// painter resolves the fill color of each well.
type painter struct {
	scale  colorscale.Scale
	lo, hi float64
	active bool
}

func newPainter(g plate.Grid, s colorscale.Scale) painter {
	p := painter{scale: s, active: g.UseDefaultColorscale}
	first := true
	for _, w := range g.Wells {
		if !w.NeedsColorscale() {
			continue
		}
		v := *w.Value
		if first {
			p.lo, p.hi, first = v, v, false
			continue
		}
		p.lo, p.hi = min(p.lo, v), max(p.hi, v)
	}
	return p
}

// fill returns the explicit color, a colorscale color for value-only
// wells, or transparent.
func (p painter) fill(w plate.Well) string {
	switch {
	case w.Color != "":
		return w.Color
	case p.active && w.Value != nil:
		return p.scale.Hex(colorscale.Normalize(*w.Value, p.lo, p.hi))
	}
	return transparent
}
