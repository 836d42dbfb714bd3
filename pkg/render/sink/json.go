package sink

import (
	"encoding/json"

	"github.com/matzehuels/platemap/pkg/errors"
	"github.com/matzehuels/platemap/pkg/plate"
)

type jsonOutput struct {
	Rows                 int         `json:"rows"`
	Columns              int         `json:"columns"`
	Width                float64     `json:"width"`
	Height               float64     `json:"height"`
	MarkerSize           float64     `json:"marker_size"`
	UseDefaultColorscale bool        `json:"use_default_colorscale"`
	Colorscale           string      `json:"colorscale,omitempty"`
	ValueRange           *[2]float64 `json:"value_range,omitempty"`
	Wells                []jsonWell  `json:"wells"`
}

type jsonWell struct {
	plate.Well
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Fill string  `json:"fill"`
}

// RenderJSON encodes the populated wells of g as output records: row,
// column, label and the optional value, color and text, plus the pixel
// center and resolved fill each well gets in [RenderSVG].
func RenderJSON(g plate.Grid, opts ...Option) ([]byte, error) {
	o := newOptions(opts...)
	geo := newGeometry(g, o)
	paint := newPainter(g, o.colorscale)

	out := jsonOutput{
		Rows:                 g.Rows,
		Columns:              g.Columns,
		Width:                geo.Width(),
		Height:               geo.Height(),
		MarkerSize:           geo.markerSize,
		UseDefaultColorscale: g.UseDefaultColorscale,
		Wells:                make([]jsonWell, len(g.Wells)),
	}
	if g.UseDefaultColorscale {
		out.Colorscale = o.colorscale.Name
		out.ValueRange = &[2]float64{paint.lo, paint.hi}
	}

	for i, w := range g.Wells {
		x, y := geo.wellCenter(w.Row, w.Column)
		out.Wells[i] = jsonWell{Well: w, X: x, Y: y, Fill: paint.fill(w)}
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode grid JSON")
	}
	return b, nil
}
