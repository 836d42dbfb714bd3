// Package colorscale maps plate values onto continuous color ramps.
//
// Scales are defined by evenly spaced stops and interpolated in CIE Lab
// space, which keeps perceived lightness steps even across the ramp:
//
//	s, _ := colorscale.Parse("blues")
//	fill := s.Hex(0.25)
//
// A "_r" suffix reverses any scale ("Viridis_r").
package colorscale

import (
	"math"
	"slices"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/platemap/pkg/errors"
)

// Default is the scale used when a plate needs one and none was chosen.
const Default = "Blues"

const reverseSuffix = "_r"

// Scale is a named, ordered list of color stops.
type Scale struct {
	Name  string
	stops []colorful.Color
}

var scales = map[string][]string{
	"blues":   {"#f7fbff", "#deebf7", "#c6dbef", "#9ecae1", "#6baed6", "#4292c6", "#2171b5", "#08519c", "#08306b"},
	"greens":  {"#f7fcf5", "#e5f5e0", "#c7e9c0", "#a1d99b", "#74c476", "#41ab5d", "#238b45", "#006d2c", "#00441b"},
	"greys":   {"#ffffff", "#f0f0f0", "#d9d9d9", "#bdbdbd", "#969696", "#737373", "#525252", "#252525", "#000000"},
	"reds":    {"#fff5f0", "#fee0d2", "#fcbba1", "#fc9272", "#fb6a4a", "#ef3b2c", "#cb181d", "#a50f15", "#67000d"},
	"viridis": {"#440154", "#482878", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"},
}

var displayNames = map[string]string{
	"blues":   "Blues",
	"greens":  "Greens",
	"greys":   "Greys",
	"reds":    "Reds",
	"viridis": "Viridis",
}

// Parse looks up a scale by name, case-insensitively. An empty name selects
// [Default].
func Parse(name string) (Scale, error) {
	if name == "" {
		name = Default
	}
	key := strings.ToLower(strings.TrimSpace(name))
	reversed := strings.HasSuffix(key, reverseSuffix)
	key = strings.TrimSuffix(key, reverseSuffix)

	hexes, ok := scales[key]
	if !ok {
		return Scale{}, errors.New(errors.ErrCodeInvalidInput,
			"unknown colorscale %q (available: %s)", name, strings.Join(Names(), ", "))
	}

	stops := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return Scale{}, errors.Wrap(errors.ErrCodeInternal, err, "colorscale %s stop %d", key, i)
		}
		stops[i] = c
	}

	s := Scale{Name: displayNames[key], stops: stops}
	if reversed {
		slices.Reverse(s.stops)
		s.Name += reverseSuffix
	}
	return s, nil
}

// MustParse is like [Parse] but panics on an unknown name. It is meant for
// package-level defaults.
func MustParse(name string) Scale {
	s, err := Parse(name)
	if err != nil {
		panic(err)
	}
	return s
}

// Names lists the available scales in sorted order.
func Names() []string {
	out := make([]string, 0, len(displayNames))
	for _, n := range displayNames {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// At returns the color at t, clamped to [0, 1].
func (s Scale) At(t float64) colorful.Color {
	if len(s.stops) == 0 {
		return colorful.Color{}
	}
	if math.IsNaN(t) || t <= 0 {
		return s.stops[0]
	}
	if t >= 1 {
		return s.stops[len(s.stops)-1]
	}

	pos := t * float64(len(s.stops)-1)
	i := int(pos)
	return s.stops[i].BlendLab(s.stops[i+1], pos-float64(i)).Clamped()
}

// Hex returns [Scale.At] as a "#rrggbb" string.
func (s Scale) Hex(t float64) string {
	return s.At(t).Hex()
}

// Normalize maps v from [lo, hi] onto [0, 1]. A degenerate range maps every
// value to the middle of the scale.
func Normalize(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0.5
	}
	return (v - lo) / (hi - lo)
}
