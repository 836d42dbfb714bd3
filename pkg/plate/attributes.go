package plate

import (
	"strconv"
)

// Attributes is what a single well carries. All fields are optional; a well
// with no attributes renders empty.
type Attributes struct {
	Value *float64 `json:"value,omitempty" toml:"value,omitempty"`
	Color string   `json:"color,omitempty" toml:"color,omitempty"`
	Text  string   `json:"text,omitempty" toml:"text,omitempty"`
}

// Float returns a pointer to v, for filling Attributes.Value.
func Float(v float64) *float64 {
	return &v
}

// Floats converts vs to the optional-value form used by [Sequences].
func Floats(vs ...float64) []*float64 {
	out := make([]*float64, len(vs))
	for i := range vs {
		out[i] = Float(vs[i])
	}
	return out
}

// IsEmpty reports whether no attribute is set.
func (a Attributes) IsEmpty() bool {
	return a.Value == nil && a.Color == "" && a.Text == ""
}

// HasValue reports whether a numeric value is set.
func (a Attributes) HasValue() bool {
	return a.Value != nil
}

// NeedsColorscale reports whether a renderer must derive this well's color
// from its value.
func (a Attributes) NeedsColorscale() bool {
	return a.Value != nil && a.Color == ""
}

// FormatValue renders the value for display, or "" when unset.
func (a Attributes) FormatValue() string {
	if a.Value == nil {
		return ""
	}
	return strconv.FormatFloat(*a.Value, 'g', -1, 64)
}

// clone copies a so callers cannot reach the layout's value pointers.
func (a Attributes) clone() Attributes {
	if a.Value != nil {
		a.Value = Float(*a.Value)
	}
	return a
}
