package io

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/platemap/pkg/errors"
	"github.com/matzehuels/platemap/pkg/grid"
	"github.com/matzehuels/platemap/pkg/plate"
)

// textFromValues is the "text" shortcut that labels wells with their values.
const textFromValues = "values"

// Definition is a decoded plate file.
type Definition struct {
	Name      string                      `json:"name,omitempty" toml:"name,omitempty"`
	Format    int                         `json:"format,omitempty" toml:"format,omitempty"`
	Rows      int                         `json:"rows,omitempty" toml:"rows,omitempty"`
	Columns   int                         `json:"columns,omitempty" toml:"columns,omitempty"`
	Direction grid.Direction              `json:"direction,omitempty" toml:"direction,omitempty"`
	Wells     map[string]plate.Attributes `json:"wells,omitempty" toml:"wells,omitempty"`
	Values    []*float64                  `json:"values,omitempty" toml:"values,omitempty"`
	Colors    []string                    `json:"colors,omitempty" toml:"colors,omitempty"`
	Text      *Text                       `json:"text,omitempty" toml:"text,omitempty"`
}

// Text is the "text" field: a list of per-well strings, or the "values"
// shortcut.
type Text struct {
	Labels     []string
	FromValues bool
}

// MarshalJSON writes the shortcut as a string and labels as an array.
func (t Text) MarshalJSON() ([]byte, error) {
	if t.FromValues {
		return json.Marshal(textFromValues)
	}
	return json.Marshal(t.Labels)
}

// UnmarshalJSON accepts a string array or the string "values".
func (t *Text) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		return t.fromShortcut(s)
	}
	var labels []string
	if err := json.Unmarshal(b, &labels); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, `text must be a list of strings or "values"`)
	}
	*t = Text{Labels: labels}
	return nil
}

// UnmarshalTOML implements toml.Unmarshaler with the same rules as JSON.
func (t *Text) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case string:
		return t.fromShortcut(v)
	case []any:
		labels := make([]string, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return errors.New(errors.ErrCodeInvalidInput, "text[%d] must be a string, got %T", i, item)
			}
			labels[i] = s
		}
		*t = Text{Labels: labels}
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput, `text must be a list of strings or "values", got %T`, v)
}

func (t *Text) fromShortcut(s string) error {
	if s != textFromValues {
		return errors.New(errors.ErrCodeInvalidInput, `text string must be %q, got %q`, textFromValues, s)
	}
	*t = Text{FromValues: true}
	return nil
}

// Dims resolves the plate size from rows/columns or the format shorthand.
func (d *Definition) Dims() (grid.Dims, error) {
	explicit := grid.Dims{Rows: d.Rows, Columns: d.Columns}

	switch {
	case d.Format == 0 && d.Rows == 0 && d.Columns == 0:
		return grid.Dims{}, errors.New(errors.ErrCodeInvalidDimensions, "plate needs rows and columns or a format")
	case d.Format == 0:
		return explicit, explicit.Validate()
	}

	std, err := grid.Format(d.Format)
	if err != nil {
		return grid.Dims{}, err
	}
	if (d.Rows != 0 || d.Columns != 0) && explicit != std {
		return grid.Dims{}, errors.New(errors.ErrCodeInvalidDimensions,
			"format %d is %dx%d but rows/columns say %dx%d", d.Format, std.Rows, std.Columns, d.Rows, d.Columns)
	}
	return std, nil
}

// IsLabelKeyed reports whether the definition names its wells.
func (d *Definition) IsLabelKeyed() bool {
	return len(d.Wells) > 0
}

// Build validates the definition and constructs the layout.
func (d *Definition) Build() (*plate.Layout, error) {
	dims, err := d.Dims()
	if err != nil {
		return nil, err
	}

	hasSeqs := len(d.Values) > 0 || len(d.Colors) > 0 || d.Text != nil
	if d.IsLabelKeyed() {
		if hasSeqs {
			return nil, errors.New(errors.ErrCodeInvalidInput, "wells cannot be combined with values, colors or text")
		}
		return plate.FromLabels(dims, d.Wells)
	}

	seqs := plate.Sequences{
		Values:    d.Values,
		Colors:    d.Colors,
		Direction: d.Direction,
	}
	if d.Text != nil {
		seqs.Text = d.Text.Labels
		seqs.TextFromValues = d.Text.FromValues
	}
	return plate.FromSequences(dims, seqs)
}

// Export returns the label-keyed definition of l.
func Export(l *plate.Layout) *Definition {
	dims := l.Dims()
	return &Definition{
		Rows:    dims.Rows,
		Columns: dims.Columns,
		Wells:   l.ToLabelMap(),
	}
}

// String summarizes the definition for logs.
func (d *Definition) String() string {
	shape := "sequence"
	if d.IsLabelKeyed() {
		shape = "label-keyed"
	}
	name := d.Name
	if name == "" {
		name = "plate"
	}
	return fmt.Sprintf("%s (%s)", name, shape)
}
