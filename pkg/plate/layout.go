package plate

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/platemap/pkg/errors"
	"github.com/matzehuels/platemap/pkg/grid"
	"github.com/matzehuels/platemap/pkg/well"
)

// Layout is an immutable plate: its dimensions and the attributes of each
// populated well. It is safe for concurrent reads.
type Layout struct {
	dims  grid.Dims
	wells map[well.Coord]Attributes
	order []well.Coord // row-major
}

// Entry is one label-keyed input record.
type Entry struct {
	Label string
	Attributes
}

// Well is one populated well as seen by renderers.
type Well struct {
	well.Coord
	Label string `json:"label"`
	Attributes
}

// Grid is the finished plate handed to a renderer.
type Grid struct {
	Rows                 int    `json:"rows"`
	Columns              int    `json:"columns"`
	Wells                []Well `json:"wells"`
	UseDefaultColorscale bool   `json:"use_default_colorscale"`
}

// FromLabels builds a layout from attributes keyed by well label.
// Labels are processed in sorted order so that the reported error is
// deterministic when several are bad.
func FromLabels(d grid.Dims, wells map[string]Attributes) (*Layout, error) {
	labels := make([]string, 0, len(wells))
	for label := range wells {
		labels = append(labels, label)
	}
	slices.Sort(labels)

	entries := make([]Entry, len(labels))
	for i, label := range labels {
		entries[i] = Entry{Label: label, Attributes: wells[label]}
	}
	return FromEntries(d, entries)
}

// FromEntries builds a layout from an ordered list of label-keyed records.
// Unlike a map, the list may repeat a label verbatim; that is a
// DUPLICATE_WELL_LABEL failure like any other collision.
func FromEntries(d grid.Dims, entries []Entry) (*Layout, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	l := newLayout(d, len(entries))
	source := make(map[well.Coord]string, len(entries))

	for _, e := range entries {
		c, err := well.Parse(e.Label)
		if err != nil {
			return nil, err
		}
		if !d.Contains(c) {
			return nil, errors.New(errors.ErrCodeCoordinateOutOfRange,
				"well %q is outside the declared %dx%d plate", e.Label, d.Rows, d.Columns)
		}
		if prev, dup := source[c]; dup {
			return nil, errors.New(errors.ErrCodeDuplicateWellLabel,
				"labels %q and %q both name well %s", prev, e.Label, c)
		}
		if err := validateAttributes(e.Label, e.Attributes); err != nil {
			return nil, err
		}
		source[c] = e.Label
		l.wells[c] = e.Attributes.clone()
	}

	l.sort()
	return l, nil
}

// Sequences are parallel per-well inputs placed in fill order. Any slice may
// be nil. Non-empty slices must share one length, at most the well count.
type Sequences struct {
	Values    []*float64
	Colors    []string
	Text      []string
	Direction grid.Direction

	// TextFromValues fills Text with the formatted values. Text must be
	// empty when it is set.
	TextFromValues bool
}

// FromSequences builds a layout by placing sequence position i at
// grid.ToCoord(i, d, s.Direction). Positions whose attributes are all
// unset stay empty.
func FromSequences(d grid.Dims, s Sequences) (*Layout, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if s.TextFromValues && len(s.Text) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "text and text-from-values are mutually exclusive")
	}

	n, err := sequenceLength(d, s)
	if err != nil {
		return nil, err
	}

	l := newLayout(d, n)
	for i := 0; i < n; i++ {
		var a Attributes
		if len(s.Values) > 0 && s.Values[i] != nil {
			a.Value = Float(*s.Values[i])
		}
		if len(s.Colors) > 0 {
			a.Color = s.Colors[i]
		}
		if len(s.Text) > 0 {
			a.Text = s.Text[i]
		}
		if s.TextFromValues {
			a.Text = a.FormatValue()
		}
		if a.IsEmpty() {
			continue
		}

		c, err := grid.ToCoord(i, d, s.Direction)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "place position %d", i)
		}
		if err := validateAttributes(c.String(), a); err != nil {
			return nil, err
		}
		l.wells[c] = a
	}

	l.sort()
	return l, nil
}

// sequenceLength checks the provided sequences agree and fit on the plate.
func sequenceLength(d grid.Dims, s Sequences) (int, error) {
	type seq struct {
		name string
		n    int
	}
	var provided []seq
	for _, q := range []seq{{"values", len(s.Values)}, {"colors", len(s.Colors)}, {"text", len(s.Text)}} {
		if q.n > 0 {
			provided = append(provided, q)
		}
	}
	if len(provided) == 0 {
		return 0, nil
	}

	first := provided[0]
	for _, q := range provided[1:] {
		if q.n != first.n {
			return 0, errors.New(errors.ErrCodeSequenceLengthMismatch,
				"%s has %d entries but %s has %d", first.name, first.n, q.name, q.n)
		}
	}
	if first.n > d.Wells() {
		return 0, errors.New(errors.ErrCodeIndexOutOfRange,
			"%s length (%d) exceeds total wells (%d)", first.name, first.n, d.Wells())
	}
	return first.n, nil
}

func validateAttributes(label string, a Attributes) error {
	if a.HasValue() && (math.IsNaN(*a.Value) || math.IsInf(*a.Value, 0)) {
		return errors.New(errors.ErrCodeInvalidInput, "well %s: value must be finite, got %v", label, *a.Value)
	}
	if a.Color == "" {
		return nil
	}
	if err := errors.ValidateColor(a.Color); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "well %s", label)
	}
	return nil
}

func newLayout(d grid.Dims, n int) *Layout {
	return &Layout{dims: d, wells: make(map[well.Coord]Attributes, n)}
}

func (l *Layout) sort() {
	l.order = make([]well.Coord, 0, len(l.wells))
	for c := range l.wells {
		l.order = append(l.order, c)
	}
	slices.SortFunc(l.order, func(a, b well.Coord) int {
		return cmp.Or(cmp.Compare(a.Row, b.Row), cmp.Compare(a.Column, b.Column))
	})
}

// Dims returns the declared plate size.
func (l *Layout) Dims() grid.Dims { return l.dims }

// Len returns the number of populated wells.
func (l *Layout) Len() int { return len(l.wells) }

// At returns the attributes at c and whether the well is populated.
func (l *Layout) At(c well.Coord) (Attributes, bool) {
	a, ok := l.wells[c]
	return a.clone(), ok
}

// Lookup resolves a label and returns that well's attributes.
func (l *Layout) Lookup(label string) (Attributes, bool, error) {
	c, err := well.Parse(label)
	if err != nil {
		return Attributes{}, false, err
	}
	if !l.dims.Contains(c) {
		return Attributes{}, false, errors.New(errors.ErrCodeCoordinateOutOfRange,
			"well %q is outside the %dx%d plate", label, l.dims.Rows, l.dims.Columns)
	}
	a, ok := l.At(c)
	return a, ok, nil
}

// Wells returns the populated wells in row-major order.
func (l *Layout) Wells() []Well {
	out := make([]Well, len(l.order))
	for i, c := range l.order {
		label, _ := well.Format(c)
		out[i] = Well{Coord: c, Label: label, Attributes: l.wells[c].clone()}
	}
	return out
}

// UseDefaultColorscale reports whether any well has a value without an
// explicit color.
func (l *Layout) UseDefaultColorscale() bool {
	for _, a := range l.wells {
		if a.NeedsColorscale() {
			return true
		}
	}
	return false
}

// ValueRange returns the smallest and largest value on the plate. ok is
// false when no well has a value.
func (l *Layout) ValueRange() (lo, hi float64, ok bool) {
	for _, c := range l.order {
		v := l.wells[c].Value
		if v == nil {
			continue
		}
		if !ok {
			lo, hi, ok = *v, *v, true
			continue
		}
		lo, hi = min(lo, *v), max(hi, *v)
	}
	return lo, hi, ok
}

// Grid returns the plate in the shape renderers consume.
func (l *Layout) Grid() Grid {
	return Grid{
		Rows:                 l.dims.Rows,
		Columns:              l.dims.Columns,
		Wells:                l.Wells(),
		UseDefaultColorscale: l.UseDefaultColorscale(),
	}
}

// ToLabelMap returns the populated wells keyed by canonical label.
func (l *Layout) ToLabelMap() map[string]Attributes {
	out := make(map[string]Attributes, len(l.wells))
	for _, w := range l.Wells() {
		out[w.Label] = w.Attributes
	}
	return out
}
