package grid

import (
	"iter"
	"math"
	"strings"

	"github.com/matzehuels/platemap/pkg/errors"
	"github.com/matzehuels/platemap/pkg/well"
)

// Direction is the order in which a flat sequence fills a plate.
type Direction int

const (
	// Horizontal fills each row left to right before moving down.
	Horizontal Direction = iota
	// Vertical fills each column top to bottom before moving right.
	Vertical
)

// String returns "horizontal" or "vertical".
func (d Direction) String() string {
	if d == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// ParseDirection parses a direction name case-insensitively.
// The empty string selects [Horizontal].
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "horizontal":
		return Horizontal, nil
	case "vertical":
		return Vertical, nil
	}
	return Horizontal, errors.New(errors.ErrCodeInvalidDirection, "invalid fill direction %q (must be 'horizontal' or 'vertical')", s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(b []byte) error {
	parsed, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Dims is the declared size of a plate.
type Dims struct {
	Rows    int `json:"rows" toml:"rows"`
	Columns int `json:"columns" toml:"columns"`
}

// Wells returns the number of wells, Rows×Columns.
func (d Dims) Wells() int {
	return d.Rows * d.Columns
}

// Validate checks 1 <= Rows <= 702 and Columns >= 1. Columns are bounded
// only so that Rows×Columns fits in an int.
func (d Dims) Validate() error {
	if d.Rows < 1 || d.Rows > well.MaxRows {
		return errors.New(errors.ErrCodeInvalidDimensions, "rows must be in [1, %d], got %d", well.MaxRows, d.Rows)
	}
	if d.Columns < 1 {
		return errors.New(errors.ErrCodeInvalidDimensions, "columns must be at least 1, got %d", d.Columns)
	}
	if d.Columns > math.MaxInt/d.Rows {
		return errors.New(errors.ErrCodeInvalidDimensions,
			"%dx%d plate has more wells than an int can count", d.Rows, d.Columns)
	}
	return nil
}

// Contains reports whether c lies on the plate.
func (d Dims) Contains(c well.Coord) bool {
	return c.Row >= 0 && c.Row < d.Rows && c.Column >= 0 && c.Column < d.Columns
}

// ToCoord maps a linear index to its coordinate.
func ToCoord(i int, d Dims, dir Direction) (well.Coord, error) {
	if i < 0 || i >= d.Wells() {
		return well.Coord{}, errors.New(errors.ErrCodeIndexOutOfRange,
			"index %d out of range [0, %d) for %dx%d plate", i, d.Wells(), d.Rows, d.Columns)
	}
	if dir == Vertical {
		return well.Coord{Row: i % d.Rows, Column: i / d.Rows}, nil
	}
	return well.Coord{Row: i / d.Columns, Column: i % d.Columns}, nil
}

// ToLinear maps a coordinate to its linear index. It is the inverse of
// [ToCoord].
func ToLinear(c well.Coord, d Dims, dir Direction) (int, error) {
	if !d.Contains(c) {
		return 0, errors.New(errors.ErrCodeCoordinateOutOfRange,
			"coordinate (%d,%d) outside %dx%d plate", c.Row, c.Column, d.Rows, d.Columns)
	}
	if dir == Vertical {
		return c.Column*d.Rows + c.Row, nil
	}
	return c.Row*d.Columns + c.Column, nil
}

// Coords yields every (linear index, coordinate) pair of the plate in fill
// order.
func Coords(d Dims, dir Direction) iter.Seq2[int, well.Coord] {
	return func(yield func(int, well.Coord) bool) {
		n := d.Wells()
		for i := 0; i < n; i++ {
			var c well.Coord
			if dir == Vertical {
				c = well.Coord{Row: i % d.Rows, Column: i / d.Rows}
			} else {
				c = well.Coord{Row: i / d.Columns, Column: i % d.Columns}
			}
			if !yield(i, c) {
				return
			}
		}
	}
}
