package well

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/platemap/pkg/errors"
)

const (
	// MaxRowIndex is the largest row index with a name ("ZZ").
	MaxRowIndex = 701

	// MaxRows is the number of nameable rows.
	MaxRows = MaxRowIndex + 1

	maxLetters = 2
	alphabet   = 26
)

// Coord is a zero-based (row, column) position on a plate.
type Coord struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// String returns the canonical label, or "(row,column)" when the coordinate
// has no label.
func (c Coord) String() string {
	if s, err := Format(c); err == nil {
		return s
	}
	return fmt.Sprintf("(%d,%d)", c.Row, c.Column)
}

// RowIndex converts a one- or two-letter row name to its zero-based index.
// Letters are case-insensitive.
func RowIndex(letters string) (int, error) {
	if letters == "" {
		return 0, errors.New(errors.ErrCodeInvalidLabelFormat, "row letters cannot be empty")
	}
	if len(letters) > maxLetters {
		return 0, errors.New(errors.ErrCodeInvalidLabelFormat, "row letters %q too long (max %d)", letters, maxLetters)
	}

	idx := 0
	for i := 0; i < len(letters); i++ {
		v, ok := letterValue(letters[i])
		if !ok {
			return 0, errors.New(errors.ErrCodeInvalidLabelFormat, "row letters %q contain non-letter %q", letters, letters[i])
		}
		if i == 0 {
			idx = v
			continue
		}
		idx = alphabet + idx*alphabet + v
	}

	if idx > MaxRowIndex {
		return 0, errors.New(errors.ErrCodeRowIndexOutOfRange, "row %q resolves to index %d (max %d)", letters, idx, MaxRowIndex)
	}
	return idx, nil
}

// RowLetters converts a zero-based row index to its name.
func RowLetters(index int) (string, error) {
	if index < 0 || index > MaxRowIndex {
		return "", errors.New(errors.ErrCodeRowIndexOutOfRange, "row index %d out of range [0, %d]", index, MaxRowIndex)
	}
	if index < alphabet {
		return string(rune('A' + index)), nil
	}
	index -= alphabet
	return string([]byte{byte('A' + index/alphabet), byte('A' + index%alphabet)}), nil
}

// Parse splits a label into its row letters and column digits and returns
// the zero-based coordinate.
func Parse(label string) (Coord, error) {
	split := 0
	for split < len(label) {
		if _, ok := letterValue(label[split]); !ok {
			break
		}
		split++
	}
	letters, digits := label[:split], label[split:]

	if split == 0 {
		return Coord{}, errors.New(errors.ErrCodeInvalidLabelFormat, "label %q must start with row letters", label)
	}
	if split > maxLetters {
		return Coord{}, errors.New(errors.ErrCodeInvalidLabelFormat, "label %q has %d row letters (max %d)", label, split, maxLetters)
	}
	if digits == "" {
		return Coord{}, errors.New(errors.ErrCodeInvalidLabelFormat, "label %q has no column number", label)
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return Coord{}, errors.New(errors.ErrCodeInvalidLabelFormat, "label %q must be letters followed by digits", label)
		}
	}

	trimmed := strings.TrimLeft(digits, "0")
	if trimmed == "" {
		return Coord{}, errors.New(errors.ErrCodeInvalidLabelFormat, "label %q has column 0 (columns start at 1)", label)
	}
	col, err := strconv.Atoi(trimmed)
	if err != nil {
		return Coord{}, errors.Wrap(errors.ErrCodeInvalidLabelFormat, err, "label %q column out of range", label)
	}

	row, err := RowIndex(letters)
	if err != nil {
		return Coord{}, err
	}
	return Coord{Row: row, Column: col - 1}, nil
}

// Format returns the canonical label for c.
func Format(c Coord) (string, error) {
	letters, err := RowLetters(c.Row)
	if err != nil {
		return "", err
	}
	if c.Column < 0 {
		return "", errors.New(errors.ErrCodeCoordinateOutOfRange, "column index %d is negative", c.Column)
	}
	return letters + strconv.Itoa(c.Column+1), nil
}

// Normalize parses label and formats it back, yielding the canonical form.
func Normalize(label string) (string, error) {
	c, err := Parse(label)
	if err != nil {
		return "", err
	}
	return Format(c)
}

// letterValue maps an ASCII letter of either case to 0..25.
func letterValue(b byte) (int, bool) {
	switch {
	case b >= 'A' && b <= 'Z':
		return int(b - 'A'), true
	case b >= 'a' && b <= 'z':
		return int(b - 'a'), true
	}
	return 0, false
}
