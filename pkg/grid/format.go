package grid

import (
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/platemap/pkg/errors"
)

// Standard SBS plate layouts.
var (
	Plate6    = Dims{Rows: 2, Columns: 3}
	Plate12   = Dims{Rows: 3, Columns: 4}
	Plate24   = Dims{Rows: 4, Columns: 6}
	Plate48   = Dims{Rows: 6, Columns: 8}
	Plate96   = Dims{Rows: 8, Columns: 12}
	Plate384  = Dims{Rows: 16, Columns: 24}
	Plate1536 = Dims{Rows: 32, Columns: 48}
)

var formats = map[int]Dims{
	6:    Plate6,
	12:   Plate12,
	24:   Plate24,
	48:   Plate48,
	96:   Plate96,
	384:  Plate384,
	1536: Plate1536,
}

// Format returns the layout of a standard plate with the given well count.
func Format(wells int) (Dims, error) {
	if d, ok := formats[wells]; ok {
		return d, nil
	}
	return Dims{}, errors.New(errors.ErrCodeInvalidDimensions,
		"no standard %d-well plate (known: %s)", wells, strings.Join(FormatNames(), ", "))
}

// FormatNames lists the standard well counts in ascending order.
func FormatNames() []string {
	counts := make([]int, 0, len(formats))
	for n := range formats {
		counts = append(counts, n)
	}
	slices.Sort(counts)
	names := make([]string, len(counts))
	for i, n := range counts {
		names[i] = strconv.Itoa(n)
	}
	return names
}
