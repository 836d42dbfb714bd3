package cli

import (
	"strings"
	"testing"

	"github.com/matzehuels/platemap/pkg/errors"
)

func TestLabelCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"parse", []string{"label", "a01", "H12"}, []string{"A1", "row 0", "H12", "row 7", "column 11"}},
		{"two letter row", []string{"label", "AA3"}, []string{"AA3", "row 26", "column 2"}},
		{"row index", []string{"label", "--index", "26"}, []string{"AA"}},
		{"last row index", []string{"label", "--index", "701"}, []string{"ZZ"}},
		{"linear vertical", []string{"label", "--linear", "13", "--format", "96", "--direction", "vertical"}, []string{"F2", "position 13"}},
		{"linear horizontal", []string{"label", "--linear", "13", "--rows", "8", "--columns", "12"}, []string{"B2"}},
		{"positions", []string{"label", "B2", "--format", "96"}, []string{"B2", "position 13"}},
		{"format and matching rows", []string{"label", "B2", "--format", "96", "--rows", "8", "--columns", "12"}, []string{"position 13"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runCLI(t, tt.args...)
			if err != nil {
				t.Fatalf("label: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("output missing %q:\n%s", w, got)
				}
			}
		})
	}
}

func TestLabelCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"column zero", []string{"label", "A0"}, errors.ErrCodeInvalidLabelFormat},
		{"three letters", []string{"label", "AAA1"}, errors.ErrCodeInvalidLabelFormat},
		{"no input", []string{"label"}, errors.ErrCodeInvalidInput},
		{"row index too large", []string{"label", "--index", "702"}, errors.ErrCodeRowIndexOutOfRange},
		{"linear past end", []string{"label", "--linear", "96", "--format", "96"}, errors.ErrCodeIndexOutOfRange},
		{"linear without grid", []string{"label", "--linear", "0"}, errors.ErrCodeInvalidDimensions},
		{"outside plate", []string{"label", "I1", "--format", "96"}, errors.ErrCodeCoordinateOutOfRange},
		{"format disagrees with rows", []string{"label", "A1", "--format", "96", "--rows", "16", "--columns", "24"}, errors.ErrCodeInvalidDimensions},
		{"format disagrees on linear", []string{"label", "--linear", "0", "--format", "96", "--rows", "4"}, errors.ErrCodeInvalidDimensions},
		{"bad direction", []string{"label", "--linear", "0", "--format", "6", "--direction", "diagonal"}, errors.ErrCodeInvalidDirection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}
