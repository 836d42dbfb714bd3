package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/platemap/pkg/errors"
	"github.com/matzehuels/platemap/pkg/grid"
	plateio "github.com/matzehuels/platemap/pkg/io"
	"github.com/matzehuels/platemap/pkg/well"
)

// labelOpts holds the flags of the label command.
type labelOpts struct {
	rowIndex  int
	linear    int
	rows      int
	columns   int
	format    int
	direction string
}

// labelCommand creates the label command.
func (c *CLI) labelCommand() *cobra.Command {
	opts := labelOpts{rowIndex: -1, linear: -1}

	cmd := &cobra.Command{
		Use:   "label [label...]",
		Short: "Convert between well labels, coordinates and fill positions",
		Long: `Convert between well labels, coordinates and fill positions.

  platemap label A1 h12 AA03            parse labels
  platemap label --index 26             row letters for a row index (AA)
  platemap label --linear 13 --format 96 --direction vertical
                                        well at a fill position
  platemap label B2 --format 96         labels plus their fill positions`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLabel(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.rowIndex, "index", -1, "print the row letters for a zero-based row index")
	f.IntVar(&opts.linear, "linear", -1, "print the well at a zero-based fill position")
	f.IntVar(&opts.rows, "rows", 0, "plate rows")
	f.IntVar(&opts.columns, "columns", 0, "plate columns")
	f.IntVar(&opts.format, "format", 0, "standard plate size (6, 12, 24, 48, 96, 384, 1536)")
	f.StringVar(&opts.direction, "direction", "horizontal", "fill direction: horizontal or vertical")
	return cmd
}

func runLabel(cmd *cobra.Command, args []string, opts labelOpts) error {
	set := cmd.Flags().Changed
	switch {
	case set("index"):
		letters, err := well.RowLetters(opts.rowIndex)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, letters)
		return nil

	case set("linear"):
		d, dir, err := labelGrid(opts)
		if err != nil {
			return err
		}
		c, err := grid.ToCoord(opts.linear, d, dir)
		if err != nil {
			return err
		}
		printCoord(c.String(), c, opts.linear)
		return nil
	}

	if len(args) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "give at least one label, --index or --linear")
	}

	withGrid := set("rows") || set("columns") || set("format")
	var d grid.Dims
	var dir grid.Direction
	if withGrid {
		var err error
		if d, dir, err = labelGrid(opts); err != nil {
			return err
		}
	}

	for _, label := range args {
		c, err := well.Parse(label)
		if err != nil {
			return err
		}
		canonical, err := well.Format(c)
		if err != nil {
			return err
		}
		linear := -1
		if withGrid {
			if linear, err = grid.ToLinear(c, d, dir); err != nil {
				return err
			}
		}
		printCoord(canonical, c, linear)
	}
	return nil
}

// labelGrid resolves the plate size and direction flags with the same rules
// as a plate file: --format and --rows/--columns must agree when both are
// given.
func labelGrid(opts labelOpts) (grid.Dims, grid.Direction, error) {
	dir, err := grid.ParseDirection(opts.direction)
	if err != nil {
		return grid.Dims{}, 0, err
	}
	def := plateio.Definition{Format: opts.format, Rows: opts.rows, Columns: opts.columns}
	d, err := def.Dims()
	if err != nil {
		return grid.Dims{}, 0, err
	}
	return d, dir, nil
}

// printCoord prints "A1  row 0  column 0" and the fill position when known.
func printCoord(label string, c well.Coord, linear int) {
	line := StyleNumber.Render(fmt.Sprintf("%-5s", label)) +
		StyleDim.Render("  row ") + strconv.Itoa(c.Row) +
		StyleDim.Render("  column ") + strconv.Itoa(c.Column)
	if linear >= 0 {
		line += StyleDim.Render("  position ") + strconv.Itoa(linear)
	}
	fmt.Fprintln(out, line)
}
