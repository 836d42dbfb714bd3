package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/platemap/pkg/grid"
	plateio "github.com/matzehuels/platemap/pkg/io"
	"github.com/matzehuels/platemap/pkg/plate"
	"github.com/matzehuels/platemap/pkg/well"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var export, asTOML, all bool
	var output string

	cmd := &cobra.Command{
		Use:   "inspect [plate.json|plate.toml] [label...]",
		Short: "Print the wells of a plate definition",
		Long: `Print the populated wells of a plate definition as a table, or only
the named wells.

--export prints the canonical label-keyed JSON instead (TOML with --toml),
which is how a sequence-based definition looks once it has been laid out.
--output writes that export to a .json or .toml file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, l, err := plateio.Load(args[0])
			if err != nil {
				return err
			}
			switch {
			case output != "":
				if err := plateio.ExportFile(l, output); err != nil {
					return err
				}
				printSuccess("Exported %s", def.String())
				printFile(output)
				return nil
			case export && asTOML:
				return plateio.WriteTOML(l, out)
			case export:
				return plateio.WriteJSON(l, out)
			}

			if len(args) > 1 {
				wells, err := lookupWells(l, args[1:])
				if err != nil {
					return err
				}
				fmt.Fprintln(out, wellTable(wells).Render())
				return nil
			}
			printInspect(def, l, all)
			return nil
		},
	}

	cmd.Flags().BoolVar(&export, "export", false, "print label-keyed JSON")
	cmd.Flags().BoolVar(&asTOML, "toml", false, "with --export, print TOML instead of JSON")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the label-keyed export to a .json or .toml file")
	cmd.Flags().BoolVar(&all, "all", false, "list empty wells too")
	return cmd
}

// lookupWells resolves labels against l in the order given. Labels naming
// the same well, such as a1 and A01, are listed once.
func lookupWells(l *plate.Layout, labels []string) ([]plate.Well, error) {
	seen := make(map[string]bool, len(labels))
	wells := make([]plate.Well, 0, len(labels))
	for _, label := range labels {
		canonical, err := well.Normalize(label)
		if err != nil {
			return nil, err
		}
		if seen[canonical] {
			continue
		}
		seen[canonical] = true

		a, _, err := l.Lookup(canonical)
		if err != nil {
			return nil, err
		}
		wells = append(wells, plate.Well{Label: canonical, Attributes: a})
	}
	return wells, nil
}

func printInspect(def *plateio.Definition, l *plate.Layout, all bool) {
	d := l.Dims()
	fmt.Fprintln(out, StyleTitle.Render(def.String()))
	printKeyValue("Size", fmt.Sprintf("%d×%d (%d wells)", d.Rows, d.Columns, d.Wells()))
	printKeyValue("Populated", strconv.Itoa(l.Len()))
	if lo, hi, ok := l.ValueRange(); ok {
		printKeyValue("Values", fmt.Sprintf("%s … %s", formatFloat(lo), formatFloat(hi)))
	}
	colorscale := "no"
	if l.UseDefaultColorscale() {
		colorscale = "yes"
	}
	printKeyValue("Colorscale", colorscale)
	fmt.Fprintln(out)

	wells := l.Wells()
	if all {
		wells = allWells(l)
	}
	if len(wells) == 0 {
		printInfo("No populated wells")
		return
	}
	fmt.Fprintln(out, wellTable(wells).Render())
}

// wellTable lays out wells one per row: label, value, color, text.
func wellTable(wells []plate.Well) *table.Table {
	rows := make([][]string, len(wells))
	for i, w := range wells {
		rows[i] = []string{w.Label, dash(w.FormatValue()), dash(w.Color), dash(w.Text)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Well", "Value", "Color", "Text").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= len(wells) || wells[row].IsEmpty() {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle()
		})
}

// allWells lists every well of l in row-major order, empty ones included.
func allWells(l *plate.Layout) []plate.Well {
	d := l.Dims()
	wells := make([]plate.Well, 0, d.Wells())
	for _, c := range grid.Coords(d, grid.Horizontal) {
		a, _ := l.At(c)
		wells = append(wells, plate.Well{Coord: c, Label: c.String(), Attributes: a})
	}
	return wells
}

func dash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
