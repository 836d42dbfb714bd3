package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	plateio "github.com/matzehuels/platemap/pkg/io"
	"github.com/matzehuels/platemap/pkg/plate"
	"github.com/matzehuels/platemap/pkg/render/colorscale"
	"github.com/matzehuels/platemap/pkg/well"
)

const (
	glyphFilled = "●"
	glyphEmpty  = "○"
)

var (
	viewHeaderStyle = lipgloss.NewStyle().Foreground(colorGray)
	viewEmptyStyle  = lipgloss.NewStyle().Foreground(colorDim)
	viewCursorStyle = lipgloss.NewStyle().Reverse(true)
	viewPanelStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
)

// viewCommand creates the interactive plate browser.
func (c *CLI) viewCommand() *cobra.Command {
	var scaleName string

	cmd := &cobra.Command{
		Use:   "view [plate.json|plate.toml]",
		Short: "Browse a plate interactively",
		Long:  `Browse a plate in the terminal. Arrow keys or hjkl move between wells; q quits.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if scaleName == "" {
				scaleName = c.Config.Render.Colorscale
			}
			scale, err := colorscale.Parse(scaleName)
			if err != nil {
				return err
			}
			def, l, err := plateio.Load(args[0])
			if err != nil {
				return err
			}
			p := tea.NewProgram(NewPlateModel(def.String(), l, scale), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&scaleName, "colorscale", "", "colorscale for values")
	return cmd
}

// =============================================================================
// PlateModel - Interactive plate browser
// =============================================================================

// PlateModel is the bubbletea model for browsing a plate well by well.
type PlateModel struct {
	Title  string
	Layout *plate.Layout
	Cursor well.Coord

	scale  colorscale.Scale
	lo, hi float64
}

// NewPlateModel creates a browser positioned on A1.
func NewPlateModel(title string, l *plate.Layout, scale colorscale.Scale) PlateModel {
	m := PlateModel{Title: title, Layout: l, scale: scale}
	m.lo, m.hi, _ = l.ValueRange()
	return m
}

func (m PlateModel) Init() tea.Cmd {
	return nil
}

func (m PlateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	d := m.Layout.Dims()
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor.Row > 0 {
			m.Cursor.Row--
		}
	case "down", "j":
		if m.Cursor.Row < d.Rows-1 {
			m.Cursor.Row++
		}
	case "left", "h":
		if m.Cursor.Column > 0 {
			m.Cursor.Column--
		}
	case "right", "l":
		if m.Cursor.Column < d.Columns-1 {
			m.Cursor.Column++
		}
	case "home", "g":
		m.Cursor = well.Coord{}
	case "end", "G":
		m.Cursor = well.Coord{Row: d.Rows - 1, Column: d.Columns - 1}
	}
	return m, nil
}

func (m PlateModel) View() string {
	d := m.Layout.Dims()
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n\n")

	rowWidth := 1
	if d.Rows > 26 {
		rowWidth = 2
	}
	colWidth := len(fmt.Sprint(d.Columns))

	b.WriteString(strings.Repeat(" ", rowWidth+1))
	for col := 0; col < d.Columns; col++ {
		b.WriteString(viewHeaderStyle.Render(fmt.Sprintf("%*d", colWidth, col+1)))
		b.WriteString(" ")
	}
	b.WriteString("\n")

	for row := 0; row < d.Rows; row++ {
		letters, _ := well.RowLetters(row)
		b.WriteString(viewHeaderStyle.Render(fmt.Sprintf("%*s", rowWidth, letters)))
		b.WriteString(" ")
		for col := 0; col < d.Columns; col++ {
			c := well.Coord{Row: row, Column: col}
			cell := strings.Repeat(" ", colWidth-1) + m.glyph(c)
			if c == m.Cursor {
				cell = viewCursorStyle.Render(cell)
			}
			b.WriteString(cell)
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(viewPanelStyle.Render(m.details()))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("  ←↑↓→ move · g/G first/last · q quit"))
	b.WriteString("\n")
	return b.String()
}

// glyph renders one well: filled and colored when populated.
func (m PlateModel) glyph(c well.Coord) string {
	a, ok := m.Layout.At(c)
	if !ok || (a.Value == nil && a.Color == "") {
		if ok && a.Text != "" {
			return StyleValue.Render(glyphFilled)
		}
		return viewEmptyStyle.Render(glyphEmpty)
	}
	return lipgloss.NewStyle().Foreground(m.fill(a)).Render(glyphFilled)
}

// fill picks the terminal color for a populated well. Explicit colors are
// only honored when they are hex; named CSS colors fall back to cyan.
func (m PlateModel) fill(a plate.Attributes) lipgloss.Color {
	if a.Color != "" {
		if strings.HasPrefix(a.Color, "#") {
			return lipgloss.Color(a.Color)
		}
		return colorCyan
	}
	return lipgloss.Color(m.scale.Hex(colorscale.Normalize(*a.Value, m.lo, m.hi)))
}

// details describes the well under the cursor.
func (m PlateModel) details() string {
	label := m.Cursor.String()
	a, ok := m.Layout.At(m.Cursor)
	if !ok {
		return StyleNumber.Render(label) + StyleDim.Render("  empty")
	}
	lines := []string{StyleNumber.Render(label)}
	if v := a.FormatValue(); v != "" {
		lines = append(lines, StyleDim.Render("value ")+v)
	}
	if a.Color != "" {
		lines = append(lines, StyleDim.Render("color ")+a.Color)
	}
	if a.Text != "" {
		lines = append(lines, StyleDim.Render("text  ")+a.Text)
	}
	return strings.Join(lines, "\n")
}
