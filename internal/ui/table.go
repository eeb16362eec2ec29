package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table renders rows as a compact column-aligned table.
type Table struct {
	Headers  []string
	Rows     [][]string
	MaxWidth int // Max width per column (0 = auto)
	// Styles optionally colours individual cells; nil entries use the
	// default cell style.
	Styles [][]*lipgloss.Style
}

// ColumnWidths returns the display width of each column.
func (t *Table) ColumnWidths() []int {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}
	if t.MaxWidth > 0 {
		for i := range widths {
			widths[i] = min(widths[i], t.MaxWidth)
		}
	}
	return widths
}

// Render outputs the table to a string.
func (t *Table) Render() string {
	if len(t.Headers) == 0 {
		return ""
	}

	widths := t.ColumnWidths()
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	cellStyle := lipgloss.NewStyle().Foreground(ColorText)
	var sb strings.Builder

	cells := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		cells[i] = headerStyle.Render(padRight(h, widths[i]))
	}
	sb.WriteString(" " + strings.Join(cells, "  ") + "\n")

	seps := make([]string, len(widths))
	for i, w := range widths {
		seps[i] = StyleSubtle.Render(strings.Repeat("─", w))
	}
	sb.WriteString(" " + strings.Join(seps, "──") + "\n")

	for r, row := range t.Rows {
		for i := range t.Headers {
			val := ""
			if i < len(row) {
				val = fitCell(row[i], widths[i])
			}
			style := cellStyle
			if s := t.cellStyle(r, i); s != nil {
				style = *s
			}
			cells[i] = style.Render(padRight(val, widths[i]))
		}
		sb.WriteString(" " + strings.Join(cells, "  ") + "\n")
	}
	return sb.String()
}

func (t *Table) cellStyle(row, col int) *lipgloss.Style {
	if row >= len(t.Styles) || col >= len(t.Styles[row]) {
		return nil
	}
	return t.Styles[row][col]
}

// fitCell cuts val to width runes, marking the cut with an ellipsis.
func fitCell(val string, width int) string {
	if lipgloss.Width(val) <= width {
		return val
	}
	if width <= 1 {
		return "…"
	}
	r := []rune(val)
	if len(r) > width-1 {
		r = r[:width-1]
	}
	return string(r) + "…"
}

// padRight pads s with spaces to the given display width.
func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// TruncateID shortens an ID for display (last 6 chars; Todoist ids share long prefixes).
func TruncateID(id string) string {
	if len(id) > 6 {
		return id[len(id)-6:]
	}
	return id
}
