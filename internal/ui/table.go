package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// NewTable creates a new Bubbles table with default styling.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{
			Title: c.Title,
			Width: c.Width,
		}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1), // +1 for header
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.
		Foreground(ColorPrimary)
	// Nothing is focused, so the cursor row must look like every other row.
	s.Selected = s.Cell

	t.SetStyles(s)
	return t
}

// RenderSimpleTable renders a non-interactive table string.
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}

	return NewTable(columns, tableRows).View()
}

// RoutineRow is one entry in the routine listing.
type RoutineRow struct {
	Name        string
	Role        string // "filler" or "bar"
	Metrics     []string
	Description string
}

// RenderRoutineTable lists routines grouped by role, in the order the
// roles first appear.
func RenderRoutineTable(rows []RoutineRow) string {
	if len(rows) == 0 {
		return "No routines registered"
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	nameStyle := lipgloss.NewStyle().Foreground(ColorInfo)
	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	byRole := make(map[string][]RoutineRow)
	var order []string
	for _, r := range rows {
		if _, ok := byRole[r.Role]; !ok {
			order = append(order, r.Role)
		}
		byRole[r.Role] = append(byRole[r.Role], r)
	}

	width := 0
	for _, r := range rows {
		width = max(width, len(r.Name))
	}

	var sb strings.Builder
	for _, role := range order {
		sb.WriteString(headerStyle.Render(role + "s"))
		sb.WriteString("\n")
		for _, r := range byRole[role] {
			sb.WriteString("  " + SymbolComplete + " ")
			sb.WriteString(padRight(nameStyle.Render(r.Name), width+2))
			sb.WriteString(r.Description)
			if len(r.Metrics) > 0 {
				sb.WriteString(" " + mutedStyle.Render("("+strings.Join(r.Metrics, ", ")+")"))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// padRight pads a string to the specified width.
func padRight(s string, width int) string {
	// Account for ANSI codes when calculating visible length
	visibleLen := lipgloss.Width(s)
	if visibleLen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visibleLen)
}
