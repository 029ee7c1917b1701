package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// TaskLine is one supervised task in a run summary.
type TaskLine struct {
	Name     string
	Duration time.Duration
	Err      error
}

// RunSummary holds what a finished run reports.
type RunSummary struct {
	Outcome  string // "interrupted", "quit", "time-limit" or "failed"
	Duration time.Duration
	Frames   uint64
	Tasks    []TaskLine
}

// SummaryRenderer formats run summaries for terminal display.
type SummaryRenderer struct {
	errorStyle   lipgloss.Style
	successStyle lipgloss.Style
	warnStyle    lipgloss.Style
	mutedStyle   lipgloss.Style
}

// NewSummaryRenderer creates a new summary renderer with default styles.
func NewSummaryRenderer() *SummaryRenderer {
	return &SummaryRenderer{
		errorStyle:   lipgloss.NewStyle().Foreground(ColorError),
		successStyle: lipgloss.NewStyle().Foreground(ColorSuccess),
		warnStyle:    lipgloss.NewStyle().Foreground(ColorWarning),
		mutedStyle:   lipgloss.NewStyle().Foreground(ColorMuted),
	}
}

// RenderSummary generates a formatted run summary.
func RenderSummary(s *RunSummary) string {
	return NewSummaryRenderer().Render(s)
}

// Render generates the headline followed by a table of tasks.
func (r *SummaryRenderer) Render(s *RunSummary) string {
	if s == nil {
		return ""
	}

	var sb strings.Builder
	timing := r.mutedStyle.Render(fmt.Sprintf("(%s, %d frames)", s.Duration.Round(time.Millisecond), s.Frames))
	switch s.Outcome {
	case "failed":
		sb.WriteString(r.errorStyle.Render(SymbolFail + " run failed"))
	case "time-limit":
		sb.WriteString(r.warnStyle.Render(SymbolTimeUp + " time limit reached"))
	default:
		sb.WriteString(r.successStyle.Render(SymbolSuccess + " stopped (" + s.Outcome + ")"))
	}
	sb.WriteString(" " + timing + "\n")

	if len(s.Tasks) == 0 {
		return sb.String()
	}

	rows := make([][]string, len(s.Tasks))
	nameWidth := len("TASK")
	for i, t := range s.Tasks {
		result := "ok"
		if t.Err != nil {
			result = t.Err.Error()
			if nl := strings.IndexByte(result, '\n'); nl >= 0 {
				result = result[:nl]
			}
		}
		rows[i] = []string{t.Name, t.Duration.Round(time.Millisecond).String(), result}
		nameWidth = max(nameWidth, len(t.Name))
	}
	sb.WriteString(RenderSimpleTable([]TableColumn{
		{Title: "TASK", Width: nameWidth + 2},
		{Title: "RAN", Width: 10},
		{Title: "RESULT", Width: 40},
	}, rows))
	sb.WriteString("\n")
	return sb.String()
}
