package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/stickyweek/internal/config"
)

// Theme holds the styles derived from a Config. It is rebuilt whenever the
// config is reloaded.
type Theme struct {
	Margin           int
	Padding          int
	ColumnGap        int
	FocusedStretch   int
	UnfocusedStretch int

	Column        lipgloss.Style
	FocusedColumn lipgloss.Style
	Header        lipgloss.Style
	TodayHeader   lipgloss.Style
	Task          lipgloss.Style
	DoneTask      lipgloss.Style
	Selected      lipgloss.Style
	Note          lipgloss.Style
	Status        lipgloss.Style
	Error         lipgloss.Style
	Help          lipgloss.Style
	Popup         lipgloss.Style
}

// NewTheme builds the board styles from cfg's colors and layout.
func NewTheme(cfg *config.Config) Theme {
	accent := lipgloss.Color(cfg.Accent)
	border := lipgloss.Color(cfg.Border)

	column := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, cfg.Padding)

	return Theme{
		Margin:           cfg.Margin,
		Padding:          cfg.Padding,
		ColumnGap:        cfg.ColumnGap,
		FocusedStretch:   cfg.FocusedStretch,
		UnfocusedStretch: cfg.UnfocusedStretch,

		Column:        column,
		FocusedColumn: column.BorderForeground(accent).BorderStyle(lipgloss.ThickBorder()),
		Header:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(cfg.Text)),
		TodayHeader: lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(cfg.Text)).
			Background(lipgloss.Color(cfg.Today)),
		Task:     lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Text)),
		DoneTask: lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.DoneText)).Strikethrough(true),
		Selected: lipgloss.NewStyle().Reverse(true),
		Note:     lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.NoteText)).Italic(true),
		Status:   lipgloss.NewStyle().Foreground(accent),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Today)).Bold(true),
		Help:     lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.DoneText)),
		Popup: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 2),
	}
}

// columnWidths splits total cells across the seven days. The focused day
// gets FocusedStretch shares and every other day UnfocusedStretch shares;
// leftover cells go to the focused day. Each column is at least min wide.
func (t Theme) columnWidths(total, focused, min int) []int {
	const days = 7
	widths := make([]int, days)
	avail := total - 2*t.Margin - (days-1)*t.ColumnGap
	shares := t.FocusedStretch + (days-1)*t.UnfocusedStretch
	if avail < days*min || shares <= 0 {
		for i := range widths {
			widths[i] = min
		}
		return widths
	}

	used := 0
	for i := range widths {
		s := t.UnfocusedStretch
		if i == focused {
			s = t.FocusedStretch
		}
		widths[i] = avail * s / shares
		if widths[i] < min {
			widths[i] = min
		}
		used += widths[i]
	}
	if focused >= 0 && focused < days {
		widths[focused] += avail - used
		if widths[focused] < min {
			widths[focused] = min
		}
	}
	return widths
}
