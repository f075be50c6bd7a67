package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/numfront/internal/ui"
)

// Style variables for the dashboard chrome. Widgets carry their own styles.
var (
	headerStyle lipgloss.Style
	titleStyle  lipgloss.Style
	originStyle lipgloss.Style
	footerStyle lipgloss.Style
	closedStyle lipgloss.Style
	closedHint  lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds the chrome styles from the current ui theme.
// Called at package init and again from Run() after InitTheme.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent)

	originStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	footerStyle = lipgloss.NewStyle().
		Padding(0, 1)

	closedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Dim).
		Padding(1, 2)

	closedHint = lipgloss.NewStyle().
		Foreground(t.Dim).
		Italic(true)
}
