package widget

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/numfront/internal/ui"
)

// Styles groups the lipgloss styles a widget renders with.
type Styles struct {
	Panel        lipgloss.Style
	PanelFocused lipgloss.Style
	Title        lipgloss.Style
	Subtitle     lipgloss.Style
	Label        lipgloss.Style
	Input        lipgloss.Style
	InputFocused lipgloss.Style
	Button       lipgloss.Style
	Result       lipgloss.Style
	Error        lipgloss.Style
	Pending      lipgloss.Style
}

// NewStyles builds widget styles from the active ui theme.
func NewStyles() Styles {
	t := ui.GetCurrentTUITheme()
	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text).
		Padding(1, 2)

	return Styles{
		Panel:        panel,
		PanelFocused: panel.BorderForeground(t.Focus),
		Title:        lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		Subtitle:     lipgloss.NewStyle().Foreground(t.Dim),
		Label:        lipgloss.NewStyle().Foreground(t.Dim),
		Input: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
		InputFocused: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(t.Focus).
			Padding(0, 1),
		Button: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Text).
			Background(t.Focus).
			Padding(0, 1),
		Result:  lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		Error:   lipgloss.NewStyle().Foreground(t.Error),
		Pending: lipgloss.NewStyle().Foreground(t.Accent),
	}
}
