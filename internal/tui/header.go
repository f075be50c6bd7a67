package tui

import "github.com/charmbracelet/bubbles/help"

// HeaderModel renders the top bar: title, version and the origin widgets
// talk to.
type HeaderModel struct {
	version string
	origin  string
	width   int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version, origin string) HeaderModel {
	return HeaderModel{version: version, origin: origin}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "numfront"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	row := titleStyle.Render(titleText) + originStyle.Render(" → "+h.origin)
	return headerStyle.Width(h.width).Render(row)
}

// FooterModel renders the key help line.
type FooterModel struct {
	help  help.Model
	keys  help.KeyMap
	width int
}

// NewFooterModel creates a footer listing keys.
func NewFooterModel(keys help.KeyMap) FooterModel {
	return FooterModel{help: help.New(), keys: keys}
}

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) {
	f.width = w
	f.help.Width = w
}

// View renders the footer.
func (f FooterModel) View() string {
	return footerStyle.Width(f.width).Render(f.help.View(f.keys))
}
