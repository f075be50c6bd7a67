package widget

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the bindings a focused widget reacts to. Text editing keys
// (runes, backspace, arrows) are handled by type, not by binding.
type KeyMap struct {
	Submit key.Binding
	Clear  key.Binding
}

// DefaultKeyMap returns the widget bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "clear input"),
		),
	}
}
