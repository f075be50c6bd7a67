// Package ui provides theme and color support for numfront's terminal output.
// The one-shot CLI uses the ANSI helpers; the TUI uses the lipgloss palette.
package ui
