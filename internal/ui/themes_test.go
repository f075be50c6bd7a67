package ui

import "testing"

func TestInitTheme(t *testing.T) {
	original := GetCurrentTheme()
	defer SetCurrentTheme(original)

	t.Run("noColor flag disables colors", func(t *testing.T) {
		InitTheme(true)
		if GetCurrentTheme().Name != "none" {
			t.Errorf("theme = %q, want none", GetCurrentTheme().Name)
		}
		if ColorPrimary() != "" || ColorReset() != "" {
			t.Error("no-color theme should emit no escape codes")
		}
		if GetCurrentTUITheme() != NoColorTUITheme {
			t.Error("TUI palette should follow the no-color theme")
		}
	})

	t.Run("NO_COLOR env disables colors", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		InitTheme(false)
		if GetCurrentTheme().Name != "none" {
			t.Errorf("theme = %q, want none", GetCurrentTheme().Name)
		}
	})

	t.Run("default is dark", func(t *testing.T) {
		InitTheme(false)
		if GetCurrentTheme().Name == "none" {
			t.Skip("NO_COLOR set in the test environment")
		}
		if GetCurrentTheme().Name != "dark" {
			t.Errorf("theme = %q, want dark", GetCurrentTheme().Name)
		}
		if ColorError() == "" || ColorSuccess() == "" || ColorBold() == "" || ColorSecondary() == "" {
			t.Error("dark theme should emit escape codes")
		}
	})
}
