package ui

import (
	"testing"
)

func TestNewThemeProvider_Default(t *testing.T) {
	tp := NewThemeProvider("")

	if tp.CurrentName() != DefaultTheme {
		t.Errorf("expected default theme %q, got %q", DefaultTheme, tp.CurrentName())
	}
}

func TestNewThemeProvider_WithTheme(t *testing.T) {
	tp := NewThemeProvider("nord")

	if tp.CurrentName() != "nord" {
		t.Errorf("expected theme 'nord', got %q", tp.CurrentName())
	}
}

func TestNewThemeProvider_InvalidTheme(t *testing.T) {
	tp := NewThemeProvider("nonexistent-theme-xyz")

	if tp.CurrentName() != DefaultTheme {
		t.Errorf("expected fallback to %q, got %q", DefaultTheme, tp.CurrentName())
	}
}

func TestThemeProvider_SetTheme(t *testing.T) {
	tp := NewThemeProvider("")

	if !tp.SetTheme("nord") {
		t.Error("expected SetTheme to return true for valid theme")
	}
	if tp.CurrentName() != "nord" {
		t.Errorf("expected theme 'nord', got %q", tp.CurrentName())
	}

	if tp.SetTheme("nonexistent-theme-xyz") {
		t.Error("expected SetTheme to return false for invalid theme")
	}
	if tp.CurrentName() != "nord" {
		t.Errorf("theme should not change after invalid SetTheme, got %q", tp.CurrentName())
	}
}

func TestThemeProvider_NextTheme(t *testing.T) {
	tp := NewThemeProvider("dracula")

	next := tp.NextTheme()

	if tp.CurrentName() != next {
		t.Errorf("CurrentName() should match NextTheme() return value")
	}
}

func TestThemeProvider_UnknownTheme(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		expected   string
	}{
		{"empty", "", ""},
		{"known", "nord", ""},
		{"unknown", "nonexistent-theme-xyz", "nonexistent-theme-xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tp := NewThemeProvider(tt.configured)
			if got := tp.UnknownTheme(); got != tt.expected {
				t.Errorf("UnknownTheme() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestThemeProvider_UnknownThemeClearedOnChange(t *testing.T) {
	tp := NewThemeProvider("nonexistent-theme-xyz")

	tp.NextTheme()

	if tp.UnknownTheme() != "" {
		t.Errorf("expected unknown theme to clear after NextTheme, got %q", tp.UnknownTheme())
	}
}

func TestThemeProvider_Styles(t *testing.T) {
	tp := NewThemeProvider("dracula")

	styles := tp.Styles()

	if styles.App.GetPaddingTop() == 0 {
		t.Error("expected App style to have padding")
	}
	if !styles.Countdown.GetBold() {
		t.Error("expected countdown to be bold")
	}
}

func TestThemeProvider_CurrentDisplayName(t *testing.T) {
	tp := NewThemeProvider("dracula")

	if tp.CurrentDisplayName() == "" {
		t.Error("expected non-empty display name")
	}
}
