package ui

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	apperrors "github.com/agbru/bootload/internal/errors"
)

func TestLookupTheme(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"dark", "light", "solarized", "none"} {
		th, ok := LookupTheme(name)
		if !ok || th.Name != name {
			t.Errorf("LookupTheme(%q) = %v, %v", name, th.Name, ok)
		}
	}
	if _, ok := LookupTheme("neon"); ok {
		t.Error("unknown theme should not be found")
	}
}

func TestThemeNames(t *testing.T) {
	t.Parallel()
	want := []string{"dark", "light", "none", "solarized"}
	if diff := cmp.Diff(want, ThemeNames()); diff != "" {
		t.Errorf("ThemeNames mismatch (-want +got):\n%s", diff)
	}
}

func TestTheme_Colorize(t *testing.T) {
	t.Parallel()
	if got := NoColorTheme.Colorize(NoColorTheme.Error, "x"); got != "x" {
		t.Errorf("colorless Colorize = %q, want x", got)
	}
	want := DarkTheme.Error + "x" + DarkTheme.Reset
	if got := DarkTheme.Colorize(DarkTheme.Error, "x"); got != want {
		t.Errorf("Colorize = %q, want %q", got, want)
	}
}

func TestTheme_Colors(t *testing.T) {
	t.Parallel()
	var _ apperrors.ColorProvider = DarkTheme.Colors()

	c := DarkTheme.Colors()
	if c.Red() != DarkTheme.Error || c.Yellow() != DarkTheme.Warning || c.Reset() != DarkTheme.Reset {
		t.Errorf("Colors() = {%q %q %q}, want the theme's error, warning and reset codes",
			c.Red(), c.Yellow(), c.Reset())
	}
	if NoColorTheme.Colors().Red() != "" {
		t.Error("colorless theme should have no red")
	}
}

// The tests below mutate the process-wide theme and do not run in parallel.

func TestInitTheme(t *testing.T) {
	t.Cleanup(func() { InitTheme(false) })

	t.Setenv("NO_COLOR", "1")
	InitTheme(false)
	if GetCurrentTheme().Name != "none" {
		t.Errorf("NO_COLOR should disable colors, got %q", GetCurrentTheme().Name)
	}
	if GetCurrentTUITheme() != NoColorTUITheme {
		t.Error("TUI palette should be colorless")
	}
}

func TestInitTheme_Flag(t *testing.T) {
	t.Cleanup(func() { InitTheme(false) })
	InitTheme(true)
	if GetCurrentTheme().Name != "none" {
		t.Errorf("--no-color should disable colors, got %q", GetCurrentTheme().Name)
	}
	SetCurrentTheme(LightTheme)
	if GetCurrentTheme().Name != "none" {
		t.Error("a user theme must not re-enable colors")
	}
}

func TestInitTheme_EmptyNoColor(t *testing.T) {
	t.Cleanup(func() { InitTheme(false) })
	t.Setenv("NO_COLOR", "")
	InitTheme(false)
	// NO_COLOR set to an empty string still counts as set.
	if GetCurrentTheme().Name != "none" {
		t.Fatalf("empty NO_COLOR should still disable colors")
	}
}

func TestGetCurrentTUITheme_FollowsTheme(t *testing.T) {
	t.Cleanup(func() { InitTheme(false) })
	themeMutex.Lock()
	currentTheme = LightTheme
	themeMutex.Unlock()
	if GetCurrentTUITheme() != LightTUITheme {
		t.Error("light theme should map to the light palette")
	}
	SetCurrentTheme(SolarizedTheme)
	if GetCurrentTUITheme() != DarkTUITheme {
		t.Error("other themes map to the dark palette")
	}
}
