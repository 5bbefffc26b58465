package ui

import (
	"os"
	"sort"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a named ANSI color scheme for plain terminal output.
type Theme struct {
	Name string
	// Primary accents the progress bar and headings.
	Primary   string
	Secondary string
	Success   string
	Warning   string
	Error     string
	Bold      string
	Reset     string
}

// Colors returns the theme's view as an apperrors.ColorProvider.
func (t Theme) Colors() ThemeColors { return ThemeColors{theme: t} }

// ThemeColors supplies a theme's escape codes to error reports.
type ThemeColors struct {
	theme Theme
}

// Red returns the error color.
func (c ThemeColors) Red() string { return c.theme.Error }

// Yellow returns the warning color.
func (c ThemeColors) Yellow() string { return c.theme.Warning }

// Reset returns the reset sequence.
func (c ThemeColors) Reset() string { return c.theme.Reset }

// Colorize wraps s in color and a reset, or returns s unchanged when the
// theme has no colors.
func (t Theme) Colorize(color, s string) string {
	if color == "" {
		return s
	}
	return color + s + t.Reset
}

var (
	// DarkTheme suits dark terminal backgrounds.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   "\033[38;5;39m",
		Secondary: "\033[38;5;245m",
		Success:   "\033[38;5;82m",
		Warning:   "\033[38;5;220m",
		Error:     "\033[38;5;196m",
		Bold:      "\033[1m",
		Reset:     "\033[0m",
	}

	// LightTheme suits light terminal backgrounds.
	LightTheme = Theme{
		Name:      "light",
		Primary:   "\033[38;5;27m",
		Secondary: "\033[38;5;240m",
		Success:   "\033[38;5;28m",
		Warning:   "\033[38;5;130m",
		Error:     "\033[38;5;124m",
		Bold:      "\033[1m",
		Reset:     "\033[0m",
	}

	// SolarizedTheme follows the solarized accent palette.
	SolarizedTheme = Theme{
		Name:      "solarized",
		Primary:   "\033[38;5;33m",
		Secondary: "\033[38;5;246m",
		Success:   "\033[38;5;64m",
		Warning:   "\033[38;5;136m",
		Error:     "\033[38;5;160m",
		Bold:      "\033[1m",
		Reset:     "\033[0m",
	}

	// NoColorTheme disables colors (--no-color or NO_COLOR).
	NoColorTheme = Theme{Name: "none"}
)

var themes = map[string]Theme{
	DarkTheme.Name:      DarkTheme,
	LightTheme.Name:     LightTheme,
	SolarizedTheme.Name: SolarizedTheme,
	NoColorTheme.Name:   NoColorTheme,
}

// LookupTheme returns the theme registered under name.
func LookupTheme(name string) (Theme, bool) {
	t, ok := themes[name]
	return t, ok
}

// ThemeNames lists the registered theme names, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TUITheme holds the lipgloss colors of the loading screen.
type TUITheme struct {
	Text    lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
	Accent  lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Dim     lipgloss.TerminalColor
}

var (
	// DarkTUITheme is the default loading screen palette.
	DarkTUITheme = TUITheme{
		Text:    lipgloss.Color("#E0E0E0"),
		Border:  lipgloss.Color("#3A7BD5"),
		Accent:  lipgloss.Color("#00AFFF"),
		Success: lipgloss.Color("#9ECE6A"),
		Warning: lipgloss.Color("#FFB347"),
		Error:   lipgloss.Color("#FF4444"),
		Dim:     lipgloss.Color("#666666"),
	}

	// LightTUITheme is the palette for light backgrounds.
	LightTUITheme = TUITheme{
		Text:    lipgloss.Color("#1F1F1F"),
		Border:  lipgloss.Color("#005FAF"),
		Accent:  lipgloss.Color("#005FD7"),
		Success: lipgloss.Color("#008700"),
		Warning: lipgloss.Color("#AF5F00"),
		Error:   lipgloss.Color("#AF0000"),
		Dim:     lipgloss.Color("#8A8A8A"),
	}

	// NoColorTUITheme renders with the terminal's default colors.
	NoColorTUITheme = TUITheme{
		Text:    lipgloss.NoColor{},
		Border:  lipgloss.NoColor{},
		Accent:  lipgloss.NoColor{},
		Success: lipgloss.NoColor{},
		Warning: lipgloss.NoColor{},
		Error:   lipgloss.NoColor{},
		Dim:     lipgloss.NoColor{},
	}
)

var (
	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme replaces the active theme. A colorless theme stays in
// place: once colors are disabled they remain disabled.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	if currentTheme.Name == NoColorTheme.Name {
		return
	}
	currentTheme = t
}

// GetCurrentTUITheme returns the loading screen palette matching the active
// theme.
func GetCurrentTUITheme() TUITheme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()

	switch currentTheme.Name {
	case NoColorTheme.Name:
		return NoColorTUITheme
	case LightTheme.Name:
		return LightTUITheme
	default:
		return DarkTUITheme
	}
}

// InitTheme resets the active theme from the --no-color flag and the
// NO_COLOR environment variable (https://no-color.org/).
func InitTheme(noColor bool) {
	themeMutex.Lock()
	defer themeMutex.Unlock()

	if _, set := os.LookupEnv("NO_COLOR"); noColor || set {
		currentTheme = NoColorTheme
		return
	}
	currentTheme = DarkTheme
}
