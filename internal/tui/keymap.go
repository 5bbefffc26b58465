package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists the loading screen key bindings.
type KeyMap struct {
	Reload key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the bindings. Reload starts disabled; it is enabled
// once a reload action is attached after a failed load.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
			key.WithDisabled(),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the enabled bindings in display order.
func (k KeyMap) ShortHelp() []key.Binding {
	var out []key.Binding
	for _, b := range []key.Binding{k.Reload, k.Quit} {
		if b.Enabled() {
			out = append(out, b)
		}
	}
	return out
}
