package browse

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the browser key bindings.
type keyMap struct {
	Next key.Binding
	Prev key.Binding
	Top  key.Binding
	Quit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(key.WithKeys("n", "right", "l"), key.WithHelp("n", "next plan")),
		Prev: key.NewBinding(key.WithKeys("p", "left", "h"), key.WithHelp("p", "previous plan")),
		Top:  key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// help renders the footer hint line.
func (k keyMap) help() string {
	var out string
	for i, b := range []key.Binding{k.Next, k.Prev, k.Top, k.Quit} {
		if i > 0 {
			out += "  "
		}
		h := b.Help()
		out += h.Key + " " + h.Desc
	}
	return out + "  ↑/↓ scroll"
}
