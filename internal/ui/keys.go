package ui

import (
	"github.com/abelbrown/cardscope/internal/card"
	"github.com/charmbracelet/bubbles/key"
)

// Key bindings
var keys = struct {
	Quit   key.Binding
	Search key.Binding
	Submit key.Binding
	Cancel key.Binding
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Open   key.Binding
	Close  key.Binding
	Retry  key.Binding
	Debug  key.Binding
}{
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c")),
	Search: key.NewBinding(key.WithKeys("/")),
	Submit: key.NewBinding(key.WithKeys("enter")),
	Cancel: key.NewBinding(key.WithKeys("esc")),
	Up:     key.NewBinding(key.WithKeys("k", "up")),
	Down:   key.NewBinding(key.WithKeys("j", "down")),
	Top:    key.NewBinding(key.WithKeys("g", "home")),
	Bottom: key.NewBinding(key.WithKeys("G", "end")),
	Open:   key.NewBinding(key.WithKeys("enter")),
	Close:  key.NewBinding(key.WithKeys("esc", "q", "enter")),
	Retry:  key.NewBinding(key.WithKeys("r")),
	Debug:  key.NewBinding(key.WithKeys("ctrl+d")),
}

// sortBindings maps each sort key to its number and letter shortcuts.
var sortBindings = []struct {
	key     card.SortKey
	binding key.Binding
}{
	{card.SortByName, key.NewBinding(key.WithKeys("1", "n"))},
	{card.SortBySet, key.NewBinding(key.WithKeys("2", "s"))},
	{card.SortByCost, key.NewBinding(key.WithKeys("3", "c"))},
	{card.SortByPower, key.NewBinding(key.WithKeys("4", "p"))},
}
