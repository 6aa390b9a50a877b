package cabinet

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the widget's key bindings. Every binding maps to exactly one
// action dispatch; the widget itself decides nothing.
type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	Open         key.Binding
	Parent       key.Binding
	ToggleSelect key.Binding
	SelectAll    key.Binding
	ClearSel     key.Binding
	SortName     key.Binding
	SortSize     key.Binding
	SortDate     key.Binding
	ToggleView   key.Binding
	ToggleHidden key.Binding
	NewFolder    key.Binding
	Delete       key.Binding
	Copy         key.Binding
}

// DefaultKeyMap returns the stock bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter", "l"),
			key.WithHelp("enter", "open"),
		),
		Parent: key.NewBinding(
			key.WithKeys("backspace", "h"),
			key.WithHelp("bksp/h", "parent folder"),
		),
		ToggleSelect: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "select"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("ctrl+a", "select all"),
		),
		ClearSel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear selection"),
		),
		SortName: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort by name"),
		),
		SortSize: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "sort by size"),
		),
		SortDate: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "sort by date"),
		),
		ToggleView: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "list/grid"),
		),
		ToggleHidden: key.NewBinding(
			key.WithKeys("."),
			key.WithHelp(".", "hidden files"),
		),
		NewFolder: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "new folder"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy"),
		),
	}
}
