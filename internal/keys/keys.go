package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Search
	Search key.Binding

	// Views
	Notifications key.Binding
	Stats         key.Binding
	NewReport     key.Binding
	Help          key.Binding

	// Manual refresh
	Refresh key.Binding

	// Status filters on the report list
	FilterPending    key.Binding
	FilterInProgress key.Binding
	FilterResolved   key.Binding

	// Report actions
	ChangeStatus key.Binding
	Delete       key.Binding

	// Notification list actions
	MarkAllRead key.Binding
	ClearAll    key.Binding

	// Paging
	NextPage key.Binding
	PrevPage key.Binding

	// Appearance
	DarkMode key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Notifications: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "notifications"),
		),
		Stats: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "stats"),
		),
		NewReport: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new report"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		FilterPending: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "toggle pending"),
		),
		FilterInProgress: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "toggle in progress"),
		),
		FilterResolved: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "toggle resolved"),
		),
		ChangeStatus: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "change status"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		MarkAllRead: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mark all read"),
		),
		ClearAll: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "clear all"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "prev page"),
		),
		DarkMode: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "toggle dark mode"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Select, k.Back,
		k.Quit, k.Help, k.Search,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back, k.Quit},
		{k.Search, k.Refresh, k.Help, k.DarkMode},
		{k.FilterPending, k.FilterInProgress, k.FilterResolved, k.NextPage, k.PrevPage},
		{k.NewReport, k.ChangeStatus, k.Delete, k.Notifications, k.Stats},
		{k.MarkAllRead, k.ClearAll},
	}
}
