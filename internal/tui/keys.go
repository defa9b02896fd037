package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Enter    key.Binding
	Back     key.Binding
	Compose  key.Binding
	Reply    key.Binding
	ReplyAll key.Binding
	Forward  key.Binding
	Archive  key.Binding
	Delete   key.Binding
	Unread   key.Binding
	Refresh  key.Binding
	Search   key.Binding
	Tab      key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
	Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
	Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Compose:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "compose")),
	Reply:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reply")),
	ReplyAll: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reply all")),
	Forward:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "forward")),
	Archive:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "archive")),
	Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "trash")),
	Unread:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unread")),
	Refresh:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh")),
	Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}
