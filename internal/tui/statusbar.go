package tui

import "github.com/charmbracelet/lipgloss"

// statusBar holds a single transient status slot. Background sync
// results land here and the next key press clears them.
type statusBar struct {
	message       string
	width         int
	isError       bool
	readerVisible bool
}

func newStatusBar() statusBar {
	return statusBar{message: "Ready"}
}

func (s *statusBar) setMessage(msg string) {
	s.message = msg
	s.isError = false
}

func (s *statusBar) setError(msg string) {
	s.message = msg
	s.isError = true
}

func (s *statusBar) clear() {
	s.message = ""
	s.isError = false
}

func (s statusBar) View() string {
	msgStyle := statusBarStyle
	if s.isError {
		msgStyle = msgStyle.Foreground(errorColor)
	}

	left := s.message
	shortcuts := s.shortcuts()

	gap := s.width - lipgloss.Width(left) - lipgloss.Width(shortcuts) - 2
	if gap < 0 {
		gap = 0
	}

	content := left + lipgloss.NewStyle().Width(gap).Render("") + mutedTextStyle.Render(shortcuts)
	return msgStyle.Width(s.width).Render(content)
}

func (s statusBar) shortcuts() string {
	if s.readerVisible {
		return "r:reply  a:archive  d:trash  u:unread  esc:back"
	}
	return "j/k:nav  enter:open  c:compose  /:search  ctrl+r:refresh"
}
