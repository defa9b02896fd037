package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianvz/mailterm/internal/domain"
)

// Messages emitted by inboxModel.

type messageSelectedMsg struct {
	messageID string
}

type messageActionMsg struct {
	messageID string
	action    string
}

type loadMoreMsg struct {
	offset int
}

// inboxModel displays the message list for the active label.
type inboxModel struct {
	messages []domain.Message
	cursor   int
	offset   int
	width    int
	height   int
	focused  bool
}

func newInbox() inboxModel {
	return inboxModel{}
}

func (m inboxModel) Update(msg tea.Msg) (inboxModel, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.adjustScroll()
			}

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.messages)-1 {
				m.cursor++
				m.adjustScroll()
			} else if len(m.messages) > 0 {
				// Bottom of the loaded window: ask for the next page.
				offset := len(m.messages)
				return m, func() tea.Msg {
					return loadMoreMsg{offset: offset}
				}
			}

		case key.Matches(msg, keys.Enter):
			return m, m.selectItem()

		case key.Matches(msg, keys.Archive):
			return m, m.actionCmd("archive")

		case key.Matches(msg, keys.Delete):
			return m, m.actionCmd("delete")

		case key.Matches(msg, keys.Unread):
			return m, m.actionCmd("unread")
		}
	}

	return m, nil
}

func (m inboxModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	count := len(m.messages)
	if count == 0 {
		return mutedTextStyle.Render("No messages")
	}

	var b strings.Builder
	end := m.offset + m.visibleRows()
	if end > count {
		end = count
	}

	for i := m.offset; i < end; i++ {
		if i > m.offset {
			b.WriteByte('\n')
		}
		line := m.renderRow(i)
		if i == m.cursor && m.focused {
			line = selectedStyle.Width(m.width).Render(line)
		}
		b.WriteString(line)
	}

	return b.String()
}

// SetMessages replaces the list with a fresh snapshot, keeping the
// selection on the same message when it still exists. A message that
// vanished from the label drops the selection to the top.
func (m *inboxModel) SetMessages(msgs []domain.Message) {
	selected := m.SelectedID()
	m.messages = msgs
	m.cursor = 0
	if selected != "" {
		for i := range msgs {
			if msgs[i].ID == selected {
				m.cursor = i
				break
			}
		}
	}
	m.adjustScroll()
}

// AppendMessages adds an older page to the bottom of the list. Rows
// already present are skipped so overlapping pages stay stable.
func (m *inboxModel) AppendMessages(msgs []domain.Message) {
	seen := make(map[string]struct{}, len(m.messages))
	for i := range m.messages {
		seen[m.messages[i].ID] = struct{}{}
	}
	for i := range msgs {
		if _, ok := seen[msgs[i].ID]; ok {
			continue
		}
		m.messages = append(m.messages, msgs[i])
	}
	m.adjustScroll()
}

// RemoveMessage drops a message from the list after a local mutation.
func (m *inboxModel) RemoveMessage(id string) {
	for i := range m.messages {
		if m.messages[i].ID == id {
			m.messages = append(m.messages[:i], m.messages[i+1:]...)
			break
		}
	}
	m.clampCursor()
}

// SetRead marks a row read or unread in place.
func (m *inboxModel) SetRead(id string, read bool) {
	for i := range m.messages {
		if m.messages[i].ID == id {
			m.messages[i].IsUnread = !read
			return
		}
	}
}

// SetSize updates the dimensions available for rendering.
func (m *inboxModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.adjustScroll()
}

// SelectedID returns the ID of the currently highlighted message.
func (m inboxModel) SelectedID() string {
	if len(m.messages) == 0 || m.cursor >= len(m.messages) {
		return ""
	}
	return m.messages[m.cursor].ID
}

// Count returns how many messages are currently loaded.
func (m inboxModel) Count() int {
	return len(m.messages)
}

// --- internal helpers ---

func (m inboxModel) visibleRows() int {
	if m.height < 1 {
		return 1
	}
	return m.height
}

func (m *inboxModel) adjustScroll() {
	visible := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

func (m *inboxModel) clampCursor() {
	if len(m.messages) == 0 {
		m.cursor = 0
		m.offset = 0
		return
	}
	if m.cursor >= len(m.messages) {
		m.cursor = len(m.messages) - 1
	}
	m.adjustScroll()
}

func (m inboxModel) selectItem() tea.Cmd {
	id := m.SelectedID()
	if id == "" {
		return nil
	}
	return func() tea.Msg {
		return messageSelectedMsg{messageID: id}
	}
}

func (m inboxModel) actionCmd(action string) tea.Cmd {
	id := m.SelectedID()
	if id == "" {
		return nil
	}
	return func() tea.Msg {
		return messageActionMsg{messageID: id, action: action}
	}
}

func (m inboxModel) renderRow(idx int) string {
	if idx >= len(m.messages) {
		return ""
	}
	msg := m.messages[idx]

	star := "  "
	if msg.IsStarred {
		star = starStyle.Render("★ ")
	}

	from := senderDisplayName(msg.DisplayFrom())
	date := relativeDate(messageTime(msg))

	fromWidth := 18
	dateWidth := len(date)
	subjectWidth := m.width - fromWidth - dateWidth - 6 // star(2) + two "  " gaps(4)
	if subjectWidth < 10 {
		subjectWidth = 10
	}

	from = truncate(from, fromWidth)
	subject := truncate(msg.DisplaySubject(), subjectWidth)

	fromCol := lipgloss.NewStyle().Width(fromWidth).Render(from)
	subjectCol := lipgloss.NewStyle().Width(subjectWidth).Render(subject)
	dateCol := mutedTextStyle.Width(dateWidth).Render(date)

	line := star + fromCol + "  " + subjectCol + "  " + dateCol

	if msg.IsUnread {
		line = unreadStyle.Render(line)
	}

	return line
}

// --- utility functions ---

// senderDisplayName strips the address part from a "Name <addr>" header
// value, falling back to the bare address.
func senderDisplayName(from string) string {
	if idx := strings.LastIndex(from, "<"); idx > 0 {
		name := strings.TrimSpace(from[:idx])
		name = strings.Trim(name, `"`)
		if name != "" {
			return name
		}
	}
	return strings.Trim(from, "<>")
}

// messageTime picks the best timestamp for display.
func messageTime(msg domain.Message) time.Time {
	if !msg.ReceivedAt.IsZero() {
		return msg.ReceivedAt
	}
	return msg.InternalAt
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

func relativeDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}
