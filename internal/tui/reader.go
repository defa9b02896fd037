package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianvz/mailterm/internal/domain"
)

// Messages emitted by readerModel.

type replyMsg struct {
	message  *domain.Message
	replyAll bool
}

type forwardMsg struct {
	message *domain.Message
}

type closeReaderMsg struct{}

// readerModel displays a single message in a scrollable pane.
type readerModel struct {
	message      *domain.Message
	content      string
	scrollOffset int
	maxScroll    int
	width        int
	height       int
	focused      bool
	visible      bool
}

func newReader() readerModel {
	return readerModel{}
}

func (r readerModel) Update(msg tea.Msg) (readerModel, tea.Cmd) {
	if !r.focused || !r.visible {
		return r, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if r.scrollOffset > 0 {
				r.scrollOffset--
			}

		case key.Matches(msg, keys.Down):
			if r.scrollOffset < r.maxScroll {
				r.scrollOffset++
			}

		case key.Matches(msg, keys.Back):
			return r, func() tea.Msg {
				return closeReaderMsg{}
			}

		case key.Matches(msg, keys.Reply):
			if r.message != nil {
				message := r.message
				return r, func() tea.Msg {
					return replyMsg{message: message, replyAll: false}
				}
			}

		case key.Matches(msg, keys.ReplyAll):
			if r.message != nil {
				message := r.message
				return r, func() tea.Msg {
					return replyMsg{message: message, replyAll: true}
				}
			}

		case key.Matches(msg, keys.Forward):
			if r.message != nil {
				message := r.message
				return r, func() tea.Msg {
					return forwardMsg{message: message}
				}
			}

		case key.Matches(msg, keys.Archive):
			if r.message != nil {
				id := r.message.ID
				return r, func() tea.Msg {
					return messageActionMsg{messageID: id, action: "archive"}
				}
			}

		case key.Matches(msg, keys.Delete):
			if r.message != nil {
				id := r.message.ID
				return r, func() tea.Msg {
					return messageActionMsg{messageID: id, action: "delete"}
				}
			}

		case key.Matches(msg, keys.Unread):
			if r.message != nil {
				id := r.message.ID
				return r, func() tea.Msg {
					return messageActionMsg{messageID: id, action: "unread"}
				}
			}
		}
	}

	return r, nil
}

func (r readerModel) View() string {
	if !r.visible || r.width == 0 || r.height == 0 {
		return ""
	}

	if r.content == "" {
		return mutedTextStyle.Render("No message selected")
	}

	lines := strings.Split(r.content, "\n")

	visibleHeight := r.height
	if visibleHeight < 1 {
		visibleHeight = 1
	}

	end := r.scrollOffset + visibleHeight
	if end > len(lines) {
		end = len(lines)
	}

	start := r.scrollOffset
	if start > len(lines) {
		start = len(lines)
	}

	return strings.Join(lines[start:end], "\n")
}

// ShowMessage displays a message in the reader pane.
func (r *readerModel) ShowMessage(msg *domain.Message) {
	r.message = msg
	r.visible = true
	r.scrollOffset = 0
	r.content = renderMessage(msg, r.width)
	r.recalcMaxScroll()
}

// Close hides the reader and clears its content.
func (r *readerModel) Close() {
	r.visible = false
	r.message = nil
	r.content = ""
	r.scrollOffset = 0
	r.maxScroll = 0
}

// SetSize updates the reader dimensions and recalculates scroll bounds.
func (r *readerModel) SetSize(w, h int) {
	r.width = w
	r.height = h
	if r.message != nil {
		r.content = renderMessage(r.message, r.width)
	}
	r.recalcMaxScroll()
}

// IsVisible returns whether the reader pane is currently shown.
func (r readerModel) IsVisible() bool {
	return r.visible
}

// --- internal helpers ---

func (r *readerModel) recalcMaxScroll() {
	if r.content == "" {
		r.maxScroll = 0
		r.scrollOffset = 0
		return
	}

	lines := strings.Split(r.content, "\n")
	visibleHeight := r.height
	if visibleHeight < 1 {
		visibleHeight = 1
	}

	r.maxScroll = len(lines) - visibleHeight
	if r.maxScroll < 0 {
		r.maxScroll = 0
	}

	if r.scrollOffset > r.maxScroll {
		r.scrollOffset = r.maxScroll
	}
}

// renderMessage formats a message as plain text with headers and body.
func renderMessage(msg *domain.Message, width int) string {
	var b strings.Builder

	b.WriteString(mutedTextStyle.Render("From:    "))
	b.WriteString(msg.DisplayFrom())
	b.WriteByte('\n')

	if msg.To != "" {
		b.WriteString(mutedTextStyle.Render("To:      "))
		b.WriteString(msg.To)
		b.WriteByte('\n')
	}

	b.WriteString(mutedTextStyle.Render("Date:    "))
	if msg.RawDate != "" {
		b.WriteString(msg.RawDate)
	} else if !msg.ReceivedAt.IsZero() {
		b.WriteString(msg.ReceivedAt.Format("Jan 2, 2006 3:04 PM"))
	}
	b.WriteByte('\n')

	b.WriteString(mutedTextStyle.Render("Subject: "))
	b.WriteString(msg.DisplaySubject())
	b.WriteByte('\n')

	sepWidth := width
	if sepWidth < 20 {
		sepWidth = 20
	}
	b.WriteString(mutedTextStyle.Render(strings.Repeat("─", sepWidth)))
	b.WriteByte('\n')

	body := msg.BodyText
	if body == "" && msg.BodyHTML != "" {
		body = "[HTML content - plain text not available]"
	}
	if body == "" {
		body = msg.Snippet
	}
	if body != "" {
		b.WriteByte('\n')
		b.WriteString(body)
	}

	return b.String()
}
