package tui

import (
	"testing"

	"github.com/julianvz/mailterm/internal/domain"
)

func listOf(ids ...string) []domain.Message {
	msgs := make([]domain.Message, len(ids))
	for i, id := range ids {
		msgs[i] = domain.Message{ID: id, Subject: "subject " + id}
	}
	return msgs
}

func TestInbox_SetMessages_PreservesSelectionByID(t *testing.T) {
	inbox := newInbox()
	inbox.SetSize(80, 10)
	inbox.SetMessages(listOf("a", "b", "c"))
	inbox.cursor = 1 // "b"

	// A refresh prepends a new message; "b" moves down a slot.
	inbox.SetMessages(listOf("new", "a", "b", "c"))

	if got := inbox.SelectedID(); got != "b" {
		t.Errorf("selected = %q after refresh, want %q", got, "b")
	}
	if inbox.cursor != 2 {
		t.Errorf("cursor = %d, want 2", inbox.cursor)
	}
}

func TestInbox_SetMessages_SelectionGoneFallsToTop(t *testing.T) {
	inbox := newInbox()
	inbox.SetSize(80, 10)
	inbox.SetMessages(listOf("a", "b", "c"))
	inbox.cursor = 1 // "b"

	inbox.SetMessages(listOf("a", "c"))

	if inbox.cursor != 0 {
		t.Errorf("cursor = %d after selection vanished, want 0", inbox.cursor)
	}
	if got := inbox.SelectedID(); got != "a" {
		t.Errorf("selected = %q, want %q", got, "a")
	}
}

func TestInbox_SetMessages_EmptyList(t *testing.T) {
	inbox := newInbox()
	inbox.SetSize(80, 10)
	inbox.SetMessages(listOf("a", "b"))
	inbox.cursor = 1

	inbox.SetMessages(nil)

	if inbox.cursor != 0 {
		t.Errorf("cursor = %d on empty list, want 0", inbox.cursor)
	}
	if got := inbox.SelectedID(); got != "" {
		t.Errorf("selected = %q on empty list, want empty", got)
	}
}

func TestInbox_AppendMessages_SkipsDuplicates(t *testing.T) {
	inbox := newInbox()
	inbox.SetSize(80, 10)
	inbox.SetMessages(listOf("a", "b", "c"))
	inbox.cursor = 2

	// Overlapping page: "c" is already loaded.
	inbox.AppendMessages(listOf("c", "d", "e"))

	if inbox.Count() != 5 {
		t.Errorf("count = %d after append, want 5", inbox.Count())
	}
	if got := inbox.SelectedID(); got != "c" {
		t.Errorf("selected = %q after append, want %q", got, "c")
	}
}

func TestInbox_RemoveMessage(t *testing.T) {
	inbox := newInbox()
	inbox.SetSize(80, 10)
	inbox.SetMessages(listOf("a", "b", "c"))
	inbox.cursor = 2 // "c"

	inbox.RemoveMessage("c")

	if inbox.Count() != 2 {
		t.Errorf("count = %d after remove, want 2", inbox.Count())
	}
	if inbox.cursor != 1 {
		t.Errorf("cursor = %d after removing last row, want 1", inbox.cursor)
	}

	inbox.RemoveMessage("not-there")
	if inbox.Count() != 2 {
		t.Errorf("count = %d after removing unknown id, want 2", inbox.Count())
	}
}

func TestInbox_SetRead(t *testing.T) {
	inbox := newInbox()
	msgs := listOf("a")
	msgs[0].IsUnread = true
	inbox.SetMessages(msgs)

	inbox.SetRead("a", true)
	if inbox.messages[0].IsUnread {
		t.Error("IsUnread = true after SetRead(true)")
	}

	inbox.SetRead("a", false)
	if !inbox.messages[0].IsUnread {
		t.Error("IsUnread = false after SetRead(false)")
	}
}

func TestSenderDisplayName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ada Lovelace <ada@example.com>", "Ada Lovelace"},
		{`"Grace Hopper" <grace@example.com>`, "Grace Hopper"},
		{"bare@example.com", "bare@example.com"},
		{"<only@example.com>", "only@example.com"},
	}
	for _, tt := range tests {
		if got := senderDisplayName(tt.in); got != tt.want {
			t.Errorf("senderDisplayName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
