package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/julianvz/mailterm/internal/domain"
)

func seedMessage(t *testing.T, db *DB, id string, internalAt time.Time, labels ...string) {
	t.Helper()
	msg := &domain.Message{
		ID:         id,
		ThreadID:   "thread-" + id,
		Labels:     labels,
		Snippet:    "snippet " + id,
		Subject:    "subject " + id,
		From:       "alice@example.com",
		InternalAt: internalAt,
		ReceivedAt: internalAt,
	}
	if err := db.UpsertMessage(context.Background(), msg); err != nil {
		t.Fatalf("UpsertMessage(%s) error: %v", id, err)
	}
}

func TestUpsertMessage_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// Gmail's internalDate carries millisecond precision; the fraction
	// must survive the round trip.
	internalAt := time.Date(2026, 6, 15, 10, 30, 0, 500*1e6, time.UTC)
	receivedAt := internalAt.Add(-2 * time.Second)

	msg := &domain.Message{
		ID:         "msg-1",
		ThreadID:   "thread-1",
		Labels:     []string{domain.LabelInbox, domain.LabelStarred},
		Snippet:    "This is a snippet.",
		Subject:    "Hello World",
		From:       "Alice <alice@example.com>",
		To:         "Bob <bob@example.com>",
		RawDate:    "Mon, 15 Jun 2026 10:30:00 +0000",
		BodyText:   "Plain body.",
		BodyHTML:   "<p>HTML body.</p>",
		ReceivedAt: receivedAt,
		InternalAt: internalAt,
		IsUnread:   true,
		IsStarred:  true,
	}

	if err := db.UpsertMessage(ctx, msg); err != nil {
		t.Fatalf("UpsertMessage() error: %v", err)
	}

	// Reading through each of the message's labels must return the row
	// with identical fields.
	for _, labelID := range msg.Labels {
		got, err := db.ListMessages(ctx, labelID, 10, 0)
		if err != nil {
			t.Fatalf("ListMessages(%s) error: %v", labelID, err)
		}
		if len(got) != 1 {
			t.Fatalf("ListMessages(%s) returned %d messages, want 1", labelID, len(got))
		}

		m := got[0]
		if m.ID != msg.ID || m.ThreadID != msg.ThreadID {
			t.Errorf("identity mismatch: got (%q,%q)", m.ID, m.ThreadID)
		}
		if m.Snippet != msg.Snippet || m.Subject != msg.Subject {
			t.Errorf("content mismatch: snippet %q subject %q", m.Snippet, m.Subject)
		}
		if m.From != msg.From || m.To != msg.To {
			t.Errorf("address mismatch: from %q to %q", m.From, m.To)
		}
		if m.RawDate != msg.RawDate {
			t.Errorf("RawDate = %q, want %q", m.RawDate, msg.RawDate)
		}
		if m.BodyText != msg.BodyText || m.BodyHTML != msg.BodyHTML {
			t.Errorf("body mismatch: %q / %q", m.BodyText, m.BodyHTML)
		}
		if !m.ReceivedAt.Equal(receivedAt) {
			t.Errorf("ReceivedAt = %v, want %v", m.ReceivedAt, receivedAt)
		}
		if !m.InternalAt.Equal(internalAt) {
			t.Errorf("InternalAt = %v, want %v", m.InternalAt, internalAt)
		}
		if !m.IsUnread || !m.IsStarred {
			t.Errorf("flags mismatch: unread=%v starred=%v", m.IsUnread, m.IsStarred)
		}
		if len(m.Labels) != 2 {
			t.Errorf("Labels = %v, want 2 entries", m.Labels)
		}
		if m.CachedAt.IsZero() {
			t.Error("CachedAt not set on write")
		}
	}
}

func TestUpsertMessage_ReplacesLabelAssociations(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	seedMessage(t, db, "msg-1", now, domain.LabelInbox, domain.LabelStarred)

	// Re-upsert with a different label set; old associations must be gone.
	seedMessage(t, db, "msg-1", now, domain.LabelSent)

	inbox, err := db.ListMessages(ctx, domain.LabelInbox, 10, 0)
	if err != nil {
		t.Fatalf("ListMessages(INBOX) error: %v", err)
	}
	if len(inbox) != 0 {
		t.Errorf("INBOX still has %d messages after label replacement", len(inbox))
	}

	sent, err := db.ListMessages(ctx, domain.LabelSent, 10, 0)
	if err != nil {
		t.Fatalf("ListMessages(SENT) error: %v", err)
	}
	if len(sent) != 1 {
		t.Errorf("SENT has %d messages, want 1", len(sent))
	}
}

func TestListMessages_OrderAndPagination(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedMessage(t, db, fmt.Sprintf("msg-%d", i), base.Add(time.Duration(i)*time.Hour), domain.LabelInbox)
	}

	got, err := db.ListMessages(ctx, domain.LabelInbox, 3, 0)
	if err != nil {
		t.Fatalf("ListMessages() error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d messages, want 3", len(got))
	}
	// Newest first.
	if got[0].ID != "msg-4" || got[1].ID != "msg-3" || got[2].ID != "msg-2" {
		t.Errorf("order = %s,%s,%s, want msg-4,msg-3,msg-2", got[0].ID, got[1].ID, got[2].ID)
	}

	page2, err := db.ListMessages(ctx, domain.LabelInbox, 3, 3)
	if err != nil {
		t.Fatalf("ListMessages(offset 3) error: %v", err)
	}
	if len(page2) != 2 {
		t.Fatalf("page 2 has %d messages, want 2", len(page2))
	}
	if page2[0].ID != "msg-1" || page2[1].ID != "msg-0" {
		t.Errorf("page 2 order = %s,%s, want msg-1,msg-0", page2[0].ID, page2[1].ID)
	}
}

func TestListMessages_SubSecondOrdering(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 6, 1, 10, 30, 0, 0, time.UTC)
	seedMessage(t, db, "msg-whole", base, domain.LabelInbox)
	seedMessage(t, db, "msg-frac", base.Add(500*time.Millisecond), domain.LabelInbox)
	seedMessage(t, db, "msg-next", base.Add(time.Second), domain.LabelInbox)

	got, err := db.ListMessages(ctx, domain.LabelInbox, 10, 0)
	if err != nil {
		t.Fatalf("ListMessages() error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d messages, want 3", len(got))
	}
	if got[0].ID != "msg-next" || got[1].ID != "msg-frac" || got[2].ID != "msg-whole" {
		t.Errorf("order = %s,%s,%s, want msg-next,msg-frac,msg-whole",
			got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestListMessages_AllMailAggregates(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	seedMessage(t, db, "msg-inbox", now, domain.LabelInbox)
	seedMessage(t, db, "msg-sent", now.Add(-time.Hour), domain.LabelSent)

	all, err := db.ListMessages(ctx, domain.LabelAllMail, 10, 0)
	if err != nil {
		t.Fatalf("ListMessages(ALLMAIL) error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("ALLMAIL returned %d messages, want 2", len(all))
	}

	inbox, err := db.ListMessages(ctx, domain.LabelInbox, 10, 0)
	if err != nil {
		t.Fatalf("ListMessages(INBOX) error: %v", err)
	}
	if len(inbox) != 1 || inbox[0].ID != "msg-inbox" {
		t.Errorf("INBOX = %v, want only msg-inbox", inbox)
	}

	// Case variations of the virtual label behave the same.
	lower, err := db.ListMessages(ctx, "allmail", 10, 0)
	if err != nil {
		t.Fatalf("ListMessages(allmail) error: %v", err)
	}
	if len(lower) != 2 {
		t.Errorf("lowercase allmail returned %d messages, want 2", len(lower))
	}
}

func TestMarkArchived_Idempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	seedMessage(t, db, "msg-1", now, domain.LabelInbox, domain.LabelStarred)

	if err := db.MarkArchived(ctx, "msg-1"); err != nil {
		t.Fatalf("MarkArchived() error: %v", err)
	}
	if err := db.MarkArchived(ctx, "msg-1"); err != nil {
		t.Fatalf("MarkArchived() second call error: %v", err)
	}

	got, err := db.GetMessage(ctx, "msg-1")
	if err != nil {
		t.Fatalf("GetMessage() error: %v", err)
	}
	if got.HasLabel(domain.LabelInbox) {
		t.Error("INBOX label still present after archive")
	}
	if !got.HasLabel(domain.LabelStarred) {
		t.Error("STARRED label lost by archive")
	}
}

func TestMarkDeleted_TrashOnly(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	seedMessage(t, db, "msg-1", now, domain.LabelInbox, domain.LabelStarred)

	if err := db.MarkDeleted(ctx, "msg-1"); err != nil {
		t.Fatalf("MarkDeleted() error: %v", err)
	}
	// Repeating the transition is a no-op.
	if err := db.MarkDeleted(ctx, "msg-1"); err != nil {
		t.Fatalf("MarkDeleted() second call error: %v", err)
	}

	got, err := db.GetMessage(ctx, "msg-1")
	if err != nil {
		t.Fatalf("GetMessage() error: %v", err)
	}
	if len(got.Labels) != 1 || got.Labels[0] != domain.LabelTrash {
		t.Errorf("Labels = %v, want [TRASH]", got.Labels)
	}
}

func TestSetUnread(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	seedMessage(t, db, "msg-1", now, domain.LabelInbox)

	if err := db.SetUnread(ctx, "msg-1", true); err != nil {
		t.Fatalf("SetUnread() error: %v", err)
	}
	got, err := db.GetMessage(ctx, "msg-1")
	if err != nil {
		t.Fatalf("GetMessage() error: %v", err)
	}
	if !got.IsUnread {
		t.Error("IsUnread = false after SetUnread(true)")
	}
}

func TestCleanupOlderThan(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	old := &domain.Message{
		ID:         "msg-old",
		Labels:     []string{domain.LabelInbox},
		InternalAt: time.Now().UTC().Add(-40 * 24 * time.Hour),
		CachedAt:   time.Now().UTC().Add(-40 * 24 * time.Hour),
	}
	if err := db.UpsertMessage(ctx, old); err != nil {
		t.Fatalf("UpsertMessage(old) error: %v", err)
	}
	seedMessage(t, db, "msg-new", time.Now().UTC(), domain.LabelInbox)

	removed, err := db.CleanupOlderThan(ctx, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("CleanupOlderThan() error: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	remaining, err := db.ListMessages(ctx, domain.LabelAllMail, 10, 0)
	if err != nil {
		t.Fatalf("ListMessages() error: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != "msg-new" {
		t.Errorf("remaining = %v, want only msg-new", remaining)
	}
}
