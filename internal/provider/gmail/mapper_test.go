package gmail

import (
	"encoding/base64"
	"testing"
	"time"

	gmailapi "google.golang.org/api/gmail/v1"

	"github.com/julianvz/mailterm/internal/domain"
	"github.com/julianvz/mailterm/internal/provider"
)

func encodeBody(s string) string {
	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString([]byte(s))
}

func TestMapMessage(t *testing.T) {
	internal := time.Date(2026, 6, 15, 10, 30, 0, 0, time.UTC)
	msg := &gmailapi.Message{
		Id:           "msg-1",
		ThreadId:     "thread-1",
		Snippet:      "Hello there...",
		LabelIds:     []string{"INBOX", "UNREAD", "STARRED"},
		InternalDate: internal.UnixMilli(),
		Payload: &gmailapi.MessagePart{
			Headers: []*gmailapi.MessagePartHeader{
				{Name: "Subject", Value: "Greetings"},
				{Name: "From", Value: "Alice <alice@example.com>"},
				{Name: "To", Value: "bob@example.com"},
				{Name: "Date", Value: "Mon, 15 Jun 2026 10:29:58 +0000"},
			},
			MimeType: "text/plain",
			Body:     &gmailapi.MessagePartBody{Data: encodeBody("Hello body")},
		},
	}

	got := mapMessage(msg)

	if got.ID != "msg-1" || got.ThreadID != "thread-1" {
		t.Errorf("identity = (%q,%q)", got.ID, got.ThreadID)
	}
	if got.Subject != "Greetings" {
		t.Errorf("Subject = %q", got.Subject)
	}
	if got.From != "Alice <alice@example.com>" {
		t.Errorf("From = %q", got.From)
	}
	if got.To != "bob@example.com" {
		t.Errorf("To = %q", got.To)
	}
	// The Date header must survive byte-for-byte for display formatting.
	if got.RawDate != "Mon, 15 Jun 2026 10:29:58 +0000" {
		t.Errorf("RawDate = %q", got.RawDate)
	}
	if !got.InternalAt.Equal(internal) {
		t.Errorf("InternalAt = %v, want %v", got.InternalAt, internal)
	}
	if got.BodyText != "Hello body" {
		t.Errorf("BodyText = %q", got.BodyText)
	}
	if !got.IsUnread || !got.IsStarred {
		t.Errorf("flags: unread=%v starred=%v", got.IsUnread, got.IsStarred)
	}
	if !got.HasLabel(domain.LabelInbox) {
		t.Error("INBOX label missing")
	}
}

func TestMapMessage_MultipartBody(t *testing.T) {
	msg := &gmailapi.Message{
		Id: "msg-2",
		Payload: &gmailapi.MessagePart{
			MimeType: "multipart/alternative",
			Parts: []*gmailapi.MessagePart{
				{
					MimeType: "text/plain",
					Body:     &gmailapi.MessagePartBody{Data: encodeBody("plain version")},
				},
				{
					MimeType: "text/html",
					Body:     &gmailapi.MessagePartBody{Data: encodeBody("<p>html version</p>")},
				},
			},
		},
	}

	got := mapMessage(msg)
	if got.BodyText != "plain version" {
		t.Errorf("BodyText = %q", got.BodyText)
	}
	if got.BodyHTML != "<p>html version</p>" {
		t.Errorf("BodyHTML = %q", got.BodyHTML)
	}
}

func TestMapMessage_FallsBackToInternalDate(t *testing.T) {
	internal := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	msg := &gmailapi.Message{
		Id:           "msg-3",
		InternalDate: internal.UnixMilli(),
		Payload: &gmailapi.MessagePart{
			Headers: []*gmailapi.MessagePartHeader{
				{Name: "Date", Value: "not a date"},
			},
		},
	}

	got := mapMessage(msg)
	if !got.ReceivedAt.Equal(internal) {
		t.Errorf("ReceivedAt = %v, want internal %v", got.ReceivedAt, internal)
	}
	// Unparseable header strings are still preserved verbatim.
	if got.RawDate != "not a date" {
		t.Errorf("RawDate = %q", got.RawDate)
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"Mon, 15 Jun 2026 10:29:58 +0000", time.Date(2026, 6, 15, 10, 29, 58, 0, time.UTC)},
		{"2 Jan 2026 08:00:00 +0000", time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC)},
		{"", time.Time{}},
		{"garbage", time.Time{}},
	}
	for _, tc := range cases {
		got := parseDate(tc.in)
		if !got.Equal(tc.want) {
			t.Errorf("parseDate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestBuildRawMessage(t *testing.T) {
	raw := buildRawMessage(&provider.OutgoingMessage{
		To:      "dest@example.com",
		CC:      "cc@example.com",
		Subject: "Test",
		Body:    "body text",
	})
	want := "To: dest@example.com\r\nCc: cc@example.com\r\nSubject: Test\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\nbody text"
	if raw != want {
		t.Errorf("buildRawMessage() =\n%q\nwant\n%q", raw, want)
	}
}
