package gmail

import (
	"encoding/base64"
	"strings"
	"time"

	gmailapi "google.golang.org/api/gmail/v1"

	"github.com/julianvz/mailterm/internal/domain"
)

// mapMessage converts a Gmail API message to a domain Message. The Date
// header is kept verbatim in RawDate; InternalAt comes from the API's
// internal timestamp and drives ordering.
func mapMessage(msg *gmailapi.Message) *domain.Message {
	var headers []*gmailapi.MessagePartHeader
	if msg.Payload != nil {
		headers = msg.Payload.Headers
	}

	rawDate := findHeader(headers, "Date")
	internalAt := time.UnixMilli(msg.InternalDate).UTC()
	if msg.InternalDate == 0 {
		internalAt = time.Time{}
	}

	receivedAt := parseDate(rawDate)
	if receivedAt.IsZero() {
		receivedAt = internalAt
	}

	text, html := extractBody(msg.Payload)

	return &domain.Message{
		ID:         msg.Id,
		ThreadID:   msg.ThreadId,
		Labels:     msg.LabelIds,
		Snippet:    msg.Snippet,
		Subject:    findHeader(headers, "Subject"),
		From:       findHeader(headers, "From"),
		To:         findHeader(headers, "To"),
		RawDate:    rawDate,
		BodyText:   text,
		BodyHTML:   html,
		ReceivedAt: receivedAt,
		InternalAt: internalAt,
		IsUnread:   containsLabel(msg.LabelIds, domain.LabelUnread),
		IsStarred:  containsLabel(msg.LabelIds, domain.LabelStarred),
	}
}

// findHeader performs a case-insensitive lookup for a header value.
func findHeader(headers []*gmailapi.MessagePartHeader, name string) string {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// parseDate tries the date formats commonly seen in Date headers. A zero
// time means none matched; callers fall back to the internal timestamp.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}

	formats := []string{
		time.RFC1123Z,                           // "Mon, 02 Jan 2006 15:04:05 -0700"
		time.RFC1123,                            // "Mon, 02 Jan 2006 15:04:05 MST"
		"Mon, 2 Jan 2006 15:04:05 -0700",        // single-digit day
		"Mon, 2 Jan 2006 15:04:05 MST",          // single-digit day with named zone
		"2 Jan 2006 15:04:05 -0700",             // no weekday
		"Mon, 02 Jan 2006 15:04:05 -0700 (MST)", // with parenthesized zone
		time.RFC3339,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// containsLabel checks if a label is present in the list.
func containsLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}

// extractBody recursively extracts text/plain and text/html content from
// a message payload.
func extractBody(payload *gmailapi.MessagePart) (text, html string) {
	if payload == nil {
		return "", ""
	}

	if len(payload.Parts) > 0 {
		for _, part := range payload.Parts {
			t, h := extractBody(part)
			if text == "" && t != "" {
				text = t
			}
			if html == "" && h != "" {
				html = h
			}
		}
		return text, html
	}

	data := ""
	if payload.Body != nil {
		data = decodeBase64URL(payload.Body.Data)
	}

	switch payload.MimeType {
	case "text/plain":
		return data, ""
	case "text/html":
		return "", data
	}
	return "", ""
}

// decodeBase64URL decodes Gmail's URL-safe base64 encoded strings
// (without padding).
func decodeBase64URL(s string) string {
	if s == "" {
		return ""
	}
	data, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(s)
	if err != nil {
		return ""
	}
	return string(data)
}
