package domain

import "time"

// Message is a cached copy of a remote mail message. RawDate keeps the
// original Date header string so display formatting never has to reparse
// it lossily; InternalAt is the provider's internal timestamp and drives
// list ordering.
type Message struct {
	ID         string
	ThreadID   string
	Labels     []string
	Snippet    string
	Subject    string
	From       string
	To         string
	RawDate    string
	BodyText   string
	BodyHTML   string
	ReceivedAt time.Time
	InternalAt time.Time
	IsUnread   bool
	IsStarred  bool
	CachedAt   time.Time
}

func (m *Message) HasLabel(label string) bool {
	for _, l := range m.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// DisplaySubject returns the subject or a placeholder for empty subjects.
func (m *Message) DisplaySubject() string {
	if m.Subject == "" {
		return "(no subject)"
	}
	return m.Subject
}

// DisplayFrom returns the From header or a placeholder when it is missing.
func (m *Message) DisplayFrom() string {
	if m.From == "" {
		return "(unknown sender)"
	}
	return m.From
}
