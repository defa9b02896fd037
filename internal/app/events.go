package app

import (
	"github.com/julianvz/mailterm/internal/domain"
)

// EventType identifies what a background task is reporting.
type EventType int

const (
	// EventLabelsSynced reports that the label list was refreshed.
	EventLabelsSynced EventType = iota
	// EventMessagesLoaded carries a fresh ordered message list for a
	// label, read back from the cache after a completed refresh.
	EventMessagesLoaded
	// EventLabelSynced reports a completed message refresh for a label.
	EventLabelSynced
	// EventMessageArchived and EventMessageDeleted report applied
	// optimistic mutations.
	EventMessageArchived
	EventMessageDeleted
	// EventSyncError carries a user-facing status message for a
	// recovered failure. Never fatal.
	EventSyncError
	// EventAuthExpired tells the user to re-authenticate.
	EventAuthExpired
)

// Event is what the engine's background tasks report to the UI. Exactly
// one of the payload fields is set depending on Type.
type Event struct {
	Type      EventType
	LabelID   string
	MessageID string
	Labels    []domain.Label
	Messages  []domain.Message
	Count     int
	Status    string
}
