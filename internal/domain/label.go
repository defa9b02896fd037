package domain

import "strings"

type LabelType string

const (
	LabelTypeSystem LabelType = "system"
	LabelTypeUser   LabelType = "user"
)

// Label is a remote mailbox category. Labels are cached verbatim except
// for AllMail, which is synthesized client-side and never persisted.
type Label struct {
	ID   string
	Name string
	Type LabelType
}

const (
	LabelInbox   = "INBOX"
	LabelStarred = "STARRED"
	LabelSent    = "SENT"
	LabelDraft   = "DRAFT"
	LabelTrash   = "TRASH"
	LabelSpam    = "SPAM"
	LabelUnread  = "UNREAD"

	// LabelAllMail is the virtual "no filter" label. It exists only in
	// memory: the store treats it as "ignore label filtering" and the
	// provider omits the label filter server-side.
	LabelAllMail = "ALLMAIL"
)

// IsAllMail reports whether id names the virtual aggregate label.
func IsAllMail(id string) bool {
	return strings.EqualFold(id, LabelAllMail)
}

// AllMail returns the synthetic aggregate label shown in the sidebar once
// any real label is known.
func AllMail() Label {
	return Label{ID: LabelAllMail, Name: "All Mail", Type: LabelTypeSystem}
}
