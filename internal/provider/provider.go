package provider

import (
	"context"

	"github.com/julianvz/mailterm/internal/domain"
)

// MailProvider is the narrow interface to the remote mail service. All
// calls carry the bearer token obtained by the auth layer and may block
// on the network; nothing on the cached-read path calls into it.
type MailProvider interface {
	Authenticate(ctx context.Context) error
	IsAuthenticated() bool

	ListLabels(ctx context.Context) ([]domain.Label, error)

	// ListMessages returns up to limit messages for a label starting at
	// offset, newest first. The virtual ALLMAIL label omits label
	// filtering server-side.
	ListMessages(ctx context.Context, labelID string, offset, limit int) ([]domain.Message, error)

	// GetMessage fetches the full message including decoded bodies.
	GetMessage(ctx context.Context, id string) (*domain.Message, error)

	Send(ctx context.Context, msg *OutgoingMessage) error

	ModifyLabels(ctx context.Context, msgID string, add, remove []string) error
	Trash(ctx context.Context, msgID string) error
}

// OutgoingMessage carries the fields of a message to be sent.
type OutgoingMessage struct {
	To      string
	CC      string
	BCC     string
	Subject string
	Body    string
}
