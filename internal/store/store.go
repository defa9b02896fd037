package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianvz/mailterm/internal/domain"
)

// Store defines the persistence interface for the local mail cache.
// It exclusively owns durable state; no network calls originate here.
type Store interface {
	// Labels
	UpsertLabel(ctx context.Context, label *domain.Label) error
	ListLabels(ctx context.Context) ([]domain.Label, error)

	// Messages
	UpsertMessage(ctx context.Context, msg *domain.Message) error
	GetMessage(ctx context.Context, id string) (*domain.Message, error)
	ListMessages(ctx context.Context, labelID string, limit, offset int) ([]domain.Message, error)

	// Optimistic mutations (label membership only)
	MarkArchived(ctx context.Context, messageID string) error
	MarkDeleted(ctx context.Context, messageID string) error
	SetUnread(ctx context.Context, messageID string, unread bool) error

	// Search over the cached corpus
	SearchMessages(ctx context.Context, query string, limit int) ([]domain.Message, error)

	// Per-label sync metadata
	GetSyncState(ctx context.Context, labelID string) (*SyncState, error)
	SetSyncState(ctx context.Context, state *SyncState) error

	// Retention maintenance
	CleanupOlderThan(ctx context.Context, age time.Duration) (int64, error)

	Close() error
}

// SyncState tracks when a label was last refreshed from the remote
// service. A missing row means "never synced".
type SyncState struct {
	LabelID       string
	HistoryCursor string
	LastSyncedAt  time.Time
}

// StorageError wraps any persistent-store I/O failure so callers can
// tell cache trouble apart from remote failures.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsStorageError reports whether err originated in the persistent store.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
