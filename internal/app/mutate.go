package app

import (
	"context"
	"fmt"
	"log"

	"github.com/julianvz/mailterm/internal/domain"
	"github.com/julianvz/mailterm/internal/provider"
)

// Mutations are optimistic. The local cache is updated synchronously so
// the UI reflects the action at once; the remote call runs in the
// background and a failure is reported as a status event without
// rolling the cache back. The next refresh reconverges with the server.

// Archive removes the message from the inbox locally and confirms the
// removal remotely in the background.
func (e *Engine) Archive(ctx context.Context, messageID string) error {
	if err := e.store.MarkArchived(ctx, messageID); err != nil {
		return fmt.Errorf("failed to archive message locally: %w", err)
	}
	e.emit(Event{Type: EventMessageArchived, MessageID: messageID})

	e.confirmRemote(messageID, "archive", func(ctx context.Context) error {
		return e.provider.ModifyLabels(ctx, messageID, nil, []string{domain.LabelInbox})
	})
	return nil
}

// Delete moves the message to the trash locally and confirms remotely
// in the background.
func (e *Engine) Delete(ctx context.Context, messageID string) error {
	if err := e.store.MarkDeleted(ctx, messageID); err != nil {
		return fmt.Errorf("failed to delete message locally: %w", err)
	}
	e.emit(Event{Type: EventMessageDeleted, MessageID: messageID})

	e.confirmRemote(messageID, "delete", func(ctx context.Context) error {
		return e.provider.Trash(ctx, messageID)
	})
	return nil
}

// SetUnread flips the unread flag locally and confirms remotely in the
// background.
func (e *Engine) SetUnread(ctx context.Context, messageID string, unread bool) error {
	if err := e.store.SetUnread(ctx, messageID, unread); err != nil {
		return fmt.Errorf("failed to update read state locally: %w", err)
	}

	op := "mark read"
	add, remove := []string(nil), []string{domain.LabelUnread}
	if unread {
		op = "mark unread"
		add, remove = []string{domain.LabelUnread}, nil
	}
	e.confirmRemote(messageID, op, func(ctx context.Context) error {
		return e.provider.ModifyLabels(ctx, messageID, add, remove)
	})
	return nil
}

// ArchiveNow archives locally and waits for the remote confirmation.
// One-shot commands need this; the process would otherwise exit before
// the background confirmation ever reached the server.
func (e *Engine) ArchiveNow(ctx context.Context, messageID string) error {
	if err := e.store.MarkArchived(ctx, messageID); err != nil {
		return fmt.Errorf("failed to archive message locally: %w", err)
	}
	if err := e.provider.ModifyLabels(ctx, messageID, nil, []string{domain.LabelInbox}); err != nil {
		return fmt.Errorf("failed to archive message remotely: %w", err)
	}
	return nil
}

// DeleteNow trashes locally and waits for the remote confirmation.
func (e *Engine) DeleteNow(ctx context.Context, messageID string) error {
	if err := e.store.MarkDeleted(ctx, messageID); err != nil {
		return fmt.Errorf("failed to delete message locally: %w", err)
	}
	if err := e.provider.Trash(ctx, messageID); err != nil {
		return fmt.Errorf("failed to delete message remotely: %w", err)
	}
	return nil
}

// confirmRemote runs the remote half of an optimistic mutation. The
// local result stands even when the remote call fails.
func (e *Engine) confirmRemote(messageID, op string, call func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), e.cfg.FetchTimeout)
		defer cancel()

		if err := call(ctx); err != nil {
			log.Printf("[sync] remote %s for %s failed: %v", op, messageID, err)
			if provider.IsAuthExpired(err) {
				e.emit(Event{Type: EventAuthExpired, MessageID: messageID, Status: "session expired, please re-authenticate"})
				return
			}
			e.emit(Event{Type: EventSyncError, MessageID: messageID, Status: fmt.Sprintf("%s did not reach the server: %v", op, err)})
		}
	}()
}
