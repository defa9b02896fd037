package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianvz/mailterm/internal/store"
)

// GetSyncState retrieves the sync state for a label. A nil result with a
// nil error means the label has never been synced.
func (s *DB) GetSyncState(ctx context.Context, labelID string) (*store.SyncState, error) {
	var state store.SyncState
	var cursor sql.NullString
	var lastSynced string

	err := s.db.QueryRowContext(ctx,
		`SELECT label_id, history_cursor, last_synced_at FROM sync_state WHERE label_id = ?`,
		labelID,
	).Scan(&state.LabelID, &cursor, &lastSynced)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr(fmt.Sprintf("get sync state for %s", labelID), err)
	}

	state.HistoryCursor = cursor.String
	state.LastSyncedAt = parseStoredTime(lastSynced)
	return &state, nil
}

// SetSyncState inserts or updates the sync state for a label. The label
// row is created first if a refresh completed before any label sync.
func (s *DB) SetSyncState(ctx context.Context, state *store.SyncState) error {
	lastSynced := state.LastSyncedAt
	if lastSynced.IsZero() {
		lastSynced = time.Now().UTC()
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO labels (id, name, type) VALUES (?, ?, 'system')`,
		state.LabelID, state.LabelID); err != nil {
		return storageErr("ensure label for sync state", err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_state (label_id, history_cursor, last_synced_at)
		VALUES (?, ?, ?)
		ON CONFLICT(label_id) DO UPDATE SET
			history_cursor = excluded.history_cursor,
			last_synced_at = excluded.last_synced_at`,
		state.LabelID, state.HistoryCursor, lastSynced.UTC().Format(storedTimeLayout),
	)
	if err != nil {
		return storageErr(fmt.Sprintf("set sync state for %s", state.LabelID), err)
	}
	return nil
}
