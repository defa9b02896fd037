package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/julianvz/mailterm/internal/domain"
	"github.com/julianvz/mailterm/internal/store"
)

func TestGetSyncState_NeverSynced(t *testing.T) {
	db := newTestDB(t)

	state, err := db.GetSyncState(context.Background(), domain.LabelInbox)
	if err != nil {
		t.Fatalf("GetSyncState() error: %v", err)
	}
	if state != nil {
		t.Errorf("state = %+v, want nil for never-synced label", state)
	}
}

func TestSetSyncState_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	syncedAt := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	if err := db.SetSyncState(ctx, &store.SyncState{
		LabelID:       domain.LabelInbox,
		HistoryCursor: "hist-123",
		LastSyncedAt:  syncedAt,
	}); err != nil {
		t.Fatalf("SetSyncState() error: %v", err)
	}

	state, err := db.GetSyncState(ctx, domain.LabelInbox)
	if err != nil {
		t.Fatalf("GetSyncState() error: %v", err)
	}
	if state == nil {
		t.Fatal("state = nil after SetSyncState")
	}
	if state.HistoryCursor != "hist-123" {
		t.Errorf("HistoryCursor = %q, want %q", state.HistoryCursor, "hist-123")
	}
	if !state.LastSyncedAt.Equal(syncedAt) {
		t.Errorf("LastSyncedAt = %v, want %v", state.LastSyncedAt, syncedAt)
	}

	// Upsert replaces the row.
	later := syncedAt.Add(time.Hour)
	if err := db.SetSyncState(ctx, &store.SyncState{
		LabelID:      domain.LabelInbox,
		LastSyncedAt: later,
	}); err != nil {
		t.Fatalf("SetSyncState() repeat error: %v", err)
	}
	state, err = db.GetSyncState(ctx, domain.LabelInbox)
	if err != nil {
		t.Fatalf("GetSyncState() error: %v", err)
	}
	if !state.LastSyncedAt.Equal(later) {
		t.Errorf("LastSyncedAt = %v, want %v", state.LastSyncedAt, later)
	}
	if state.HistoryCursor != "" {
		t.Errorf("HistoryCursor = %q, want cleared", state.HistoryCursor)
	}
}

func TestSetSyncState_DefaultsLastSyncedAt(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	before := time.Now().UTC().Add(-time.Second)
	if err := db.SetSyncState(ctx, &store.SyncState{LabelID: domain.LabelSent}); err != nil {
		t.Fatalf("SetSyncState() error: %v", err)
	}

	state, err := db.GetSyncState(ctx, domain.LabelSent)
	if err != nil {
		t.Fatalf("GetSyncState() error: %v", err)
	}
	if state.LastSyncedAt.Before(before) {
		t.Errorf("LastSyncedAt = %v, want recent timestamp", state.LastSyncedAt)
	}
}
