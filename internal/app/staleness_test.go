package app

import (
	"testing"
	"time"

	"github.com/julianvz/mailterm/internal/store"
)

func TestIsStale(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		state *store.SyncState
		want  bool
	}{
		{"never synced", nil, true},
		{"just synced", &store.SyncState{LastSyncedAt: now}, false},
		{"within threshold", &store.SyncState{LastSyncedAt: now.Add(-4 * time.Minute)}, false},
		{"exactly threshold", &store.SyncState{LastSyncedAt: now.Add(-DefaultStaleAfter)}, true},
		{"past threshold", &store.SyncState{LastSyncedAt: now.Add(-time.Hour)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsStale(tt.state, now, DefaultStaleAfter); got != tt.want {
				t.Errorf("IsStale() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultStaleAfter(t *testing.T) {
	if DefaultStaleAfter != 5*time.Minute {
		t.Errorf("DefaultStaleAfter = %v, want 5m", DefaultStaleAfter)
	}
}
