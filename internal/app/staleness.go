package app

import (
	"time"

	"github.com/julianvz/mailterm/internal/store"
)

// DefaultStaleAfter is how long cached messages for a label are trusted
// before a background refresh is scheduled.
const DefaultStaleAfter = 5 * time.Minute

// IsStale reports whether the cached data behind a sync state needs a
// remote refresh. A label that has never been synced has no state and is
// always stale.
func IsStale(state *store.SyncState, now time.Time, threshold time.Duration) bool {
	if state == nil {
		return true
	}
	return now.Sub(state.LastSyncedAt) >= threshold
}
