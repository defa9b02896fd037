package app

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/julianvz/mailterm/internal/domain"
	"github.com/julianvz/mailterm/internal/provider"
	"github.com/julianvz/mailterm/internal/store"
)

// DefaultPageSize is the number of messages loaded per page when the
// caller does not say otherwise.
const DefaultPageSize = 25

// DefaultFetchTimeout bounds a single remote refresh. A hung fetch must
// not pin a label's coordinator slot forever.
const DefaultFetchTimeout = 30 * time.Second

// Config tunes the engine's sync behavior.
type Config struct {
	StaleAfter   time.Duration
	PageSize     int
	FetchTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.StaleAfter <= 0 {
		c.StaleAfter = DefaultStaleAfter
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = DefaultFetchTimeout
	}
	return c
}

// Engine is the cache-first synchronization core. Reads are served from
// the local store immediately; when a label's cache is stale a refresh
// runs in the background and lands as events on Events().
type Engine struct {
	store    store.Store
	provider provider.MailProvider
	coord    *FetchCoordinator
	cfg      Config

	events chan Event
	now    func() time.Time

	// The virtual All Mail label has no labels row and no sync_state
	// row; its freshness is tracked here instead.
	mu              sync.Mutex
	allMailSyncedAt time.Time
}

// NewEngine wires an engine over a store, a provider, and a fetch
// coordinator.
func NewEngine(st store.Store, p provider.MailProvider, coord *FetchCoordinator, cfg Config) *Engine {
	return &Engine{
		store:    st,
		provider: p,
		coord:    coord,
		cfg:      cfg.withDefaults(),
		events:   make(chan Event, 64),
		now:      time.Now,
	}
}

// Events returns the channel background tasks report on. The UI's event
// loop is the single consumer.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// emit never blocks a background task on a slow consumer. Dropping an
// event is acceptable; the next refresh re-reports current state.
func (e *Engine) emit(ev Event) {
	select {
	case e.events <- ev:
	default:
		log.Printf("[sync] event channel full, dropping %d event", ev.Type)
	}
}

// PageSize exposes the configured page size to the view layer.
func (e *Engine) PageSize() int {
	return e.cfg.PageSize
}

// LoadLabels returns the cached label list with the virtual All Mail
// entry appended. It never touches the network.
func (e *Engine) LoadLabels(ctx context.Context) ([]domain.Label, error) {
	labels, err := e.store.ListLabels(ctx)
	if err != nil {
		return nil, err
	}
	return append(labels, domain.AllMail()), nil
}

// LoadMessages serves the first page for a label from the cache and, if
// the cache is stale or empty, schedules a background refresh. The
// cached (possibly empty) result is returned immediately either way.
func (e *Engine) LoadMessages(ctx context.Context, labelID string) ([]domain.Message, error) {
	msgs, err := e.store.ListMessages(ctx, labelID, e.cfg.PageSize, 0)
	if err != nil {
		// A broken cache read degrades to a cache miss, not a dead UI.
		log.Printf("[sync] cache read for %s failed: %v", labelID, err)
		msgs = nil
	}

	if e.needsRefresh(ctx, labelID, len(msgs)) {
		e.RefreshAsync(labelID)
	}
	return msgs, nil
}

// LoadMore returns the next page for a label from the cache only.
func (e *Engine) LoadMore(ctx context.Context, labelID string, offset int) ([]domain.Message, error) {
	return e.store.ListMessages(ctx, labelID, e.cfg.PageSize, offset)
}

// needsRefresh applies the staleness policy. An empty cache is always
// stale regardless of recorded sync state.
func (e *Engine) needsRefresh(ctx context.Context, labelID string, cached int) bool {
	if cached == 0 {
		return true
	}
	if domain.IsAllMail(labelID) {
		return IsStale(e.allMailState(), e.now(), e.cfg.StaleAfter)
	}
	state, err := e.store.GetSyncState(ctx, labelID)
	if err != nil {
		log.Printf("[sync] sync state read for %s failed: %v", labelID, err)
		return true
	}
	return IsStale(state, e.now(), e.cfg.StaleAfter)
}

// RefreshAsync starts a background message refresh for labelID unless
// one is already in flight. It returns immediately.
func (e *Engine) RefreshAsync(labelID string) {
	if !e.coord.TryBegin(labelID) {
		return
	}
	go func() {
		defer e.coord.End(labelID)

		ctx, cancel := context.WithTimeout(context.Background(), e.cfg.FetchTimeout)
		defer cancel()

		if err := e.refreshLabel(ctx, labelID); err != nil {
			e.reportSyncFailure(labelID, err)
		}
	}()
}

// refreshLabel fetches the freshest messages for a label, persists
// them, records the sync time, and re-reads the cache so the UI renders
// exactly what the store now holds.
func (e *Engine) refreshLabel(ctx context.Context, labelID string) error {
	fetchLimit := e.cfg.PageSize * 2
	msgs, err := e.provider.ListMessages(ctx, labelID, 0, fetchLimit)
	if err != nil {
		return err
	}

	for i := range msgs {
		if err := e.store.UpsertMessage(ctx, &msgs[i]); err != nil {
			return err
		}
	}

	if domain.IsAllMail(labelID) {
		e.mu.Lock()
		e.allMailSyncedAt = e.now()
		e.mu.Unlock()
	} else {
		state := &store.SyncState{LabelID: labelID, LastSyncedAt: e.now()}
		if err := e.store.SetSyncState(ctx, state); err != nil {
			return err
		}
	}

	cached, err := e.store.ListMessages(ctx, labelID, fetchLimit, 0)
	if err != nil {
		return err
	}

	e.emit(Event{Type: EventMessagesLoaded, LabelID: labelID, Messages: cached})
	e.emit(Event{Type: EventLabelSynced, LabelID: labelID, Count: len(msgs)})
	return nil
}

// allMailState adapts the in-memory All Mail sync time to the staleness
// check. Never refreshed reads as never synced.
func (e *Engine) allMailState() *store.SyncState {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.allMailSyncedAt.IsZero() {
		return nil
	}
	return &store.SyncState{LabelID: domain.LabelAllMail, LastSyncedAt: e.allMailSyncedAt}
}

// SyncLabels refreshes the label list from the remote service and emits
// the persisted result.
func (e *Engine) SyncLabels(ctx context.Context) error {
	labels, err := e.provider.ListLabels(ctx)
	if err != nil {
		e.reportSyncFailure("labels", err)
		return err
	}
	for i := range labels {
		if err := e.store.UpsertLabel(ctx, &labels[i]); err != nil {
			return err
		}
	}

	cached, err := e.LoadLabels(ctx)
	if err != nil {
		return err
	}
	e.emit(Event{Type: EventLabelsSynced, Labels: cached})
	return nil
}

// SyncLabelsAsync runs SyncLabels in the background.
func (e *Engine) SyncLabelsAsync() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), e.cfg.FetchTimeout)
		defer cancel()
		if err := e.SyncLabels(ctx); err != nil {
			log.Printf("[sync] label sync failed: %v", err)
		}
	}()
}

// priorityLabels are refreshed eagerly on startup and by the poller.
var priorityLabels = []string{
	domain.LabelInbox,
	domain.LabelStarred,
	domain.LabelSent,
	domain.LabelDraft,
}

// RefreshAll schedules refreshes for the priority labels. Labels with a
// refresh already in flight are skipped by the coordinator.
func (e *Engine) RefreshAll() {
	for _, id := range priorityLabels {
		e.RefreshAsync(id)
	}
}

// SyncNow refreshes the label list and the given labels in the
// foreground. With no labels it syncs the priority set. Used by the
// one-shot sync command; the TUI path goes through RefreshAsync.
func (e *Engine) SyncNow(ctx context.Context, labelIDs ...string) error {
	if err := e.SyncLabels(ctx); err != nil {
		return err
	}
	if len(labelIDs) == 0 {
		labelIDs = priorityLabels
	}
	for _, id := range labelIDs {
		if !e.coord.TryBegin(id) {
			continue
		}
		err := e.refreshLabel(ctx, id)
		e.coord.End(id)
		if err != nil {
			return fmt.Errorf("failed to sync %s: %w", id, err)
		}
	}
	return nil
}

// OpenMessage returns the full message, fetching the body from the
// remote service if the cache only holds the metadata stub.
func (e *Engine) OpenMessage(ctx context.Context, id string) (*domain.Message, error) {
	msg, err := e.store.GetMessage(ctx, id)
	if err == nil && msg != nil && (msg.BodyText != "" || msg.BodyHTML != "") {
		return msg, nil
	}

	full, err := e.provider.GetMessage(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := e.store.UpsertMessage(ctx, full); err != nil {
		log.Printf("[sync] caching full message %s failed: %v", id, err)
	}
	return full, nil
}

// Send delivers an outgoing message through the provider.
func (e *Engine) Send(ctx context.Context, msg *provider.OutgoingMessage) error {
	return e.provider.Send(ctx, msg)
}

// Search queries the cached full-text index. It never goes remote.
func (e *Engine) Search(ctx context.Context, query string, limit int) ([]domain.Message, error) {
	return e.store.SearchMessages(ctx, query, limit)
}

// Cleanup drops cached messages older than age and returns how many
// rows were removed.
func (e *Engine) Cleanup(ctx context.Context, age time.Duration) (int64, error) {
	return e.store.CleanupOlderThan(ctx, age)
}

// reportSyncFailure turns a background failure into the right event.
// Auth expiry is surfaced distinctly so the UI can prompt for re-auth;
// everything else lands as a transient status line.
func (e *Engine) reportSyncFailure(labelID string, err error) {
	log.Printf("[sync] refresh for %s failed: %v", labelID, err)
	if provider.IsAuthExpired(err) {
		e.emit(Event{Type: EventAuthExpired, LabelID: labelID, Status: "session expired, please re-authenticate"})
		return
	}
	e.emit(Event{Type: EventSyncError, LabelID: labelID, Status: "sync failed: " + err.Error()})
}
