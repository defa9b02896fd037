package app

import (
	"context"
	"time"
)

// DefaultPollInterval is how often the poller re-checks the active
// label when the configuration does not set one.
const DefaultPollInterval = 2 * time.Minute

// Poller periodically schedules a refresh for whichever label the user
// is looking at. The coordinator still guarantees the refresh is
// skipped when one is already running.
type Poller struct {
	engine      *Engine
	interval    time.Duration
	activeLabel func() string
}

// NewPoller builds a poller over the engine. activeLabel is consulted
// on every tick; returning an empty string skips the tick.
func NewPoller(engine *Engine, interval time.Duration, activeLabel func() string) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{engine: engine, interval: interval, activeLabel: activeLabel}
}

// Run ticks until ctx is canceled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if labelID := p.activeLabel(); labelID != "" {
				p.engine.RefreshAsync(labelID)
			}
		}
	}
}
