package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/DougFavaretto/mockdata-browser-extension/internal/logger"
)

// Ticker calls fn every interval until Stop or ctx is done. It is how the app
// periodically resyncs the menu with the stored configuration.
type Ticker struct {
	name     string
	interval time.Duration
	fn       func(ctx context.Context)
	logger   logger.Logger

	stopCh chan struct{}
	once   sync.Once
}

// NewTicker creates a ticker. An interval <= 0 makes Start a no-op.
func NewTicker(name string, interval time.Duration, fn func(ctx context.Context), log logger.Logger) *Ticker {
	return &Ticker{
		name:     name,
		interval: interval,
		fn:       fn,
		logger:   log,
		stopCh:   make(chan struct{}),
	}
}

// Start launches the ticking goroutine. The first call happens after one
// interval.
func (t *Ticker) Start(ctx context.Context) {
	if t.interval <= 0 {
		t.logger.Debug("ticker disabled", logger.String("ticker", t.name))
		return
	}

	ticker := time.NewTicker(t.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				t.fn(ctx)
			case <-t.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	t.logger.Info("ticker started",
		logger.String("ticker", t.name),
		logger.Duration("interval", t.interval))
}

// Stop ends the ticking goroutine. Safe to call more than once.
func (t *Ticker) Stop() {
	t.once.Do(func() { close(t.stopCh) })
}
