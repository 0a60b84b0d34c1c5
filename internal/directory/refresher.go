package directory

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/oherrala/wwff-directory/internal/domain"
	"github.com/oherrala/wwff-directory/internal/observability"
)

// ChangePublisher receives the entry changes of a refresh that produced new
// content.
type ChangePublisher interface {
	PublishChanges(ctx context.Context, snapshotID string, changes []domain.Change) error
}

// Refresher refreshes a Handle on a fixed interval until its context is
// cancelled. Refresh errors are logged and the prior snapshot keeps
// serving; the next tick retries.
type Refresher struct {
	handle    *Handle
	publisher ChangePublisher // nil disables the change feed
	interval  time.Duration
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewRefresher creates a Refresher. Pass a nil publisher to disable the
// change feed.
func NewRefresher(handle *Handle, publisher ChangePublisher, interval time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Refresher {
	return &Refresher{
		handle:    handle,
		publisher: publisher,
		interval:  interval,
		clock:     clockwork.NewRealClock(),
		logger:    logger,
		metrics:   metrics,
	}
}

// SetClock swaps the tick source. Tests inject a fake clock.
func (r *Refresher) SetClock(c clockwork.Clock) {
	r.clock = c
}

// Run blocks until ctx is cancelled, refreshing every interval.
func (r *Refresher) Run(ctx context.Context) error {
	r.logger.Info("refresher started", "interval", r.interval)
	if r.metrics != nil {
		r.metrics.RefresherRunning.Set(1)
		defer r.metrics.RefresherRunning.Set(0)
	}

	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("refresher stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			r.tick(ctx)
		}
	}
}

func (r *Refresher) tick(ctx context.Context) {
	update, err := r.handle.Refresh(ctx)
	if err != nil {
		r.logger.Error("refresh failed", "error", err)
		return
	}
	if update == nil || r.publisher == nil {
		return
	}

	if err := r.publisher.PublishChanges(ctx, update.SnapshotID, update.Changes); err != nil {
		r.logger.Error("publish changes failed",
			"error", err,
			"snapshot_id", update.SnapshotID,
			"changes", len(update.Changes),
		)
	}
}
