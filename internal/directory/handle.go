// Package directory owns the long-lived WWFF directory: the current
// snapshot, the downloader state, and the refresh loop.
package directory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/oherrala/wwff-directory/internal/domain"
	"github.com/oherrala/wwff-directory/internal/fetch"
	"github.com/oherrala/wwff-directory/internal/ingest"
	"github.com/oherrala/wwff-directory/internal/observability"
)

// Stats describes the currently served snapshot.
type Stats struct {
	Entries    int       `json:"entries"`
	SnapshotID string    `json:"snapshot_id"`
	Rows       int       `json:"rows"`
	Skipped    int       `json:"skipped"`
	LoadedAt   time.Time `json:"loaded_at"`
}

// Handle serves lookups against the current directory snapshot and refreshes
// it in place. Snapshots are replaced whole, never mutated, so concurrent
// lookups observe either the old or the new directory in full. Refreshes are
// serialized: a Handle has single-writer semantics.
type Handle struct {
	mu    sync.RWMutex // guards dir and stats
	dir   *domain.Directory
	stats Stats

	refreshMu  sync.Mutex // serializes Refresh calls
	downloader *fetch.Downloader

	logger  *slog.Logger
	metrics *observability.Metrics
}

// OpenPath creates a Handle from a local CSV file. downloader may be nil,
// in which case Refresh is unavailable.
func OpenPath(path string, builder *ingest.Builder, downloader *fetch.Downloader, logger *slog.Logger, metrics *observability.Metrics) (*Handle, error) {
	result, err := builder.FromPath(path)
	if err != nil {
		return nil, err
	}
	return newHandle(result, downloader, logger, metrics), nil
}

// OpenReader creates a Handle from a CSV byte stream. downloader may be nil,
// in which case Refresh is unavailable.
func OpenReader(r io.Reader, builder *ingest.Builder, downloader *fetch.Downloader, logger *slog.Logger, metrics *observability.Metrics) (*Handle, error) {
	result, err := builder.FromReader(r)
	if err != nil {
		return nil, err
	}
	return newHandle(result, downloader, logger, metrics), nil
}

// OpenRemote creates a Handle from a first download. The downloader holds
// no validators yet, so a "not modified" answer cannot happen; if the fetch
// fails no Handle is produced.
func OpenRemote(ctx context.Context, downloader *fetch.Downloader, logger *slog.Logger, metrics *observability.Metrics) (*Handle, error) {
	result, err := downloader.Download(ctx)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, errors.New("initial download returned not modified without prior validators")
	}
	return newHandle(result, downloader, logger, metrics), nil
}

func newHandle(result *ingest.Result, downloader *fetch.Downloader, logger *slog.Logger, metrics *observability.Metrics) *Handle {
	h := &Handle{
		downloader: downloader,
		logger:     logger,
		metrics:    metrics,
	}
	h.apply(result)
	return h
}

// Lookup finds an entry by reference text, normalized the same way the
// decoder normalizes keys. A missing reference is a normal outcome.
func (h *Handle) Lookup(reference string) (domain.Entry, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dir.Lookup(reference)
}

// Snapshot returns the currently served directory.
func (h *Handle) Snapshot() *domain.Directory {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dir
}

// Stats returns metadata about the currently served snapshot.
func (h *Handle) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.stats
}

// CheckReadiness reports whether the handle can serve lookups. A Handle is
// constructed from a successful load, so this is satisfied for its entire
// lifetime; it exists as the readiness seam for the HTTP server.
func (h *Handle) CheckReadiness(_ context.Context) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.dir == nil {
		return errors.New("no directory loaded")
	}
	return nil
}

// Update describes a refresh that yielded new content.
type Update struct {
	SnapshotID string
	Changes    []domain.Change
}

// Refresh asks upstream for new content. It returns nil when upstream
// reported not modified — the held snapshot is untouched and nothing was
// re-parsed. On new content the snapshot is replaced whole and the entry
// changes against the previous snapshot are returned. On failure the prior
// snapshot and the downloader's validators survive untouched.
func (h *Handle) Refresh(ctx context.Context) (*Update, error) {
	h.refreshMu.Lock()
	defer h.refreshMu.Unlock()

	if h.downloader == nil {
		return nil, errors.New("no downloader configured")
	}

	result, err := h.downloader.Download(ctx)
	if err != nil {
		if h.metrics != nil {
			h.metrics.Refreshes.WithLabelValues("error").Inc()
		}
		return nil, fmt.Errorf("refresh directory: %w", err)
	}
	if result == nil {
		if h.metrics != nil {
			h.metrics.Refreshes.WithLabelValues("unchanged").Inc()
		}
		return nil, nil
	}

	prev := h.Snapshot()
	h.apply(result)
	if h.metrics != nil {
		h.metrics.Refreshes.WithLabelValues("changed").Inc()
	}

	changes := domain.Diff(prev, result.Directory)
	h.logger.Info("directory refreshed",
		"snapshot_id", result.SnapshotID,
		"entries", result.Directory.Len(),
		"skipped", result.Skipped,
		"changes", len(changes),
	)

	return &Update{SnapshotID: result.SnapshotID, Changes: changes}, nil
}

// apply publishes a new snapshot.
func (h *Handle) apply(result *ingest.Result) {
	h.mu.Lock()
	h.dir = result.Directory
	h.stats = Stats{
		Entries:    result.Directory.Len(),
		SnapshotID: result.SnapshotID,
		Rows:       result.Rows,
		Skipped:    result.Skipped,
		LoadedAt:   time.Now().UTC(),
	}
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.DirectoryEntries.Set(float64(result.Directory.Len()))
	}
}
