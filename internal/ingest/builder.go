// Package ingest builds directory snapshots from WWFF CSV streams.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/oherrala/wwff-directory/internal/domain"
	"github.com/oherrala/wwff-directory/internal/observability"
)

// Result is one successfully built directory snapshot.
type Result struct {
	Directory *domain.Directory
	// SnapshotID uniquely identifies this build, for log and change-feed
	// correlation.
	SnapshotID string
	// Rows is the number of data rows seen, Skipped how many of them were
	// rejected.
	Rows    int
	Skipped int
	Elapsed time.Duration
}

// Builder turns a CSV byte stream into a Directory, skipping individually
// bad rows instead of aborting the load.
type Builder struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewBuilder creates a Builder. Pass nil metrics to disable instrumentation
// (CLI use).
func NewBuilder(logger *slog.Logger, metrics *observability.Metrics) *Builder {
	return &Builder{logger: logger, metrics: metrics}
}

// FromPath builds a directory from a CSV file on disk.
func (b *Builder) FromPath(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open directory file: %w", err)
	}
	defer f.Close()
	return b.FromReader(f)
}

// FromReader builds a directory from a CSV byte stream. Row-level failures
// (unparseable lines, rows the decoder rejects) are logged, counted and
// skipped; only a failure of the stream itself aborts the build. A stream
// in which every row is rejected yields an empty directory, not an error.
func (b *Builder) FromReader(r io.Reader) (*Result, error) {
	start := clock.Now()

	rdr := csv.NewReader(r)
	header, err := rdr.Read()
	if errors.Is(err, io.EOF) {
		// Zero-byte input: an empty directory is a valid outcome.
		return b.finish(map[domain.Reference]domain.Entry{}, 0, 0, start), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	entries := make(map[domain.Reference]domain.Entry)
	rows, skipped := 0, 0

	for {
		record, err := rdr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rows++
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				// Not a malformed row but a failing byte stream.
				return nil, fmt.Errorf("read csv: %w", err)
			}
			b.logger.Warn("skipping unparseable row", "row", rows, "error", err)
			skipped++
			continue
		}

		row := make(domain.Row, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}

		entry, err := domain.DecodeRow(row)
		if err != nil {
			b.logger.Warn("skipping invalid row", "row", rows, "error", err)
			skipped++
			continue
		}

		// Later rows win, including case-insensitive key collisions.
		entries[entry.Reference] = entry
	}

	return b.finish(entries, rows, skipped, start), nil
}

func (b *Builder) finish(entries map[domain.Reference]domain.Entry, rows, skipped int, start time.Time) *Result {
	result := &Result{
		Directory:  domain.NewDirectory(entries),
		SnapshotID: uuid.NewString(),
		Rows:       rows,
		Skipped:    skipped,
		Elapsed:    clock.Since(start),
	}

	if b.metrics != nil {
		b.metrics.RowsDecoded.Add(float64(rows - skipped))
		b.metrics.RowsSkipped.Add(float64(skipped))
		b.metrics.BuildDuration.Observe(result.Elapsed.Seconds())
	}

	b.logger.Debug("directory built",
		"snapshot_id", result.SnapshotID,
		"entries", result.Directory.Len(),
		"rows", rows,
		"skipped", skipped,
		"elapsed_ms", result.Elapsed.Milliseconds(),
	)

	return result
}
