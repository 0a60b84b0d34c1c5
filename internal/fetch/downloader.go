// Package fetch downloads the WWFF directory CSV with HTTP cache
// validation, so periodic refreshes skip the download and the parse when
// upstream has not changed.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/oherrala/wwff-directory/internal/ingest"
	"github.com/oherrala/wwff-directory/internal/observability"
)

// UserAgent identifies this client to wwff.co.
const UserAgent = "wwff-directory/1.0"

// Downloader performs conditional GETs against the directory URL. It keeps
// the ETag and Last-Modified validators of the most recent 200 response and
// echoes them on the next request; a 304 answer means the held directory is
// still current and nothing is re-parsed.
//
// Downloader is not safe for concurrent use; the directory handle
// serializes refreshes.
type Downloader struct {
	url     string
	client  *http.Client
	limiter *rate.Limiter
	builder *ingest.Builder
	logger  *slog.Logger
	metrics *observability.Metrics

	etag         string
	lastModified string
}

// NewDownloader creates a Downloader for url. minInterval throttles upstream
// requests (zero disables throttling); metrics may be nil.
func NewDownloader(url string, timeout, minInterval time.Duration, builder *ingest.Builder, logger *slog.Logger, metrics *observability.Metrics) *Downloader {
	return &Downloader{
		url:     url,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Every(minInterval), 1),
		builder: builder,
		logger:  logger,
		metrics: metrics,
	}
}

// Download fetches the directory. It returns a nil result when upstream
// answered 304 Not Modified. Transport failures and unexpected statuses are
// errors; in every error case the stored validators are left untouched, so
// a later retry still short-circuits correctly.
func (d *Downloader) Download(ctx context.Context) (*ingest.Result, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("fetch rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	if d.etag != "" {
		d.logger.Debug("adding If-None-Match header", "etag", d.etag)
		req.Header.Set("If-None-Match", d.etag)
	}
	if d.lastModified != "" {
		d.logger.Debug("adding If-Modified-Since header", "last_modified", d.lastModified)
		req.Header.Set("If-Modified-Since", d.lastModified)
	}

	start := time.Now()
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch directory: %w", err)
	}
	defer resp.Body.Close()

	if d.metrics != nil {
		d.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	}

	switch resp.StatusCode {
	case http.StatusNotModified:
		d.logger.Debug("directory not modified, bandwidth saved")
		return nil, nil

	case http.StatusOK:
		result, err := d.builder.FromReader(resp.Body)
		if err != nil {
			return nil, err
		}
		d.etag = resp.Header.Get("ETag")
		d.lastModified = resp.Header.Get("Last-Modified")
		return result, nil

	default:
		return nil, fmt.Errorf("directory fetch: unexpected status %d", resp.StatusCode)
	}
}

// Validators returns the cache validators held from the most recent
// successful download. Both are empty before the first 200 response.
func (d *Downloader) Validators() (etag, lastModified string) {
	return d.etag, d.lastModified
}
