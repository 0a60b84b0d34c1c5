package directory

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oherrala/wwff-directory/internal/domain"
	"github.com/oherrala/wwff-directory/internal/fetch"
)

type capturingPublisher struct {
	published chan []domain.Change
}

func (p *capturingPublisher) PublishChanges(_ context.Context, _ string, changes []domain.Change) error {
	p.published <- changes
	return nil
}

func TestRefresherPublishesChanges(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	up := &upstream{etag: `"v1"`, body: csvHeader + "\n" + csvRow("ONFF-0010", "Old Name")}
	srv := httptest.NewServer(up.handler())
	t.Cleanup(srv.Close)

	dl := fetch.NewDownloader(srv.URL, 5*time.Second, 0, testBuilder(), discardLogger(), nil)
	h, err := OpenRemote(ctx, dl, discardLogger(), nil)
	require.NoError(t, err)

	publisher := &capturingPublisher{published: make(chan []domain.Change, 1)}
	r := NewRefresher(h, publisher, time.Hour, discardLogger(), nil)

	fc := clockwork.NewFakeClock()
	r.SetClock(fc)

	runCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- r.Run(runCtx) }()

	// Wait until the refresher is blocked on its ticker, then change
	// upstream and fire a tick.
	fc.BlockUntil(1)
	up.etag = `"v2"`
	up.body = csvHeader + "\n" + csvRow("ONFF-0010", "New Name")
	fc.Advance(time.Hour)

	select {
	case changes := <-publisher.published:
		require.Len(t, changes, 1)
		assert.Equal(t, domain.ChangeUpdated, changes[0].Kind)
		assert.Equal(t, domain.Reference("ONFF-0010"), changes[0].Reference)
		assert.Equal(t, "New Name", changes[0].Entry.Name)
	case <-ctx.Done():
		t.Fatal("timed out waiting for published changes")
	}

	e, ok := h.Lookup("ONFF-0010")
	require.True(t, ok)
	assert.Equal(t, "New Name", e.Name)

	stop()
	require.NoError(t, <-done)
}

func TestRefresherSurvivesRefreshErrors(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	up := &upstream{etag: `"v1"`, body: csvHeader + "\n" + csvRow("ONFF-0010", "Hoge Kempen")}
	srv := httptest.NewServer(up.handler())

	dl := fetch.NewDownloader(srv.URL, 5*time.Second, 0, testBuilder(), discardLogger(), nil)
	h, err := OpenRemote(ctx, dl, discardLogger(), nil)
	require.NoError(t, err)

	// Kill upstream: every tick now fails, but the loop must keep going and
	// the handle must keep serving the last good snapshot.
	srv.Close()

	r := NewRefresher(h, nil, time.Hour, discardLogger(), nil)
	fc := clockwork.NewFakeClock()
	r.SetClock(fc)

	runCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- r.Run(runCtx) }()

	fc.BlockUntil(1)
	fc.Advance(time.Hour)
	fc.BlockUntil(1)
	fc.Advance(time.Hour)
	fc.BlockUntil(1)

	_, ok := h.Lookup("ONFF-0010")
	assert.True(t, ok)

	stop()
	require.NoError(t, <-done)
}
