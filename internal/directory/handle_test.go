package directory

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oherrala/wwff-directory/internal/fetch"
	"github.com/oherrala/wwff-directory/internal/ingest"
)

const csvHeader = "reference,status,name,program,dxcc,state,county,continent," +
	"iota,iaruLocator,latitude,longitude,IUCNcat,validFrom,validTo,notes," +
	"lastMod,changeLog,reviewFlag,specialFlags,website,country,region," +
	"dxccEnum,qsoCount,lastAct"

func csvRow(reference, name string) string {
	return strings.Join([]string{
		reference, "active", name, "ONFF", "ON", "VLG", "BE-LB", "EU",
		"-", "JO21VA", "51.0", "5.6", "II", "2008-11-01", "", "",
		"2023-05-14 09:21:33", "-", "0", "-", "-", "Belgium", "Flanders",
		"209", "100", "2024-08-01",
	}, ",")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testBuilder() *ingest.Builder {
	return ingest.NewBuilder(discardLogger(), nil)
}

// upstream serves a versioned directory body with ETag validation.
type upstream struct {
	etag string
	body string
	hits int
}

func (u *upstream) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u.hits++
		if r.Header.Get("If-None-Match") == u.etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", u.etag)
		_, _ = io.WriteString(w, u.body)
	}
}

func newRemoteHandle(t *testing.T, up *upstream) *Handle {
	t.Helper()
	srv := httptest.NewServer(up.handler())
	t.Cleanup(srv.Close)

	dl := fetch.NewDownloader(srv.URL, 5*time.Second, 0, testBuilder(), discardLogger(), nil)
	h, err := OpenRemote(context.Background(), dl, discardLogger(), nil)
	require.NoError(t, err)
	return h
}

func TestOpenReader(t *testing.T) {
	input := csvHeader + "\n" + csvRow("ONFF-0010", "Hoge Kempen")
	h, err := OpenReader(strings.NewReader(input), testBuilder(), nil, discardLogger(), nil)
	require.NoError(t, err)

	e, ok := h.Lookup("onff-0010")
	require.True(t, ok)
	assert.Equal(t, "Hoge Kempen", e.Name)

	_, ok = h.Lookup("DLFF-0001")
	assert.False(t, ok)

	stats := h.Stats()
	assert.Equal(t, 1, stats.Entries)
	assert.NotEmpty(t, stats.SnapshotID)
	assert.NoError(t, h.CheckReadiness(context.Background()))
}

func TestOpenReaderFailure(t *testing.T) {
	_, err := OpenReader(failingReader{}, testBuilder(), nil, discardLogger(), nil)
	require.Error(t, err)
}

func TestOpenRemote(t *testing.T) {
	up := &upstream{etag: `"v1"`, body: csvHeader + "\n" + csvRow("ONFF-0010", "Hoge Kempen")}
	h := newRemoteHandle(t, up)

	_, ok := h.Lookup("ONFF-0010")
	assert.True(t, ok)
}

func TestOpenRemoteFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	dl := fetch.NewDownloader(srv.URL, 5*time.Second, 0, testBuilder(), discardLogger(), nil)
	_, err := OpenRemote(context.Background(), dl, discardLogger(), nil)
	require.Error(t, err)
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("not modified is a no-op", func(t *testing.T) {
		up := &upstream{etag: `"v1"`, body: csvHeader + "\n" + csvRow("ONFF-0010", "Hoge Kempen")}
		h := newRemoteHandle(t, up)

		before := h.Stats()
		snapshotBefore := h.Snapshot()

		update, err := h.Refresh(ctx)
		require.NoError(t, err)
		assert.Nil(t, update)

		// Same snapshot, same counters: nothing was re-parsed.
		assert.Same(t, snapshotBefore, h.Snapshot())
		assert.Equal(t, before, h.Stats())

		// Refresh stays idempotent under repeated no-change polls.
		update, err = h.Refresh(ctx)
		require.NoError(t, err)
		assert.Nil(t, update)
		assert.Same(t, snapshotBefore, h.Snapshot())
	})

	t.Run("new content replaces the snapshot whole", func(t *testing.T) {
		up := &upstream{etag: `"v1"`, body: csvHeader + "\n" + csvRow("ONFF-0010", "Old Name")}
		h := newRemoteHandle(t, up)

		up.etag = `"v2"`
		up.body = csvHeader + "\n" + csvRow("ONFF-0010", "New Name") + "\n" + csvRow("DLFF-0001", "Bayerischer Wald")

		update, err := h.Refresh(ctx)
		require.NoError(t, err)
		require.NotNil(t, update)
		assert.Len(t, update.Changes, 2) // one update, one addition

		e, ok := h.Lookup("ONFF-0010")
		require.True(t, ok)
		assert.Equal(t, "New Name", e.Name)
		assert.Equal(t, 2, h.Stats().Entries)
	})

	t.Run("fetch failure keeps the prior snapshot", func(t *testing.T) {
		up := &upstream{etag: `"v1"`, body: csvHeader + "\n" + csvRow("ONFF-0010", "Hoge Kempen")}
		srv := httptest.NewServer(up.handler())

		dl := fetch.NewDownloader(srv.URL, 5*time.Second, 0, testBuilder(), discardLogger(), nil)
		h, err := OpenRemote(ctx, dl, discardLogger(), nil)
		require.NoError(t, err)

		srv.Close()

		_, err = h.Refresh(ctx)
		require.Error(t, err)

		e, ok := h.Lookup("ONFF-0010")
		require.True(t, ok)
		assert.Equal(t, "Hoge Kempen", e.Name)
	})

	t.Run("refresh without a downloader is an error", func(t *testing.T) {
		input := csvHeader + "\n" + csvRow("ONFF-0010", "Hoge Kempen")
		h, err := OpenReader(strings.NewReader(input), testBuilder(), nil, discardLogger(), nil)
		require.NoError(t, err)

		_, err = h.Refresh(ctx)
		require.Error(t, err)
	})
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }
