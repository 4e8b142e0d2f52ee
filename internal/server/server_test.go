package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-talkshow/internal/core/model"
	"github.com/penwyp/go-talkshow/internal/data/source"
	"github.com/penwyp/go-talkshow/internal/data/store"
	"github.com/penwyp/go-talkshow/internal/testing/fixtures"
)

var evening = time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC)

func loadedStore(t *testing.T) *store.Store {
	t.Helper()
	g := fixtures.NewTestDataGenerator(t.TempDir())
	path, err := g.GenerateSimpleStorage("web_sessions.json", evening)
	require.NoError(t, err)

	s := store.New(path)
	require.NoError(t, s.Load())
	return s
}

func TestHandler_Endpoints(t *testing.T) {
	st := loadedStore(t)
	ts := httptest.NewServer(NewHandler(st))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/sessions")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var sessions []model.Session
	require.NoError(t, sonic.Unmarshal(body, &sessions))
	assert.Len(t, sessions, 3)
}

func TestHandler_UnknownSession(t *testing.T) {
	ts := httptest.NewServer(NewHandler(loadedStore(t)))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/sessions/nope.md")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp2, err := http.Post(ts.URL+"/api/stats", "application/json", nil)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp2.StatusCode)
}

func TestServer_ServesClient(t *testing.T) {
	st := loadedStore(t)
	srv, err := Start("127.0.0.1:0", st)
	require.NoError(t, err)
	defer srv.Shutdown(context.Background())

	client, err := source.NewClient(srv.URL())
	require.NoError(t, err)
	ctx := context.Background()

	sessions, err := client.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 3)

	content, err := client.GetSession(ctx, sessions[0].ID)
	require.NoError(t, err)
	assert.Len(t, content.QAPairs, 3)

	_, err = client.GetSession(ctx, "unknown.md")
	assert.ErrorIs(t, err, source.ErrNotFound)

	stats, err := client.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, stats.TotalQAPairs)

	timeline, err := client.GetTimeline(ctx)
	require.NoError(t, err)
	assert.Len(t, timeline, 3)
}

func TestServer_Shutdown(t *testing.T) {
	srv, err := Start("127.0.0.1:0", loadedStore(t))
	require.NoError(t, err)

	require.NoError(t, srv.Shutdown(context.Background()))
	require.NoError(t, srv.Shutdown(context.Background()), "second shutdown is a no-op")

	_, open := <-srv.Err()
	assert.False(t, open)
}
