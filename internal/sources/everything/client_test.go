package everything

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"quickdash/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(zap.NewNop().Sugar(), server.URL, 5*time.Second)
}

func collectBatches(batches <-chan domain.BatchEvent, done <-chan struct{}) []domain.BatchEvent {
	var out []domain.BatchEvent
	for {
		select {
		case ev := <-batches:
			out = append(out, ev)
		case <-done:
			for {
				select {
				case ev := <-batches:
					out = append(out, ev)
				default:
					return out
				}
			}
		}
	}
}

func TestSearchStreamsBatchesThenFinal(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "doc", r.URL.Query().Get("q"))
		w.Write([]byte(`{"results":[{"name":"a.txt","path":"/a.txt"}],"total_count":3,"current_count":1}` + "\n"))
		w.Write([]byte(`{"results":[{"name":"b.txt","path":"/b.txt"}],"total_count":3,"current_count":2}` + "\n"))
		w.Write([]byte(`{"final":true,"results":[{"path":"/a.txt"},{"path":"/b.txt"},{"path":"/c.txt"}],"total_count":3}` + "\n"))
	})

	batches := make(chan domain.BatchEvent, 16)
	done := make(chan struct{})

	var results []domain.SearchResult
	var total int
	var err error
	go func() {
		defer close(done)
		results, total, err = c.Search(context.Background(), "req-1", "doc", batches)
	}()

	collected := collectBatches(batches, done)
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, results, 3)
	require.Equal(t, "c.txt", results[2].DisplayName, "Missing name falls back to the base name")

	require.Len(t, collected, 2)
	for _, ev := range collected {
		require.Equal(t, "req-1", ev.RequestID, "Every batch is tagged with the request")
	}
	require.Equal(t, 1, collected[0].CurrentCount)
	require.Equal(t, 2, collected[1].CurrentCount)
}

func TestSearchSkipsMalformedLines(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"path":"/good"}],"total_count":1,"current_count":1}` + "\n"))
		w.Write([]byte("this is not json\n"))
		w.Write([]byte("\n"))
		w.Write([]byte(`{"final":true,"results":[{"path":"/good"}],"total_count":1}` + "\n"))
	})

	batches := make(chan domain.BatchEvent, 16)
	done := make(chan struct{})

	var results []domain.SearchResult
	var err error
	go func() {
		defer close(done)
		results, _, err = c.Search(context.Background(), "req-1", "x", batches)
	}()

	collected := collectBatches(batches, done)
	require.NoError(t, err, "A malformed unit must not kill the stream")
	require.Len(t, results, 1)
	require.Len(t, collected, 1)
}

func TestSearchUnavailableStatus(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	batches := make(chan domain.BatchEvent, 1)
	_, _, err := c.Search(context.Background(), "req-1", "x", batches)
	require.ErrorIs(t, err, ErrUnavailable)
	require.False(t, c.Available(), "503 flips the availability flag")
}

func TestSearchStreamWithoutFinalIsAnError(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"path":"/partial"}],"total_count":1,"current_count":1}` + "\n"))
	})

	batches := make(chan domain.BatchEvent, 16)
	_, _, err := c.Search(context.Background(), "req-1", "x", batches)
	require.Error(t, err)
}

func TestStatusUpdatesAvailability(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/status", r.URL.Path)
		w.Write([]byte(`{"available":false,"error":"index rebuilding"}`))
	})

	status := c.Status(context.Background())
	require.False(t, status.Available)
	require.Equal(t, "index rebuilding", status.Error)
	require.False(t, c.Available())
}

func TestReprobeIsRateLimited(t *testing.T) {
	t.Parallel()
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"available":true}`))
	})

	require.True(t, c.Reprobe(context.Background()))
	require.True(t, c.Reprobe(context.Background()), "Second probe within the interval reuses the flag")
	require.Equal(t, 1, calls, "Only one status request may hit the backend")
}

func TestLaunchPostsPath(t *testing.T) {
	t.Parallel()
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/launch", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotPath = body["path"]
	})

	require.NoError(t, c.Launch(context.Background(), "/open/me"))
	require.Equal(t, "/open/me", gotPath)
}
