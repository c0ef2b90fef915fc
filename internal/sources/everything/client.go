package everything

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"quickdash/internal/domain"
	"quickdash/internal/sources"
)

// ErrUnavailable re-exports the backend-unavailable failure class
var ErrUnavailable = sources.ErrUnavailable

// Client talks to the external disk-index search backend. Search streams
// newline-delimited JSON: zero or more batch lines while the scan runs,
// terminated by one final line carrying the authoritative result list.
type Client struct {
	log      *zap.SugaredLogger
	endpoint string
	http     *http.Client

	available atomic.Bool
	probeRate *rate.Limiter
}

type streamLine struct {
	Final        bool            `json:"final"`
	Results      []everythingHit `json:"results"`
	TotalCount   int             `json:"total_count"`
	CurrentCount int             `json:"current_count"`
}

type everythingHit struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}

type statusResponse struct {
	Available bool   `json:"available"`
	Error     string `json:"error"`
}

// New creates a disk-search client for the given endpoint
func New(log *zap.SugaredLogger, endpoint string, timeout time.Duration) *Client {
	c := &Client{
		log:      log,
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
		// Availability re-probes are one-shot and cheap, but a flapping
		// backend must not turn every failed search into a probe storm.
		probeRate: rate.NewLimiter(rate.Every(5*time.Second), 1),
	}
	c.available.Store(true)
	return c
}

// Available reports the last known availability flag
func (c *Client) Available() bool {
	return c.available.Load()
}

// Status queries the backend's status endpoint and updates the flag
func (c *Client) Status(ctx context.Context) domain.SourceStatus {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/status", nil)
	if err != nil {
		return domain.SourceStatus{Available: false, Error: err.Error()}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.available.Store(false)
		return domain.SourceStatus{Available: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	var status statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		c.available.Store(false)
		return domain.SourceStatus{Available: false, Error: err.Error()}
	}

	c.available.Store(status.Available)
	return domain.SourceStatus{Available: status.Available, Error: status.Error}
}

// Reprobe re-checks availability at most once per probe interval. Returns
// the (possibly unchanged) availability flag.
func (c *Client) Reprobe(ctx context.Context) bool {
	if !c.probeRate.Allow() {
		return c.available.Load()
	}
	status := c.Status(ctx)
	c.log.Infow("disk-search availability probed", "available", status.Available, "error", status.Error)
	return status.Available
}

// Search runs one streamed search. Batch lines are converted to tagged
// BatchEvents and sent on batches; the final line resolves the call with
// the authoritative list and count. The caller owns the channel and must
// not close it before Search returns.
func (c *Client) Search(ctx context.Context, requestID, query string, batches chan<- domain.BatchEvent) ([]domain.SearchResult, int, error) {
	u := fmt.Sprintf("%s/search?q=%s&stream=1", c.endpoint, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build search request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.available.Store(false)
		return nil, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusServiceUnavailable {
		c.available.Store(false)
		return nil, 0, ErrUnavailable
	}
	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("disk search returned status %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var sl streamLine
		if err := json.Unmarshal(line, &sl); err != nil {
			// One malformed unit must not kill the stream
			c.log.Warnw("skipping malformed batch line", "error", err)
			continue
		}

		if sl.Final {
			return convertHits(sl.Results), sl.TotalCount, nil
		}

		select {
		case batches <- domain.BatchEvent{
			RequestID:    requestID,
			Results:      convertHits(sl.Results),
			TotalCount:   sl.TotalCount,
			CurrentCount: sl.CurrentCount,
		}:
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("read search stream: %w", err)
	}

	return nil, 0, errors.New("search stream ended without final response")
}

// Launch asks the backend to open the file at path
func (c *Client) Launch(ctx context.Context, path string) error {
	return c.post(ctx, "/launch", path)
}

// Reveal asks the backend to reveal path in its folder
func (c *Client) Reveal(ctx context.Context, path string) error {
	return c.post(ctx, "/reveal", path)
}

func (c *Client) post(ctx context.Context, route, path string) error {
	body, _ := json.Marshal(map[string]string{"path": path})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+route, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d", route, resp.StatusCode)
	}
	return nil
}

func convertHits(hits []everythingHit) []domain.SearchResult {
	out := make([]domain.SearchResult, 0, len(hits))
	for _, h := range hits {
		name := h.Name
		if name == "" {
			name = filepath.Base(h.Path)
		}
		out = append(out, domain.SearchResult{
			Kind:        domain.KindEverything,
			DisplayName: name,
			Path:        h.Path,
		})
	}
	return out
}
