package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-talkshow/internal/core/model"
	"github.com/penwyp/go-talkshow/internal/util"
)

const (
	DefaultBaseURL = "http://127.0.0.1:8000"
	requestTimeout = 30 * time.Second
)

// ErrNotFound is returned when the data source does not know a session
var ErrNotFound = errors.New("session not found")

// Client reads sessions, stats and timeline entries from a TalkShow data source
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for baseURL; an empty value uses the default
func NewClient(baseURL string) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid api url '%s'", baseURL)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}, nil
}

// BaseURL returns the data source root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListSessions returns the session summaries
func (c *Client) ListSessions(ctx context.Context) ([]model.Session, error) {
	var sessions []model.Session
	if err := c.get(ctx, "/api/sessions", &sessions); err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []model.Session{}
	}
	return sessions, nil
}

// GetSession returns the conversation turns of one session
func (c *Client) GetSession(ctx context.Context, id string) (*model.SessionContent, error) {
	var content model.SessionContent
	if err := c.get(ctx, "/api/sessions/"+url.PathEscape(id), &content); err != nil {
		return nil, err
	}
	return &content, nil
}

// GetStats returns the aggregate counters
func (c *Client) GetStats(ctx context.Context) (*model.Stats, error) {
	var stats model.Stats
	if err := c.get(ctx, "/api/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetTimeline returns the flat timeline entries
func (c *Client) GetTimeline(ctx context.Context) ([]model.TimelineEntry, error) {
	var entries []model.TimelineEntry
	if err := c.get(ctx, "/api/timeline", &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.TimelineEntry{}
	}
	return entries, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	endpoint := c.baseURL + path
	util.LogDebugf("GET %s", endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if err := sonic.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
