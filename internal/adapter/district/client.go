// Package district fetches the school district's public status page.
package district

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/schoolcancelled/school-status-etl/internal/config"
)

// Client implements status.PageFetcher against the district's status page.
type Client struct {
	sourceURL  string
	userAgent  string
	maxBody    int64
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a fetcher for the configured status page.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	return &Client{
		sourceURL: cfg.SourceURL,
		userAgent: cfg.SourceUserAgent,
		maxBody:   cfg.MaxResponseSize,
		httpClient: &http.Client{
			Timeout: cfg.FetchTimeout,
		},
		logger: logger,
	}
}

// FetchPage performs one GET against the status page and returns the raw
// HTML. A cache-busting query parameter and no-cache request headers defeat
// intermediary caching; the service owns its own cache window. Bodies over
// the configured ceiling are rejected outright, never partially processed.
func (c *Client) FetchPage(ctx context.Context) (string, error) {
	u, err := url.Parse(c.sourceURL)
	if err != nil {
		return "", fmt.Errorf("parse source url: %w", err)
	}
	q := u.Query()
	q.Set("_cb", strconv.FormatInt(time.Now().UnixNano(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Cache-Control", "max-age=0")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("status page request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("status page error: status %d", resp.StatusCode)
	}

	// Read one byte past the ceiling so an exactly-at-limit body is accepted
	// and anything larger is detected without buffering the whole response.
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return "", fmt.Errorf("read status page: %w", err)
	}
	if int64(len(body)) > c.maxBody {
		return "", fmt.Errorf("status page response exceeds %d bytes", c.maxBody)
	}

	c.logger.Debug("status page fetched",
		"bytes", len(body),
		"duration", time.Since(start),
	)
	return string(body), nil
}
