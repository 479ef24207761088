// Package reports provides the HTTP client for the report service.
package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"delivery-insight-tui/internal/filter"
	"delivery-insight-tui/internal/models"
)

const (
	officesPath = "/api/offices"
	reportsPath = "/api/reports"

	// maxBodyBytes caps response reads so a misbehaving server cannot make
	// the dashboard balloon.
	maxBodyBytes = 4 << 20
)

// Client talks to the delivery report service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a report service client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Offices fetches the office directory. The server returns the list in
// display order; the order is preserved.
func (c *Client) Offices(ctx context.Context) ([]models.Office, error) {
	var offices []models.Office
	if err := c.getJSON(ctx, c.baseURL+officesPath, &offices); err != nil {
		return nil, fmt.Errorf("office directory request failed: %w", err)
	}
	return offices, nil
}

// Report fetches the report for a filter state. The filter's canonical
// query string is the request query string.
func (c *Client) Report(ctx context.Context, f filter.State) (*models.ReportData, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	endpoint := c.baseURL + reportsPath + "?" + f.Encode()
	var report models.ReportData
	if err := c.getJSON(ctx, endpoint, &report); err != nil {
		return nil, fmt.Errorf("report request failed: %w", err)
	}
	return &report, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	if _, err := url.Parse(endpoint); err != nil {
		return fmt.Errorf("bad endpoint %q: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	// Anything outside 2xx is a failure, regardless of body.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(truncate(string(body), 200)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
