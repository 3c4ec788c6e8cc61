// Package timeapi is the client for the external clock service that
// stamps new messages.
package timeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-while/go-msgboard/internal/config"
)

// Client queries a worldtimeapi-compatible endpoint over HTTPS.
type Client struct {
	URL    string
	Client *http.Client
}

// timeResponse is the subset of the service response we consume.
type timeResponse struct {
	UTCDatetime string `json:"utc_datetime"`
}

// NewClient creates a time service client. A zero timeout falls back to
// the configured default so a stalled upstream can never hang a request
// indefinitely.
func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = config.DefaultTimeAPIURL
	}
	if timeout <= 0 {
		timeout = config.DefaultTimeAPITimeout
	}
	return &Client{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

// UTCDatetime fetches the canonical UTC timestamp string. Transport
// errors, non-2xx responses and malformed payloads all fail the call;
// there is no fallback timestamp and no retry.
func (tc *Client) UTCDatetime(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tc.URL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build time request: %w", err)
	}

	resp, err := tc.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch timestamp: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status code from time service: %d", resp.StatusCode)
	}

	var tr timeResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("failed to decode time response: %w", err)
	}
	if tr.UTCDatetime == "" {
		return "", fmt.Errorf("time response missing utc_datetime field")
	}

	return tr.UTCDatetime, nil
}
