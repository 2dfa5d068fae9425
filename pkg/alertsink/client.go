package alertsink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// DefaultTimeout bounds how long a single dispatch call may block,
// matching the reference implementation's httpx.Client(timeout=5.0).
const DefaultTimeout = 5 * time.Second

// Client posts AlertRecords to the alert-sink's ingest endpoint.
// Dispatch is best-effort: transport failures and non-2xx responses
// are logged and dropped, never retried — the pipeline treats the
// sink as an external collaborator that must never block the frame
// loop's forward progress.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *log.Logger
}

// NewClient constructs a Client posting to {baseURL}/api/alerts with
// DefaultTimeout.
func NewClient(baseURL string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		Logger:     logger,
	}
}

// Dispatch posts one alert record. It returns an error only for
// request-construction failures (a bug in the caller); network
// failures and non-2xx responses are logged and return nil, since the
// frame loop must never treat a best-effort dispatch failure as fatal.
func (c *Client) Dispatch(ctx context.Context, record AlertRecord) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshaling alert record: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/alerts", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building dispatch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Logger.Printf("alert dispatch failed (sink unreachable): %v", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		c.Logger.Printf("WARN alert dispatch failed: HTTP %d — %s", resp.StatusCode, string(respBody))
		return nil
	}

	c.Logger.Printf("alert dispatched: %s (object_id=%d)", record.ViolationType, record.ObjectID)
	return nil
}
