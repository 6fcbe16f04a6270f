// Package rmsclient talks to the records-management system that owns
// canonical incident records. The pipeline reads and writes individual
// timestamp fields through it; it never owns the incident itself.
package rmsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const defaultTimeout = 5 * time.Second

// ErrUnavailable indicates the RMS is unreachable.
var ErrUnavailable = errors.New("RMS unavailable")

// Client is an HTTP client for the RMS incident-field API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type fieldResponse struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type fieldUpdateRequest struct {
	Value string `json:"value"`
}

// NewClient creates an RMS client. A zero timeout uses the default.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetTimestampField reads one canonical timestamp field. An unset
// field comes back as the empty string, not an error.
func (c *Client) GetTimestampField(ctx context.Context, incidentID, field string) (string, error) {
	url := fmt.Sprintf("%s/api/incidents/%s/fields/%s", c.baseURL, incidentID, field)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("RMS returned %d reading %s", resp.StatusCode, field)
	}

	var result fieldResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return result.Value, nil
}

// SetTimestampField writes one canonical timestamp field.
func (c *Client) SetTimestampField(ctx context.Context, incidentID, field, valueISO string) error {
	body, err := json.Marshal(fieldUpdateRequest{Value: valueISO})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/incidents/%s/fields/%s", c.baseURL, incidentID, field)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("RMS returned %d writing %s", resp.StatusCode, field)
	}
	return nil
}

// Health checks RMS reachability.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("RMS unhealthy: %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}
