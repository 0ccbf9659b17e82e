package digitransit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultRoutingURL = "https://api.digitransit.fi/routing/v2/waltti/gtfs/v1"
const DefaultGeocodingURL = "https://api.digitransit.fi/geocoding/v1/search"

// SubscriptionKeyHeader carries the static API credential on every request
const SubscriptionKeyHeader = "digitransit-subscription-key"

var ErrStopNotFound = errors.New("stop not found")

// StatusError is returned when the API answers with a non 2xx status
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}

// Unauthorized reports if the subscription key was rejected
func (e *StatusError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

type Client struct {
	APIKey string

	RoutingURL   string
	GeocodingURL string

	SearchBoundary Boundary

	HTTPClient *http.Client
}

func NewClient(apiKey string, timeout time.Duration) *Client {
	return &Client{
		APIKey:         apiKey,
		RoutingURL:     DefaultRoutingURL,
		GeocodingURL:   DefaultGeocodingURL,
		SearchBoundary: TampereBoundary,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set(SubscriptionKeyHeader, c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to request %s: %w", req.URL.Redacted(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: req.URL.Redacted()}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", req.URL.Redacted(), err)
	}

	return body, nil
}

func (c *Client) postGraphQL(ctx context.Context, query string) ([]byte, error) {
	payload, err := json.Marshal(graphQLRequest{Query: query})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.RoutingURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}
