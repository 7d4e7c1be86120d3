// Package polygon fetches daily aggregate bars from the Polygon.io REST API.
package polygon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jpillora/backoff"

	"github.com/spreadlab/calspread/market"
)

// BaseURL is the production API endpoint.
const BaseURL = "https://api.polygon.io"

const maxAttempts = 5

// Client is a Polygon.io API client for daily aggregates.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client against the production API.
func NewClient(apiKey string) *Client {
	return &Client{
		baseURL: BaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewClientWithBaseURL creates a client against a custom endpoint. Used by
// tests to point at a local server.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

// aggBar is one result in the aggregates response. Timestamps are unix
// milliseconds for the start of the window.
type aggBar struct {
	T int64   `json:"t"`
	O float64 `json:"o"`
	H float64 `json:"h"`
	L float64 `json:"l"`
	C float64 `json:"c"`
	V float64 `json:"v"`
}

type aggsResponse struct {
	Ticker       string   `json:"ticker"`
	ResultsCount int      `json:"resultsCount"`
	Results      []aggBar `json:"results"`
	Status       string   `json:"status"`
	Error        string   `json:"error,omitempty"`
}

// DailyBars fetches one daily close bar per trading day for symbol over
// [from, to] (dates inclusive). Requests hitting rate limits or transient
// server errors are retried with exponential backoff.
func (c *Client) DailyBars(ctx context.Context, symbol string, from, to time.Time) (market.Series, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if to.Before(from) {
		return nil, fmt.Errorf("to %s is before from %s", to.Format("2006-01-02"), from.Format("2006-01-02"))
	}

	endpoint := fmt.Sprintf("%s/v2/aggs/ticker/%s/range/1/day/%s/%s",
		c.baseURL,
		url.PathEscape(symbol),
		from.UTC().Format("2006-01-02"),
		to.UTC().Format("2006-01-02"),
	)

	params := url.Values{}
	params.Set("adjusted", "true")
	params.Set("sort", "asc")
	params.Set("limit", "50000")

	body, err := c.get(ctx, endpoint+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var resp aggsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode aggregates: %w", err)
	}
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("polygon: %s", resp.Error)
	}

	bars := make(market.Series, 0, len(resp.Results))
	for _, r := range resp.Results {
		bars = append(bars, market.Bar{
			Time:  time.UnixMilli(r.T).UTC(),
			Close: r.C,
		})
	}

	if err := bars.Validate(); err != nil {
		return nil, fmt.Errorf("polygon response: %w", err)
	}
	return bars, nil
}

func (c *Client) get(ctx context.Context, fullURL string) ([]byte, error) {
	b := &backoff.Backoff{
		Min:    500 * time.Millisecond,
		Max:    10 * time.Second,
		Factor: 2,
		Jitter: true,
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(b.Duration()):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return body, nil

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = fmt.Errorf("polygon: status %d: %s", resp.StatusCode, body)
			continue

		default:
			return nil, fmt.Errorf("polygon: status %d: %s", resp.StatusCode, body)
		}
	}

	return nil, fmt.Errorf("polygon: giving up after %d attempts: %w", maxAttempts, lastErr)
}
