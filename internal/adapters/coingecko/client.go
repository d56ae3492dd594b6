// Package coingecko is the upstream gateway: one method per provider
// resource, each a single request attempt with no retries. Caching is the
// caller's concern.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// UpstreamError carries the provider's status code and a short message.
// StatusCode is 0 when the request never produced a response.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("upstream request failed: %s", e.Message)
	}
	return fmt.Sprintf("upstream status %d: %s", e.StatusCode, e.Message)
}

// Client talks to the CoinGecko REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &UpstreamError{Message: err.Error()}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Message: truncate(string(body), 200)}
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func (c *Client) Trending(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/search/trending", nil)
}

func (c *Client) GlobalMarket(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/global", nil)
}

func (c *Client) Markets(ctx context.Context, page, perPage int, currency string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("vs_currency", currency)
	q.Set("order", "market_cap_desc")
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("page", strconv.Itoa(page))
	q.Set("sparkline", "true")
	q.Set("price_change_percentage", "1h,24h,7d")
	return c.get(ctx, "/coins/markets", q)
}

func (c *Client) CoinDetail(ctx context.Context, coinID string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("localization", "false")
	q.Set("tickers", "false")
	q.Set("market_data", "true")
	q.Set("community_data", "false")
	q.Set("developer_data", "false")
	return c.get(ctx, "/coins/"+url.PathEscape(coinID), q)
}

func (c *Client) MarketChart(ctx context.Context, coinID, days, currency string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("vs_currency", currency)
	q.Set("days", days)
	return c.get(ctx, "/coins/"+url.PathEscape(coinID)+"/market_chart", q)
}

// SimplePrices returns current prices for the given coin ids in one currency.
func (c *Client) SimplePrices(ctx context.Context, coinIDs []string, currency string) (map[string]float64, error) {
	q := url.Values{}
	q.Set("ids", strings.Join(coinIDs, ","))
	q.Set("vs_currencies", currency)
	raw, err := c.get(ctx, "/simple/price", q)
	if err != nil {
		return nil, err
	}

	var parsed map[string]map[string]float64
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &UpstreamError{Message: fmt.Sprintf("decode simple prices: %v", err)}
	}

	prices := make(map[string]float64, len(parsed))
	for id, byCurrency := range parsed {
		prices[id] = byCurrency[currency]
	}
	return prices, nil
}
