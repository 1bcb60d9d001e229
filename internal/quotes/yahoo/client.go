// Package yahoo provides a quote provider backed by the Yahoo Finance chart
// API. It implements the quotes.Provider capability: current quotes,
// historical closing ranges, and dividend events.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/somesh-13/leaderBoardProject-sub001/internal/apperrors"
	"github.com/somesh-13/leaderBoardProject-sub001/internal/model"
)

const (
	DefaultBaseURL   = "https://query1.finance.yahoo.com"
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// Client talks to the Yahoo Finance chart API. Every request goes through a
// rate limiter so a burst of lookups cannot trip the provider's ceiling.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithRateLimit sets the per-second request ceiling
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// NewClient creates a new Yahoo Finance client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// GetQuote fetches the current price snapshot for a symbol from the chart
// metadata of a 1-day-interval query.
func (c *Client) GetQuote(ctx context.Context, symbol string) (model.Quote, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=5d", c.baseURL, symbol)

	result, err := c.query(ctx, url)
	if err != nil {
		return model.Quote{}, err
	}

	meta := result.Chart.Result[0].Meta
	if meta.RegularMarketPrice == 0 {
		return model.Quote{}, fmt.Errorf("%w: %s", apperrors.ErrNoData, symbol)
	}

	change := 0.0
	if meta.ChartPreviousClose != 0 {
		change = (meta.RegularMarketPrice - meta.ChartPreviousClose) / meta.ChartPreviousClose * 100
	}

	asOf := time.Now().UTC()
	if meta.RegularMarketTime > 0 {
		asOf = time.Unix(meta.RegularMarketTime, 0).UTC()
	}

	return model.Quote{
		Symbol:        meta.Symbol,
		Price:         meta.RegularMarketPrice,
		ChangePercent: change,
		PreviousClose: meta.ChartPreviousClose,
		AsOf:          asOf,
	}, nil
}

// GetHistoricalRange fetches daily closing prices for the trading days inside
// [from, to]. Days without a close (market holidays mid-range) are skipped.
func (c *Client) GetHistoricalRange(ctx context.Context, symbol string, from, to time.Time) ([]model.ClosingPrice, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		c.baseURL, symbol, from.Unix(), to.Unix())

	result, err := c.query(ctx, url)
	if err != nil {
		return nil, err
	}

	chart := result.Chart.Result[0]
	if len(chart.Timestamp) == 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNoData, symbol)
	}
	if len(chart.Indicators.Quote) == 0 || len(chart.Indicators.Quote[0].Close) != len(chart.Timestamp) {
		return nil, fmt.Errorf("mismatched data lengths for %s", symbol)
	}

	closes := make([]model.ClosingPrice, 0, len(chart.Timestamp))
	for i, ts := range chart.Timestamp {
		closePrice := chart.Indicators.Quote[0].Close[i]
		if closePrice == 0 {
			continue
		}
		closes = append(closes, model.ClosingPrice{
			Date:  time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Close: closePrice,
		})
	}

	return closes, nil
}

// GetDividends fetches the dividend events inside [from, to].
func (c *Client) GetDividends(ctx context.Context, symbol string, from, to time.Time) ([]model.Dividend, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d&events=div",
		c.baseURL, symbol, from.Unix(), to.Unix())

	result, err := c.query(ctx, url)
	if err != nil {
		return nil, err
	}

	events := result.Chart.Result[0].Events.Dividends
	dividends := make([]model.Dividend, 0, len(events))
	for _, d := range events {
		dividends = append(dividends, model.Dividend{
			Date:   time.Unix(d.Date, 0).UTC(),
			Amount: d.Amount,
		})
	}

	return dividends, nil
}

// query performs a rate-limited GET against the chart API and validates the
// response envelope.
func (c *Client) query(ctx context.Context, url string) (Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Response{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Response{}, fmt.Errorf("failed to create request: %w", err)
	}
	// Yahoo rejects requests without a browser-like user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; leaderboard/1.0)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return Response{}, fmt.Errorf("%w: status %d", apperrors.ErrRateLimited, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return Response{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var result Response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Response{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if result.Chart.Error != nil {
		return Response{}, fmt.Errorf("yahoo API error: %s: %s", result.Chart.Error.Code, result.Chart.Error.Description)
	}
	if len(result.Chart.Result) == 0 {
		return Response{}, apperrors.ErrNoData
	}

	return result, nil
}
