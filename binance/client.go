package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	goTrade "github.com/MrEthical07/goTrade"
	"github.com/shopspring/decimal"
)

const (
	restBase = "https://api.binance.com"
	wsBase   = "wss://stream.binance.com:9443/ws"

	// Binance maximum klines/trades per REST request.
	pageLimit = 1_000

	apiKeyHeader = "X-MBX-APIKEY"
)

// Client is the Binance spot market data source. Construct with [New];
// the zero value is not usable. Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	restBase   string
	wsBase     string
	apiKey     string
}

// Option configures a [Client].
type Option func(*Client)

// WithAPIKey attaches the API key header to every REST request. Market data
// endpoints work without one but get a better request-weight allowance with
// it.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the default HTTP client (10 s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURLs points the client at alternate REST and WebSocket endpoints.
// Used by tests and regional mirrors.
func WithBaseURLs(rest, ws string) Option {
	return func(c *Client) {
		c.restBase = rest
		c.wsBase = ws
	}
}

// New creates a Binance spot client.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		restBase:   restBase,
		wsBase:     wsBase,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TimeBars fetches all closed time bars for symbol in [start, end],
// auto-paginating past Binance's per-request cap.
func (c *Client) TimeBars(ctx context.Context, symbol string, interval goTrade.Interval, start, end time.Time) ([]goTrade.TimeBar, error) {
	raws, err := c.fetchKlines(ctx, symbol, interval, start.UnixMilli(), end.UnixMilli())
	if err != nil {
		return nil, err
	}

	bars := make([]goTrade.TimeBar, 0, len(raws))
	for _, raw := range raws {
		bar, err := toTimeBar(raw, symbol, interval)
		if err != nil {
			return nil, err
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// VolumeBars fetches recent trades and aggregates them into volume bars.
func (c *Client) VolumeBars(ctx context.Context, symbol string, threshold decimal.Decimal, limit int) ([]goTrade.VolumeBar, error) {
	trades, err := c.recentTrades(ctx, symbol, limit)
	if err != nil {
		return nil, err
	}
	return goTrade.BuildVolumeBars(trades, threshold), nil
}

// TickBars fetches recent trades and aggregates them into tick bars.
func (c *Client) TickBars(ctx context.Context, symbol string, threshold int, limit int) ([]goTrade.TickBar, error) {
	trades, err := c.recentTrades(ctx, symbol, limit)
	if err != nil {
		return nil, err
	}
	return goTrade.BuildTickBars(trades, threshold), nil
}

// DollarBars fetches recent trades and aggregates them into dollar bars.
func (c *Client) DollarBars(ctx context.Context, symbol string, threshold decimal.Decimal, limit int) ([]goTrade.DollarBar, error) {
	trades, err := c.recentTrades(ctx, symbol, limit)
	if err != nil {
		return nil, err
	}
	return goTrade.BuildDollarBars(trades, threshold), nil
}

// Close releases idle connections. Streams hold their own connections and
// are released by canceling their contexts.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// fetchKlines pages through /api/v3/klines until the range is covered. The
// cursor advances past the close time of the last bar in each batch.
func (c *Client) fetchKlines(ctx context.Context, symbol string, interval goTrade.Interval, startMS, endMS int64) ([]RawKline, error) {
	var all []RawKline

	cursor := startMS
	for cursor < endMS {
		q := url.Values{}
		q.Set("symbol", symbol)
		q.Set("interval", string(interval))
		q.Set("startTime", strconv.FormatInt(cursor, 10))
		q.Set("endTime", strconv.FormatInt(endMS, 10))
		q.Set("limit", strconv.Itoa(pageLimit))

		var rows [][]any
		if err := c.getJSON(ctx, "/api/v3/klines", q, &rows); err != nil {
			return nil, err
		}

		for _, row := range rows {
			raw, err := parseRESTKline(row)
			if err != nil {
				return nil, err
			}
			all = append(all, raw)
		}

		if len(rows) < pageLimit {
			break
		}
		cursor = all[len(all)-1].CloseTimeMS + 1
	}

	return all, nil
}

func (c *Client) recentTrades(ctx context.Context, symbol string, limit int) ([]goTrade.Trade, error) {
	if limit <= 0 || limit > pageLimit {
		limit = pageLimit
	}

	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("limit", strconv.Itoa(limit))

	var rows []restTrade
	if err := c.getJSON(ctx, "/api/v3/trades", q, &rows); err != nil {
		return nil, err
	}

	trades := make([]goTrade.Trade, 0, len(rows))
	for _, row := range rows {
		trade, err := toTrade(rawTradeFromREST(row), symbol)
		if err != nil {
			return nil, err
		}
		trades = append(trades, trade)
	}
	return trades, nil
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.restBase+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("binance: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("binance: %s: status %d: %s", path, resp.StatusCode, body)
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("binance: %s: decode: %w", path, err)
	}
	return nil
}
