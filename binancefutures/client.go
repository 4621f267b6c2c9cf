package binancefutures

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
	restBase = "https://fapi.binance.com"
	wsBase   = "wss://fstream.binance.com/ws"

	// Binance maximum klines / trades / funding records per REST request.
	pageLimit = 1_000

	apiKeyHeader = "X-MBX-APIKEY"
)

var (
	_ goTrade.MarketData    = (*Client)(nil)
	_ goTrade.FundingSource = (*Client)(nil)
)

// Client is the Binance USD-M futures market data source. Construct with
// [New]; the zero value is not usable. Safe for concurrent use.
type Client struct {
	httpClient  *http.Client
	restBase    string
	wsBase      string
	apiKey      string
	updateSpeed int
}

// Option configures a [Client].
type Option func(*Client)

// WithAPIKey attaches the API key header to every REST request.
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

// WithMarkPriceUpdateSpeed selects the mark-price stream cadence in seconds:
// 1 or 3 (default 3).
func WithMarkPriceUpdateSpeed(seconds int) Option {
	return func(c *Client) { c.updateSpeed = seconds }
}

// New creates a Binance USD-M futures client.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		restBase:    restBase,
		wsBase:      wsBase,
		updateSpeed: 3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TimeBars fetches all closed futures time bars for symbol in [start, end],
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

// VolumeBars fetches recent futures trades and aggregates them into volume bars.
func (c *Client) VolumeBars(ctx context.Context, symbol string, threshold decimal.Decimal, limit int) ([]goTrade.VolumeBar, error) {
	trades, err := c.recentTrades(ctx, symbol, limit)
	if err != nil {
		return nil, err
	}
	return goTrade.BuildVolumeBars(trades, threshold), nil
}

// TickBars fetches recent futures trades and aggregates them into tick bars.
func (c *Client) TickBars(ctx context.Context, symbol string, threshold int, limit int) ([]goTrade.TickBar, error) {
	trades, err := c.recentTrades(ctx, symbol, limit)
	if err != nil {
		return nil, err
	}
	return goTrade.BuildTickBars(trades, threshold), nil
}

// DollarBars fetches recent futures trades and aggregates them into dollar bars.
func (c *Client) DollarBars(ctx context.Context, symbol string, threshold decimal.Decimal, limit int) ([]goTrade.DollarBar, error) {
	trades, err := c.recentTrades(ctx, symbol, limit)
	if err != nil {
		return nil, err
	}
	return goTrade.BuildDollarBars(trades, threshold), nil
}

// FundingRates fetches historical funding settlements for symbol from start,
// one record per 8-hour settlement, ordered oldest-first. A zero end means
// "up to now". The endpoint paginates via startTime; the cursor advances
// past the last record's settlement time.
func (c *Client) FundingRates(ctx context.Context, symbol string, start, end time.Time) ([]goTrade.FundingRate, error) {
	var rates []goTrade.FundingRate

	cursor := start.UnixMilli()
	for {
		q := url.Values{}
		q.Set("symbol", symbol)
		q.Set("startTime", strconv.FormatInt(cursor, 10))
		q.Set("limit", strconv.Itoa(pageLimit))
		if !end.IsZero() {
			q.Set("endTime", strconv.FormatInt(end.UnixMilli(), 10))
		}

		var rows []restFundingRate
		if err := c.getJSON(ctx, "/fapi/v1/fundingRate", q, &rows); err != nil {
			return nil, err
		}

		for _, row := range rows {
			rate, err := toFundingRate(rawFundingFromREST(row))
			if err != nil {
				return nil, err
			}
			rates = append(rates, rate)
		}

		if len(rows) < pageLimit {
			break
		}
		cursor = rows[len(rows)-1].FundingTime + 1
	}

	return rates, nil
}

// CurrentFundingRate fetches the live mark price and most-recently-settled
// funding rate from /fapi/v1/premiumIndex, including the next scheduled
// settlement time.
func (c *Client) CurrentFundingRate(ctx context.Context, symbol string) (goTrade.FundingRate, error) {
	q := url.Values{}
	q.Set("symbol", symbol)

	var row restMarkPrice
	if err := c.getJSON(ctx, "/fapi/v1/premiumIndex", q, &row); err != nil {
		return goTrade.FundingRate{}, err
	}

	return toCurrentFundingRate(rawMarkPriceFromREST(row))
}

// Close releases idle connections. Streams hold their own connections and
// are released by canceling their contexts.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

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
		if err := c.getJSON(ctx, "/fapi/v1/klines", q, &rows); err != nil {
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
	if err := c.getJSON(ctx, "/fapi/v1/trades", q, &rows); err != nil {
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
		return fmt.Errorf("binancefutures: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("binancefutures: %s: status %d: %s", path, resp.StatusCode, body)
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("binancefutures: %s: decode: %w", path, err)
	}
	return nil
}
