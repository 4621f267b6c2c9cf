package binance

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	goTrade "github.com/MrEthical07/goTrade"
	"github.com/shopspring/decimal"
)

func klineRow(openMS int64, open, high, low, close, volume string, trades int) []any {
	return []any{
		openMS, open, high, low, close, volume,
		openMS + 59_999, "0", trades, "0", "0", "0",
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func TestTimeBarsPaginates(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(1_003 * time.Minute)

	var requests []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/klines" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		requests = append(requests, r.URL.Query().Get("startTime"))

		cursor, err := strconv.ParseInt(r.URL.Query().Get("startTime"), 10, 64)
		if err != nil {
			t.Errorf("bad startTime: %v", err)
		}
		endMS, _ := strconv.ParseInt(r.URL.Query().Get("endTime"), 10, 64)

		rows := make([][]any, 0, pageLimit)
		for openMS := cursor; openMS < endMS && len(rows) < pageLimit; openMS += 60_000 {
			rows = append(rows, klineRow(openMS, "100", "101", "99", "100.5", "12.5", 42))
		}
		writeJSON(t, w, rows)
	}))
	defer srv.Close()

	client := New(WithBaseURLs(srv.URL, "ws://unused"))
	defer client.Close()

	bars, err := client.TimeBars(context.Background(), "BTCUSDT", goTrade.Interval1m, start, end)
	if err != nil {
		t.Fatalf("TimeBars: %v", err)
	}

	if len(bars) != 1_003 {
		t.Fatalf("expected 1003 bars across two pages, got %d", len(bars))
	}
	if len(requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(requests))
	}

	// Second page must start just past the close of the last bar served.
	wantCursor := strconv.FormatInt(start.Add(999*time.Minute).UnixMilli()+60_000, 10)
	if requests[1] != wantCursor {
		t.Fatalf("second page cursor %s, want %s", requests[1], wantCursor)
	}

	first := bars[0]
	if first.Symbol != "BTCUSDT" {
		t.Fatalf("unexpected symbol %q", first.Symbol)
	}
	if !first.Open.Equal(decimal.RequireFromString("100")) || !first.Close.Equal(decimal.RequireFromString("100.5")) {
		t.Fatalf("unexpected open/close: %s / %s", first.Open, first.Close)
	}
	if first.TradeCount != 42 {
		t.Fatalf("unexpected trade count %d", first.TradeCount)
	}
	if !first.OpenTime.Equal(start) {
		t.Fatalf("unexpected open time %s", first.OpenTime)
	}
	if first.IntervalSeconds != 60 {
		t.Fatalf("unexpected interval seconds %d", first.IntervalSeconds)
	}
}

func TestTimeBarsRejectsMalformedRow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, [][]any{{1, "100", "101"}})
	}))
	defer srv.Close()

	client := New(WithBaseURLs(srv.URL, "ws://unused"))
	_, err := client.TimeBars(context.Background(), "BTCUSDT", goTrade.Interval1m, time.UnixMilli(0), time.UnixMilli(60_000))
	if err == nil || !strings.Contains(err.Error(), "want 11") {
		t.Fatalf("expected short-row error, got %v", err)
	}
}

func TestRecentTradesClampAndAPIKey(t *testing.T) {
	var gotLimit, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/trades" {
			http.NotFound(w, r)
			return
		}
		gotLimit = r.URL.Query().Get("limit")
		gotKey = r.Header.Get(apiKeyHeader)
		writeJSON(t, w, []restTrade{
			{ID: 1, Price: "100", Qty: "2", QuoteQty: "200", Time: 1_700_000_000_000},
			{ID: 2, Price: "101", Qty: "2", QuoteQty: "202", Time: 1_700_000_000_500, IsBuyerMaker: true},
		})
	}))
	defer srv.Close()

	client := New(WithBaseURLs(srv.URL, "ws://unused"), WithAPIKey("test-key"))
	bars, err := client.VolumeBars(context.Background(), "BTCUSDT", decimal.RequireFromString("4"), 50_000)
	if err != nil {
		t.Fatalf("VolumeBars: %v", err)
	}

	if gotLimit != strconv.Itoa(pageLimit) {
		t.Fatalf("expected limit clamped to %d, got %s", pageLimit, gotLimit)
	}
	if gotKey != "test-key" {
		t.Fatalf("expected API key header, got %q", gotKey)
	}
	if len(bars) != 1 {
		t.Fatalf("expected 1 volume bar, got %d", len(bars))
	}
	if bars[0].TradeCount != 2 {
		t.Fatalf("unexpected trade count %d", bars[0].TradeCount)
	}
}

func TestGetJSONSurfacesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
	}))
	defer srv.Close()

	client := New(WithBaseURLs(srv.URL, "ws://unused"))
	_, err := client.TickBars(context.Background(), "NOPE", 10, 100)
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if !strings.Contains(err.Error(), "418") || !strings.Contains(err.Error(), "Invalid symbol") {
		t.Fatalf("error should carry status and body, got %v", err)
	}
}

func TestParseRESTKlineFieldTypes(t *testing.T) {
	row := []any{
		json.Number("1700000000000"), "1", "2", "0.5", "1.5", "10",
		json.Number("1700000059999"), "15", json.Number("7"), "5", "7.5",
	}
	raw, err := parseRESTKline(row)
	if err != nil {
		t.Fatalf("parseRESTKline: %v", err)
	}
	if raw.OpenTimeMS != 1_700_000_000_000 || raw.CloseTimeMS != 1_700_000_059_999 {
		t.Fatalf("unexpected times: %d / %d", raw.OpenTimeMS, raw.CloseTimeMS)
	}
	if raw.TradeCount != 7 || raw.High != "2" || raw.TakerBuyQuoteVolume != "7.5" {
		t.Fatalf("unexpected fields: %+v", raw)
	}

	row[1] = 100 // numeric where a string is required
	if _, err := parseRESTKline(row); err == nil {
		t.Fatal("expected type error for numeric price field")
	}
}
