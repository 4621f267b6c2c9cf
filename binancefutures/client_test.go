package binancefutures

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	goTrade "github.com/MrEthical07/goTrade"
	"github.com/shopspring/decimal"
)

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func TestFundingRatesPaginates(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	settlement := 8 * time.Hour
	total := pageLimit + 5

	var cursors []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fapi/v1/fundingRate" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		cursors = append(cursors, r.URL.Query().Get("startTime"))
		if r.URL.Query().Get("endTime") != "" {
			t.Error("zero end must omit endTime")
		}

		cursor, err := strconv.ParseInt(r.URL.Query().Get("startTime"), 10, 64)
		if err != nil {
			t.Errorf("bad startTime: %v", err)
		}

		var rows []restFundingRate
		for ts := start.UnixMilli(); len(rows) < pageLimit; ts += settlement.Milliseconds() {
			if ts < cursor {
				continue
			}
			seq := (ts - start.UnixMilli()) / settlement.Milliseconds()
			if seq >= int64(total) {
				break
			}
			rows = append(rows, restFundingRate{
				Symbol:      "BTCUSDT",
				FundingTime: ts,
				FundingRate: "0.0001",
				MarkPrice:   "42000.5",
			})
		}
		writeJSON(t, w, rows)
	}))
	defer srv.Close()

	client := New(WithBaseURLs(srv.URL, "ws://unused"))
	defer client.Close()

	rates, err := client.FundingRates(context.Background(), "BTCUSDT", start, time.Time{})
	if err != nil {
		t.Fatalf("FundingRates: %v", err)
	}

	if len(rates) != total {
		t.Fatalf("expected %d rates across two pages, got %d", total, len(rates))
	}
	if len(cursors) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(cursors))
	}
	wantCursor := strconv.FormatInt(start.Add(time.Duration(pageLimit-1)*settlement).UnixMilli()+1, 10)
	if cursors[1] != wantCursor {
		t.Fatalf("second page cursor %s, want %s", cursors[1], wantCursor)
	}

	first := rates[0]
	if !first.Rate.Equal(decimal.RequireFromString("0.0001")) {
		t.Fatalf("unexpected rate %s", first.Rate)
	}
	if !first.MarkPrice.Equal(decimal.RequireFromString("42000.5")) {
		t.Fatalf("unexpected mark price %s", first.MarkPrice)
	}
	if !first.Timestamp.Equal(start) {
		t.Fatalf("unexpected settlement time %s", first.Timestamp)
	}
	if !first.NextFundingTime.IsZero() {
		t.Fatal("historical records must not carry a next settlement time")
	}
}

func TestFundingRatesEmptyMarkPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []restFundingRate{
			{Symbol: "BTCUSDT", FundingTime: 1_700_000_000_000, FundingRate: "-0.0003"},
		})
	}))
	defer srv.Close()

	client := New(WithBaseURLs(srv.URL, "ws://unused"))
	rates, err := client.FundingRates(context.Background(), "BTCUSDT", time.UnixMilli(0), time.Time{})
	if err != nil {
		t.Fatalf("FundingRates: %v", err)
	}
	if len(rates) != 1 {
		t.Fatalf("expected 1 rate, got %d", len(rates))
	}
	if !rates[0].MarkPrice.IsZero() {
		t.Fatalf("missing mark price should decode to zero, got %s", rates[0].MarkPrice)
	}
	if !rates[0].Rate.Equal(decimal.RequireFromString("-0.0003")) {
		t.Fatalf("unexpected rate %s", rates[0].Rate)
	}
}

func TestCurrentFundingRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fapi/v1/premiumIndex" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("symbol") != "BTCUSDT" {
			t.Errorf("unexpected symbol %s", r.URL.Query().Get("symbol"))
		}
		writeJSON(t, w, restMarkPrice{
			Symbol:          "BTCUSDT",
			MarkPrice:       "42001.20",
			IndexPrice:      "42000.80",
			LastFundingRate: "0.00025",
			NextFundingTime: 1_700_020_800_000,
			Time:            1_700_000_000_000,
		})
	}))
	defer srv.Close()

	client := New(WithBaseURLs(srv.URL, "ws://unused"))
	rate, err := client.CurrentFundingRate(context.Background(), "BTCUSDT")
	if err != nil {
		t.Fatalf("CurrentFundingRate: %v", err)
	}

	if !rate.Rate.Equal(decimal.RequireFromString("0.00025")) {
		t.Fatalf("unexpected rate %s", rate.Rate)
	}
	if !rate.MarkPrice.Equal(decimal.RequireFromString("42001.20")) {
		t.Fatalf("unexpected mark price %s", rate.MarkPrice)
	}
	if !rate.NextFundingTime.Equal(time.UnixMilli(1_700_020_800_000).UTC()) {
		t.Fatalf("unexpected next settlement %s", rate.NextFundingTime)
	}
}

func TestTimeBarsSinglePage(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fapi/v1/klines" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		writeJSON(t, w, [][]any{
			{start.UnixMilli(), "100", "102", "98", "101", "7.5",
				start.UnixMilli() + 59_999, "755", 19, "3", "301", "0"},
		})
	}))
	defer srv.Close()

	client := New(WithBaseURLs(srv.URL, "ws://unused"))
	bars, err := client.TimeBars(context.Background(), "BTCUSDT", goTrade.Interval1m, start, start.Add(time.Minute))
	if err != nil {
		t.Fatalf("TimeBars: %v", err)
	}
	if len(bars) != 1 {
		t.Fatalf("expected 1 bar, got %d", len(bars))
	}
	bar := bars[0]
	if !bar.High.Equal(decimal.RequireFromString("102")) || !bar.Low.Equal(decimal.RequireFromString("98")) {
		t.Fatalf("unexpected high/low: %s / %s", bar.High, bar.Low)
	}
	if bar.TradeCount != 19 {
		t.Fatalf("unexpected trade count %d", bar.TradeCount)
	}
}
