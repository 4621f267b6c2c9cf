package binancefutures

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	goTrade "github.com/MrEthical07/goTrade"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
)

func markPriceServer(t *testing.T, wantPath string, messages []string) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != wantPath {
			t.Errorf("unexpected stream path %s, want %s", r.URL.Path, wantPath)
			http.NotFound(w, r)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		for _, msg := range messages {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return
			}
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestStreamFundingRatesDefaultCadence(t *testing.T) {
	msg := `{"s":"BTCUSDT","p":"42001.20","i":"42000.80","r":"0.00025","T":1700020800000,"E":1700000000000}`

	srv := markPriceServer(t, "/btcusdt@markPrice", []string{msg})
	defer srv.Close()

	client := New(WithBaseURLs("http://unused", wsURL(srv)))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rates, errs := client.StreamFundingRates(ctx, "BTCUSDT")

	select {
	case rate, ok := <-rates:
		if !ok {
			t.Fatalf("stream closed before an update arrived: %v", <-errs)
		}
		if rate.Symbol != "BTCUSDT" {
			t.Fatalf("unexpected symbol %q", rate.Symbol)
		}
		if !rate.Rate.Equal(decimal.RequireFromString("0.00025")) {
			t.Fatalf("unexpected rate %s", rate.Rate)
		}
		if !rate.NextFundingTime.Equal(time.UnixMilli(1_700_020_800_000).UTC()) {
			t.Fatalf("unexpected next settlement %s", rate.NextFundingTime)
		}
		if !rate.Timestamp.Equal(time.UnixMilli(1_700_000_000_000).UTC()) {
			t.Fatalf("unexpected event time %s", rate.Timestamp)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no update within timeout")
	}

	cancel()
	for range rates {
	}
	if err := <-errs; err != nil {
		t.Fatalf("cancellation must not surface an error, got %v", err)
	}
}

func TestStreamFundingRatesFastCadencePath(t *testing.T) {
	msg := `{"s":"ETHUSDT","p":"2500.10","i":"2500.00","r":"-0.0001","T":1700020800000,"E":1700000000000}`

	srv := markPriceServer(t, "/ethusdt@markPrice@1s", []string{msg})
	defer srv.Close()

	client := New(WithBaseURLs("http://unused", wsURL(srv)), WithMarkPriceUpdateSpeed(1))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rates, errs := client.StreamFundingRates(ctx, "ETHUSDT")

	select {
	case rate, ok := <-rates:
		if !ok {
			t.Fatalf("stream closed before an update arrived: %v", <-errs)
		}
		if !rate.Rate.Equal(decimal.RequireFromString("-0.0001")) {
			t.Fatalf("unexpected rate %s", rate.Rate)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no update within timeout")
	}
}

func TestStreamTimeBarsFiltersPartials(t *testing.T) {
	partial := `{"k":{"t":1700000000000,"T":1700000059999,"o":"100","h":"101","l":"99","c":"100.2","v":"5","q":"500","n":10,"V":"2","Q":"200","x":false}}`
	closed := `{"k":{"t":1700000000000,"T":1700000059999,"o":"100","h":"101","l":"99","c":"100.5","v":"12","q":"1200","n":25,"V":"6","Q":"600","x":true}}`

	srv := markPriceServer(t, "/btcusdt@kline_1m", []string{partial, closed})
	defer srv.Close()

	client := New(WithBaseURLs("http://unused", wsURL(srv)))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bars, errs := client.StreamTimeBars(ctx, "BTCUSDT", goTrade.Interval1m)

	select {
	case bar, ok := <-bars:
		if !ok {
			t.Fatalf("stream closed before a bar arrived: %v", <-errs)
		}
		if !bar.Close.Equal(decimal.RequireFromString("100.5")) {
			t.Fatalf("got partial bar close %s, partials must be filtered", bar.Close)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no bar within timeout")
	}
}
