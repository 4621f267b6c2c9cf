package lighter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	goTrade "github.com/MrEthical07/goTrade"
	"github.com/shopspring/decimal"
)

const testPrivateKey = "0x6b79206d6174657269616c20666f72206c696768746572207465737473212121"

func newTestBroker(t *testing.T, handler http.Handler) (*Broker, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	broker, err := New(Config{
		AccountIndex:  7,
		APIKeyIndex:   2,
		APIPrivateKey: testPrivateKey,
		SymbolMap:     map[string]int64{"BTC-USDC": 1, "ETH-USDC": 2},
		URL:           srv.URL,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { broker.Close() })
	return broker, srv
}

// decodeTx pulls the tx type and JSON payload out of a send-tx form post.
func decodeTx(t *testing.T, r *http.Request, out any) string {
	t.Helper()
	if r.URL.Path != "/api/v1/sendTx" {
		t.Fatalf("unexpected path %s", r.URL.Path)
	}
	if err := r.ParseForm(); err != nil {
		t.Fatalf("parse form: %v", err)
	}
	payload := r.PostForm.Get("tx_info")
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		t.Fatalf("decode tx_info: %v", err)
	}
	if len(r.PostForm.Get("signature")) != 64 {
		t.Fatalf("signature %q is not a 32-byte hex digest", r.PostForm.Get("signature"))
	}
	return r.PostForm.Get("tx_type")
}

func validPerpOrder() goTrade.PerpOrder {
	return goTrade.PerpOrder{
		Order: goTrade.Order{
			Symbol:      "BTC-USDC",
			Side:        goTrade.Buy,
			Type:        goTrade.Limit,
			Quantity:    decimal.RequireFromString("0.1"),
			Price:       decimal.RequireFromString("2500.50"),
			TimeInForce: goTrade.GoodTillTime,
		},
		OrderExpiry: 1_800_000_000_000,
	}
}

func TestPlaceOrderEncodesFixedPoint(t *testing.T) {
	var tx createOrderTx
	broker, _ := newTestBroker(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if txType := decodeTx(t, r, &tx); txType != "14" {
			t.Errorf("tx_type = %s, want 14", txType)
		}
		json.NewEncoder(w).Encode(txResponse{Code: 200, TxHash: "0xdeadbeef"})
	}))

	result, err := broker.PlaceOrder(context.Background(), validPerpOrder())
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if result.OrderID != "0xdeadbeef" {
		t.Fatalf("order id = %q, want tx hash", result.OrderID)
	}
	if result.Err != "" {
		t.Fatalf("unexpected venue error %q", result.Err)
	}

	if tx.AccountIndex != 7 || tx.ApiKeyIndex != 2 || tx.MarketIndex != 1 {
		t.Fatalf("unexpected routing fields: %+v", tx)
	}
	if tx.BaseAmount != 10_000_000 {
		t.Fatalf("base_amount = %d, want 0.1 scaled by 1e8", tx.BaseAmount)
	}
	if tx.Price != 250_050 {
		t.Fatalf("price = %d, want 2500.50 scaled by 100", tx.Price)
	}
	if tx.IsAsk {
		t.Fatal("buy order must not be an ask")
	}
	if tx.Type != orderTypeLimit || tx.TimeInForce != tifGoodTillTime {
		t.Fatalf("unexpected type/tif codes: %d / %d", tx.Type, tx.TimeInForce)
	}
	if tx.TriggerPrice != nilTriggerPrice {
		t.Fatalf("trigger price = %d, want nil sentinel", tx.TriggerPrice)
	}
	if tx.Nonce == 0 {
		t.Fatal("nonce must be set")
	}
}

func TestPlaceOrderTriggerAndSellSide(t *testing.T) {
	var tx createOrderTx
	broker, _ := newTestBroker(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decodeTx(t, r, &tx)
		json.NewEncoder(w).Encode(txResponse{Code: 200, TxHash: "0x1"})
	}))

	trigger := decimal.RequireFromString("2400.25")
	order := validPerpOrder()
	order.Side = goTrade.Sell
	order.Type = goTrade.StopLossLimit
	order.TriggerPrice = &trigger
	order.ReduceOnly = true

	if _, err := broker.PlaceOrder(context.Background(), order); err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if !tx.IsAsk {
		t.Fatal("sell order must be an ask")
	}
	if tx.Type != orderTypeStopLossLimit {
		t.Fatalf("type code = %d, want stop-loss-limit", tx.Type)
	}
	if tx.TriggerPrice != 240_025 {
		t.Fatalf("trigger price = %d, want 2400.25 scaled by 100", tx.TriggerPrice)
	}
	if !tx.ReduceOnly {
		t.Fatal("reduce-only flag lost")
	}
}

func TestPlaceOrderVenueRejection(t *testing.T) {
	broker, _ := newTestBroker(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(txResponse{Code: 21120, Message: "nonce too low"})
	}))

	result, err := broker.PlaceOrder(context.Background(), validPerpOrder())
	if err != nil {
		t.Fatalf("venue rejection must not be a Go error, got %v", err)
	}
	if result.Err != "nonce too low" {
		t.Fatalf("result.Err = %q", result.Err)
	}
	if result.OrderID != "" {
		t.Fatalf("rejected order must not carry an id, got %q", result.OrderID)
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	broker, _ := newTestBroker(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("invalid orders must not reach the wire")
	}))

	order := validPerpOrder()
	order.Symbol = "DOGE-USDC"
	if _, err := broker.PlaceOrder(context.Background(), order); !errors.Is(err, goTrade.ErrSymbolUnknown) {
		t.Fatalf("expected ErrSymbolUnknown, got %v", err)
	}

	order = validPerpOrder()
	order.Type = goTrade.OrderType("iceberg")
	if _, err := broker.PlaceOrder(context.Background(), order); !errors.Is(err, goTrade.ErrOrderInvalid) {
		t.Fatalf("expected ErrOrderInvalid for unknown type, got %v", err)
	}

	order = validPerpOrder()
	order.ClientOrderID = "not-a-number"
	if _, err := broker.PlaceOrder(context.Background(), order); !errors.Is(err, goTrade.ErrOrderInvalid) {
		t.Fatalf("expected ErrOrderInvalid for non-integer client id, got %v", err)
	}
}

func TestCancelOrder(t *testing.T) {
	var tx cancelOrderTx
	broker, _ := newTestBroker(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if txType := decodeTx(t, r, &tx); txType != "15" {
			t.Errorf("tx_type = %s, want 15", txType)
		}
		json.NewEncoder(w).Encode(txResponse{Code: 200, TxHash: "0x2"})
	}))

	result, err := broker.CancelOrder(context.Background(), "1:42")
	if err != nil {
		t.Fatalf("CancelOrder: %v", err)
	}
	if result.OrderID != "0x2" {
		t.Fatalf("unexpected order id %q", result.OrderID)
	}
	if tx.MarketIndex != 1 || tx.OrderIndex != 42 {
		t.Fatalf("unexpected cancel target: %+v", tx)
	}
}

func TestCancelOrderMalformedID(t *testing.T) {
	broker, _ := newTestBroker(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("malformed ids must not reach the wire")
	}))

	for _, id := range []string{"", "42", "a:42", "1:b"} {
		result, err := broker.CancelOrder(context.Background(), id)
		if err != nil {
			t.Fatalf("malformed id %q must not be a Go error, got %v", id, err)
		}
		if !strings.Contains(result.Err, "invalid order id") {
			t.Fatalf("result.Err = %q for id %q", result.Err, id)
		}
	}
}

func TestCancelAllOrdersIgnoresSymbol(t *testing.T) {
	var tx cancelAllOrdersTx
	broker, _ := newTestBroker(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if txType := decodeTx(t, r, &tx); txType != "16" {
			t.Errorf("tx_type = %s, want 16", txType)
		}
		json.NewEncoder(w).Encode(txResponse{Code: 200, TxHash: "0x3"})
	}))

	if _, err := broker.CancelAllOrders(context.Background(), "BTC-USDC"); err != nil {
		t.Fatalf("CancelAllOrders: %v", err)
	}
	if tx.TimeInForce != cancelAllTIFImmediate {
		t.Fatalf("time_in_force = %d, want immediate", tx.TimeInForce)
	}
	if tx.Time == 0 || tx.Nonce == 0 {
		t.Fatalf("time/nonce must be set: %+v", tx)
	}
}

func TestNonceIsMonotonic(t *testing.T) {
	var nonces []int64
	broker, _ := newTestBroker(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var tx createOrderTx
		decodeTx(t, r, &tx)
		nonces = append(nonces, tx.Nonce)
		json.NewEncoder(w).Encode(txResponse{Code: 200, TxHash: "0x4"})
	}))

	for i := 0; i < 3; i++ {
		if _, err := broker.PlaceOrder(context.Background(), validPerpOrder()); err != nil {
			t.Fatalf("PlaceOrder: %v", err)
		}
	}
	for i := 1; i < len(nonces); i++ {
		if nonces[i] <= nonces[i-1] {
			t.Fatalf("nonces not strictly increasing: %v", nonces)
		}
	}
}

func TestOpenOrders(t *testing.T) {
	broker, _ := newTestBroker(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/accountActiveOrders" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") == "" {
			t.Error("read endpoints require an auth token")
		}
		if r.URL.Query().Get("account_index") != "7" {
			t.Errorf("account_index = %s", r.URL.Query().Get("account_index"))
		}
		if r.URL.Query().Get("market_id") != "1" {
			t.Errorf("market_id = %s", r.URL.Query().Get("market_id"))
		}
		json.NewEncoder(w).Encode(activeOrdersResponse{Orders: []wireOrder{
			{
				OrderIndex:        42,
				MarketIndex:       1,
				Price:             "2500.50",
				InitialBaseAmount: "0.1",
				IsAsk:             true,
				Type:              "limit",
				TimeInForce:       "post-only",
				TriggerPrice:      "0",
			},
		}})
	}))

	orders, err := broker.OpenOrders(context.Background(), "BTC-USDC")
	if err != nil {
		t.Fatalf("OpenOrders: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}

	order := orders[0]
	if order.ClientOrderID != "1:42" {
		t.Fatalf("ClientOrderID = %q, want cancelable market:index id", order.ClientOrderID)
	}
	if order.Side != goTrade.Sell || order.TimeInForce != goTrade.PostOnly {
		t.Fatalf("unexpected side/tif: %s / %s", order.Side, order.TimeInForce)
	}
	if order.TriggerPrice != nil {
		t.Fatal("zero trigger price must map to nil")
	}
	if !order.Quantity.Equal(decimal.RequireFromString("0.1")) {
		t.Fatalf("unexpected quantity %s", order.Quantity)
	}
}

func TestPosition(t *testing.T) {
	broker, _ := newTestBroker(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/account" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(accountResponse{Accounts: []wireAccount{
			{Positions: []wirePosition{
				{
					MarketID:            1,
					Sign:                -1,
					Position:            "0.25",
					AvgEntryPrice:       "41000",
					UnrealizedPnL:       "-12.5",
					RealizedPnL:         "3.75",
					LiquidationPrice:    "55000",
					TotalFundingPaidOut: "0",
				},
			}},
		}})
	}))

	pos, err := broker.Position(context.Background(), "BTC-USDC")
	if err != nil {
		t.Fatalf("Position: %v", err)
	}
	if pos == nil {
		t.Fatal("expected a position")
	}
	if !pos.Quantity.Equal(decimal.RequireFromString("-0.25")) {
		t.Fatalf("short position must be negative, got %s", pos.Quantity)
	}
	if pos.LiquidationPrice == nil || !pos.LiquidationPrice.Equal(decimal.RequireFromString("55000")) {
		t.Fatalf("unexpected liquidation price %v", pos.LiquidationPrice)
	}
	if pos.FundingPaid != nil {
		t.Fatal("zero funding must map to nil")
	}

	// ETH-USDC has no entry in the account response.
	flat, err := broker.Position(context.Background(), "ETH-USDC")
	if err != nil {
		t.Fatalf("Position: %v", err)
	}
	if flat != nil {
		t.Fatalf("expected nil for a flat market, got %+v", flat)
	}
}

func TestBestBidAsk(t *testing.T) {
	broker, _ := newTestBroker(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/orderBookOrders" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(orderBookResponse{
			Bids: []wireLevel{{Price: "41999.5"}},
		})
	}))

	bid, err := broker.BestBid(context.Background(), "BTC-USDC")
	if err != nil {
		t.Fatalf("BestBid: %v", err)
	}
	if !bid.Equal(decimal.RequireFromString("41999.5")) {
		t.Fatalf("unexpected bid %s", bid)
	}

	if _, err := broker.BestAsk(context.Background(), "BTC-USDC"); err == nil {
		t.Fatal("expected an error for an empty ask side")
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	if _, err := New(Config{APIPrivateKey: testPrivateKey}); err == nil {
		t.Fatal("expected an error for an empty symbol map")
	}
	if _, err := New(Config{
		APIPrivateKey: "not-hex",
		SymbolMap:     map[string]int64{"BTC-USDC": 1},
	}); err == nil {
		t.Fatal("expected an error for a non-hex key")
	}
}
