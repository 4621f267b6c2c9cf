package goTrade

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// MarketData defines a public type used by goTrade APIs.
//
// MarketData is the contract every exchange data source must fulfill.
// Concrete implementations (e.g. binance.Client) hide all connector and
// normalization wiring so callers only deal with canonical types.
//
// Stream methods return a value channel and an error channel. Both channels
// are closed when the stream ends; the error channel receives at most one
// error before closing, and stays empty when the stream ends because ctx was
// canceled.
type MarketData interface {
	TimeBars(ctx context.Context, symbol string, interval Interval, start, end time.Time) ([]TimeBar, error)
	VolumeBars(ctx context.Context, symbol string, threshold decimal.Decimal, limit int) ([]VolumeBar, error)
	TickBars(ctx context.Context, symbol string, threshold int, limit int) ([]TickBar, error)
	DollarBars(ctx context.Context, symbol string, threshold decimal.Decimal, limit int) ([]DollarBar, error)

	StreamTimeBars(ctx context.Context, symbol string, interval Interval) (<-chan TimeBar, <-chan error)
	StreamTrades(ctx context.Context, symbol string) (<-chan Trade, <-chan error)

	Close() error
}

// FundingSource defines a public type used by goTrade APIs.
//
// FundingSource is implemented by perpetual-futures data sources that expose
// funding rates in addition to the MarketData surface. Historical records are
// ordered oldest-first, one per settlement period.
type FundingSource interface {
	FundingRates(ctx context.Context, symbol string, start, end time.Time) ([]FundingRate, error)
	CurrentFundingRate(ctx context.Context, symbol string) (FundingRate, error)
	StreamFundingRates(ctx context.Context, symbol string) (<-chan FundingRate, <-chan error)
}

// Broker defines a public type used by goTrade APIs.
//
// Broker is the contract every execution venue must fulfill. Symbols follow
// the unified naming convention; each broker resolves them natively. Always
// inspect OrderResult.Err in addition to the returned error: transport
// failures surface as errors, venue rejections in the result.
type Broker interface {
	// PlaceOrder signs and submits the order.
	PlaceOrder(ctx context.Context, order PerpOrder) (OrderResult, error)
	// CancelOrder cancels the open order identified by orderID, which must
	// be a value returned by a prior PlaceOrder or OpenOrders call.
	CancelOrder(ctx context.Context, orderID string) (OrderResult, error)
	// CancelAllOrders cancels every open order, optionally filtered to
	// symbol. Brokers that do not support per-symbol cancellation cancel
	// all markets and document that behavior.
	CancelAllOrders(ctx context.Context, symbol string) (OrderResult, error)
	// OpenOrders returns all open orders, optionally filtered to symbol
	// (empty string = all markets).
	OpenOrders(ctx context.Context, symbol string) ([]PerpOrder, error)
	// Position returns the current position for symbol, or nil when flat.
	Position(ctx context.Context, symbol string) (*PerpPosition, error)

	Close() error
}
