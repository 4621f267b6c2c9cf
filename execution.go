package goTrade

import "github.com/shopspring/decimal"

// OrderSide defines a public type used by goTrade APIs.
//
// OrderSide instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type OrderSide string

const (
	// Buy is an exported constant or variable used by the trading engine.
	Buy OrderSide = "buy"
	// Sell is an exported constant or variable used by the trading engine.
	Sell OrderSide = "sell"
)

// OrderType defines a public type used by goTrade APIs.
//
// OrderType instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type OrderType string

const (
	// Limit is an exported constant or variable used by the trading engine.
	Limit OrderType = "limit"
	// Market is an exported constant or variable used by the trading engine.
	Market OrderType = "market"
	// StopLoss is an exported constant or variable used by the trading engine.
	StopLoss OrderType = "stop-loss"
	// StopLossLimit is an exported constant or variable used by the trading engine.
	StopLossLimit OrderType = "stop-loss-limit"
	// TakeProfit is an exported constant or variable used by the trading engine.
	TakeProfit OrderType = "take-profit"
	// TakeProfitLimit is an exported constant or variable used by the trading engine.
	TakeProfitLimit OrderType = "take-profit-limit"
)

// TimeInForce defines a public type used by goTrade APIs.
//
// TimeInForce instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TimeInForce string

const (
	// GoodTillTime is an exported constant or variable used by the trading engine.
	GoodTillTime TimeInForce = "good-till-time"
	// ImmediateOrCancel is an exported constant or variable used by the trading engine.
	ImmediateOrCancel TimeInForce = "immediate-or-cancel"
	// PostOnly is an exported constant or variable used by the trading engine.
	PostOnly TimeInForce = "post-only"
)

// OrderExpiryDefault keeps a resting order alive for the venue default
// window (28 days on Lighter); OrderExpiryImmediate expires it immediately.
const (
	// OrderExpiryDefault is an exported constant or variable used by the trading engine.
	OrderExpiryDefault int64 = -1
	// OrderExpiryImmediate is an exported constant or variable used by the trading engine.
	OrderExpiryImmediate int64 = 0
)

// Order defines a public type used by goTrade APIs.
//
// Order is the venue-agnostic order request base. Symbol uses the unified
// naming convention; each broker resolves it to its native format internally
// (e.g. "ETH-USDC" resolves to an integer market index on Lighter). Quantity
// is in base-asset units. ClientOrderID is an optional caller-assigned label
// that brokers echo back; its format is broker-specific.
type Order struct {
	Symbol        string
	Side          OrderSide
	Type          OrderType
	Quantity      decimal.Decimal
	Price         decimal.Decimal
	TimeInForce   TimeInForce
	ClientOrderID string
}

// PerpOrder defines a public type used by goTrade APIs.
//
// PerpOrder extends Order with perpetual-futures fields. TriggerPrice is nil
// for non-triggered order types. OrderExpiry follows the Lighter convention:
// OrderExpiryDefault (-1) for the 28-day default, OrderExpiryImmediate (0)
// for IOC-style immediate expiry.
type PerpOrder struct {
	Order
	ReduceOnly   bool
	TriggerPrice *decimal.Decimal
	OrderExpiry  int64
}

// OrderResult defines a public type used by goTrade APIs.
//
// OrderID is the venue-assigned identifier. For Lighter it is the ZK rollup
// tx hash on placement; brokers that require separate market and order
// indices to cancel encode both as "{market}:{index}". Order echoes the
// submitted request and is nil for cancels. Err carries a venue-level
// rejection; transport failures surface as Go errors instead.
type OrderResult struct {
	OrderID string
	Order   *PerpOrder
	Err     string
}

// OK reports whether the venue accepted the transaction without error.
func (r OrderResult) OK() bool {
	return r.Err == ""
}

// Position defines a public type used by goTrade APIs.
//
// Quantity is signed: positive = long, negative = short.
type Position struct {
	Symbol        string
	Quantity      decimal.Decimal
	AvgEntryPrice decimal.Decimal
	UnrealizedPnL decimal.Decimal
	RealizedPnL   decimal.Decimal
}

// PerpPosition defines a public type used by goTrade APIs.
//
// PerpPosition extends Position with perpetual-futures fields. Pointer fields
// are nil when the venue does not report them.
type PerpPosition struct {
	Position
	LiquidationPrice *decimal.Decimal
	FundingPaid      *decimal.Decimal
	MarkPrice        *decimal.Decimal
}
