package goTrade

import (
	"time"

	"github.com/shopspring/decimal"
)

// BarKind defines a public type used by goTrade APIs.
//
// BarKind instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type BarKind string

const (
	// BarKindTime is an exported constant or variable used by the trading engine.
	BarKindTime BarKind = "time"
	// BarKindTick is an exported constant or variable used by the trading engine.
	BarKindTick BarKind = "tick"
	// BarKindVolume is an exported constant or variable used by the trading engine.
	BarKindVolume BarKind = "volume"
	// BarKindDollar is an exported constant or variable used by the trading engine.
	BarKindDollar BarKind = "dollar"
)

// Interval defines a public type used by goTrade APIs.
//
// Interval instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Interval string

const (
	// Interval1m is an exported constant or variable used by the trading engine.
	Interval1m Interval = "1m"
	// Interval3m is an exported constant or variable used by the trading engine.
	Interval3m Interval = "3m"
	// Interval5m is an exported constant or variable used by the trading engine.
	Interval5m Interval = "5m"
	// Interval15m is an exported constant or variable used by the trading engine.
	Interval15m Interval = "15m"
	// Interval30m is an exported constant or variable used by the trading engine.
	Interval30m Interval = "30m"
	// Interval1h is an exported constant or variable used by the trading engine.
	Interval1h Interval = "1h"
	// Interval2h is an exported constant or variable used by the trading engine.
	Interval2h Interval = "2h"
	// Interval4h is an exported constant or variable used by the trading engine.
	Interval4h Interval = "4h"
	// Interval6h is an exported constant or variable used by the trading engine.
	Interval6h Interval = "6h"
	// Interval8h is an exported constant or variable used by the trading engine.
	Interval8h Interval = "8h"
	// Interval12h is an exported constant or variable used by the trading engine.
	Interval12h Interval = "12h"
	// Interval1d is an exported constant or variable used by the trading engine.
	Interval1d Interval = "1d"
	// Interval3d is an exported constant or variable used by the trading engine.
	Interval3d Interval = "3d"
	// Interval1w is an exported constant or variable used by the trading engine.
	Interval1w Interval = "1w"
	// Interval1M is an exported constant or variable used by the trading engine.
	Interval1M Interval = "1M"
)

// Nominal duration for each kline interval. Interval1M uses 30 days.
var intervalSeconds = map[Interval]int64{
	Interval1m:  60,
	Interval3m:  180,
	Interval5m:  300,
	Interval15m: 900,
	Interval30m: 1_800,
	Interval1h:  3_600,
	Interval2h:  7_200,
	Interval4h:  14_400,
	Interval6h:  21_600,
	Interval8h:  28_800,
	Interval12h: 43_200,
	Interval1d:  86_400,
	Interval3d:  259_200,
	Interval1w:  604_800,
	Interval1M:  2_592_000,
}

// Seconds returns the nominal duration of the interval in seconds, so
// downstream code does not have to recompute it from bar timestamps.
func (i Interval) Seconds() int64 {
	return intervalSeconds[i]
}

// Valid reports whether the interval is one of the supported kline intervals.
func (i Interval) Valid() bool {
	_, ok := intervalSeconds[i]
	return ok
}

// Trade defines a public type used by goTrade APIs.
//
// Trade instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Trade struct {
	Symbol   string
	Price    decimal.Decimal
	Quantity decimal.Decimal
	// Timestamp is the execution time (UTC).
	Timestamp time.Time
	// IsBuyerMaker is true when the buyer is the maker (the taker sold).
	IsBuyerMaker bool
}

// Bar defines a public type used by goTrade APIs.
//
// Bar is the OHLCV base embedded by every concrete bar kind. OpenTime and
// CloseTime are UTC.
type Bar struct {
	Symbol     string
	Open       decimal.Decimal
	High       decimal.Decimal
	Low        decimal.Decimal
	Close      decimal.Decimal
	Volume     decimal.Decimal
	TradeCount int
	OpenTime   time.Time
	CloseTime  time.Time
}

// TimeBar defines a public type used by goTrade APIs.
//
// TimeBar is a fixed-duration OHLCV bar. IntervalSeconds records the nominal
// duration so callers do not recompute it from OpenTime/CloseTime.
type TimeBar struct {
	Bar
	IntervalSeconds int64
}

// TickBar defines a public type used by goTrade APIs.
//
// TickBar is an OHLCV bar that closes after exactly TickThreshold trades.
type TickBar struct {
	Bar
	TickThreshold int
}

// VolumeBar defines a public type used by goTrade APIs.
//
// VolumeBar is an OHLCV bar that closes when cumulative base-asset volume
// crosses VolumeThreshold.
type VolumeBar struct {
	Bar
	VolumeThreshold decimal.Decimal
}

// DollarBar defines a public type used by goTrade APIs.
//
// DollarBar is an OHLCV bar that closes when cumulative quote-asset volume
// crosses DollarThreshold.
type DollarBar struct {
	Bar
	DollarThreshold decimal.Decimal
}

// AnyBar is satisfied by every concrete bar kind so strategies can receive
// time, tick, volume and dollar bars through one callback.
type AnyBar interface {
	BarData() Bar
	Kind() BarKind
}

// BarData describes the bardata operation and its observable behavior.
func (b TimeBar) BarData() Bar { return b.Bar }

// Kind describes the kind operation and its observable behavior.
func (b TimeBar) Kind() BarKind { return BarKindTime }

// BarData describes the bardata operation and its observable behavior.
func (b TickBar) BarData() Bar { return b.Bar }

// Kind describes the kind operation and its observable behavior.
func (b TickBar) Kind() BarKind { return BarKindTick }

// BarData describes the bardata operation and its observable behavior.
func (b VolumeBar) BarData() Bar { return b.Bar }

// Kind describes the kind operation and its observable behavior.
func (b VolumeBar) Kind() BarKind { return BarKindVolume }

// BarData describes the bardata operation and its observable behavior.
func (b DollarBar) BarData() Bar { return b.Bar }

// Kind describes the kind operation and its observable behavior.
func (b DollarBar) Kind() BarKind { return BarKindDollar }

// FundingRate defines a public type used by goTrade APIs.
//
// FundingRate is a single funding observation from a perpetual futures market.
// Timestamp is the settlement time for historical records, or the event time
// for live snapshots. NextFundingTime is only populated for live snapshots.
type FundingRate struct {
	Symbol string
	// Rate is the per-period rate, e.g. 0.0001 = 0.01%.
	Rate            decimal.Decimal
	MarkPrice       decimal.Decimal
	Timestamp       time.Time
	NextFundingTime time.Time
}
