package internaldefs

import (
	goTrade "github.com/MrEthical07/goTrade"
)

// CounterDef defines a public type used by goTrade APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   goTrade.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by goTrade APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   goTrade.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the trading engine.
var CounterDefs = []CounterDef{
	{ID: goTrade.MetricTimeBarsFetched, Name: "gotrade_time_bars_fetched_total", Help: "Time bars fetched from exchanges."},
	{ID: goTrade.MetricTimeBarsCacheHit, Name: "gotrade_time_bars_cache_hit_total", Help: "Time bar requests served from cache."},
	{ID: goTrade.MetricTimeBarsCacheMiss, Name: "gotrade_time_bars_cache_miss_total", Help: "Time bar requests that missed the cache."},
	{ID: goTrade.MetricCacheWriteFailure, Name: "gotrade_cache_write_failure_total", Help: "Failed bar cache writes."},
	{ID: goTrade.MetricTradeBarsBuilt, Name: "gotrade_trade_bars_built_total", Help: "Volume, tick and dollar bars built from trades."},
	{ID: goTrade.MetricWeightLimited, Name: "gotrade_weight_limited_total", Help: "Requests denied by the weight budget."},
	{ID: goTrade.MetricFundingFetched, Name: "gotrade_funding_fetched_total", Help: "Funding rate records fetched."},
	{ID: goTrade.MetricStreamBars, Name: "gotrade_stream_bars_total", Help: "Bars delivered over live streams."},
	{ID: goTrade.MetricStreamTrades, Name: "gotrade_stream_trades_total", Help: "Trades delivered over live streams."},
	{ID: goTrade.MetricStreamFunding, Name: "gotrade_stream_funding_total", Help: "Funding updates delivered over live streams."},
	{ID: goTrade.MetricStreamErrors, Name: "gotrade_stream_errors_total", Help: "Live streams terminated by an error."},
	{ID: goTrade.MetricOrdersPlaced, Name: "gotrade_orders_placed_total", Help: "Orders accepted by the venue."},
	{ID: goTrade.MetricOrdersRejected, Name: "gotrade_orders_rejected_total", Help: "Orders rejected by the venue."},
	{ID: goTrade.MetricOrderFailures, Name: "gotrade_order_failures_total", Help: "Order submissions that failed in transport."},
	{ID: goTrade.MetricOrdersCanceled, Name: "gotrade_orders_canceled_total", Help: "Canceled orders."},
	{ID: goTrade.MetricCancelAll, Name: "gotrade_cancel_all_total", Help: "Cancel-all operations."},
}

// HistogramDefs is an exported constant or variable used by the trading engine.
var HistogramDefs = []HistogramDef{
	{ID: goTrade.MetricFetchLatency, Name: "gotrade_fetch_latency_seconds", Help: "Market data fetch latency histogram."},
	{ID: goTrade.MetricOrderLatency, Name: "gotrade_order_latency_seconds", Help: "Order placement latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the trading engine.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the trading engine.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
