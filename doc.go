// Package goTrade provides a low-latency market data and execution engine with
// canonical bar/trade types, exchange connectors, Redis-backed bar caching and
// request-weight budgeting, and a pluggable broker contract for perpetual futures.
//
// The package is designed for concurrent workloads: Engine methods are safe to call
// from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// goTrade is the public surface. It exposes [Engine], [Builder], [Config], the
// canonical data model (Trade, TimeBar, TickBar, VolumeBar, DollarBar, FundingRate,
// PerpOrder, OrderResult, PerpPosition), and the [MarketData], [FundingSource] and
// [Broker] contracts. Exchange wiring lives in the connector packages (binance,
// binancefutures, lighter); cache encoding and weight accounting live under
// internal/ and are never exported.
//
// # What this package must NOT do
//
//   - Expose Redis clients, raw exchange payloads, or store encodings in its
//     public API.
//   - Perform I/O outside of Engine methods (construction via Builder is
//     allocation-only until Build).
//   - Import any connector package (connectors import goTrade, never the
//     reverse).
//
// # Performance contract
//
// Bar aggregation is the hot path. BuildVolumeBars, BuildTickBars and
// BuildDollarBars must not allocate beyond the returned slice and the current
// bucket. Historical fetches are allowed one Redis round-trip for the cache probe
// and one for the weight budget per call.
package goTrade
