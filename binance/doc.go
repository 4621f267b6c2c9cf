// Package binance implements the Binance spot market data source.
//
// [Client] satisfies the goTrade.MarketData contract: REST fetches
// auto-paginate in batches of 1000 (Binance's per-request cap) and WebSocket
// kline streams only emit once Binance marks a bar closed. Raw
// exchange-shaped payloads keep prices as strings until normalization so no
// exchange precision is lost.
package binance
