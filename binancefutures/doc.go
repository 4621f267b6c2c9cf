// Package binancefutures implements the Binance USD-M perpetual futures
// market data source.
//
// [Client] satisfies both goTrade.MarketData and goTrade.FundingSource. The
// REST base targets USD-M perpetuals (fapi.binance.com); all symbols use the
// USDT-margined naming convention (e.g. "BTCUSDT"). The kline payload is
// structurally identical to spot, but the package keeps its own parsers so
// import paths make the data source explicit.
package binancefutures
