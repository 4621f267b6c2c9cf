package goTrade

import "errors"

var (
	// ErrEngineNotReady is an exported constant or variable used by the trading engine.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrMarketDataRequired is an exported constant or variable used by the trading engine.
	ErrMarketDataRequired = errors.New("market data source required")
	// ErrBrokerRequired is an exported constant or variable used by the trading engine.
	ErrBrokerRequired = errors.New("broker required")
	// ErrFundingUnsupported is an exported constant or variable used by the trading engine.
	ErrFundingUnsupported = errors.New("market data source does not provide funding rates")
	// ErrSymbolRequired is an exported constant or variable used by the trading engine.
	ErrSymbolRequired = errors.New("symbol required")
	// ErrSymbolUnknown is an exported constant or variable used by the trading engine.
	ErrSymbolUnknown = errors.New("unknown symbol")
	// ErrIntervalInvalid is an exported constant or variable used by the trading engine.
	ErrIntervalInvalid = errors.New("invalid kline interval")
	// ErrRangeInvalid is an exported constant or variable used by the trading engine.
	ErrRangeInvalid = errors.New("start must be before end")
	// ErrThresholdInvalid is an exported constant or variable used by the trading engine.
	ErrThresholdInvalid = errors.New("threshold must be positive")
	// ErrLimitInvalid is an exported constant or variable used by the trading engine.
	ErrLimitInvalid = errors.New("limit must be between 1 and 1000")
	// ErrWeightBudget is an exported constant or variable used by the trading engine.
	ErrWeightBudget = errors.New("rest weight budget exhausted")
	// ErrCacheUnavailable is an exported constant or variable used by the trading engine.
	ErrCacheUnavailable = errors.New("bar cache backend unavailable")
	// ErrExecutionDisabled is an exported constant or variable used by the trading engine.
	ErrExecutionDisabled = errors.New("execution disabled")
	// ErrOrderInvalid is an exported constant or variable used by the trading engine.
	ErrOrderInvalid = errors.New("invalid order request")
	// ErrOrderIDInvalid is an exported constant or variable used by the trading engine.
	ErrOrderIDInvalid = errors.New("invalid order id")
	// ErrOrderRejected is an exported constant or variable used by the trading engine.
	ErrOrderRejected = errors.New("order rejected by venue")
	// ErrStreamClosed is an exported constant or variable used by the trading engine.
	ErrStreamClosed = errors.New("stream closed")
)
