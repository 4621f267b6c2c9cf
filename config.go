package goTrade

import (
	"errors"
	"time"
)

// Config defines a public type used by goTrade APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Market    MarketConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Execution ExecutionConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
}

/*
====================================
MARKET CONFIG
====================================
*/

// MarketConfig defines a public type used by goTrade APIs.
//
// MarketConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MarketConfig struct {
	// DefaultTradeLimit is the number of recent trades fetched when a
	// caller passes limit <= 0 to the trade-derived bar operations.
	DefaultTradeLimit int
	// MaxTradeLimit caps the per-request trade fetch (1000 on Binance).
	MaxTradeLimit int
}

/*
====================================
CACHE CONFIG
====================================
*/

// CacheConfig defines a public type used by goTrade APIs.
//
// CacheConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CacheConfig struct {
	Enabled     bool
	RedisPrefix string
	TTL         time.Duration
}

/*
====================================
RATE LIMIT CONFIG
====================================
*/

// RateLimitConfig defines a public type used by goTrade APIs.
//
// RateLimitConfig budgets REST request weight per rolling minute window, the
// unit Binance meters its REST API in.
type RateLimitConfig struct {
	Enabled         bool
	RedisPrefix     string
	WeightPerMinute int
	KlineWeight     int
	TradesWeight    int
	FundingWeight   int
}

/*
====================================
EXECUTION CONFIG
====================================
*/

// ExecutionConfig defines a public type used by goTrade APIs.
//
// ExecutionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ExecutionConfig struct {
	Enabled bool
	// GenerateClientOrderIDs assigns a UUID to orders submitted without a
	// ClientOrderID so fills can be correlated in the audit trail.
	GenerateClientOrderIDs bool
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by goTrade APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by goTrade APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

func defaultConfig() Config {
	return Config{
		Market: MarketConfig{
			DefaultTradeLimit: 1_000,
			MaxTradeLimit:     1_000,
		},
		Cache: CacheConfig{
			Enabled:     false,
			RedisPrefix: "gt",
			TTL:         24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			Enabled:         false,
			RedisPrefix:     "gtw",
			WeightPerMinute: 6_000,
			KlineWeight:     2,
			TradesWeight:    10,
			FundingWeight:   1,
		},
		Execution: ExecutionConfig{
			Enabled:                true,
			GenerateClientOrderIDs: false,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	// Config carries no reference types today; the helper exists so adding
	// one later forces the copy through a single place.
	return cfg
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c Config) Validate() error {
	if c.Market.DefaultTradeLimit <= 0 {
		return errors.New("Market.DefaultTradeLimit must be > 0")
	}
	if c.Market.MaxTradeLimit <= 0 || c.Market.MaxTradeLimit > 1_000 {
		return errors.New("Market.MaxTradeLimit must be in (0, 1000]")
	}
	if c.Market.DefaultTradeLimit > c.Market.MaxTradeLimit {
		return errors.New("Market.DefaultTradeLimit must not exceed MaxTradeLimit")
	}

	if c.Cache.Enabled {
		if c.Cache.RedisPrefix == "" {
			return errors.New("Cache.RedisPrefix required when cache enabled")
		}
		if c.Cache.TTL <= 0 {
			return errors.New("Cache.TTL must be > 0 when cache enabled")
		}
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RedisPrefix == "" {
			return errors.New("RateLimit.RedisPrefix required when rate limit enabled")
		}
		if c.RateLimit.WeightPerMinute <= 0 {
			return errors.New("RateLimit.WeightPerMinute must be > 0")
		}
		if c.RateLimit.KlineWeight <= 0 || c.RateLimit.TradesWeight <= 0 || c.RateLimit.FundingWeight <= 0 {
			return errors.New("RateLimit per-operation weights must be > 0")
		}
	}

	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit.BufferSize must be > 0 when audit enabled")
	}

	return nil
}
