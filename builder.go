package goTrade

import (
	"errors"

	"github.com/MrEthical07/goTrade/internal/rate"
	"github.com/MrEthical07/goTrade/internal/stores"
	"github.com/redis/go-redis/v9"
)

// Builder defines a public type used by goTrade APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	market MarketData
	broker Broker

	auditSink AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// WithRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithMarketData describes the withmarketdata operation and its observable behavior.
//
// WithMarketData does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMarketData(md MarketData) *Builder {
	b.market = md
	return b
}

// WithBroker describes the withbroker operation and its observable behavior.
//
// WithBroker does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithBroker(broker Broker) *Builder {
	b.broker = broker
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithCacheEnabled describes the withcacheenabled operation and its observable behavior.
//
// WithCacheEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithCacheEnabled(enabled bool) *Builder {
	b.config.Cache.Enabled = enabled
	return b
}

// WithRateLimitEnabled describes the withratelimitenabled operation and its observable behavior.
//
// WithRateLimitEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRateLimitEnabled(enabled bool) *Builder {
	b.config.RateLimit.Enabled = enabled
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
//
// WithLatencyHistograms does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or venue checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if b.market == nil {
		return nil, ErrMarketDataRequired
	}

	if b.redis == nil {
		if cfg.Cache.Enabled {
			return nil, errors.New("Cache requires redis client")
		}
		if cfg.RateLimit.Enabled {
			return nil, errors.New("RateLimit requires redis client")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	engine := &Engine{
		config: cfg,
		market: b.market,
		broker: b.broker,
	}

	// Funding is an optional extension of the market data contract.
	if fs, ok := b.market.(FundingSource); ok {
		engine.funding = fs
	}

	if cfg.Cache.Enabled {
		engine.barCache = stores.NewBarCache(b.redis, cfg.Cache.RedisPrefix)
	}

	if cfg.RateLimit.Enabled {
		engine.weights = rate.New(b.redis, rate.Config{
			Enabled:         true,
			Prefix:          cfg.RateLimit.RedisPrefix,
			WeightPerMinute: cfg.RateLimit.WeightPerMinute,
		})
	}

	engine.audit = newAuditDispatcher(cfg.Audit, b.auditSink)
	engine.metrics = NewMetrics(cfg.Metrics)

	b.built = true

	return engine, nil
}
