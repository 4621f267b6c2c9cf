package goTrade

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/goTrade/internal/rate"
	"github.com/MrEthical07/goTrade/internal/stores"
)

// Engine defines a public type used by goTrade APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config   Config
	market   MarketData
	funding  FundingSource
	broker   Broker
	barCache *stores.BarCache
	weights  *rate.Limiter
	audit    *auditDispatcher
	metrics  *Metrics
}

// Close describes the close operation and its observable behavior.
//
// Close drains the audit dispatcher and closes the configured market data
// source and broker. It is safe to call more than once.
func (e *Engine) Close() error {
	if e == nil {
		return nil
	}
	if e.audit != nil {
		e.audit.Close()
	}

	var errs []error
	if e.market != nil {
		if err := e.market.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if e.broker != nil {
		if err := e.broker.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// AuditDropped describes the auditdropped operation and its observable behavior.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) metricAdd(id MetricID, n uint64) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Add(id, n)
}

func (e *Engine) observe(id MetricID, d time.Duration) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Observe(id, d)
}

// reserveWeight charges the operation against the shared REST weight budget
// when rate limiting is enabled.
func (e *Engine) reserveWeight(ctx context.Context, weight int) error {
	if e.weights == nil {
		return nil
	}
	err := e.weights.Reserve(ctx, weight)
	if errors.Is(err, rate.ErrBudgetExhausted) {
		e.metricInc(MetricWeightLimited)
		return ErrWeightBudget
	}
	return err
}
