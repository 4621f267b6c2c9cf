package goTrade

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/goTrade/internal/stores"
	"github.com/shopspring/decimal"
)

// TimeBars describes the timebars operation and its observable behavior.
//
// TimeBars fetches all closed time bars for symbol in [start, end]. When the
// bar cache is enabled, an exact-range cache hit skips the exchange entirely;
// a miss fetches, then repopulates the cache. Cache backend failures degrade
// to a plain fetch and are never surfaced to the caller.
func (e *Engine) TimeBars(ctx context.Context, symbol string, interval Interval, start, end time.Time) ([]TimeBar, error) {
	if e == nil || e.market == nil {
		return nil, ErrEngineNotReady
	}
	if symbol == "" {
		return nil, ErrSymbolRequired
	}
	if !interval.Valid() {
		return nil, ErrIntervalInvalid
	}
	if !start.Before(end) {
		return nil, ErrRangeInvalid
	}

	started := time.Now()
	startMS := start.UnixMilli()
	endMS := end.UnixMilli()

	if e.barCache != nil {
		records, err := e.barCache.Get(ctx, symbol, string(interval), startMS, endMS)
		if err == nil {
			bars, convErr := timeBarsFromRecords(symbol, interval, records)
			if convErr == nil {
				e.metricInc(MetricTimeBarsCacheHit)
				e.observe(MetricFetchLatency, time.Since(started))
				return bars, nil
			}
			// Undecodable payload: fall through and refetch.
			e.metricInc(MetricTimeBarsCacheMiss)
		} else {
			e.metricInc(MetricTimeBarsCacheMiss)
		}
	}

	if err := e.reserveWeight(ctx, e.config.RateLimit.KlineWeight); err != nil {
		return nil, err
	}

	bars, err := e.market.TimeBars(ctx, symbol, interval, start, end)
	if err != nil {
		return nil, err
	}
	e.metricAdd(MetricTimeBarsFetched, uint64(len(bars)))

	if e.barCache != nil {
		if err := e.barCache.Put(ctx, symbol, string(interval), startMS, endMS, recordsFromTimeBars(bars), e.config.Cache.TTL); err != nil {
			e.metricInc(MetricCacheWriteFailure)
		}
	}

	e.observe(MetricFetchLatency, time.Since(started))
	return bars, nil
}

// VolumeBars describes the volumebars operation and its observable behavior.
//
// VolumeBars fetches recent trades and aggregates them into volume bars.
// limit <= 0 uses Market.DefaultTradeLimit.
func (e *Engine) VolumeBars(ctx context.Context, symbol string, threshold decimal.Decimal, limit int) ([]VolumeBar, error) {
	limit, err := e.tradeBarArgs(symbol, limit)
	if err != nil {
		return nil, err
	}
	if !threshold.IsPositive() {
		return nil, ErrThresholdInvalid
	}
	if err := e.reserveWeight(ctx, e.config.RateLimit.TradesWeight); err != nil {
		return nil, err
	}

	bars, err := e.market.VolumeBars(ctx, symbol, threshold, limit)
	if err != nil {
		return nil, err
	}
	e.metricAdd(MetricTradeBarsBuilt, uint64(len(bars)))
	return bars, nil
}

// TickBars describes the tickbars operation and its observable behavior.
//
// TickBars fetches recent trades and aggregates them into tick bars.
// limit <= 0 uses Market.DefaultTradeLimit.
func (e *Engine) TickBars(ctx context.Context, symbol string, threshold int, limit int) ([]TickBar, error) {
	limit, err := e.tradeBarArgs(symbol, limit)
	if err != nil {
		return nil, err
	}
	if threshold <= 0 {
		return nil, ErrThresholdInvalid
	}
	if err := e.reserveWeight(ctx, e.config.RateLimit.TradesWeight); err != nil {
		return nil, err
	}

	bars, err := e.market.TickBars(ctx, symbol, threshold, limit)
	if err != nil {
		return nil, err
	}
	e.metricAdd(MetricTradeBarsBuilt, uint64(len(bars)))
	return bars, nil
}

// DollarBars describes the dollarbars operation and its observable behavior.
//
// DollarBars fetches recent trades and aggregates them into dollar bars.
// limit <= 0 uses Market.DefaultTradeLimit.
func (e *Engine) DollarBars(ctx context.Context, symbol string, threshold decimal.Decimal, limit int) ([]DollarBar, error) {
	limit, err := e.tradeBarArgs(symbol, limit)
	if err != nil {
		return nil, err
	}
	if !threshold.IsPositive() {
		return nil, ErrThresholdInvalid
	}
	if err := e.reserveWeight(ctx, e.config.RateLimit.TradesWeight); err != nil {
		return nil, err
	}

	bars, err := e.market.DollarBars(ctx, symbol, threshold, limit)
	if err != nil {
		return nil, err
	}
	e.metricAdd(MetricTradeBarsBuilt, uint64(len(bars)))
	return bars, nil
}

func (e *Engine) tradeBarArgs(symbol string, limit int) (int, error) {
	if e == nil || e.market == nil {
		return 0, ErrEngineNotReady
	}
	if symbol == "" {
		return 0, ErrSymbolRequired
	}
	if limit <= 0 {
		limit = e.config.Market.DefaultTradeLimit
	}
	if limit > e.config.Market.MaxTradeLimit {
		return 0, ErrLimitInvalid
	}
	return limit, nil
}

func recordsFromTimeBars(bars []TimeBar) []stores.BarRecord {
	records := make([]stores.BarRecord, len(bars))
	for i, b := range bars {
		records[i] = stores.BarRecord{
			Open:        b.Open.String(),
			High:        b.High.String(),
			Low:         b.Low.String(),
			Close:       b.Close.String(),
			Volume:      b.Volume.String(),
			TradeCount:  int32(b.TradeCount),
			OpenTimeMS:  b.OpenTime.UnixMilli(),
			CloseTimeMS: b.CloseTime.UnixMilli(),
		}
	}
	return records
}

func timeBarsFromRecords(symbol string, interval Interval, records []stores.BarRecord) ([]TimeBar, error) {
	bars := make([]TimeBar, 0, len(records))
	for _, r := range records {
		var (
			bar TimeBar
			err error
		)
		if bar.Open, err = decimal.NewFromString(r.Open); err != nil {
			return nil, errors.Join(stores.ErrRecordCorrupt, err)
		}
		if bar.High, err = decimal.NewFromString(r.High); err != nil {
			return nil, errors.Join(stores.ErrRecordCorrupt, err)
		}
		if bar.Low, err = decimal.NewFromString(r.Low); err != nil {
			return nil, errors.Join(stores.ErrRecordCorrupt, err)
		}
		if bar.Close, err = decimal.NewFromString(r.Close); err != nil {
			return nil, errors.Join(stores.ErrRecordCorrupt, err)
		}
		if bar.Volume, err = decimal.NewFromString(r.Volume); err != nil {
			return nil, errors.Join(stores.ErrRecordCorrupt, err)
		}
		bar.Symbol = symbol
		bar.TradeCount = int(r.TradeCount)
		bar.OpenTime = time.UnixMilli(r.OpenTimeMS).UTC()
		bar.CloseTime = time.UnixMilli(r.CloseTimeMS).UTC()
		bar.IntervalSeconds = interval.Seconds()
		bars = append(bars, bar)
	}
	return bars, nil
}
