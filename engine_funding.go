package goTrade

import (
	"context"
	"time"
)

// FundingRates describes the fundingrates operation and its observable behavior.
//
// FundingRates fetches historical funding settlements for symbol, one record
// per settlement period, ordered oldest-first. A zero end means "up to now".
// Returns ErrFundingUnsupported when the configured market data source is not
// a FundingSource.
func (e *Engine) FundingRates(ctx context.Context, symbol string, start, end time.Time) ([]FundingRate, error) {
	if e == nil || e.market == nil {
		return nil, ErrEngineNotReady
	}
	if e.funding == nil {
		return nil, ErrFundingUnsupported
	}
	if symbol == "" {
		return nil, ErrSymbolRequired
	}
	if !end.IsZero() && !start.Before(end) {
		return nil, ErrRangeInvalid
	}

	if err := e.reserveWeight(ctx, e.config.RateLimit.FundingWeight); err != nil {
		return nil, err
	}

	rates, err := e.funding.FundingRates(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}
	e.metricAdd(MetricFundingFetched, uint64(len(rates)))
	return rates, nil
}

// CurrentFundingRate describes the currentfundingrate operation and its observable behavior.
//
// CurrentFundingRate fetches the live mark price and most-recently-settled
// funding rate, including the next scheduled settlement time.
func (e *Engine) CurrentFundingRate(ctx context.Context, symbol string) (FundingRate, error) {
	if e == nil || e.market == nil {
		return FundingRate{}, ErrEngineNotReady
	}
	if e.funding == nil {
		return FundingRate{}, ErrFundingUnsupported
	}
	if symbol == "" {
		return FundingRate{}, ErrSymbolRequired
	}

	if err := e.reserveWeight(ctx, e.config.RateLimit.FundingWeight); err != nil {
		return FundingRate{}, err
	}

	rate, err := e.funding.CurrentFundingRate(ctx, symbol)
	if err != nil {
		return FundingRate{}, err
	}
	e.metricInc(MetricFundingFetched)
	return rate, nil
}

// StreamFundingRates describes the streamfundingrates operation and its observable behavior.
//
// StreamFundingRates relays the live mark-price / funding stream. Each value
// reflects the current unsettled rate plus the scheduled settlement time,
// which is the preferred feed for a live funding strategy because it avoids
// polling the REST API.
func (e *Engine) StreamFundingRates(ctx context.Context, symbol string) (<-chan FundingRate, <-chan error) {
	if e == nil || e.market == nil {
		return failStream[FundingRate](ErrEngineNotReady)
	}
	if e.funding == nil {
		return failStream[FundingRate](ErrFundingUnsupported)
	}
	if symbol == "" {
		return failStream[FundingRate](ErrSymbolRequired)
	}

	src, srcErrs := e.funding.StreamFundingRates(ctx, symbol)
	return relay(ctx, src, srcErrs, func() {
		e.metricInc(MetricStreamFunding)
	}, func() {
		e.metricInc(MetricStreamErrors)
	})
}
