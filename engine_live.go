package goTrade

import "context"

// StreamTimeBars describes the streamtimebars operation and its observable behavior.
//
// StreamTimeBars relays the live closed-bar stream from the market data
// source, counting relayed bars. Both returned channels close when the
// upstream stream ends or ctx is canceled.
func (e *Engine) StreamTimeBars(ctx context.Context, symbol string, interval Interval) (<-chan TimeBar, <-chan error) {
	if e == nil || e.market == nil {
		return failStream[TimeBar](ErrEngineNotReady)
	}
	if symbol == "" {
		return failStream[TimeBar](ErrSymbolRequired)
	}
	if !interval.Valid() {
		return failStream[TimeBar](ErrIntervalInvalid)
	}

	src, srcErrs := e.market.StreamTimeBars(ctx, symbol, interval)
	return relay(ctx, src, srcErrs, func() {
		e.metricInc(MetricStreamBars)
	}, func() {
		e.metricInc(MetricStreamErrors)
	})
}

// StreamTrades describes the streamtrades operation and its observable behavior.
//
// StreamTrades relays the live trade stream from the market data source.
// Both returned channels close when the upstream stream ends or ctx is
// canceled.
func (e *Engine) StreamTrades(ctx context.Context, symbol string) (<-chan Trade, <-chan error) {
	if e == nil || e.market == nil {
		return failStream[Trade](ErrEngineNotReady)
	}
	if symbol == "" {
		return failStream[Trade](ErrSymbolRequired)
	}

	src, srcErrs := e.market.StreamTrades(ctx, symbol)
	return relay(ctx, src, srcErrs, func() {
		e.metricInc(MetricStreamTrades)
	}, func() {
		e.metricInc(MetricStreamErrors)
	})
}

// failStream returns a closed stream whose error channel holds err.
func failStream[T any](err error) (<-chan T, <-chan error) {
	out := make(chan T)
	errs := make(chan error, 1)
	errs <- err
	close(out)
	close(errs)
	return out, errs
}

// relay forwards src to a fresh channel, invoking onItem per value and
// onError when the upstream terminates with an error. The upstream contract
// guarantees srcErrs carries at most one error and closes with src.
func relay[T any](ctx context.Context, src <-chan T, srcErrs <-chan error, onItem, onError func()) (<-chan T, <-chan error) {
	out := make(chan T)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		for {
			select {
			case item, ok := <-src:
				if !ok {
					if err, ok := <-srcErrs; ok && err != nil {
						onError()
						errs <- err
					}
					return
				}
				onItem()
				select {
				case out <- item:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, errs
}
