package goTrade

import "context"

// Runner defines a public type used by goTrade APIs.
//
// Runner drives a [Strategy] with market data: first an optional historical
// bar slice in order, then an optional live bar channel and an optional live
// trade channel until both close or ctx is canceled. OnStart is invoked
// before the first callback and OnStop is always invoked before Run returns,
// including on cancellation.
type Runner struct {
	strategy Strategy
}

// NewRunner describes the newrunner operation and its observable behavior.
func NewRunner(strategy Strategy) *Runner {
	return &Runner{strategy: strategy}
}

// RunHistorical feeds the historical bars to the strategy in order.
func (r *Runner) RunHistorical(ctx context.Context, bars []AnyBar) error {
	if r == nil || r.strategy == nil {
		return ErrEngineNotReady
	}

	r.strategy.OnStart()
	defer r.strategy.OnStop()

	for _, bar := range bars {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.strategy.OnBar(bar)
	}

	return nil
}

// Run feeds historical bars first, then relays the live channels until both
// are closed. Either live channel may be nil.
func (r *Runner) Run(ctx context.Context, historical []AnyBar, liveBars <-chan TimeBar, liveTrades <-chan Trade) error {
	if r == nil || r.strategy == nil {
		return ErrEngineNotReady
	}

	r.strategy.OnStart()
	defer r.strategy.OnStop()

	for _, bar := range historical {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.strategy.OnBar(bar)
	}

	for liveBars != nil || liveTrades != nil {
		select {
		case bar, ok := <-liveBars:
			if !ok {
				liveBars = nil
				continue
			}
			r.strategy.OnBar(bar)
		case trade, ok := <-liveTrades:
			if !ok {
				liveTrades = nil
				continue
			}
			r.strategy.OnTrade(trade)
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}
