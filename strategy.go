package goTrade

// Strategy defines a public type used by goTrade APIs.
//
// Strategy is the contract every trading strategy fulfills. OnBar is called
// for each new bar, whether historical or live. OnStart runs once before the
// first bar and OnStop once after the last, including on cancellation.
// OnTrade receives individual trade ticks when the runner is fed a trade
// stream; strategies that only consume bars can embed [StrategyBase] to get
// no-op implementations of everything except OnBar.
type Strategy interface {
	OnStart()
	OnBar(bar AnyBar)
	OnTrade(trade Trade)
	OnStop()
}

// StrategyBase defines a public type used by goTrade APIs.
//
// StrategyBase provides no-op lifecycle and trade callbacks so strategies
// only implement what they need:
//
//	type Momentum struct {
//		goTrade.StrategyBase
//	}
//
//	func (m *Momentum) OnBar(bar goTrade.AnyBar) {
//		// signal logic here
//	}
type StrategyBase struct{}

// OnStart describes the onstart operation and its observable behavior.
func (StrategyBase) OnStart() {}

// OnTrade describes the ontrade operation and its observable behavior.
func (StrategyBase) OnTrade(Trade) {}

// OnStop describes the onstop operation and its observable behavior.
func (StrategyBase) OnStop() {}
