package goTrade

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PlaceOrder describes the placeorder operation and its observable behavior.
//
// PlaceOrder routes the order to the configured broker. Transport and
// validation failures surface as errors; venue rejections come back in
// OrderResult.Err with a nil error. Every outcome is recorded in the audit
// trail when auditing is enabled.
func (e *Engine) PlaceOrder(ctx context.Context, order PerpOrder) (OrderResult, error) {
	if err := e.execReady(); err != nil {
		return OrderResult{}, err
	}
	if order.Symbol == "" {
		return OrderResult{}, ErrSymbolRequired
	}
	if !order.Quantity.IsPositive() {
		return OrderResult{}, ErrOrderInvalid
	}
	if order.Type != Market && !order.Price.IsPositive() {
		return OrderResult{}, ErrOrderInvalid
	}
	if order.Side != Buy && order.Side != Sell {
		return OrderResult{}, ErrOrderInvalid
	}
	if order.TimeInForce == "" {
		order.TimeInForce = GoodTillTime
	}

	if e.config.Execution.GenerateClientOrderIDs && order.ClientOrderID == "" {
		order.ClientOrderID = uuid.NewString()
	}

	started := time.Now()
	result, err := e.broker.PlaceOrder(ctx, order)
	e.observe(MetricOrderLatency, time.Since(started))

	switch {
	case err != nil:
		e.metricInc(MetricOrderFailures)
		e.auditExec(ctx, AuditOrderFailed, &order, "", err.Error())
		return result, err
	case !result.OK():
		e.metricInc(MetricOrdersRejected)
		e.auditExec(ctx, AuditOrderRejected, &order, result.OrderID, result.Err)
	default:
		e.metricInc(MetricOrdersPlaced)
		e.auditExec(ctx, AuditOrderPlaced, &order, result.OrderID, "")
	}

	return result, nil
}

// CancelOrder describes the cancelorder operation and its observable behavior.
//
// CancelOrder cancels the open order identified by orderID, which must be a
// value returned by a prior PlaceOrder or OpenOrders call.
func (e *Engine) CancelOrder(ctx context.Context, orderID string) (OrderResult, error) {
	if err := e.execReady(); err != nil {
		return OrderResult{}, err
	}
	if orderID == "" {
		return OrderResult{}, ErrOrderIDInvalid
	}

	started := time.Now()
	result, err := e.broker.CancelOrder(ctx, orderID)
	e.observe(MetricOrderLatency, time.Since(started))

	switch {
	case err != nil:
		e.metricInc(MetricOrderFailures)
		e.auditExec(ctx, AuditOrderFailed, nil, orderID, err.Error())
		return result, err
	case !result.OK():
		e.metricInc(MetricOrdersRejected)
		e.auditExec(ctx, AuditOrderRejected, nil, orderID, result.Err)
	default:
		e.metricInc(MetricOrdersCanceled)
		e.auditExec(ctx, AuditOrderCanceled, nil, orderID, "")
	}

	return result, nil
}

// CancelAllOrders describes the cancelallorders operation and its observable behavior.
//
// CancelAllOrders cancels every open order, optionally filtered to symbol
// (empty string = all markets). Brokers without per-symbol support cancel
// all markets regardless of the filter.
func (e *Engine) CancelAllOrders(ctx context.Context, symbol string) (OrderResult, error) {
	if err := e.execReady(); err != nil {
		return OrderResult{}, err
	}

	result, err := e.broker.CancelAllOrders(ctx, symbol)
	if err != nil {
		e.metricInc(MetricOrderFailures)
		e.auditExec(ctx, AuditOrderFailed, nil, "", err.Error())
		return result, err
	}

	e.metricInc(MetricCancelAll)
	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: AuditCancelAll,
		EventID:   uuid.NewString(),
		Symbol:    symbol,
		OrderID:   result.OrderID,
		Success:   result.OK(),
		Error:     result.Err,
	}
	e.audit.Emit(ctx, event)

	return result, nil
}

// OpenOrders describes the openorders operation and its observable behavior.
//
// OpenOrders returns all open orders, optionally filtered to symbol (empty
// string = all markets).
func (e *Engine) OpenOrders(ctx context.Context, symbol string) ([]PerpOrder, error) {
	if err := e.execReady(); err != nil {
		return nil, err
	}
	return e.broker.OpenOrders(ctx, symbol)
}

// Position describes the position operation and its observable behavior.
//
// Position returns the current position for symbol, or nil when flat.
func (e *Engine) Position(ctx context.Context, symbol string) (*PerpPosition, error) {
	if err := e.execReady(); err != nil {
		return nil, err
	}
	if symbol == "" {
		return nil, ErrSymbolRequired
	}
	return e.broker.Position(ctx, symbol)
}

func (e *Engine) execReady() error {
	if e == nil {
		return ErrEngineNotReady
	}
	if !e.config.Execution.Enabled {
		return ErrExecutionDisabled
	}
	if e.broker == nil {
		return ErrBrokerRequired
	}
	return nil
}

func (e *Engine) auditExec(ctx context.Context, eventType string, order *PerpOrder, orderID, errMsg string) {
	if e.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		EventID:   uuid.NewString(),
		OrderID:   orderID,
		Success:   errMsg == "",
		Error:     errMsg,
	}
	if order != nil {
		event.Symbol = order.Symbol
		event.Side = string(order.Side)
		event.ClientOrderID = order.ClientOrderID
		event.Quantity = order.Quantity.String()
		event.Price = order.Price.String()
	}

	e.audit.Emit(ctx, event)
}
