package goTrade

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Event types emitted by the execution audit trail.
const (
	// AuditOrderPlaced is an exported constant or variable used by the trading engine.
	AuditOrderPlaced = "order_placed"
	// AuditOrderRejected is an exported constant or variable used by the trading engine.
	AuditOrderRejected = "order_rejected"
	// AuditOrderFailed is an exported constant or variable used by the trading engine.
	AuditOrderFailed = "order_failed"
	// AuditOrderCanceled is an exported constant or variable used by the trading engine.
	AuditOrderCanceled = "order_canceled"
	// AuditCancelAll is an exported constant or variable used by the trading engine.
	AuditCancelAll = "cancel_all"
)

// AuditEvent defines a public type used by goTrade APIs.
//
// AuditEvent instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditEvent struct {
	Timestamp     time.Time         `json:"timestamp"`
	EventType     string            `json:"event_type"`
	EventID       string            `json:"event_id,omitempty"`
	Symbol        string            `json:"symbol,omitempty"`
	Side          string            `json:"side,omitempty"`
	OrderID       string            `json:"order_id,omitempty"`
	ClientOrderID string            `json:"client_order_id,omitempty"`
	Quantity      string            `json:"quantity,omitempty"`
	Price         string            `json:"price,omitempty"`
	Success       bool              `json:"success"`
	Error         string            `json:"error,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// AuditSink defines a public type used by goTrade APIs.
//
// AuditSink instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditSink interface {
	Emit(ctx context.Context, event AuditEvent)
}

// NoOpSink defines a public type used by goTrade APIs.
type NoOpSink struct{}

// Emit describes the emit operation and its observable behavior.
func (NoOpSink) Emit(context.Context, AuditEvent) {}

// ChannelSink defines a public type used by goTrade APIs.
//
// ChannelSink instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ChannelSink struct {
	events chan AuditEvent
}

// NewChannelSink describes the newchannelsink operation and its observable behavior.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan AuditEvent, buffer),
	}
}

// Emit describes the emit operation and its observable behavior.
func (s *ChannelSink) Emit(ctx context.Context, event AuditEvent) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

// Events describes the events operation and its observable behavior.
func (s *ChannelSink) Events() <-chan AuditEvent {
	return s.events
}

// JSONWriterSink defines a public type used by goTrade APIs.
//
// JSONWriterSink instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewJSONWriterSink describes the newjsonwritersink operation and its observable behavior.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

// Emit describes the emit operation and its observable behavior.
func (s *JSONWriterSink) Emit(ctx context.Context, event AuditEvent) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}
