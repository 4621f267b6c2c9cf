package goTrade

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// auditDispatcher decouples order flow from the audit sink: Emit enqueues and
// returns immediately so a slow sink never delays an order. A background
// worker delivers events in order; Close drains whatever is still queued.
type auditDispatcher struct {
	sink       AuditSink
	queue      chan AuditEvent
	dropIfFull bool

	done      chan struct{}
	wg        sync.WaitGroup
	dropped   atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
}

func newAuditDispatcher(cfg AuditConfig, sink AuditSink) *auditDispatcher {
	if !cfg.Enabled {
		return nil
	}
	buffer := cfg.BufferSize
	if buffer <= 0 {
		buffer = 1
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	d := &auditDispatcher{
		sink:       sink,
		queue:      make(chan AuditEvent, buffer),
		dropIfFull: cfg.DropIfFull,
		done:       make(chan struct{}),
	}

	d.wg.Add(1)
	go d.deliver()

	return d
}

func (d *auditDispatcher) deliver() {
	defer d.wg.Done()

	for {
		select {
		case event := <-d.queue:
			d.sink.Emit(context.Background(), event)
		case <-d.done:
			d.drain()
			return
		}
	}
}

// drain flushes queued events so orders audited just before shutdown still
// reach the sink.
func (d *auditDispatcher) drain() {
	for {
		select {
		case event := <-d.queue:
			d.sink.Emit(context.Background(), event)
		default:
			return
		}
	}
}

// Emit queues an order event for delivery. Events without a timestamp are
// stamped at intake, so the trail records when the engine saw the order
// rather than when the sink got around to it. Nil-receiver safe.
func (d *auditDispatcher) Emit(ctx context.Context, event AuditEvent) {
	if d == nil || d.closed.Load() {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	if d.dropIfFull {
		select {
		case d.queue <- event:
		case <-d.done:
		default:
			d.dropped.Add(1)
		}
		return
	}

	select {
	case d.queue <- event:
	case <-ctx.Done():
	case <-d.done:
	}
}

// Close stops the worker after draining the queue. Safe to call more than
// once and on a nil receiver.
func (d *auditDispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.done)
		d.wg.Wait()
	})
}

// Dropped reports how many events were discarded because the queue was full.
// Exposed through the metrics exporters as an audit health signal.
func (d *auditDispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
