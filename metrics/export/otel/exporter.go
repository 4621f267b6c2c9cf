package otel

import (
	"context"
	"errors"
	"fmt"

	goTrade "github.com/MrEthical07/goTrade"
	"github.com/MrEthical07/goTrade/metrics/export/internaldefs"
	"go.opentelemetry.io/otel/metric"
)

var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil metrics source")
)

type metricsSource interface {
	MetricsSnapshot() goTrade.MetricsSnapshot
	AuditDropped() uint64
}

type observedCounter struct {
	id         goTrade.MetricID
	instrument metric.Int64ObservableCounter
}

// observedHistogram exposes one cumulative gauge per bucket bound plus a
// total count, mirroring the Prometheus exposition of the same histogram.
type observedHistogram struct {
	id      goTrade.MetricID
	buckets [8]metric.Int64ObservableGauge
	count   metric.Int64ObservableGauge
}

type OTelExporter struct {
	source       metricsSource
	registration metric.Registration
	counters     []observedCounter
	histograms   []observedHistogram
	auditDropped metric.Int64ObservableCounter
	observables  []metric.Observable
}

func NewOTelExporter(meter metric.Meter, engine *goTrade.Engine) (*OTelExporter, error) {
	return NewOTelExporterFromSource(meter, engine)
}

func NewOTelExporterFromSource(meter metric.Meter, source metricsSource) (*OTelExporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	e := &OTelExporter{source: source}
	if err := e.buildCounters(meter); err != nil {
		return nil, err
	}
	if err := e.buildHistograms(meter); err != nil {
		return nil, err
	}

	// One callback reads a single snapshot per collection so every
	// instrument reports the same point in time.
	registration, err := meter.RegisterCallback(e.observe, e.observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}
	e.registration = registration
	return e, nil
}

func (e *OTelExporter) buildCounters(meter metric.Meter) error {
	e.counters = make([]observedCounter, 0, len(internaldefs.CounterDefs))
	for _, def := range internaldefs.CounterDefs {
		ins, err := meter.Int64ObservableCounter(def.Name, metric.WithDescription(def.Help))
		if err != nil {
			return fmt.Errorf("create observable counter %s: %w", def.Name, err)
		}
		e.counters = append(e.counters, observedCounter{id: def.ID, instrument: ins})
		e.observables = append(e.observables, ins)
	}

	dropped, err := meter.Int64ObservableCounter(
		"gotrade_audit_dropped_total",
		metric.WithDescription("Dropped audit events due to dispatcher backpressure."),
	)
	if err != nil {
		return fmt.Errorf("create audit dropped counter: %w", err)
	}
	e.auditDropped = dropped
	e.observables = append(e.observables, dropped)
	return nil
}

func (e *OTelExporter) buildHistograms(meter metric.Meter) error {
	e.histograms = make([]observedHistogram, 0, len(internaldefs.HistogramDefs))
	for _, def := range internaldefs.HistogramDefs {
		h := observedHistogram{id: def.ID}
		for i, suffix := range internaldefs.HistogramBoundSuffix {
			name := def.Name + "_bucket_le_" + suffix
			ins, err := meter.Int64ObservableGauge(name, metric.WithDescription("Cumulative histogram bucket count."))
			if err != nil {
				return fmt.Errorf("create histogram bucket gauge %s: %w", name, err)
			}
			h.buckets[i] = ins
			e.observables = append(e.observables, ins)
		}

		count, err := meter.Int64ObservableGauge(def.Name+"_count", metric.WithDescription("Histogram total sample count."))
		if err != nil {
			return fmt.Errorf("create histogram count gauge %s_count: %w", def.Name, err)
		}
		h.count = count
		e.observables = append(e.observables, count)
		e.histograms = append(e.histograms, h)
	}
	return nil
}

func (e *OTelExporter) observe(_ context.Context, observer metric.Observer) error {
	snapshot := e.source.MetricsSnapshot()

	for _, c := range e.counters {
		observer.ObserveInt64(c.instrument, int64(snapshot.Counters[c.id]))
	}
	for _, h := range e.histograms {
		cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(snapshot.Histograms[h.id]))
		for i, value := range cumulative {
			observer.ObserveInt64(h.buckets[i], int64(value))
		}
		observer.ObserveInt64(h.count, int64(cumulative[len(cumulative)-1]))
	}
	observer.ObserveInt64(e.auditDropped, int64(e.source.AuditDropped()))
	return nil
}

func (e *OTelExporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
