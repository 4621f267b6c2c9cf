// Package prometheus provides Prometheus collectors for goTrade metrics.
//
// [NewPrometheusExporter] accepts a [goTrade.Engine] and exposes an [http.Handler]
// that renders all goTrade counters and histograms in Prometheus text exposition format.
// Counter names are prefixed gotrade_*_total; histograms are
// gotrade_fetch_latency_seconds and gotrade_order_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry; callers mount the Handler.
//   - Mutate engine state.
package prometheus
