// Package metrics holds the Prometheus collectors for one ttool run.
//
// Each run builds its own registry. When a Pushgateway is configured the
// registry is pushed once before exit, the usual pattern for batch jobs.
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics is a per-run set of collectors. A nil *Metrics records nothing.
type Metrics struct {
	reg *prometheus.Registry

	geocodeRequestsTotal   *prometheus.CounterVec
	geocodeDurationSeconds *prometheus.HistogramVec
	conversionsTotal       *prometheus.CounterVec
	geocodeCacheHitsTotal  prometheus.Counter
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		geocodeRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ttool_geocode_requests_total",
				Help: "Total number of geocoder HTTP requests.",
			},
			[]string{"code", "method"},
		),
		geocodeDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ttool_geocode_duration_seconds",
				Help:    "Geocoder HTTP request duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		conversionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ttool_conversions_total",
				Help: "Total number of conversions by mode.",
			},
			[]string{"mode"},
		),
		geocodeCacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "ttool_geocode_cache_hits_total",
				Help: "Total number of geocode lookups served from the on-disk cache.",
			},
		),
	}
	m.reg.MustRegister(
		m.geocodeRequestsTotal,
		m.geocodeDurationSeconds,
		m.conversionsTotal,
		m.geocodeCacheHitsTotal,
	)
	return m
}

// Registry returns the run's registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// InstrumentRoundTripper records request count and duration for every
// request sent through next. A nil next means http.DefaultTransport.
func (m *Metrics) InstrumentRoundTripper(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	if m == nil {
		return next
	}
	return promhttp.InstrumentRoundTripperCounter(m.geocodeRequestsTotal,
		promhttp.InstrumentRoundTripperDuration(m.geocodeDurationSeconds, next))
}

// Conversion counts one completed conversion in the given mode.
func (m *Metrics) Conversion(mode string) {
	if m == nil {
		return
	}
	m.conversionsTotal.WithLabelValues(mode).Inc()
}

// CacheHit counts one geocode cache hit.
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.geocodeCacheHitsTotal.Inc()
}

// Push sends the registry to the Pushgateway at url under job.
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	if m == nil {
		return nil
	}
	if err := push.New(url, job).Gatherer(m.reg).PushContext(ctx); err != nil {
		return fmt.Errorf("pushing metrics to %s: %w", url, err)
	}
	return nil
}
