// Package metrics defines the Prometheus collectors for the feed pipeline.
//
// All methods are safe on a nil *Metrics, so components can be built without
// instrumentation in tests.
package metrics

import (
	"context"

	"github.com/phrazzld/scry-feed/internal/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "scry_feed"

// Metrics holds the pipeline collectors.
type Metrics struct {
	factory promauto.Factory

	providerCalls    *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec
	cacheLookups     *prometheus.CounterVec
	feedRequests     *prometheus.CounterVec
	fallbackSnippets prometheus.Counter
	duplicates       prometheus.Counter
	exhaustedBatches prometheus.Counter
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		factory: factory,
		providerCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_calls_total",
			Help:      "Upstream provider calls by provider and outcome.",
		}, []string{"provider", "outcome"}),
		providerDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_call_duration_seconds",
			Help:      "Time spent waiting on the upstream provider.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30},
		}, []string{"provider"}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Generation cache lookups by result (hit, miss, coalesced).",
		}, []string{"result"}),
		feedRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_requests_total",
			Help:      "Served feed pages by candidate source.",
		}, []string{"source"}),
		fallbackSnippets: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_snippets_total",
			Help:      "Snippets served from the fallback library.",
		}),
		duplicates: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dedup_filtered_total",
			Help:      "Candidate snippets dropped because the viewer had already seen them.",
		}),
		exhaustedBatches: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dedup_exhausted_batches_total",
			Help:      "Candidate batches in which every snippet was a duplicate.",
		}),
	}
}

// ObserveCall records one provider call event.
func (m *Metrics) ObserveCall(event *events.CallEvent) {
	if m == nil || event == nil {
		return
	}
	m.providerCalls.WithLabelValues(event.Provider, event.Outcome).Inc()
	m.providerDuration.WithLabelValues(event.Provider).Observe(event.Duration.Seconds())
}

// EventHandler returns an events.EventHandler feeding ObserveCall.
func (m *Metrics) EventHandler() events.EventHandler {
	return events.EventHandlerFunc(func(_ context.Context, event *events.CallEvent) error {
		m.ObserveCall(event)
		return nil
	})
}

// CacheLookup counts one cache lookup with the given result label.
func (m *Metrics) CacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// FeedServed records one served page.
func (m *Metrics) FeedServed(source string, fallbackSnippets, duplicates int, exhausted bool) {
	if m == nil {
		return
	}
	m.feedRequests.WithLabelValues(source).Inc()
	if fallbackSnippets > 0 {
		m.fallbackSnippets.Add(float64(fallbackSnippets))
	}
	if duplicates > 0 {
		m.duplicates.Add(float64(duplicates))
	}
	if exhausted {
		m.exhaustedBatches.Inc()
	}
}

// Gauge registers a gauge whose value is read from fn at scrape time.
func (m *Metrics) Gauge(name, help string, fn func() float64) {
	if m == nil {
		return
	}
	m.factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, fn)
}
