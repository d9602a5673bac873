package anyangle

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Search outcomes used as metric labels.
const (
	outcomeFound     = "found"
	outcomeNoPath    = "no_path"
	outcomeInvalid   = "invalid"
	outcomeBusy      = "busy"
	outcomeCancelled = "cancelled"
	outcomeError     = "error"
)

var (
	searchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "anyangle_searches_total",
		Help: "Total number of searches by algorithm and outcome",
	}, []string{"algorithm", "outcome"})

	searchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "anyangle_search_duration_seconds",
		Help:    "Search duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
	}, []string{"algorithm"})

	expandedNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "anyangle_expanded_nodes",
		Help:    "Nodes expanded per completed search",
		Buckets: prometheus.ExponentialBuckets(1, 4, 12),
	})
)

var meter = otel.Meter("anyangle")

var (
	searchLatency metric.Float64Histogram
	searchCount   metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the otel instruments. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		searchLatency, err = meter.Float64Histogram(
			"anyangle_search_duration_seconds",
			metric.WithDescription("Duration of searches"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		searchCount, err = meter.Int64Counter(
			"anyangle_searches_total",
			metric.WithDescription("Total number of searches"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordSearch records one search in both the prometheus registry and the
// otel meter. Duration and expanded are only observed for searches that ran.
func recordSearch(ctx context.Context, a Algorithm, outcome string, duration time.Duration, expanded int) {
	if !a.Valid() {
		a = "unknown"
	}
	searchesTotal.WithLabelValues(string(a), outcome).Inc()
	ran := outcome == outcomeFound || outcome == outcomeNoPath
	if ran {
		searchDuration.WithLabelValues(string(a)).Observe(duration.Seconds())
		expandedNodes.Observe(float64(expanded))
	}

	if initMetrics() != nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("algorithm", string(a)),
		attribute.String("outcome", outcome),
	)
	searchCount.Add(ctx, 1, attrs)
	if ran {
		searchLatency.Record(ctx, duration.Seconds(), attrs)
	}
}
