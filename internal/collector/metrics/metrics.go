package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/sqlscope/bridge/pkg/types"
)

// CollectorMetrics tracks event ingestion using Prometheus
type CollectorMetrics struct {
	eventsReceived *prometheus.CounterVec
	eventsInvalid  *prometheus.CounterVec
	payloadBytes   prometheus.Histogram

	logger      *zap.Logger
	httpHandler func(*fasthttp.RequestCtx)
}

// New creates a Prometheus-based metrics collector on the default registry
func New(namespace string, logger *zap.Logger) *CollectorMetrics {
	return NewWithRegistry(namespace, prometheus.DefaultRegisterer, logger)
}

// NewWithRegistry creates a metrics collector with a custom registry
func NewWithRegistry(namespace string, registerer prometheus.Registerer, logger *zap.Logger) *CollectorMetrics {
	m := &CollectorMetrics{
		logger: logger,
	}

	m.eventsReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "collector",
			Name:      "events_received_total",
			Help:      "Total number of engine events received, by kind",
		},
		[]string{"kind"},
	)

	m.eventsInvalid = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "collector",
			Name:      "events_invalid_total",
			Help:      "Total number of rejected event submissions",
		},
		[]string{"reason"},
	)

	m.payloadBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "collector",
			Name:      "event_payload_bytes",
			Help:      "Size distribution of received event payloads",
			Buckets:   []float64{32, 64, 128, 256, 512, 1024},
		},
	)

	registerer.MustRegister(
		m.eventsReceived,
		m.eventsInvalid,
		m.payloadBytes,
	)

	// registerer implements Gatherer for the default registry and for
	// prometheus.NewRegistry()
	gatherer, ok := registerer.(prometheus.Gatherer)
	if !ok {
		gatherer = prometheus.DefaultGatherer
	}
	m.httpHandler = fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	logger.Debug("Collector metrics initialized")
	return m
}

// RecordEvent records one accepted event
func (m *CollectorMetrics) RecordEvent(kind types.EventKind, payloadSize int) {
	m.eventsReceived.WithLabelValues(kind.String()).Inc()
	m.payloadBytes.Observe(float64(payloadSize))
}

// RecordInvalid records a rejected submission
func (m *CollectorMetrics) RecordInvalid(reason string) {
	m.eventsInvalid.WithLabelValues(reason).Inc()
}

// ServeHTTP serves Prometheus metrics via HTTP
func (m *CollectorMetrics) ServeHTTP(ctx *fasthttp.RequestCtx) {
	m.httpHandler(ctx)
}
