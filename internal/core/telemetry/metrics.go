package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"todoapi/internal/core/domain"
)

// Result label values shared by the service and store counters.
const (
	ResultOK         = "ok"
	ResultNotFound   = "not_found"
	ResultValidation = "validation"
	ResultError      = "error"
)

// Outcome classifies err for the result label. Unknown ids and rejected
// input are regular answers and never count as errors.
func Outcome(err error) string {
	var validationErr *domain.ValidationError

	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, domain.ErrTodoNotFound):
		return ResultNotFound
	case errors.As(err, &validationErr):
		return ResultValidation
	default:
		return ResultError
	}
}

type AppMetrics struct {
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	requestsInFlight prometheus.Gauge
	panics           prometheus.Counter

	todoOperations        *prometheus.CounterVec
	todoOperationDuration *prometheus.HistogramVec
	todoEvents            *prometheus.CounterVec

	storeOperations        *prometheus.CounterVec
	storeOperationDuration *prometheus.HistogramVec

	rateLimitDecisions *prometheus.CounterVec
	cacheLookups       *prometheus.CounterVec
}

func NewAppMetrics(registry prometheus.Registerer) *AppMetrics {
	metrics := &AppMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		requestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of requests currently being served",
			},
		),
		panics: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "http_panics_total",
				Help: "Total number of recovered handler panics",
			},
		),
		todoOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "todo_operations_total",
				Help: "Todo service calls by operation and result",
			},
			[]string{"operation", "result"},
		),
		todoOperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "todo_operation_duration_seconds",
				Help:    "Duration of todo service calls in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
			},
			[]string{"operation"},
		),
		todoEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "todo_events_total",
				Help: "Todos created, updated and deleted",
			},
			[]string{"event"},
		),
		storeOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "todo_store_operations_total",
				Help: "Todo store calls by backend, operation and result",
			},
			[]string{"store", "operation", "result"},
		),
		storeOperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "todo_store_operation_duration_seconds",
				Help:    "Duration of todo store calls in seconds",
				Buckets: []float64{.00005, .0001, .0005, .001, .005, .01, .05},
			},
			[]string{"store", "operation"},
		),
		rateLimitDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_limit_decisions_total",
				Help: "Rate limiter decisions by route",
			},
			[]string{"route", "decision"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "response_cache_lookups_total",
				Help: "Response cache lookups by route",
			},
			[]string{"route", "result"},
		),
	}

	registry.MustRegister(
		metrics.requestDuration,
		metrics.requestTotal,
		metrics.requestsInFlight,
		metrics.panics,
		metrics.todoOperations,
		metrics.todoOperationDuration,
		metrics.todoEvents,
		metrics.storeOperations,
		metrics.storeOperationDuration,
		metrics.rateLimitDecisions,
		metrics.cacheLookups,
	)

	return metrics
}

func (m *AppMetrics) RecordRequest(ctx context.Context, method, route, status string, duration time.Duration) {
	m.requestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, route, status).Inc()
}

func (m *AppMetrics) IncrementInFlight(ctx context.Context) {
	m.requestsInFlight.Inc()
}

func (m *AppMetrics) DecrementInFlight(ctx context.Context) {
	m.requestsInFlight.Dec()
}

func (m *AppMetrics) RecordPanic(ctx context.Context) {
	m.panics.Inc()
}

func (m *AppMetrics) Panics() prometheus.Counter {
	return m.panics
}

func (m *AppMetrics) RecordTodoOperation(ctx context.Context, operation, result string, duration time.Duration) {
	m.todoOperations.WithLabelValues(operation, result).Inc()
	m.todoOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// TodoOperations returns the counter for one operation/result pair.
func (m *AppMetrics) TodoOperations(operation, result string) prometheus.Counter {
	return m.todoOperations.WithLabelValues(operation, result)
}

func (m *AppMetrics) RecordTodoEvent(ctx context.Context, event string) {
	m.todoEvents.WithLabelValues(event).Inc()
}

func (m *AppMetrics) RecordStoreOperation(ctx context.Context, store, operation, result string, duration time.Duration) {
	m.storeOperations.WithLabelValues(store, operation, result).Inc()
	m.storeOperationDuration.WithLabelValues(store, operation).Observe(duration.Seconds())
}

func (m *AppMetrics) StoreOperations(store, operation, result string) prometheus.Counter {
	return m.storeOperations.WithLabelValues(store, operation, result)
}

func (m *AppMetrics) RecordRateLimitHit(ctx context.Context, route string) {
	m.rateLimitDecisions.WithLabelValues(route, "rejected").Inc()
}

func (m *AppMetrics) RecordRateLimitAllowed(ctx context.Context, route string) {
	m.rateLimitDecisions.WithLabelValues(route, "allowed").Inc()
}

func (m *AppMetrics) RateLimitDecisions(route, decision string) prometheus.Counter {
	return m.rateLimitDecisions.WithLabelValues(route, decision)
}

func (m *AppMetrics) RecordCacheHit(ctx context.Context, route string) {
	m.cacheLookups.WithLabelValues(route, "hit").Inc()
}

func (m *AppMetrics) RecordCacheMiss(ctx context.Context, route string) {
	m.cacheLookups.WithLabelValues(route, "miss").Inc()
}

func (m *AppMetrics) CacheLookups(route, result string) prometheus.Counter {
	return m.cacheLookups.WithLabelValues(route, result)
}
