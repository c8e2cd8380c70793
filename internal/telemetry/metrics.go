package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the service. Each Metrics owns
// its registry, so repeated construction never collides.
type Metrics struct {
	registry           *prometheus.Registry
	OrdersTotal        *prometheus.CounterVec
	CycleDuration      *prometheus.HistogramVec
	WebhooksTotal      *prometheus.CounterVec
	CriticalMismatches *prometheus.CounterVec
	SupplierErrors     *prometheus.CounterVec
}

// NewMetrics creates and registers Prometheus metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		OrdersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "boligretning_orders_total",
				Help: "Reconciled supplier orders by supplier and outcome",
			},
			[]string{"supplier", "outcome"},
		),
		CycleDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "boligretning_cycle_duration_seconds",
				Help:    "Reconciliation cycle duration in seconds by supplier",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"supplier"},
		),
		WebhooksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "boligretning_webhooks_total",
				Help: "Inbound order webhooks by supplier and status",
			},
			[]string{"supplier", "status"},
		),
		CriticalMismatches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "boligretning_critical_mismatches_total",
				Help: "Order identity mismatches caught before fulfillment, by supplier",
			},
			[]string{"supplier"},
		),
		SupplierErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "boligretning_supplier_errors_total",
				Help: "Supplier API errors by supplier and error type",
			},
			[]string{"supplier", "error_type"},
		),
	}
}

// Handler serves this instance's registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordOrder records one reconciled order outcome.
func (m *Metrics) RecordOrder(supplier, outcome string) {
	m.OrdersTotal.WithLabelValues(supplier, outcome).Inc()
}

// RecordCycle records a completed reconciliation cycle.
func (m *Metrics) RecordCycle(supplier string, seconds float64) {
	m.CycleDuration.WithLabelValues(supplier).Observe(seconds)
}

// RecordWebhook records an inbound webhook.
func (m *Metrics) RecordWebhook(supplier, status string) {
	m.WebhooksTotal.WithLabelValues(supplier, status).Inc()
}

// RecordCriticalMismatch records a caught identity mismatch.
func (m *Metrics) RecordCriticalMismatch(supplier string) {
	m.CriticalMismatches.WithLabelValues(supplier).Inc()
}

// RecordSupplierError records a supplier API error.
func (m *Metrics) RecordSupplierError(supplier, errorType string) {
	m.SupplierErrors.WithLabelValues(supplier, errorType).Inc()
}
