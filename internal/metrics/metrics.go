// Package metrics exposes Prometheus counters for the ledger and its RPC surface.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "splitledger"

// Metrics holds every collector the server records into.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	expensesCreated        prometheus.Counter
	settlementsCreated     prometheus.Counter
	debtsCleared           prometheus.Counter
	conservationViolations prometheus.Counter
	rpcRequests            *prometheus.CounterVec
	rpcDuration            *prometheus.HistogramVec
}

// New creates a Metrics backed by its own registry, including the Go runtime
// and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		expensesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expenses_created_total",
			Help:      "Expenses committed to the ledger.",
		}),
		settlementsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlements_created_total",
			Help:      "Settlements committed to the ledger.",
		}),
		debtsCleared: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "debt_splits_cleared_total",
			Help:      "Expense splits deleted by ClearDebts without a settlement record.",
		}),
		conservationViolations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conservation_violations_total",
			Help:      "Expense writes aborted because splits did not sum to the total.",
		}),
		rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC handling latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
	}

	reg.MustRegister(
		m.expensesCreated,
		m.settlementsCreated,
		m.debtsCleared,
		m.conservationViolations,
		m.rpcRequests,
		m.rpcDuration,
	)

	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ExpenseCreated() {
	if m != nil {
		m.expensesCreated.Inc()
	}
}

func (m *Metrics) SettlementCreated() {
	if m != nil {
		m.settlementsCreated.Inc()
	}
}

func (m *Metrics) DebtsCleared(splits int64) {
	if m != nil {
		m.debtsCleared.Add(float64(splits))
	}
}

func (m *Metrics) ConservationViolation() {
	if m != nil {
		m.conservationViolations.Inc()
	}
}

// ObserveRPC records one finished RPC call.
func (m *Metrics) ObserveRPC(procedure, code string, seconds float64) {
	if m == nil {
		return
	}
	m.rpcRequests.WithLabelValues(procedure, code).Inc()
	m.rpcDuration.WithLabelValues(procedure).Observe(seconds)
}
