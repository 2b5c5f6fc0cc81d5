// Package metrics exposes token issuance and authorization counters in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "reqtoken"

type Metrics struct {
	registry *prometheus.Registry

	issued        prometheus.Counter
	issueFailures prometheus.Counter
	decisions     *prometheus.CounterVec
}

// New creates metrics on its own registry, so several instances (tests) do not clash
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		issued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_issued_total",
			Help:      "Number of issued request tokens.",
		}),
		issueFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_issue_failures_total",
			Help:      "Number of failed token issuances.",
		}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "authorization_decisions_total",
			Help:      "Number of authorization decisions by result.",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		m.issued,
		m.issueFailures,
		m.decisions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Metrics) TokenIssued() {
	m.issued.Inc()
}

func (m *Metrics) IssueFailed() {
	m.issueFailures.Inc()
}

func (m *Metrics) Authorized(allowed bool) {
	result := "deny"
	if allowed {
		result = "allow"
	}
	m.decisions.WithLabelValues(result).Inc()
}

// Handler serves the registry in Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
