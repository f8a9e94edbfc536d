package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Transfer sources used as metric labels
const (
	SourceTreasury = "treasury"
	SourceCustody  = "custody"
	SourceUser     = "user"
)

var (
	registry = prometheus.NewRegistry()

	transferAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "token_transfer_attempts_total",
		Help: "Token transfer attempts by source and outcome.",
	}, []string{"source", "status"})

	ledgerWriteFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_write_failures_total",
		Help: "Ledger rows that could not be persisted.",
	})

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"method", "route", "status"})
)

func init() {
	registry.MustRegister(
		transferAttempts,
		ledgerWriteFailures,
		httpRequests,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
}

// ObserveTransfer counts a transfer attempt outcome
func ObserveTransfer(source, status string) {
	transferAttempts.WithLabelValues(source, status).Inc()
}

// ObserveLedgerWriteFailure counts a ledger write that failed
func ObserveLedgerWriteFailure() {
	ledgerWriteFailures.Inc()
}

// ObserveHTTPRequest counts a served request
func ObserveHTTPRequest(method, route, status string) {
	httpRequests.WithLabelValues(method, route, status).Inc()
}

// Handler exposes the registry in Prometheus text format
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
