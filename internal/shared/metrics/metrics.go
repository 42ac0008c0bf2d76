package metrics

import (
	"strings"

	"school-library-backend/internal/shared/apperr"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Prometheus Metrics
// =============================================================================

var (
	// LoanOperations counts engine calls.
	// Labels: op (borrow, return), outcome (ok, book_unavailable, ..., error)
	LoanOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "library",
		Name:      "loan_operations_total",
		Help:      "Borrow/return operations by outcome",
	}, []string{"op", "outcome"})

	// HTTPRequests counts API requests.
	// Labels: method, route (gin full path), status
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "library",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route and status",
	}, []string{"method", "route", "status"})

	// HTTPDuration measures request latency.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "library",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "route"})

	// OverdueLoans is the overdue count seen by the last scan.
	OverdueLoans = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "library",
		Name:      "overdue_loans",
		Help:      "Overdue loans at the last overdue scan",
	})

	// LedgerDrift is the number of books whose counters disagreed at the last audit.
	LedgerDrift = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "library",
		Subsystem: "ledger",
		Name:      "drifted_books",
		Help:      "Books with drifted availability at the last audit",
	})
)

// Outcome turns an operation result into a low-cardinality label
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if coded, ok := apperr.As(err); ok {
		return strings.ToLower(coded.Code)
	}
	return "error"
}
