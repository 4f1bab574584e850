package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// =====================================================
// HTTP
// =====================================================

var (
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "royalty_http_request_duration_seconds",
		Help:    "HTTP request latency by route, method and status",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method", "status"})
)

// =====================================================
// LEDGER
// =====================================================

var (
	ledgerRowsMaterialized = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "royalty_ledger_rows_materialized_total",
		Help: "Ledger rows written from royalty contracts, by reason (create, rebind)",
	}, []string{"reason"})

	ledgerRowsOverridden = promauto.NewCounter(prometheus.CounterOpts{
		Name: "royalty_ledger_rows_overridden_total",
		Help: "Existing ledger rows patched in place by explicit overrides",
	})
)

// =====================================================
// SETTLEMENT
// =====================================================

var (
	settlementRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "royalty_settlement_runs_total",
		Help: "Settlement calls by scope (author, sale)",
	}, []string{"scope"})

	settlementRowsPaid = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "royalty_settlement_rows_paid_total",
		Help: "Ledger rows flipped to paid, by scope",
	}, []string{"scope"})

	settlementAmountPaid = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "royalty_settlement_amount_paid_total",
		Help: "Royalty amount marked paid, by scope",
	}, []string{"scope"})
)

func ObserveHTTPRequest(route, method string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestDuration.WithLabelValues(route, method, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// LedgerRowsMaterialized counts n rows written for reason.
func LedgerRowsMaterialized(reason string, n int) {
	if n > 0 {
		ledgerRowsMaterialized.WithLabelValues(reason).Add(float64(n))
	}
}

func LedgerRowsOverridden(n int) {
	if n > 0 {
		ledgerRowsOverridden.Add(float64(n))
	}
}

// Settlement records one settlement call. Zero-row runs still count as a run.
func Settlement(scope string, rows int, total decimal.Decimal) {
	settlementRuns.WithLabelValues(scope).Inc()
	if rows == 0 {
		return
	}
	settlementRowsPaid.WithLabelValues(scope).Add(float64(rows))
	settlementAmountPaid.WithLabelValues(scope).Add(total.InexactFloat64())
}

// RegisterPoolGauges exposes connection pool counters read through stats.
// Calling it twice panics, as with any duplicate prometheus registration.
func RegisterPoolGauges(stats func() (acquired, idle, total int32)) {
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "royalty_db_pool_acquired_conns",
		Help: "Connections currently acquired from the pool",
	}, func() float64 {
		a, _, _ := stats()
		return float64(a)
	})
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "royalty_db_pool_idle_conns",
		Help: "Idle connections in the pool",
	}, func() float64 {
		_, i, _ := stats()
		return float64(i)
	})
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "royalty_db_pool_total_conns",
		Help: "Total connections in the pool",
	}, func() float64 {
		_, _, t := stats()
		return float64(t)
	})
}
