package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	ContentReviewsTotal        = "content_reviews_total"
	WalletLedgerAmountTotal    = "wallet_ledger_amount_total"
)

var (
	Counters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"method", "route", "status_code"}),
		ContentReviewsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: ContentReviewsTotal,
			Help: "Count of content review decisions",
		}, []string{"decision"}),
		WalletLedgerAmountTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: WalletLedgerAmountTotal,
			Help: "Absolute amount appended to wallet ledgers",
		}, []string{"type"}),
	}

	Histograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    HTTPRequestDurationSeconds,
			Help:    "Duration of all HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status_code"}),
	}
)

// NewHandler exposes the collectors above on a private registry.
func NewHandler() http.Handler {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	for _, counter := range Counters {
		registry.MustRegister(counter)
	}
	for _, histogram := range Histograms {
		registry.MustRegister(histogram)
	}
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

func ObserveRequest(method, route, status string, seconds float64) {
	Counters[HTTPRequestTotal].WithLabelValues(method, route, status).Inc()
	Histograms[HTTPRequestDurationSeconds].WithLabelValues(method, route, status).Observe(seconds)
}

func ContentReviewed(decision string) {
	Counters[ContentReviewsTotal].WithLabelValues(decision).Inc()
}

// LedgerAppended records the absolute value of a ledger row. The counter is a
// float and only approximates the exact ledger sum.
func LedgerAppended(entryType string, amount decimal.Decimal) {
	Counters[WalletLedgerAmountTotal].WithLabelValues(entryType).Add(amount.Abs().InexactFloat64())
}
