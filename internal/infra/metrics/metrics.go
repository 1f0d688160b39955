package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	consultasTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consultas_total",
			Help: "Consultations attempted per service and outcome.",
		},
		[]string{"service", "success"},
	)

	creditGateBlocks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "consultas_credit_gate_blocks",
			Help: "Consultations refused at the credit gate before any I/O.",
		},
	)

	lookupLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lookup_latency_ms",
			Help:    "Upstream lookup latency distribution in milliseconds.",
			Buckets: []float64{25, 50, 100, 200, 400, 800, 1600, 3000, 5000, 10000},
		},
		[]string{"service"},
	)

	cacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "Cache lookups per entity and result (hit/miss).",
		},
		[]string{"entity", "result"},
	)

	creditsConsumed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "credits_consumed_total",
			Help: "Credit units successfully deducted.",
		},
	)
)

// MustRegister registers collectors with the default registry (idempotent).
func MustRegister() {
	once.Do(func() {
		prometheus.MustRegister(
			consultasTotal, creditGateBlocks, lookupLatencyMs,
			cacheRequests, creditsConsumed,
		)
	})
}

func IncConsulta(service string, success bool) {
	consultasTotal.WithLabelValues(service, strconv.FormatBool(success)).Inc()
}

func IncCreditGateBlock() { creditGateBlocks.Inc() }

func ObserveLookupLatency(service string, ms float64) {
	lookupLatencyMs.WithLabelValues(service).Observe(ms)
}

func IncCacheRequest(entity, result string) {
	cacheRequests.WithLabelValues(entity, result).Inc()
}

func IncCreditConsumed() { creditsConsumed.Inc() }
