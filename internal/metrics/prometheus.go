package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Upstream REST API metrics
	UpstreamCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solsight_upstream_calls_total",
			Help: "Total number of third-party API calls",
		},
		[]string{"service", "outcome"}, // outcome: ok|soft|hard|error
	)

	UpstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "solsight_upstream_latency_seconds",
			Help:    "Third-party API latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"service"},
	)

	// Solana RPC metrics
	RPCCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solsight_rpc_calls_total",
			Help: "Total number of Solana RPC calls",
		},
		[]string{"method", "status"}, // status: success|error|rate_limited
	)

	RPCRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solsight_rpc_retries_total",
			Help: "Total number of RPC retries after a 429",
		},
		[]string{"method"},
	)

	RPCLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "solsight_rpc_latency_seconds",
			Help:    "Solana RPC latency in seconds, retries included",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
		},
		[]string{"method"},
	)

	// Pipeline metrics
	Classifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solsight_classifications_total",
			Help: "Total number of address classifications by resulting kind",
		},
		[]string{"kind"},
	)

	Analyses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solsight_token_analyses_total",
			Help: "Total number of token analyses",
		},
		[]string{"status"}, // status: success|error
	)

	AnalysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "solsight_token_analysis_duration_seconds",
			Help:    "Token analysis duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
		},
	)

	// Cache metrics
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solsight_cache_lookups_total",
			Help: "Total number of response cache lookups",
		},
		[]string{"namespace", "result"}, // result: hit|miss|error
	)

	// Inbound HTTP metrics
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solsight_http_requests_total",
			Help: "Total number of inbound HTTP requests",
		},
		[]string{"route", "code"},
	)

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "solsight_http_request_duration_seconds",
			Help:    "Inbound HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"route"},
	)
)

var initOnce sync.Once

// Init registers all metrics with Prometheus. Repeated calls are no-ops.
func Init() {
	initOnce.Do(register)
}

func register() {
	// Upstream metrics
	prometheus.MustRegister(UpstreamCalls)
	prometheus.MustRegister(UpstreamLatency)

	// RPC metrics
	prometheus.MustRegister(RPCCalls)
	prometheus.MustRegister(RPCRetries)
	prometheus.MustRegister(RPCLatency)

	// Pipeline metrics
	prometheus.MustRegister(Classifications)
	prometheus.MustRegister(Analyses)
	prometheus.MustRegister(AnalysisDuration)

	// Cache metrics
	prometheus.MustRegister(CacheLookups)

	// HTTP metrics
	prometheus.MustRegister(HTTPRequests)
	prometheus.MustRegister(HTTPDuration)
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordUpstreamCall records a third-party API call
func RecordUpstreamCall(service, outcome string, latency time.Duration) {
	UpstreamCalls.WithLabelValues(service, outcome).Inc()
	UpstreamLatency.WithLabelValues(service).Observe(latency.Seconds())
}

// RecordRPCCall records a Solana RPC call
func RecordRPCCall(method string, latency time.Duration, status string) {
	RPCCalls.WithLabelValues(method, status).Inc()
	RPCLatency.WithLabelValues(method).Observe(latency.Seconds())
}

// RecordRPCRetry records one retry of a rate-limited RPC call
func RecordRPCRetry(method string) {
	RPCRetries.WithLabelValues(method).Inc()
}

// RecordClassification records the kind an address was classified as
func RecordClassification(kind string) {
	Classifications.WithLabelValues(kind).Inc()
}

// RecordAnalysis records a token analysis
func RecordAnalysis(duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	Analyses.WithLabelValues(status).Inc()
	AnalysisDuration.Observe(duration.Seconds())
}

// RecordCacheLookup records a response cache lookup
func RecordCacheLookup(namespace, result string) {
	CacheLookups.WithLabelValues(namespace, result).Inc()
}

// RecordHTTPRequest records an inbound HTTP request
func RecordHTTPRequest(route string, code int, duration time.Duration) {
	HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	HTTPDuration.WithLabelValues(route).Observe(duration.Seconds())
}
