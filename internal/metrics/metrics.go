package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Web server metrics.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "g2pk_http_requests_total",
		Help: "Total HTTP requests by route, method, and status code",
	}, []string{"route", "method", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "g2pk_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"route", "method"})

	RateLimitHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "g2pk_rate_limit_hits_total",
		Help: "Total rate limit rejections",
	})
)

// Transcription metrics.
var (
	Transcriptions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "g2pk_transcriptions_total",
		Help: "Transcriptions by speech register",
	}, []string{"mode"})

	TranscriptionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "g2pk_transcription_duration_seconds",
		Help:    "Time spent in one pipeline run",
		Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05},
	})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "g2pk_cache_lookups_total",
		Help: "Stored transcription lookups by result",
	}, []string{"result"})

	BatchLines = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "g2pk_batch_lines_total",
		Help: "Batch input lines by result",
	}, []string{"result"})
)

// Database pool metrics (gauges updated periodically).
var (
	DBPoolTotalConns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "g2pk_db_pool_total_conns",
		Help: "Total number of connections in the pool",
	})

	DBPoolIdleConns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "g2pk_db_pool_idle_conns",
		Help: "Number of idle connections in the pool",
	})

	DBPoolAcquiredConns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "g2pk_db_pool_acquired_conns",
		Help: "Number of acquired connections in the pool",
	})

	DBPoolMaxConns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "g2pk_db_pool_max_conns",
		Help: "Max connections configured for the pool",
	})
)
