package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus collectors for the tubestats backend.
var Metrics = struct {
	AnalysesTotal    *prometheus.CounterVec
	UpstreamErrors   *prometheus.CounterVec
	HistoryWrites    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	DBPoolActive     prometheus.GaugeFunc
	DBPoolIdle       prometheus.GaugeFunc
}{}

// Init registers all Prometheus metrics on reg. Call once at startup. pool may
// be nil when history is not stored in Postgres.
func Init(reg prometheus.Registerer, pool *pgxpool.Pool) {
	Metrics.AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubestats_analyses_total",
			Help: "Completed analyses, by kind (keyword, channel, benchmark).",
		},
		[]string{"kind"},
	)

	Metrics.UpstreamErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubestats_upstream_errors_total",
			Help: "YouTube API failures, by category (quota, credential, other).",
		},
		[]string{"kind"},
	)

	Metrics.HistoryWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubestats_history_writes_total",
			Help: "History document rewrites, by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)

	Metrics.RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tubestats_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by endpoint and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	Metrics.RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tubestats_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	Metrics.CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tubestats_fetch_cache_hits_total",
			Help: "Fetch cache hits.",
		},
	)

	Metrics.CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tubestats_fetch_cache_misses_total",
			Help: "Fetch cache misses, including expired entries.",
		},
	)

	if pool != nil {
		Metrics.DBPoolActive = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "tubestats_db_connection_pool_active",
				Help: "Number of active database connections.",
			},
			func() float64 {
				return float64(pool.Stat().AcquiredConns())
			},
		)

		Metrics.DBPoolIdle = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "tubestats_db_connection_pool_idle",
				Help: "Number of idle database connections.",
			},
			func() float64 {
				return float64(pool.Stat().IdleConns())
			},
		)

		reg.MustRegister(Metrics.DBPoolActive, Metrics.DBPoolIdle)
	}

	reg.MustRegister(
		Metrics.AnalysesTotal,
		Metrics.UpstreamErrors,
		Metrics.HistoryWrites,
		Metrics.RequestDuration,
		Metrics.RequestsInFlight,
		Metrics.CacheHits,
		Metrics.CacheMisses,
	)
}

// The helpers below are no-ops until Init has run, so services can record
// unconditionally (and unit tests need no registry).

func CacheHit() {
	if Metrics.CacheHits != nil {
		Metrics.CacheHits.Inc()
	}
}

func CacheMiss() {
	if Metrics.CacheMisses != nil {
		Metrics.CacheMisses.Inc()
	}
}

func Analysis(kind string) {
	if Metrics.AnalysesTotal != nil {
		Metrics.AnalysesTotal.WithLabelValues(kind).Inc()
	}
}

func UpstreamError(kind string) {
	if Metrics.UpstreamErrors != nil {
		Metrics.UpstreamErrors.WithLabelValues(kind).Inc()
	}
}

func HistoryWrite(op string, err error) {
	if Metrics.HistoryWrites == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	Metrics.HistoryWrites.WithLabelValues(op, outcome).Inc()
}
