package observability

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/bexps-backend/internal/platform/logger"
)

// Metrics owns the service's collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	reg *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	uploads          *prometheus.CounterVec
	uploadBytes      prometheus.Counter
	ingestRuns       *prometheus.CounterVec
	ingestElements   *prometheus.CounterVec
	ingestDuration   prometheus.Histogram
	deletes          prometheus.Counter
	orphanedFiles    prometheus.Counter
	exports          prometheus.Counter
	busPublishFailed *prometheus.CounterVec

	dbStats   *prometheus.GaugeVec
	redisUp   prometheus.Gauge
	redisPing prometheus.Gauge
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Init builds the process-wide metrics once.
func Init(log *logger.Logger) *Metrics {
	initOnce.Do(func() {
		instance = NewMetrics(prometheus.NewRegistry())
		if log != nil {
			log.Info("prometheus metrics initialized")
		}
	})
	return instance
}

func Current() *Metrics {
	return instance
}

// NewMetrics registers every collector on reg, together with the Go runtime
// and process collectors.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,

		apiRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bexps_api_requests_total",
				Help: "Total API requests by method/route/status.",
			},
			[]string{"method", "route", "status"},
		),
		apiLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bexps_api_request_duration_seconds",
				Help:    "API request latency in seconds by method/route/status.",
				Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"method", "route", "status"},
		),
		apiInflight: f.NewGauge(prometheus.GaugeOpts{
			Name: "bexps_api_inflight_requests",
			Help: "In-flight API requests.",
		}),

		uploads: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bexps_model_uploads_total",
				Help: "Model uploads by outcome.",
			},
			[]string{"status"},
		),
		uploadBytes: f.NewCounter(prometheus.CounterOpts{
			Name: "bexps_model_upload_bytes_total",
			Help: "Bytes of model files stored.",
		}),
		ingestRuns: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bexps_ingest_runs_total",
				Help: "Element ingestion runs by outcome.",
			},
			[]string{"status"},
		),
		ingestElements: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bexps_ingest_elements_total",
				Help: "Ingested payload items by result (created/skipped).",
			},
			[]string{"result"},
		),
		ingestDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "bexps_ingest_duration_seconds",
			Help:    "Duration of the ingestion transaction.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		}),
		deletes: f.NewCounter(prometheus.CounterOpts{
			Name: "bexps_model_deletes_total",
			Help: "Models deleted.",
		}),
		orphanedFiles: f.NewCounter(prometheus.CounterOpts{
			Name: "bexps_orphaned_files_total",
			Help: "Stored model files whose delete failed and may be orphaned.",
		}),
		exports: f.NewCounter(prometheus.CounterOpts{
			Name: "bexps_equipment_exports_total",
			Help: "Equipment spreadsheet exports generated.",
		}),
		busPublishFailed: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bexps_bus_publish_failures_total",
				Help: "Model events that could not be published.",
			},
			[]string{"type"},
		),

		dbStats: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "bexps_db_pool",
				Help: "database/sql pool statistics.",
			},
			[]string{"stat"},
		),
		redisUp: f.NewGauge(prometheus.GaugeOpts{
			Name: "bexps_redis_up",
			Help: "1 when the last redis ping succeeded.",
		}),
		redisPing: f.NewGauge(prometheus.GaugeOpts{
			Name: "bexps_redis_ping_seconds",
			Help: "Latency of the last redis ping.",
		}),
	}
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	code := strconv.Itoa(status)
	m.apiRequests.WithLabelValues(method, route, code).Inc()
	m.apiLatency.WithLabelValues(method, route, code).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveUpload(status string, size int64) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(status).Inc()
	if status == "ok" && size > 0 {
		m.uploadBytes.Add(float64(size))
	}
}

func (m *Metrics) ObserveIngest(status string, created, skipped int, dur time.Duration) {
	if m == nil {
		return
	}
	m.ingestRuns.WithLabelValues(status).Inc()
	m.ingestDuration.Observe(dur.Seconds())
	if created > 0 {
		m.ingestElements.WithLabelValues("created").Add(float64(created))
	}
	if skipped > 0 {
		m.ingestElements.WithLabelValues("skipped").Add(float64(skipped))
	}
}

func (m *Metrics) IncModelDeleted() {
	if m == nil {
		return
	}
	m.deletes.Inc()
}

func (m *Metrics) IncOrphanedFile() {
	if m == nil {
		return
	}
	m.orphanedFiles.Inc()
}

func (m *Metrics) IncExport() {
	if m == nil {
		return
	}
	m.exports.Inc()
}

func (m *Metrics) IncBusPublishFailed(eventType string) {
	if m == nil {
		return
	}
	m.busPublishFailed.WithLabelValues(eventType).Inc()
}

func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB, interval time.Duration) {
	if m == nil || db == nil {
		return
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: db stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.dbStats.WithLabelValues("open_connections").Set(float64(stats.OpenConnections))
				m.dbStats.WithLabelValues("in_use").Set(float64(stats.InUse))
				m.dbStats.WithLabelValues("idle").Set(float64(stats.Idle))
				m.dbStats.WithLabelValues("wait_count").Set(float64(stats.WaitCount))
				m.dbStats.WithLabelValues("wait_duration_seconds").Set(stats.WaitDuration.Seconds())
				m.dbStats.WithLabelValues("max_open_connections").Set(float64(stats.MaxOpenConnections))
			}
		}
	}()
}

func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, addr string, interval time.Duration) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				_ = rdb.Close()
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}
