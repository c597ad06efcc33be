package service

import (
	"net/http"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService bundles the Prometheus collectors for the API: request
// latency, cache behaviour and the enrollment/billing counters.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter

	enrollmentsCreated   *prometheus.CounterVec
	enrollmentsCancelled prometheus.Counter
	installmentsPaid     prometheus.Counter
	remindersSent        prometheus.Counter

	cacheHitCount  uint64
	cacheMissCount uint64
}

// NewMetricsService registers the collectors on a fresh registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	enrollmentsCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "enrollments_created_total",
		Help: "Enrollments created, labelled by item type",
	}, []string{"type"})

	enrollmentsCancelled := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "enrollments_cancelled_total",
		Help: "Enrollments cancelled",
	})

	installmentsPaid := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "installments_paid_total",
		Help: "Installments marked paid",
	})

	remindersSent := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payment_reminders_sent_total",
		Help: "Overdue payment reminders delivered",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio,
		cacheHits, cacheMisses, enrollmentsCreated, enrollmentsCancelled, installmentsPaid,
		remindersSent, goroutines)

	return &MetricsService{
		registry:             registry,
		handler:              promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:      requestDuration,
		requestTotal:         requestTotal,
		cacheLatency:         cacheLatency,
		cacheWrite:           cacheWrite,
		cacheHitRatio:        cacheHitRatio,
		cacheHits:            cacheHits,
		cacheMisses:          cacheMisses,
		enrollmentsCreated:   enrollmentsCreated,
		enrollmentsCancelled: enrollmentsCancelled,
		installmentsPaid:     installmentsPaid,
		remindersSent:        remindersSent,
	}
}

// Handler exposes the registry for the /metrics endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one handled request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if s == nil {
		return
	}
	labels := prometheus.Labels{"method": method, "path": path, "status": strconv.Itoa(status)}
	s.requestDuration.With(labels).Observe(duration.Seconds())
	s.requestTotal.With(labels).Inc()
}

// RecordCacheOperation records a cache lookup and refreshes the hit ratio.
func (s *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if s == nil {
		return
	}
	s.cacheLatency.Observe(duration.Seconds())
	if hit {
		s.cacheHits.Inc()
		atomic.AddUint64(&s.cacheHitCount, 1)
	} else {
		s.cacheMisses.Inc()
		atomic.AddUint64(&s.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&s.cacheHitCount)
	misses := atomic.LoadUint64(&s.cacheMissCount)
	if total := hits + misses; total > 0 {
		s.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite records the latency of a cache set.
func (s *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if s == nil {
		return
	}
	s.cacheWrite.Observe(duration.Seconds())
}

// CountEnrollment bumps the created counter for the item type.
func (s *MetricsService) CountEnrollment(itemType string) {
	if s == nil {
		return
	}
	s.enrollmentsCreated.WithLabelValues(itemType).Inc()
}

// CountCancellation bumps the cancellation counter.
func (s *MetricsService) CountCancellation() {
	if s == nil {
		return
	}
	s.enrollmentsCancelled.Inc()
}

// CountPayment bumps the paid-installment counter.
func (s *MetricsService) CountPayment() {
	if s == nil {
		return
	}
	s.installmentsPaid.Inc()
}

// CountReminder bumps the delivered-reminder counter.
func (s *MetricsService) CountReminder() {
	if s == nil {
		return
	}
	s.remindersSent.Inc()
}
