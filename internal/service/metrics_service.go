package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the booking
// and availability paths.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	bookingsTotal   *prometheus.CounterVec
	bookingFailures *prometheus.CounterVec
	availabilityReq prometheus.Counter
	windowsReturned prometheus.Histogram
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter

	cacheHitCount  uint64
	cacheMissCount uint64
	requestCount   uint64
}

// NewMetricsService registers core Prometheus collectors.
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

	bookingsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bookings_total",
		Help: "Total number of committed bookings",
	}, []string{"type"})

	bookingFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_failures_total",
		Help: "Total number of rejected booking attempts",
	}, []string{"code"})

	availabilityReq := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "availability_requests_total",
		Help: "Total number of availability computations",
	})

	windowsReturned := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "availability_windows_returned",
		Help:    "Number of free windows returned per availability request",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "availability_cache_hits_total",
		Help: "Total availability cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "availability_cache_misses_total",
		Help: "Total availability cache misses",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, bookingsTotal, bookingFailures,
		availabilityReq, windowsReturned, cacheHits, cacheMisses, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		bookingsTotal:   bookingsTotal,
		bookingFailures: bookingFailures,
		availabilityReq: availabilityReq,
		windowsReturned: windowsReturned,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
}

// RecordBooking counts a committed booking by meeting type.
func (m *MetricsService) RecordBooking(meetingType string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(meetingType).Inc()
}

// RecordBookingFailure counts a rejected booking attempt by error code.
func (m *MetricsService) RecordBookingFailure(code string) {
	if m == nil {
		return
	}
	m.bookingFailures.WithLabelValues(code).Inc()
}

// RecordAvailability counts an availability computation and its result size.
func (m *MetricsService) RecordAvailability(windows int, cacheHit bool) {
	if m == nil {
		return
	}
	m.availabilityReq.Inc()
	m.windowsReturned.Observe(float64(windows))
	if cacheHit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
}
