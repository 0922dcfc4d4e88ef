package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hens"

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	StoreOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "store_operations_total", Help: "Document store calls."},
		[]string{"collection", "op", "outcome"},
	)
	StoreLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace, Name: "store_operation_duration_seconds",
			Help:    "Document store call duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"collection", "op"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"},
	)
	MediaOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "media_operations_total", Help: "Object storage uploads and removals."},
		[]string{"op", "outcome"},
	)
	MediaOrphans = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "media_orphans_total", Help: "Images left behind after their record was deleted."},
	)
	Notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "notifications_total", Help: "Booking notifications sent."},
		[]string{"channel", "outcome"},
	)
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: namespace, Name: "active_sessions", Help: "Admin sessions started and not yet ended in this process."},
	)
)

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		HTTPRequests, HTTPLatency,
		StoreOperations, StoreLatency,
		CacheEvents,
		MediaOperations, MediaOrphans,
		Notifications,
		ActiveSessions,
	)
	return reg
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

// ObserveStore records one store call. notFound is reported separately so a
// missing record does not read as a failure.
func ObserveStore(collection, op string, err error, notFound error, dur time.Duration) {
	StoreOperations.WithLabelValues(collection, op, outcome(err, notFound)).Inc()
	StoreLatency.WithLabelValues(collection, op).Observe(dur.Seconds())
}

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}

func ObserveMedia(op string, err error) {
	MediaOperations.WithLabelValues(op, outcome(err, nil)).Inc()
}

func ObserveOrphan() {
	MediaOrphans.Inc()
}

func ObserveNotification(channel string, err error) {
	Notifications.WithLabelValues(channel, outcome(err, nil)).Inc()
}

func outcome(err error, notFound error) string {
	switch {
	case err == nil:
		return "ok"
	case notFound != nil && errors.Is(err, notFound):
		return "not_found"
	default:
		return "error"
	}
}
