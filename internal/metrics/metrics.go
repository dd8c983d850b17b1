// Package metrics holds the Prometheus collectors for the album service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photoalbum_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photoalbum_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	HTTPActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photoalbum_http_active_requests",
			Help: "Current number of in-flight HTTP requests",
		},
	)

	// Album metrics
	PhotosPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photoalbum_photos_published_total",
			Help: "Total number of photos published",
		},
	)

	UploadsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photoalbum_uploads_rejected_total",
			Help: "Total number of rejected uploads",
		},
		[]string{"reason"},
	)

	CommentsPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photoalbum_comments_published_total",
			Help: "Total number of comments published",
		},
	)

	CommentsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photoalbum_comments_rejected_total",
			Help: "Total number of rejected comments",
		},
		[]string{"reason"},
	)

	SearchQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photoalbum_search_queries_total",
			Help: "Total number of full-text searches",
		},
		[]string{"result"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photoalbum_notifications_total",
			Help: "Total number of notification emails by outcome",
		},
		[]string{"kind", "result"},
	)

	// Tagger metrics
	TaggerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photoalbum_tagger_requests_total",
			Help: "Total number of keyword tagger calls",
		},
		[]string{"result"},
	)

	TaggerDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "photoalbum_tagger_duration_seconds",
			Help:    "Keyword tagger call duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	// TaggerCircuitState is 0 when closed, 1 when half-open and 2 when open.
	TaggerCircuitState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photoalbum_tagger_circuit_state",
			Help: "Keyword tagger circuit breaker state",
		},
	)
)

// RecordHTTPRequest records a finished request against its route pattern.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func TrackActiveRequest(inc bool) {
	if inc {
		HTTPActiveRequests.Inc()
	} else {
		HTTPActiveRequests.Dec()
	}
}

func RecordPhotoPublished() {
	PhotosPublished.Inc()
}

func RecordUploadRejected(reason string) {
	UploadsRejected.WithLabelValues(reason).Inc()
}

func RecordCommentPublished() {
	CommentsPublished.Inc()
}

func RecordCommentRejected(reason string) {
	CommentsRejected.WithLabelValues(reason).Inc()
}

// RecordSearch counts a search as a hit when it matched anything.
func RecordSearch(total int) {
	result := "empty"
	if total > 0 {
		result = "hit"
	}
	SearchQueries.WithLabelValues(result).Inc()
}

func RecordNotification(kind string, err error) {
	NotificationsTotal.WithLabelValues(kind, resultLabel(err)).Inc()
}

func RecordTagger(duration time.Duration, err error) {
	TaggerRequests.WithLabelValues(resultLabel(err)).Inc()
	TaggerDuration.Observe(duration.Seconds())
}

func SetTaggerCircuitState(state float64) {
	TaggerCircuitState.Set(state)
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
