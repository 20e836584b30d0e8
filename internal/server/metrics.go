package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var constLabels = map[string]string{"app": "gitscope"}

// Metrics groups the collectors the server updates.
type Metrics struct {
	parses         *prometheus.CounterVec
	parseDuration  prometheus.Histogram
	objectsDecoded *prometheus.CounterVec
	objectsDropped prometheus.Counter
	sessions       prometheus.Gauge
	httpDuration   *prometheus.HistogramVec
	httpResponses  *prometheus.CounterVec
}

// NewMetrics registers the server collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		parses: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "gitscope_parses_total",
			Help:        "Archive uploads parsed, partitioned by result.",
			ConstLabels: constLabels,
		}, []string{"result"}),
		parseDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:        "gitscope_parse_duration_seconds",
			Help:        "Time spent extracting and parsing an upload.",
			ConstLabels: constLabels,
			Buckets:     prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		objectsDecoded: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "gitscope_objects_decoded_total",
			Help:        "Loose objects decoded, partitioned by type.",
			ConstLabels: constLabels,
		}, []string{"type"}),
		objectsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name:        "gitscope_objects_dropped_total",
			Help:        "Loose objects that failed to decode or verify.",
			ConstLabels: constLabels,
		}),
		sessions: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "gitscope_sessions",
			Help:        "Snapshot sessions currently held in memory.",
			ConstLabels: constLabels,
		}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_duration_seconds",
			Help:        "Duration of HTTP requests.",
			ConstLabels: constLabels,
		}, []string{"path", "method", "status"}),
		httpResponses: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_response_total",
			Help:        "HTTP responses, partitioned by status code, method and path template.",
			ConstLabels: constLabels,
		}, []string{"path", "method", "status"}),
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument implements mux.MiddlewareFunc.
func (m *Metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		status := strconv.Itoa(rec.status)
		m.httpDuration.WithLabelValues(path, r.Method, status).Observe(time.Since(start).Seconds())
		m.httpResponses.WithLabelValues(path, r.Method, status).Inc()
	})
}
