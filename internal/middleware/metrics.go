package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cms_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cms_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			path := normalizePath(r.URL.Path)

			wrapped := newResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
			httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

// normalizePath folds content names, field names and ids into placeholders so
// label cardinality stays bounded.
func normalizePath(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	switch segments[0] {
	case "contents":
		switch len(segments) {
		case 1:
			return "/contents"
		case 2:
			return "/contents/{name}"
		case 3:
			switch segments[2] {
			case "events":
				return "/contents/{name}/events"
			case "ws":
				return "/contents/{name}/ws"
			}
			return "/contents/{name}/{field}"
		}
	case "collections":
		if len(segments) == 2 {
			return "/collections/{id}"
		}
	case "imports":
		if len(segments) == 2 && segments[1] == "openapi" {
			return "/imports/openapi"
		}
	case "health", "metrics":
		if len(segments) == 1 {
			return "/" + segments[0]
		}
	}
	return "other"
}
