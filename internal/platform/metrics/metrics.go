package metrics

import (
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "petboarding_http_requests_total",
		Help: "Total number of HTTP requests processed.",
	}, []string{"method", "path"})

	httpErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "petboarding_http_errors_total",
		Help: "Total number of HTTP requests resulting in server errors.",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "petboarding_http_request_duration_seconds",
		Help:    "Histogram of latencies for HTTP requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

// Middleware registra contadores y latencias por request.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := strconv.Itoa(ww.Status())
			path := r.URL.Path

			httpRequestsTotal.WithLabelValues(r.Method, path).Inc()
			httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
			if ww.Status() >= http.StatusInternalServerError {
				httpErrorsTotal.WithLabelValues(r.Method, path, status).Inc()
			}
		})
	}
}

// Handler expone el endpoint de Prometheus.
func Handler() http.Handler {
	return promhttp.Handler()
}
