package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"freightops/harbormaster/internal/logging"
	"freightops/harbormaster/internal/metrics"
)

// MetricsMiddleware records HTTP metrics and a completion log line for each
// request. The chi route pattern is used as the endpoint label so that path
// parameters do not explode metric cardinality.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		metrics.HTTPRequestsInFlight.Inc()
		wrapped := &statusRecorder{ResponseWriter: w, statusCode: 200}
		next.ServeHTTP(wrapped, r)
		metrics.HTTPRequestsInFlight.Dec()

		routePattern := chi.RouteContext(r.Context()).RoutePattern()
		if routePattern == "" {
			routePattern = "unknown"
		}

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(wrapped.statusCode)

		metrics.HTTPRequestsTotal.WithLabelValues(routePattern, r.Method, statusCode).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(routePattern, r.Method).Observe(duration)

		logging.Info("HTTP request completed",
			"request_id", w.Header().Get("X-Request-ID"),
			"method", r.Method,
			"endpoint", routePattern,
			"status_code", wrapped.statusCode,
			"duration_ms", int(duration*1000),
		)
	})
}

// RequestIDMiddleware assigns each request an ID for tracing, honoring one
// the caller already set.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the status code
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.written {
		r.statusCode = code
		r.written = true
		r.ResponseWriter.WriteHeader(code)
	}
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.written {
		r.statusCode = 200
		r.written = true
	}
	return r.ResponseWriter.Write(b)
}
