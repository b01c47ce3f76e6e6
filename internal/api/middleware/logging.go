package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"solsight/internal/metrics"
	"solsight/pkg/logger"
)

// Logging logs every request and records request metrics
type Logging struct {
	log *logger.Logger
}

// NewLogging creates a new logging middleware
func NewLogging(log *logger.Logger) *Logging {
	return &Logging{
		log: log.With("middleware", "http"),
	}
}

// Handler wraps next with request logging
func (m *Logging) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		route := routeName(r)
		metrics.RecordHTTPRequest(route, wrapped.statusCode, duration)

		fields := []interface{}{
			"method", r.Method,
			"route", route,
			"query", r.URL.RawQuery,
			"status", wrapped.statusCode,
			"duration_ms", duration.Milliseconds(),
			"bytes", wrapped.written,
		}

		log := m.log.FromContext(r.Context())
		switch {
		case wrapped.statusCode >= http.StatusInternalServerError:
			log.Warnw("HTTP request failed", fields...)
		case r.URL.Path == "/metrics" || r.URL.Path == "/live":
			log.Debugw("HTTP request", fields...)
		default:
			log.Infow("HTTP request", fields...)
		}
	})
}

// routeName is the matched route template, so metric labels stay bounded
func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

// statusRecorder wraps http.ResponseWriter to capture status code and size
type statusRecorder struct {
	http.ResponseWriter
	statusCode  int
	written     int
	wroteHeader bool
}

func (rw *statusRecorder) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.written += n
	return n, err
}
