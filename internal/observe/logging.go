package observe

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-hclog"
)

// RequestLogger logs each request as it arrives, before the handler runs.
func RequestLogger(logger hclog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Info("Request received",
				"request_id", RequestIDFromContext(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"received_at", time.Now().UTC().Format(time.RFC3339Nano),
			)

			next.ServeHTTP(w, r)
		})
	}
}

// ResponseLogger logs each response after it was written: status, elapsed time and body size.
func ResponseLogger(logger hclog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("Response sent",
				"request_id", RequestIDFromContext(r.Context()),
				"status", statusOf(ww),
				"duration", time.Since(start).String(),
				"bytes", ww.BytesWritten(),
				"sent_at", time.Now().UTC().Format(time.RFC3339Nano),
			)
		})
	}
}

// statusOf returns the written status, defaulting to 200 when the handler never called WriteHeader.
func statusOf(ww middleware.WrapResponseWriter) int {
	if status := ww.Status(); status != 0 {
		return status
	}
	return http.StatusOK
}
