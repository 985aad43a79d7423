package middleware

import (
	"net/http"
	"time"

	"cendra-go/pkg/logger"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger writes one record per request through log.
func RequestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			args := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", chimw.GetReqID(r.Context()),
			}
			if status >= http.StatusInternalServerError {
				log.Error("http.request", args...)
				return
			}
			log.Info("http.request", args...)
		})
	}
}
