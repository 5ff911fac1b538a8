package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-hclog"
)

// Logger logs one line per request with status, size and duration
func Logger(logger hclog.Logger) func(http.Handler) http.Handler {
	logger = logger.Named("http")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				args := []interface{}{
					"method", r.Method,
					"path", r.URL.Path,
					"status", status,
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
				}
				if reqID := chimw.GetReqID(r.Context()); reqID != "" {
					args = append(args, "request_id", reqID)
				}

				switch {
				case status >= 500:
					logger.Error("request", args...)
				case status >= 400:
					logger.Warn("request", args...)
				default:
					logger.Info("request", args...)
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
