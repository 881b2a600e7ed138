package middleware

import (
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/rs/zerolog"
)

// LoggingMiddleware writes one access log line per request. The segment after
// any of secretPrefixes is masked in the logged path.
func LoggingMiddleware(logger zerolog.Logger, secretPrefixes ...string) func(http.Handler) http.Handler {
	logger = logger.With().Str("component", "http").Logger()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m := httpsnoop.CaptureMetrics(next, w, r)

			event := logger.Info()
			if m.Code >= http.StatusInternalServerError {
				event = logger.Error()
			} else if m.Code >= http.StatusBadRequest {
				event = logger.Warn()
			}
			event.
				Str("method", r.Method).
				Str("path", redactPath(r.URL.EscapedPath(), secretPrefixes)).
				Int("status", m.Code).
				Int64("bytes", m.Written).
				Dur("duration", m.Duration).
				Msg("request handled")
		})
	}
}
