package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// statusRecorder captures the status code and body size for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written int64
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.written += int64(n)
	return n, err
}

// Unwrap lets http.ResponseController reach the Flusher of SSE streams.
func (w *statusRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// requestFields collects values that inner handlers learn during the request, such as the
// admin resolved by RequireAuth. The outer logger cannot see contexts derived below it.
type requestFields struct {
	adminID string
}

const requestFieldsKey contextKey = "requestFields"

func requestFieldsFrom(ctx context.Context) *requestFields {
	f, _ := ctx.Value(requestFieldsKey).(*requestFields)
	return f
}

// LoggingMiddleware writes one record per request. Server errors log at error level and client
// errors at warn. Bodies are never logged.
func LoggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		fields := &requestFields{}
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestFieldsKey, fields)))

		attrs := []slog.Attr{
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Int64("bytes", rec.written),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		}
		if fields.adminID != "" {
			attrs = append(attrs, slog.String("admin_id", fields.adminID))
		}
		logger.LogAttrs(r.Context(), levelForStatus(rec.status), "request", attrs...)
	})
}

func levelForStatus(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
