package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pep299/lessonfeed/internal/logging"
)

// LoggerFunc builds the logger for a single request
type LoggerFunc func(r *http.Request, fields ...zap.Field) *zap.Logger

// FunctionLogger writes through the function framework's per-execution writer
func FunctionLogger(level string) LoggerFunc {
	return func(r *http.Request, fields ...zap.Field) *zap.Logger {
		return logging.ForRequest(r, level, fields...)
	}
}

// Logging attaches a request-scoped logger to the context and logs each
// completed request
func Logging(newLogger LoggerFunc) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			logger := newLogger(r,
				zap.String("request_id", RequestIDFromContext(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
			)

			// Wrap the ResponseWriter to capture status code
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r.WithContext(logging.WithContext(r.Context(), logger)))

			logger.Info("request completed",
				zap.Int("status", wrapped.statusCode),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
