package middleware

import (
	"context"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type contextKey string

const loggerKey contextKey = "logger"

// RequestLogger logs one line per request and stores a request-scoped logger
// in the context. Place it after chi's RequestID middleware.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			reqLogger := logger
			if id := chimw.GetReqID(r.Context()); id != "" {
				reqLogger = logger.With(zap.String("request_id", id))
			}
			ctx := context.WithValue(r.Context(), loggerKey, reqLogger)

			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			reqLogger.Info("HTTP Request",
				zap.Int("status", status),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Int("bytes", ww.BytesWritten()),
				zap.String("user-agent", r.UserAgent()),
				zap.Duration("latency", time.Since(start)),
			)
		})
	}
}

// Logger extracts the request-scoped logger, falling back to a no-op logger.
func Logger(ctx context.Context) *zap.Logger {
	logger, ok := ctx.Value(loggerKey).(*zap.Logger)
	if !ok {
		return zap.NewNop()
	}
	return logger
}
