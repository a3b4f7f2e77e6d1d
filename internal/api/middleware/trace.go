package middleware

import (
	"log/slog"
	"net/http"

	"github.com/smarttask/smarttask-api/internal/api/shared"
	"github.com/smarttask/smarttask-api/internal/platform/logger"
)

// TraceMiddleware adds a trace ID to the request context and installs a
// trace-scoped logger, so downstream code picking up the context logger
// tags every line with the request's trace ID. It should be applied early
// in the middleware chain.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())

		log := slog.With(slog.String("trace_id", shared.GetTraceID(ctx)))
		ctx = logger.WithLogger(ctx, log)

		log.Debug("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
