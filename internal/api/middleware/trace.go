package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/scry-feed/internal/api/shared"
	"github.com/phrazzld/scry-feed/internal/platform/logger"
)

// TraceHeader echoes the request trace id to clients.
const TraceHeader = "X-Trace-ID"

// TraceMiddleware assigns a trace id to the request and stores a logger
// carrying it in the request context. Mount it before any handler that logs.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())
		traceID := shared.GetTraceID(ctx)

		log := logger.FromContext(ctx).With(slog.String("trace_id", traceID))
		ctx = logger.WithLogger(ctx, log)

		log.Debug("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		w.Header().Set(TraceHeader, traceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
