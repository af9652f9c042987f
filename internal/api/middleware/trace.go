package middleware

import (
	"log/slog"
	"net/http"
	"regexp"

	"github.com/yachaflex/yachaflex-api/internal/api/shared"
	"github.com/yachaflex/yachaflex-api/internal/platform/logger"
)

// TraceHeader carries the trace ID on requests and responses.
const TraceHeader = "X-Trace-ID"

var validTraceID = regexp.MustCompile(`^[A-Za-z0-9-]{8,64}$`)

// Trace returns middleware that assigns every request a trace ID and a
// request-scoped logger carrying it. A well-formed incoming X-Trace-ID is
// reused; otherwise a new one is generated.
func Trace(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := r.Header.Get(TraceHeader)
			if !validTraceID.MatchString(traceID) {
				traceID = shared.NewTraceID()
			}

			ctx := shared.WithTraceID(r.Context(), traceID)
			log := base.With(slog.String("trace_id", traceID))
			ctx = logger.WithLogger(ctx, log)

			w.Header().Set(TraceHeader, traceID)

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
