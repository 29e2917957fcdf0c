package server

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/caraudioevents/subdesigner/internal/logger"
	"github.com/caraudioevents/subdesigner/internal/telemetry"
)

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// route registers h under pattern behind rate limiting, tracing, metrics
// and request logging. The pattern doubles as the metric route label.
func (s *Server) route(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.Handle(pattern, s.instrument(pattern, h))
}

func (s *Server) instrument(pattern string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		ctx, span := telemetry.Tracer().Start(r.Context(), pattern,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", r.Method),
				attribute.String("url.path", r.URL.Path),
			),
		)
		defer span.End()

		if s.limiter != nil && !s.limiter.Allow() {
			writeJSON(rec, http.StatusTooManyRequests, errorBody{Error: "rate limit exceeded"})
		} else {
			h(rec, r.WithContext(ctx))
		}

		span.SetAttributes(attribute.Int("http.response.status_code", rec.status))
		if rec.status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(rec.status))
		}

		elapsed := time.Since(start)
		s.metrics.ObserveRequest(pattern, rec.status, elapsed)

		s.log.WithFields(logger.Fields{
			"route":       pattern,
			"path":        r.URL.Path,
			"status":      rec.status,
			"duration_ms": float64(elapsed.Nanoseconds()) / 1e6,
		}).Info("request")
	})
}
