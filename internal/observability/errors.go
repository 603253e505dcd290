package observability

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"termcalc/internal/handlers"
)

// RecordError is the rejection path shared by the session endpoints. It
// marks the span failed, counts the failure under kind, logs it with the
// request id and answers with status and {"error": msg}.
func RecordError(ctx context.Context, span trace.Span, logger *zap.Logger, counter metric.Int64Counter, kind, msg string, err error, status int, w http.ResponseWriter) {
	span.RecordError(err, trace.WithAttributes(attribute.String("error.kind", kind)))
	span.SetStatus(codes.Error, msg)

	counter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.Int("status", status),
	))

	log := logger.Warn
	if status >= http.StatusInternalServerError {
		log = logger.Error
	}
	log(msg,
		zap.String("kind", kind),
		zap.Int("status", status),
		zap.Error(err),
		zap.String("request_id", RequestIDFromContext(ctx)),
	)

	handlers.WriteError(w, status, msg)
}
