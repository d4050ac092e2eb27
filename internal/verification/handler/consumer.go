package handler

import (
	"context"
	"encoding/json"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mediconnect/internal/verification"
)

var consumerTracer = otel.Tracer("verification-consumer")

// EventConsumer adapts storage-upload records from the event stream into
// document verification runs. Its HandleRecord method matches the consumer
// loop's handler signature.
type EventConsumer struct {
	service Service
	logger  *slog.Logger
}

// NewEventConsumer builds the consumer-side entry point of the pipeline.
func NewEventConsumer(service Service, logger *slog.Logger) *EventConsumer {
	return &EventConsumer{service: service, logger: logger}
}

// HandleRecord processes one storage-upload record. It always returns nil:
// every completed run is final (REJECTED_AUTO included), and structurally
// invalid records would fail identically on redelivery.
func (c *EventConsumer) HandleRecord(ctx context.Context, key, value []byte) error {
	ctx, span := consumerTracer.Start(ctx, "Verification.Consumer.HandleRecord",
		trace.WithSpanKind(trace.SpanKindConsumer))
	defer span.End()

	var ev verification.StorageEvent
	if err := json.Unmarshal(value, &ev); err != nil {
		span.RecordError(err)
		c.logger.ErrorContext(ctx, "dropping malformed storage event",
			"record_key", string(key),
			"error", err.Error(),
		)
		return nil
	}

	span.SetAttributes(
		attribute.String("storage.bucket", ev.Bucket),
		attribute.String("storage.key", ev.Key),
	)

	outcome, err := c.service.VerifyDocument(ctx, ev)
	if err != nil {
		span.RecordError(err)
		c.logger.ErrorContext(ctx, "dropping unprocessable storage event",
			"bucket", ev.Bucket,
			"key", ev.Key,
			"error", err.Error(),
		)
		return nil
	}

	c.logger.InfoContext(ctx, "storage event processed",
		"bucket", ev.Bucket,
		"key", ev.Key,
		"subject_id", outcome.SubjectID,
		"scan_passed", outcome.ScanPassed,
		"status", string(outcome.Status),
		"store_outcome", outcome.StoreOutcome,
	)
	return nil
}
