// Package besteffort names the execution policy for side effects that must
// never block or fail the primary verification flow: reviewer notifications
// and analytics events. Failures are logged with structure and counted, never
// propagated.
package besteffort

import (
	"context"
	"fmt"
	"log/slog"
)

// FailureCounter records best-effort failures, usually a Prometheus counter.
type FailureCounter interface {
	IncBestEffortFailure(step string)
}

// Do runs fn, converting any error or panic into a structured log entry.
// The caller cannot observe the failure; that is the point.
func Do(ctx context.Context, logger *slog.Logger, counter FailureCounter, step string, fn func(ctx context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			record(ctx, logger, counter, step, fmt.Errorf("panic: %v", r))
		}
	}()

	if err := fn(ctx); err != nil {
		record(ctx, logger, counter, step, err)
	}
}

func record(ctx context.Context, logger *slog.Logger, counter FailureCounter, step string, err error) {
	if counter != nil {
		counter.IncBestEffortFailure(step)
	}
	if logger != nil {
		logger.WarnContext(ctx, "best-effort step failed",
			"step", step,
			"error", err.Error(),
		)
	}
}
