// Package analytics records verification outcomes to an append-only event
// log. Recording is always best-effort: the pipeline invokes it through the
// besteffort wrapper and never lets a failed insert alter a decision.
package analytics

import (
	"context"
	"time"

	"mediconnect/internal/subject"
)

// EventType names the verification dimension an event belongs to.
type EventType string

const (
	EventDiplomaVerification  EventType = "diploma_verification"
	EventIdentityVerification EventType = "identity_verification"
)

// Outcome is the automated decision recorded for an event.
type Outcome string

const (
	OutcomePassed Outcome = "passed"
	OutcomeFailed Outcome = "failed"
)

// Event is one write-once verification record. ID doubles as the idempotency
// key under at-least-once redelivery.
type Event struct {
	ID         string
	SubjectID  string
	Role       subject.Role
	EventType  EventType
	Outcome    Outcome
	OccurredAt time.Time
}

// Recorder appends events to the log.
type Recorder interface {
	InsertEvent(ctx context.Context, ev Event) error
}

// OutcomeFor converts a pass/fail bool to the recorded outcome.
func OutcomeFor(passed bool) Outcome {
	if passed {
		return OutcomePassed
	}
	return OutcomeFailed
}
