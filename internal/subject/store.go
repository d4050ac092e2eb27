package subject

import "context"

// DiplomaUpdate carries only the fields of the diploma dimension, so a
// concurrent identity submission for the same subject cannot be clobbered.
type DiplomaUpdate struct {
	Role         Role
	SubjectID    string
	AutoVerified bool
	DiplomaRef   string
	// Proposed is the status the state machine computed for this outcome.
	// Stores apply it only when it outranks the current status.
	Proposed Status
}

// IdentityUpdate carries only the fields of the identity dimension. Issued
// exclusively for successful matches; failed matches leave the record alone.
type IdentityUpdate struct {
	Role      Role
	SubjectID string
	AvatarRef string
	Proposed  Status
}

// Store is the subject record store. Updates are upserts: the original
// platform created the verification record on first contact, and redelivered
// events must behave identically whether or not the row already exists.
//
// Implementations must make Apply* calls idempotent (reapplying the same
// transition is a no-op) and monotonic (the persisted status never moves to a
// lower rank).
type Store interface {
	Get(ctx context.Context, role Role, subjectID string) (*Subject, error)
	ApplyDiplomaResult(ctx context.Context, upd DiplomaUpdate) (Status, error)
	ApplyIdentityResult(ctx context.Context, upd IdentityUpdate) (Status, error)
	// ApplyOfficerApproval promotes a doctor from PENDING_REVIEW to
	// OFFICER_APPROVED. Returns sentinel.ErrNotFound for a missing record and
	// sentinel.ErrInvalidState when the subject is not awaiting review.
	ApplyOfficerApproval(ctx context.Context, role Role, subjectID string) (Status, error)
}
