// Package subject owns the verification state of doctors and patients: the
// record schema, the status tiers, and the conditional transitions the
// pipeline is allowed to apply.
package subject

import (
	"time"

	dErrors "mediconnect/pkg/domain-errors"
)

// Role distinguishes the two subject populations. Doctors require officer
// approval; patients terminate at VERIFIED.
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// ParseRole normalizes the role names inbound requests use. Frontends send
// "provider" for doctors; an empty role means patient.
func ParseRole(raw string) (Role, error) {
	switch raw {
	case "doctor", "provider":
		return RoleDoctor, nil
	case "patient", "":
		return RolePatient, nil
	default:
		return "", dErrors.New(dErrors.CodeBadRequest, "unknown role: "+raw)
	}
}

// Status is the single authoritative verification tier for a subject.
type Status string

const (
	StatusUnverified      Status = "UNVERIFIED"
	StatusRejectedAuto    Status = "REJECTED_AUTO"
	StatusPendingReview   Status = "PENDING_REVIEW"
	StatusVerified        Status = "VERIFIED"
	StatusOfficerApproved Status = "OFFICER_APPROVED"
)

// Rank orders status tiers. The pipeline only ever moves a subject to a
// higher rank; officer approval and verified tiers are never regressed by an
// automated run.
func (s Status) Rank() int {
	switch s {
	case StatusRejectedAuto:
		return 1
	case StatusPendingReview:
		return 2
	case StatusVerified:
		return 3
	case StatusOfficerApproved:
		return 4
	default:
		return 0
	}
}

// Valid reports whether s is one of the defined tiers.
func (s Status) Valid() bool {
	switch s {
	case StatusUnverified, StatusRejectedAuto, StatusPendingReview, StatusVerified, StatusOfficerApproved:
		return true
	}
	return false
}

// Subject is a doctor or patient profile under verification.
type Subject struct {
	ID                  string
	Role                Role
	DiplomaAutoVerified bool
	IdentityVerified    bool
	Status              Status
	AvatarRef           string
	DiplomaRef          string
	UpdatedAt           time.Time
}
