// Package verification implements the credential verification pipeline: the
// document content scan, the biometric identity match, and the state machine
// that reconciles both into a subject's verification status.
package verification

import (
	"strings"

	"mediconnect/internal/subject"
)

// DocumentScanResult is the ephemeral output of the content validator. It is
// returned to the trigger and logged, never persisted as-is.
type DocumentScanResult struct {
	Passed          bool
	MatchedKeywords []string
	TextSnippet     string
}

// BiometricMatchResult is the ephemeral output of a face comparison.
type BiometricMatchResult struct {
	Matched           bool
	Similarity        float64
	ReferenceImageKey string
	CandidateImageKey string
}

// StorageEvent is one storage-upload notification: a credential document
// landed in the bucket.
type StorageEvent struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

// DocumentOutcome is the structured result the document handler returns to
// its trigger. The trigger gets a success-shaped response even for a failed
// scan, because REJECTED_AUTO is a final, correct outcome that must not be
// redelivered.
type DocumentOutcome struct {
	SubjectID       string
	ScanPassed      bool
	MatchedKeywords []string
	FailureReason   string
	Status          subject.Status
	// StoreOutcome describes the record update: persistence failures are
	// surfaced here as a diagnostic, never by voiding the decision above.
	StoreOutcome string
}

// IdentityRequest is a decoded, validated identity verification submission.
// Selfie is required; IDCard is optional when a reference already exists from
// a prior call.
type IdentityRequest struct {
	Role      subject.Role
	SubjectID string
	Selfie    []byte
	IDCard    []byte
}

// IdentityOutcome is the result of one identity verification run.
type IdentityOutcome struct {
	Matched      bool
	Similarity   float64
	Message      string
	PhotoURL     string
	Status       subject.Status
	StoreOutcome string
}

const (
	// ReasonExtractionFailed marks a scan that never ran because the OCR
	// collaborator failed; treated as an automatic fail, not a crash.
	ReasonExtractionFailed = "EXTRACTION_FAILED"

	// UnknownSubjectID is recorded when the storage key carries no
	// recognizable subject segment. The event still completes so the trigger
	// does not redeliver it forever.
	UnknownSubjectID = "unknown_doc"
)

// SubjectIDFromKey derives the subject ID from a hierarchical storage key.
// Keys shaped uploads/doctors/{id}/... carry the ID in the third segment;
// otherwise the second segment is used.
func SubjectIDFromKey(key string) string {
	parts := splitKey(key)
	switch {
	case len(parts) > 2 && parts[1] == "doctors":
		return parts[2]
	case len(parts) > 1:
		return parts[1]
	default:
		return UnknownSubjectID
	}
}

func splitKey(key string) []string {
	return strings.Split(key, "/")
}
