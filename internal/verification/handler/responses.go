package handler

import (
	"time"

	"mediconnect/internal/verification"
)

// IdentityVerifyResponse is the HTTP response for
// POST /v1/verification/identity. The shape is the contract the onboarding
// frontend consumes: photoUrl is null unless the match succeeded.
type IdentityVerifyResponse struct {
	Verified   bool    `json:"verified"`
	Confidence float64 `json:"confidence"`
	Message    string  `json:"message"`
	PhotoURL   *string `json:"photoUrl"`
}

// FromIdentityOutcome converts an identity outcome to its HTTP response.
func FromIdentityOutcome(outcome *verification.IdentityOutcome) *IdentityVerifyResponse {
	resp := &IdentityVerifyResponse{
		Verified:   outcome.Matched,
		Confidence: outcome.Similarity,
		Message:    outcome.Message,
	}
	if outcome.Matched && outcome.PhotoURL != "" {
		resp.PhotoURL = &outcome.PhotoURL
	}
	return resp
}

// DocumentVerifyResponse is the structured summary returned for a processed
// storage event.
type DocumentVerifyResponse struct {
	Message         string   `json:"message"`
	SubjectID       string   `json:"subject_id"`
	ScanPassed      bool     `json:"scan_passed"`
	MatchedKeywords []string `json:"matched_keywords,omitempty"`
	FailureReason   string   `json:"failure_reason,omitempty"`
	Status          string   `json:"status,omitempty"`
	StoreOutcome    string   `json:"db_status"`
}

// FromDocumentOutcome converts a document outcome to its HTTP response.
func FromDocumentOutcome(outcome *verification.DocumentOutcome) *DocumentVerifyResponse {
	return &DocumentVerifyResponse{
		Message:         "Processed",
		SubjectID:       outcome.SubjectID,
		ScanPassed:      outcome.ScanPassed,
		MatchedKeywords: outcome.MatchedKeywords,
		FailureReason:   outcome.FailureReason,
		Status:          string(outcome.Status),
		StoreOutcome:    outcome.StoreOutcome,
	}
}

// OfficerDecisionResponse is the HTTP response for
// POST /v1/verification/officer-decision.
type OfficerDecisionResponse struct {
	SubjectID string `json:"subject_id"`
	Status    string `json:"status"`
}

// SubjectResponse is the HTTP response for GET /v1/subjects/{role}/{id}.
type SubjectResponse struct {
	SubjectID             string    `json:"subject_id"`
	Role                  string    `json:"role"`
	Status                string    `json:"status"`
	IsDiplomaAutoVerified bool      `json:"is_diploma_auto_verified"`
	IsIdentityVerified    bool      `json:"is_identity_verified"`
	AvatarURL             string    `json:"avatar_url,omitempty"`
	DiplomaRef            string    `json:"diploma_ref,omitempty"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// FromSubjectView converts a subject view to its HTTP response.
func FromSubjectView(view *verification.SubjectView) *SubjectResponse {
	return &SubjectResponse{
		SubjectID:             view.Subject.ID,
		Role:                  string(view.Subject.Role),
		Status:                string(view.Subject.Status),
		IsDiplomaAutoVerified: view.Subject.DiplomaAutoVerified,
		IsIdentityVerified:    view.Subject.IdentityVerified,
		AvatarURL:             view.AvatarURL,
		DiplomaRef:            view.Subject.DiplomaRef,
		UpdatedAt:             view.Subject.UpdatedAt,
	}
}
