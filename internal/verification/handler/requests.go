package handler

import (
	"encoding/base64"
	"strings"

	"mediconnect/internal/subject"
	dErrors "mediconnect/pkg/domain-errors"
)

// IdentityVerifyRequest is the HTTP request body for
// POST /v1/verification/identity. Images arrive base64-encoded; the ID image
// is optional when a reference exists from a prior submission.
type IdentityVerifyRequest struct {
	UserID      string `json:"userId"`
	Role        string `json:"role"`
	SelfieImage string `json:"selfieImage"`
	IDImage     string `json:"idImage"`

	// Parsed values (populated by Validate)
	parsedRole  subject.Role
	selfieBytes []byte
	idCardBytes []byte
}

// Validate validates and parses the request, decoding both images. Decode
// failure is a client input error; no external call has happened yet.
func (r *IdentityVerifyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.UserID = strings.TrimSpace(r.UserID)
	if r.UserID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "userId is required")
	}

	role, err := subject.ParseRole(r.Role)
	if err != nil {
		return err
	}
	r.parsedRole = role

	if r.SelfieImage == "" {
		return dErrors.New(dErrors.CodeBadRequest, "selfieImage is required")
	}
	r.selfieBytes, err = base64.StdEncoding.DecodeString(r.SelfieImage)
	if err != nil {
		return dErrors.New(dErrors.CodeBadRequest, "selfieImage is not valid base64")
	}

	if r.IDImage != "" {
		r.idCardBytes, err = base64.StdEncoding.DecodeString(r.IDImage)
		if err != nil {
			return dErrors.New(dErrors.CodeBadRequest, "idImage is not valid base64")
		}
	}

	return nil
}

// ParsedRole returns the normalized role.
func (r *IdentityVerifyRequest) ParsedRole() subject.Role { return r.parsedRole }

// SelfieBytes returns the decoded candidate selfie.
func (r *IdentityVerifyRequest) SelfieBytes() []byte { return r.selfieBytes }

// IDCardBytes returns the decoded reference ID image, nil when not supplied.
func (r *IdentityVerifyRequest) IDCardBytes() []byte { return r.idCardBytes }

// DocumentEventRequest is the webhook body for
// POST /v1/verification/document, mirroring the storage-upload notification.
type DocumentEventRequest struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

func (r *DocumentEventRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if strings.TrimSpace(r.Bucket) == "" || strings.TrimSpace(r.Key) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "bucket and key are required")
	}
	return nil
}

// OfficerDecisionRequest is the HTTP request body for
// POST /v1/verification/officer-decision.
type OfficerDecisionRequest struct {
	SubjectID string `json:"subjectId"`
	Role      string `json:"role"`
	Approve   bool   `json:"approve"`

	parsedRole subject.Role
}

func (r *OfficerDecisionRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.SubjectID = strings.TrimSpace(r.SubjectID)
	if r.SubjectID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "subjectId is required")
	}

	role, err := subject.ParseRole(r.Role)
	if err != nil {
		return err
	}
	r.parsedRole = role
	return nil
}

// ParsedRole returns the normalized role.
func (r *OfficerDecisionRequest) ParsedRole() subject.Role { return r.parsedRole }
