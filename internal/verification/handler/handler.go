package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"mediconnect/internal/platform/middleware"
	"mediconnect/internal/subject"
	"mediconnect/internal/verification"
	dErrors "mediconnect/pkg/domain-errors"
	"mediconnect/pkg/platform/httputil"
	"mediconnect/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/handler_mock.go -package=mocks

// Service defines the interface for verification pipeline operations.
type Service interface {
	VerifyDocument(ctx context.Context, ev verification.StorageEvent) (*verification.DocumentOutcome, error)
	VerifyIdentity(ctx context.Context, req verification.IdentityRequest) (*verification.IdentityOutcome, error)
	OfficerDecision(ctx context.Context, role subject.Role, subjectID string, approve bool, officerID string) (subject.Status, error)
	GetSubject(ctx context.Context, role subject.Role, subjectID string) (*verification.SubjectView, error)
}

// Handler wires verification endpoints to the pipeline service.
type Handler struct {
	service      Service
	logger       *slog.Logger
	jwtValidator middleware.TokenValidator
}

// New constructs a verification handler with its dependencies.
func New(service Service, logger *slog.Logger, jwtValidator middleware.TokenValidator) *Handler {
	return &Handler{
		service:      service,
		logger:       logger,
		jwtValidator: jwtValidator,
	}
}

// Register mounts the verification endpoints on the router. The officer
// decision endpoint sits behind bearer authentication; the submission
// endpoints are reached by onboarding frontends before a session exists.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/verification/identity", h.HandleVerifyIdentity)
	r.Post("/v1/verification/document", h.HandleVerifyDocument)
	r.Get("/v1/subjects/{role}/{subjectID}", h.HandleGetSubject)

	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		pr.Post("/v1/verification/officer-decision", h.HandleOfficerDecision)
	})
}

// HandleVerifyIdentity handles POST /v1/verification/identity.
func (h *Handler) HandleVerifyIdentity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[*IdentityVerifyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	outcome, err := h.service.VerifyIdentity(ctx, verification.IdentityRequest{
		Role:      req.ParsedRole(),
		SubjectID: req.UserID,
		Selfie:    req.SelfieBytes(),
		IDCard:    req.IDCardBytes(),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "identity verification failed",
			"request_id", requestID,
			"subject_id", req.UserID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "identity verification completed",
		"request_id", requestID,
		"subject_id", req.UserID,
		"role", string(req.ParsedRole()),
		"matched", outcome.Matched,
		"store_outcome", outcome.StoreOutcome,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromIdentityOutcome(outcome))
}

// HandleVerifyDocument handles POST /v1/verification/document, the webhook
// form of the storage-upload trigger. Completed runs answer 200 even when
// the scan fails, so the event source does not retry a final outcome.
func (h *Handler) HandleVerifyDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[*DocumentEventRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	outcome, err := h.service.VerifyDocument(ctx, verification.StorageEvent{
		Bucket: req.Bucket,
		Key:    req.Key,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "document verification failed",
			"request_id", requestID,
			"key", req.Key,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "document verification completed",
		"request_id", requestID,
		"subject_id", outcome.SubjectID,
		"scan_passed", outcome.ScanPassed,
		"store_outcome", outcome.StoreOutcome,
	)

	httputil.WriteJSON(w, http.StatusOK, FromDocumentOutcome(outcome))
}

// HandleOfficerDecision handles POST /v1/verification/officer-decision.
func (h *Handler) HandleOfficerDecision(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	officerID := requestcontext.OfficerID(ctx)
	if officerID == "" {
		h.logger.ErrorContext(ctx, "officer ID missing from context despite auth middleware",
			"request_id", requestID,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[*OfficerDecisionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	status, err := h.service.OfficerDecision(ctx, req.ParsedRole(), req.SubjectID, req.Approve, officerID)
	if err != nil {
		h.logger.ErrorContext(ctx, "officer decision failed",
			"request_id", requestID,
			"subject_id", req.SubjectID,
			"officer_id", officerID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, OfficerDecisionResponse{
		SubjectID: req.SubjectID,
		Status:    string(status),
	})
}

// HandleGetSubject handles GET /v1/subjects/{role}/{subjectID}.
func (h *Handler) HandleGetSubject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	role, err := subject.ParseRole(chi.URLParam(r, "role"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	subjectID := chi.URLParam(r, "subjectID")
	if subjectID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "subject ID is required"))
		return
	}

	view, err := h.service.GetSubject(ctx, role, subjectID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromSubjectView(view))
}
