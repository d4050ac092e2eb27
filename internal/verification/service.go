package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"mediconnect/internal/analytics"
	"mediconnect/internal/imagestore"
	"mediconnect/internal/notify"
	"mediconnect/internal/subject"
	"mediconnect/internal/textextract"
	"mediconnect/internal/verification/metrics"
	dErrors "mediconnect/pkg/domain-errors"
	"mediconnect/pkg/platform/besteffort"
	"mediconnect/pkg/platform/sentinel"
)

var tracer = otel.Tracer("verification")

// Service is the verification pipeline orchestrator. It consumes validator
// and matcher outputs, computes the next subject status, issues the record
// update, and fires notification and analytics as best-effort side effects.
type Service struct {
	store      subject.Store
	images     imagestore.Store
	extractor  textextract.Extractor
	matcher    *Matcher
	dispatcher notify.Dispatcher
	recorder   analytics.Recorder
	metrics    *metrics.Metrics
	logger     *slog.Logger

	alertSubject string
	presignTTL   time.Duration
}

// Deps carries the collaborators the service orchestrates. Everything is an
// explicit dependency so tests can substitute fakes.
type Deps struct {
	Store      subject.Store
	Images     imagestore.Store
	Extractor  textextract.Extractor
	Matcher    *Matcher
	Dispatcher notify.Dispatcher
	Recorder   analytics.Recorder
	Metrics    *metrics.Metrics
	Logger     *slog.Logger

	AlertSubject string
	PresignTTL   time.Duration
}

func NewService(deps Deps) *Service {
	return &Service{
		store:        deps.Store,
		images:       deps.Images,
		extractor:    deps.Extractor,
		matcher:      deps.Matcher,
		dispatcher:   deps.Dispatcher,
		recorder:     deps.Recorder,
		metrics:      deps.Metrics,
		logger:       deps.Logger,
		alertSubject: deps.AlertSubject,
		presignTTL:   deps.PresignTTL,
	}
}

// VerifyDocument processes one credential upload event. The outcome is
// success-shaped even when the scan fails or the record update fails: a
// REJECTED_AUTO decision and a surfaced persistence diagnostic are both
// final, and redelivering the event would not improve either.
func (s *Service) VerifyDocument(ctx context.Context, ev StorageEvent) (*DocumentOutcome, error) {
	ctx, span := tracer.Start(ctx, "Verification.Service.VerifyDocument")
	defer span.End()

	if ev.Bucket == "" || ev.Key == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "storage event requires bucket and key")
	}

	subjectID := SubjectIDFromKey(ev.Key)
	outcome := &DocumentOutcome{SubjectID: subjectID}

	scan := s.scanDocument(ctx, ev, outcome)
	outcome.ScanPassed = scan.Passed
	outcome.MatchedKeywords = scan.MatchedKeywords

	s.recordEvent(ctx, analytics.Event{
		ID:         documentEventID(ev),
		SubjectID:  subjectID,
		Role:       subject.RoleDoctor,
		EventType:  analytics.EventDiplomaVerification,
		Outcome:    analytics.OutcomeFor(scan.Passed),
		OccurredAt: time.Now().UTC(),
	})

	status, err := s.store.ApplyDiplomaResult(ctx, subject.DiplomaUpdate{
		Role:         subject.RoleDoctor,
		SubjectID:    subjectID,
		AutoVerified: scan.Passed,
		DiplomaRef:   fmt.Sprintf("s3://%s/%s", ev.Bucket, ev.Key),
		Proposed:     nextStatusForDiploma(scan.Passed),
	})
	if err != nil {
		// The automated decision stands; the caller sees both outcomes.
		span.RecordError(err)
		s.logger.ErrorContext(ctx, "diploma record update failed",
			"subject_id", subjectID,
			"error", err.Error(),
		)
		outcome.StoreOutcome = "update failed: " + err.Error()
		return outcome, nil
	}
	outcome.Status = status
	outcome.StoreOutcome = "updated"
	s.metrics.IncStatusTransition(string(status))

	if scan.Passed {
		s.dispatchReviewAlert(ctx, ev, subjectID)
	}

	return outcome, nil
}

// scanDocument extracts text and runs the content check. Extraction failure
// is converted into a failed scan with an explicit reason instead of an
// error; the subject's record still moves to REJECTED_AUTO.
func (s *Service) scanDocument(ctx context.Context, ev StorageEvent, outcome *DocumentOutcome) DocumentScanResult {
	start := time.Now()
	lines, err := s.extractor.ExtractLines(ctx, ev.Bucket, ev.Key)
	s.metrics.ObserveCollaboratorLatency("textract", time.Since(start))
	if err != nil {
		s.logger.WarnContext(ctx, "document text extraction failed",
			"bucket", ev.Bucket,
			"key", ev.Key,
			"error", err.Error(),
		)
		s.metrics.IncScanOutcome("extraction_failed")
		outcome.FailureReason = ReasonExtractionFailed
		return DocumentScanResult{}
	}

	scan := ScanDocumentText(lines)
	if scan.Passed {
		s.metrics.IncScanOutcome("passed")
	} else {
		s.metrics.IncScanOutcome("failed")
	}
	return scan
}

func (s *Service) dispatchReviewAlert(ctx context.Context, ev StorageEvent, subjectID string) {
	besteffort.Do(ctx, s.logger, s.metrics, "notify", func(ctx context.Context) error {
		return s.dispatcher.Publish(ctx, notify.Alert{
			Subject: s.alertSubject,
			Message: fmt.Sprintf(
				"ACTION REQUIRED: Doctor %s has uploaded a diploma. AI Check Passed. Please review and manually approve.",
				subjectID,
			),
			DedupKey: fmt.Sprintf("diploma-pass:%s/%s", ev.Bucket, ev.Key),
		})
	})
}

// VerifyIdentity runs one biometric identity check. Client errors and a
// missing reference image short-circuit before any side effect; a comparison
// service failure aborts before any record mutation.
func (s *Service) VerifyIdentity(ctx context.Context, req IdentityRequest) (*IdentityOutcome, error) {
	ctx, span := tracer.Start(ctx, "Verification.Service.VerifyIdentity")
	defer span.End()

	start := time.Now()
	match, err := s.matcher.Match(ctx, req.Role, req.SubjectID, req.Selfie, req.IDCard)
	s.metrics.ObserveCollaboratorLatency("rekognition", time.Since(start))
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(dErrors.CodeNotFound, "ID document missing, please ensure ID is uploaded", err)
		}
		return nil, dErrors.Wrap(dErrors.CodeUnavailable, "face comparison failed", err)
	}

	outcome := &IdentityOutcome{
		Matched:    match.Matched,
		Similarity: match.Similarity,
	}

	s.recordEvent(ctx, analytics.Event{
		ID:         uuid.NewString(),
		SubjectID:  req.SubjectID,
		Role:       req.Role,
		EventType:  analytics.EventIdentityVerification,
		Outcome:    analytics.OutcomeFor(match.Matched),
		OccurredAt: time.Now().UTC(),
	})

	if !match.Matched {
		s.metrics.IncMatchOutcome(string(req.Role), "failed")
		outcome.Message = "Face does not match the provided ID card."
		return outcome, nil
	}
	s.metrics.IncMatchOutcome(string(req.Role), "passed")
	outcome.Message = fmt.Sprintf("Identity Verified. Confidence: %.2f%%", match.Similarity)

	// The verified selfie becomes the avatar. Records hold the storage key,
	// never a URL; the presigned link below exists only for this response.
	selfieKey := match.CandidateImageKey
	if err := s.images.Put(ctx, selfieKey, req.Selfie, "image/jpeg", ""); err != nil {
		span.RecordError(err)
		return nil, dErrors.Wrap(dErrors.CodeUnavailable, "failed to persist verified selfie", err)
	}

	if url, err := s.images.PresignedGetURL(ctx, selfieKey, s.presignTTL); err != nil {
		s.logger.WarnContext(ctx, "presign verified selfie failed",
			"key", selfieKey,
			"error", err.Error(),
		)
	} else {
		outcome.PhotoURL = url
	}

	status, err := s.store.ApplyIdentityResult(ctx, subject.IdentityUpdate{
		Role:      req.Role,
		SubjectID: req.SubjectID,
		AvatarRef: selfieKey,
		Proposed:  nextStatusForIdentity(req.Role),
	})
	if err != nil {
		span.RecordError(err)
		s.logger.ErrorContext(ctx, "identity record update failed",
			"subject_id", req.SubjectID,
			"error", err.Error(),
		)
		outcome.StoreOutcome = "update failed: " + err.Error()
		return outcome, nil
	}
	outcome.Status = status
	outcome.StoreOutcome = "updated"
	s.metrics.IncStatusTransition(string(status))

	return outcome, nil
}

// OfficerDecision applies a human reviewer's verdict. Approval promotes a
// doctor from PENDING_REVIEW to OFFICER_APPROVED. A rejection never
// regresses the stored status automatically; it is logged as an auditable
// action and leaves the record for an explicit follow-up.
func (s *Service) OfficerDecision(ctx context.Context, role subject.Role, subjectID string, approve bool, officerID string) (subject.Status, error) {
	ctx, span := tracer.Start(ctx, "Verification.Service.OfficerDecision")
	defer span.End()

	if !approve {
		rec, err := s.store.Get(ctx, role, subjectID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return "", dErrors.Wrap(dErrors.CodeNotFound, "subject not found", err)
			}
			return "", dErrors.Wrap(dErrors.CodeInternal, "failed to load subject", err)
		}
		s.logger.InfoContext(ctx, "officer rejected subject",
			"subject_id", subjectID,
			"role", string(role),
			"officer_id", officerID,
			"status", string(rec.Status),
		)
		return rec.Status, nil
	}

	status, err := s.store.ApplyOfficerApproval(ctx, role, subjectID)
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return "", dErrors.Wrap(dErrors.CodeNotFound, "subject not found", err)
		case errors.Is(err, sentinel.ErrInvalidState):
			return "", dErrors.Wrap(dErrors.CodeConflict, "subject is not awaiting review", err)
		default:
			return "", dErrors.Wrap(dErrors.CodeInternal, "failed to apply officer approval", err)
		}
	}

	s.logger.InfoContext(ctx, "officer approved subject",
		"subject_id", subjectID,
		"role", string(role),
		"officer_id", officerID,
	)
	s.metrics.IncStatusTransition(string(status))
	return status, nil
}

// SubjectView is a subject record with a short-lived avatar URL for display.
type SubjectView struct {
	Subject   *subject.Subject
	AvatarURL string
}

// GetSubject loads one record and mints a presigned avatar URL when an
// avatar exists. A presign failure degrades to no URL rather than failing
// the read.
func (s *Service) GetSubject(ctx context.Context, role subject.Role, subjectID string) (*SubjectView, error) {
	ctx, span := tracer.Start(ctx, "Verification.Service.GetSubject")
	defer span.End()

	rec, err := s.store.Get(ctx, role, subjectID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(dErrors.CodeNotFound, "subject not found", err)
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load subject", err)
	}

	view := &SubjectView{Subject: rec}
	if rec.AvatarRef != "" {
		if url, err := s.images.PresignedGetURL(ctx, rec.AvatarRef, s.presignTTL); err != nil {
			s.logger.WarnContext(ctx, "presign avatar failed",
				"key", rec.AvatarRef,
				"error", err.Error(),
			)
		} else {
			view.AvatarURL = url
		}
	}
	return view, nil
}

func (s *Service) recordEvent(ctx context.Context, ev analytics.Event) {
	besteffort.Do(ctx, s.logger, s.metrics, "analytics", func(ctx context.Context) error {
		return s.recorder.InsertEvent(ctx, ev)
	})
}

// documentEventID derives a stable analytics event ID from the triggering
// upload, so a redelivered event inserts the same row.
func documentEventID(ev StorageEvent) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("diploma:"+ev.Bucket+"/"+ev.Key)).String()
}
