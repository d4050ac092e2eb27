package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediconnect/internal/analytics"
	"mediconnect/internal/facecompare"
	"mediconnect/internal/imagestore"
	"mediconnect/internal/notify"
	"mediconnect/internal/subject"
	dErrors "mediconnect/pkg/domain-errors"
	"mediconnect/pkg/platform/sentinel"
)

type fakeExtractor struct {
	lines []string
	err   error
}

func (f *fakeExtractor) ExtractLines(context.Context, string, string) ([]string, error) {
	return f.lines, f.err
}

type fakeComparer struct {
	matches []facecompare.FaceMatch
	err     error
}

func (f *fakeComparer) CompareFaces(context.Context, string, string, []byte, float64) ([]facecompare.FaceMatch, error) {
	return f.matches, f.err
}

type fakeDispatcher struct {
	mu     sync.Mutex
	alerts []notify.Alert
}

func (f *fakeDispatcher) Publish(_ context.Context, alert notify.Alert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, alert)
	return nil
}

func (f *fakeDispatcher) sent() []notify.Alert {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notify.Alert(nil), f.alerts...)
}

type fixture struct {
	svc        *Service
	store      *subject.MemoryStore
	images     *imagestore.MemoryStore
	extractor  *fakeExtractor
	comparer   *fakeComparer
	dispatcher *fakeDispatcher
	recorder   *analytics.MemoryRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:      subject.NewMemoryStore(),
		images:     imagestore.NewMemoryStore(),
		extractor:  &fakeExtractor{},
		comparer:   &fakeComparer{},
		dispatcher: &fakeDispatcher{},
		recorder:   analytics.NewMemoryRecorder(),
	}
	f.svc = NewService(Deps{
		Store:        f.store,
		Images:       f.images,
		Extractor:    f.extractor,
		Matcher:      NewMatcher(f.images, f.comparer, "test-bucket", 80.0),
		Dispatcher:   f.dispatcher,
		Recorder:     f.recorder,
		Logger:       slog.New(slog.DiscardHandler),
		AlertSubject: "New Doctor Credential Review",
		PresignTTL:   time.Hour,
	})
	return f
}

func TestVerifyDocumentPassRoutesToReview(t *testing.T) {
	f := newFixture(t)
	f.extractor.lines = []string{"This Diploma certifies Doctor of Medicine, Board Certified Surgeon"}
	ev := StorageEvent{Bucket: "uploads", Key: "uploads/doctors/doc-1/diploma.jpg"}

	outcome, err := f.svc.VerifyDocument(context.Background(), ev)
	require.NoError(t, err)

	assert.True(t, outcome.ScanPassed)
	assert.Equal(t, "doc-1", outcome.SubjectID)
	assert.Equal(t, subject.StatusPendingReview, outcome.Status)
	assert.Equal(t, "updated", outcome.StoreOutcome)

	rec, err := f.store.Get(context.Background(), subject.RoleDoctor, "doc-1")
	require.NoError(t, err)
	assert.True(t, rec.DiplomaAutoVerified)
	assert.Equal(t, "s3://uploads/uploads/doctors/doc-1/diploma.jpg", rec.DiplomaRef)

	alerts := f.dispatcher.sent()
	require.Len(t, alerts, 1)
	assert.Equal(t, "New Doctor Credential Review", alerts[0].Subject)
	assert.Contains(t, alerts[0].Message, "doc-1")

	events := f.recorder.Events()
	require.Len(t, events, 1)
	assert.Equal(t, analytics.EventDiplomaVerification, events[0].EventType)
	assert.Equal(t, analytics.OutcomePassed, events[0].Outcome)
}

func TestVerifyDocumentFailRejectsWithoutAlert(t *testing.T) {
	f := newFixture(t)
	f.extractor.lines = []string{"Photo of a cat sitting on a chair"}

	outcome, err := f.svc.VerifyDocument(context.Background(), StorageEvent{
		Bucket: "uploads", Key: "uploads/doc-2",
	})
	require.NoError(t, err)

	assert.False(t, outcome.ScanPassed)
	assert.Empty(t, outcome.MatchedKeywords)
	assert.Equal(t, subject.StatusRejectedAuto, outcome.Status)
	assert.Empty(t, f.dispatcher.sent())

	rec, err := f.store.Get(context.Background(), subject.RoleDoctor, "doc-2")
	require.NoError(t, err)
	assert.False(t, rec.DiplomaAutoVerified)
}

func TestVerifyDocumentExtractionFailureIsAutomaticFail(t *testing.T) {
	f := newFixture(t)
	f.extractor.err = fmt.Errorf("detect document text: %w", sentinel.ErrUnavailable)

	outcome, err := f.svc.VerifyDocument(context.Background(), StorageEvent{
		Bucket: "uploads", Key: "uploads/doc-3",
	})
	require.NoError(t, err)

	assert.False(t, outcome.ScanPassed)
	assert.Equal(t, ReasonExtractionFailed, outcome.FailureReason)
	assert.Equal(t, subject.StatusRejectedAuto, outcome.Status)
	assert.Empty(t, f.dispatcher.sent())
}

func TestVerifyDocumentRejectsMalformedEvent(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.VerifyDocument(context.Background(), StorageEvent{})
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))
}

func TestVerifyDocumentRedeliveryIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.extractor.lines = []string{"Medical Degree"}
	ev := StorageEvent{Bucket: "uploads", Key: "uploads/doctors/doc-4/diploma.jpg"}

	first, err := f.svc.VerifyDocument(context.Background(), ev)
	require.NoError(t, err)
	second, err := f.svc.VerifyDocument(context.Background(), ev)
	require.NoError(t, err)

	assert.Equal(t, subject.StatusPendingReview, first.Status)
	assert.Equal(t, subject.StatusPendingReview, second.Status)

	rec, err := f.store.Get(context.Background(), subject.RoleDoctor, "doc-4")
	require.NoError(t, err)
	assert.Equal(t, "s3://uploads/uploads/doctors/doc-4/diploma.jpg", rec.DiplomaRef)

	// Redelivery reuses the derived event ID, so analytics stays single.
	assert.Len(t, f.recorder.Events(), 1)

	// Both runs publish with the same dedup key; suppression is the
	// dispatcher's job.
	alerts := f.dispatcher.sent()
	require.Len(t, alerts, 2)
	assert.Equal(t, alerts[0].DedupKey, alerts[1].DedupKey)
}

func TestVerifyIdentityPatientMatchBecomesVerified(t *testing.T) {
	f := newFixture(t)
	f.comparer.matches = []facecompare.FaceMatch{{Similarity: 92.5}}

	outcome, err := f.svc.VerifyIdentity(context.Background(), IdentityRequest{
		Role:      subject.RolePatient,
		SubjectID: "pat-1",
		Selfie:    []byte("selfie-bytes"),
		IDCard:    []byte("id-bytes"),
	})
	require.NoError(t, err)

	assert.True(t, outcome.Matched)
	assert.InDelta(t, 92.5, outcome.Similarity, 0.001)
	assert.Equal(t, subject.StatusVerified, outcome.Status)
	assert.NotEmpty(t, outcome.PhotoURL)

	rec, err := f.store.Get(context.Background(), subject.RolePatient, "pat-1")
	require.NoError(t, err)
	assert.True(t, rec.IdentityVerified)
	assert.Equal(t, "patient/pat-1/selfie_verified.jpg", rec.AvatarRef)

	// The raw ID card is tagged for lifecycle deletion; the selfie is not.
	assert.Equal(t, imagestore.AutoDeleteTag, f.images.Tagging("patient/pat-1/id_card.jpg"))
	assert.Empty(t, f.images.Tagging("patient/pat-1/selfie_verified.jpg"))
}

func TestVerifyIdentityDoctorMatchAwaitsReview(t *testing.T) {
	f := newFixture(t)
	f.comparer.matches = []facecompare.FaceMatch{{Similarity: 88}}

	outcome, err := f.svc.VerifyIdentity(context.Background(), IdentityRequest{
		Role:      subject.RoleDoctor,
		SubjectID: "doc-5",
		Selfie:    []byte("selfie"),
		IDCard:    []byte("id"),
	})
	require.NoError(t, err)
	assert.Equal(t, subject.StatusPendingReview, outcome.Status)
}

func TestVerifyIdentityNoMatchLeavesRecordAlone(t *testing.T) {
	f := newFixture(t)
	f.comparer.matches = nil

	outcome, err := f.svc.VerifyIdentity(context.Background(), IdentityRequest{
		Role:      subject.RolePatient,
		SubjectID: "pat-2",
		Selfie:    []byte("selfie"),
		IDCard:    []byte("id"),
	})
	require.NoError(t, err)

	assert.False(t, outcome.Matched)
	assert.Zero(t, outcome.Similarity)
	assert.Empty(t, outcome.PhotoURL)

	_, err = f.store.Get(context.Background(), subject.RolePatient, "pat-2")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	events := f.recorder.Events()
	require.Len(t, events, 1)
	assert.Equal(t, analytics.OutcomeFailed, events[0].Outcome)
}

func TestVerifyIdentityMissingReference(t *testing.T) {
	f := newFixture(t)
	f.comparer.err = fmt.Errorf("reference image: %w", sentinel.ErrNotFound)

	_, err := f.svc.VerifyIdentity(context.Background(), IdentityRequest{
		Role:      subject.RolePatient,
		SubjectID: "pat-3",
		Selfie:    []byte("selfie"),
	})
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))

	_, err = f.store.Get(context.Background(), subject.RolePatient, "pat-3")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestVerifyIdentityComparisonFailureAbortsBeforeMutation(t *testing.T) {
	f := newFixture(t)
	f.comparer.err = fmt.Errorf("compare faces: %w", sentinel.ErrUnavailable)

	_, err := f.svc.VerifyIdentity(context.Background(), IdentityRequest{
		Role:      subject.RolePatient,
		SubjectID: "pat-4",
		Selfie:    []byte("selfie"),
		IDCard:    []byte("id"),
	})
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeUnavailable))

	_, err = f.store.Get(context.Background(), subject.RolePatient, "pat-4")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

type failingStore struct {
	subject.Store
}

func (failingStore) ApplyDiplomaResult(context.Context, subject.DiplomaUpdate) (subject.Status, error) {
	return "", errors.New("connection refused")
}

func TestVerifyDocumentSurfacesPersistenceFailureWithDecision(t *testing.T) {
	f := newFixture(t)
	f.extractor.lines = []string{"Medical License"}
	f.svc.store = failingStore{Store: f.store}

	outcome, err := f.svc.VerifyDocument(context.Background(), StorageEvent{
		Bucket: "uploads", Key: "uploads/doc-6",
	})
	require.NoError(t, err)

	// The automated decision survives; the persistence failure rides along
	// as a diagnostic.
	assert.True(t, outcome.ScanPassed)
	assert.Contains(t, outcome.StoreOutcome, "update failed")
}

func TestOfficerDecisionApprove(t *testing.T) {
	f := newFixture(t)
	f.extractor.lines = []string{"Medical Degree"}
	_, err := f.svc.VerifyDocument(context.Background(), StorageEvent{
		Bucket: "uploads", Key: "uploads/doctors/doc-7/diploma.jpg",
	})
	require.NoError(t, err)

	status, err := f.svc.OfficerDecision(context.Background(), subject.RoleDoctor, "doc-7", true, "officer-1")
	require.NoError(t, err)
	assert.Equal(t, subject.StatusOfficerApproved, status)
}

func TestOfficerDecisionApproveMissingSubject(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.OfficerDecision(context.Background(), subject.RoleDoctor, "ghost", true, "officer-1")
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))
}

func TestOfficerDecisionRejectLeavesStatus(t *testing.T) {
	f := newFixture(t)
	f.extractor.lines = []string{"Medical Degree"}
	_, err := f.svc.VerifyDocument(context.Background(), StorageEvent{
		Bucket: "uploads", Key: "uploads/doctors/doc-8/diploma.jpg",
	})
	require.NoError(t, err)

	status, err := f.svc.OfficerDecision(context.Background(), subject.RoleDoctor, "doc-8", false, "officer-1")
	require.NoError(t, err)
	assert.Equal(t, subject.StatusPendingReview, status)

	rec, err := f.store.Get(context.Background(), subject.RoleDoctor, "doc-8")
	require.NoError(t, err)
	assert.Equal(t, subject.StatusPendingReview, rec.Status)
}

func TestGetSubjectPresignsAvatar(t *testing.T) {
	f := newFixture(t)
	f.comparer.matches = []facecompare.FaceMatch{{Similarity: 95}}
	_, err := f.svc.VerifyIdentity(context.Background(), IdentityRequest{
		Role:      subject.RolePatient,
		SubjectID: "pat-5",
		Selfie:    []byte("selfie"),
		IDCard:    []byte("id"),
	})
	require.NoError(t, err)

	view, err := f.svc.GetSubject(context.Background(), subject.RolePatient, "pat-5")
	require.NoError(t, err)
	assert.Equal(t, "patient/pat-5/selfie_verified.jpg", view.Subject.AvatarRef)
	assert.NotEmpty(t, view.AvatarURL)
}
