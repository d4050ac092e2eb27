package subject

import (
	"context"
	"sync"
	"time"

	"mediconnect/pkg/platform/sentinel"
)

type memoryKey struct {
	role Role
	id   string
}

// MemoryStore is the in-memory Store used by unit tests and local runs.
type MemoryStore struct {
	mu       sync.RWMutex
	subjects map[memoryKey]*Subject
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{subjects: make(map[memoryKey]*Subject)}
}

func (s *MemoryStore) Get(_ context.Context, role Role, subjectID string) (*Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.subjects[memoryKey{role: role, id: subjectID}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *rec
	return &copied, nil
}

func (s *MemoryStore) ApplyDiplomaResult(_ context.Context, upd DiplomaUpdate) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.upsertLocked(upd.Role, upd.SubjectID)
	rec.DiplomaAutoVerified = upd.AutoVerified
	rec.DiplomaRef = upd.DiplomaRef
	s.advanceLocked(rec, upd.Proposed)
	return rec.Status, nil
}

func (s *MemoryStore) ApplyIdentityResult(_ context.Context, upd IdentityUpdate) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.upsertLocked(upd.Role, upd.SubjectID)
	rec.IdentityVerified = true
	rec.AvatarRef = upd.AvatarRef
	s.advanceLocked(rec, upd.Proposed)
	return rec.Status, nil
}

func (s *MemoryStore) ApplyOfficerApproval(_ context.Context, role Role, subjectID string) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.subjects[memoryKey{role: role, id: subjectID}]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	switch rec.Status {
	case StatusOfficerApproved:
		return rec.Status, nil
	case StatusPendingReview:
		rec.Status = StatusOfficerApproved
		rec.UpdatedAt = time.Now().UTC()
		return rec.Status, nil
	default:
		return rec.Status, sentinel.ErrInvalidState
	}
}

func (s *MemoryStore) upsertLocked(role Role, subjectID string) *Subject {
	key := memoryKey{role: role, id: subjectID}
	rec, ok := s.subjects[key]
	if !ok {
		rec = &Subject{ID: subjectID, Role: role, Status: StatusUnverified}
		s.subjects[key] = rec
	}
	return rec
}

func (s *MemoryStore) advanceLocked(rec *Subject, proposed Status) {
	if proposed.Rank() > rec.Status.Rank() {
		rec.Status = proposed
	}
	rec.UpdatedAt = time.Now().UTC()
}
