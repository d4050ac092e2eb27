package subject

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediconnect/pkg/platform/sentinel"
)

func TestApplyDiplomaResultCreatesRecord(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	status, err := store.ApplyDiplomaResult(ctx, DiplomaUpdate{
		Role:         RoleDoctor,
		SubjectID:    "doc-1",
		AutoVerified: true,
		DiplomaRef:   "s3://bucket/diplomas/doctors/doc-1/scan.jpg",
		Proposed:     StatusPendingReview,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPendingReview, status)

	rec, err := store.Get(ctx, RoleDoctor, "doc-1")
	require.NoError(t, err)
	assert.True(t, rec.DiplomaAutoVerified)
	assert.Equal(t, "s3://bucket/diplomas/doctors/doc-1/scan.jpg", rec.DiplomaRef)
}

func TestApplyDiplomaResultIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	upd := DiplomaUpdate{
		Role:         RoleDoctor,
		SubjectID:    "doc-1",
		AutoVerified: true,
		DiplomaRef:   "s3://bucket/key",
		Proposed:     StatusPendingReview,
	}

	first, err := store.ApplyDiplomaResult(ctx, upd)
	require.NoError(t, err)
	second, err := store.ApplyDiplomaResult(ctx, upd)
	require.NoError(t, err)

	assert.Equal(t, StatusPendingReview, first)
	assert.Equal(t, StatusPendingReview, second)

	rec, err := store.Get(ctx, RoleDoctor, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "s3://bucket/key", rec.DiplomaRef)
}

func TestStatusNeverRegresses(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.ApplyDiplomaResult(ctx, DiplomaUpdate{
		Role: RoleDoctor, SubjectID: "doc-1", AutoVerified: true,
		DiplomaRef: "s3://b/k", Proposed: StatusPendingReview,
	})
	require.NoError(t, err)

	_, err = store.ApplyOfficerApproval(ctx, RoleDoctor, "doc-1")
	require.NoError(t, err)

	// A later failed resubmission records the outcome but must not downgrade
	// the officer-approved tier.
	status, err := store.ApplyDiplomaResult(ctx, DiplomaUpdate{
		Role: RoleDoctor, SubjectID: "doc-1", AutoVerified: false,
		DiplomaRef: "s3://b/k2", Proposed: StatusRejectedAuto,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusOfficerApproved, status)

	rec, err := store.Get(ctx, RoleDoctor, "doc-1")
	require.NoError(t, err)
	assert.False(t, rec.DiplomaAutoVerified)
	assert.Equal(t, StatusOfficerApproved, rec.Status)
}

func TestConcurrentDimensionsDoNotClobber(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = store.ApplyDiplomaResult(ctx, DiplomaUpdate{
			Role: RoleDoctor, SubjectID: "doc-1", AutoVerified: true,
			DiplomaRef: "s3://b/diploma", Proposed: StatusPendingReview,
		})
	}()
	go func() {
		defer wg.Done()
		_, _ = store.ApplyIdentityResult(ctx, IdentityUpdate{
			Role: RoleDoctor, SubjectID: "doc-1",
			AvatarRef: "doctor/doc-1/selfie_verified", Proposed: StatusPendingReview,
		})
	}()
	wg.Wait()

	rec, err := store.Get(ctx, RoleDoctor, "doc-1")
	require.NoError(t, err)
	assert.True(t, rec.DiplomaAutoVerified)
	assert.True(t, rec.IdentityVerified)
	assert.Equal(t, "s3://b/diploma", rec.DiplomaRef)
	assert.Equal(t, "doctor/doc-1/selfie_verified", rec.AvatarRef)
	assert.Equal(t, StatusPendingReview, rec.Status)
}

func TestOfficerApproval(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	t.Run("missing record", func(t *testing.T) {
		_, err := store.ApplyOfficerApproval(ctx, RoleDoctor, "nobody")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("not pending", func(t *testing.T) {
		_, err := store.ApplyDiplomaResult(ctx, DiplomaUpdate{
			Role: RoleDoctor, SubjectID: "doc-rejected", AutoVerified: false,
			DiplomaRef: "s3://b/k", Proposed: StatusRejectedAuto,
		})
		require.NoError(t, err)

		_, err = store.ApplyOfficerApproval(ctx, RoleDoctor, "doc-rejected")
		assert.ErrorIs(t, err, sentinel.ErrInvalidState)
	})

	t.Run("approval is idempotent", func(t *testing.T) {
		_, err := store.ApplyDiplomaResult(ctx, DiplomaUpdate{
			Role: RoleDoctor, SubjectID: "doc-ok", AutoVerified: true,
			DiplomaRef: "s3://b/k", Proposed: StatusPendingReview,
		})
		require.NoError(t, err)

		first, err := store.ApplyOfficerApproval(ctx, RoleDoctor, "doc-ok")
		require.NoError(t, err)
		second, err := store.ApplyOfficerApproval(ctx, RoleDoctor, "doc-ok")
		require.NoError(t, err)

		assert.Equal(t, StatusOfficerApproved, first)
		assert.Equal(t, StatusOfficerApproved, second)
	})
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		raw     string
		want    Role
		wantErr bool
	}{
		{"doctor", RoleDoctor, false},
		{"provider", RoleDoctor, false},
		{"patient", RolePatient, false},
		{"", RolePatient, false},
		{"admin", "", true},
	}
	for _, tt := range tests {
		t.Run("role "+tt.raw, func(t *testing.T) {
			got, err := ParseRole(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusRank(t *testing.T) {
	ordered := []Status{StatusUnverified, StatusRejectedAuto, StatusPendingReview, StatusVerified, StatusOfficerApproved}
	for i := 1; i < len(ordered); i++ {
		assert.Greater(t, ordered[i].Rank(), ordered[i-1].Rank(),
			"%s should outrank %s", ordered[i], ordered[i-1])
	}
	assert.Equal(t, 0, Status("bogus").Rank())
}
