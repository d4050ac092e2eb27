package subject

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mediconnect/pkg/platform/sentinel"
)

// PostgresStore implements Store against the subjects table. Transitions are
// single conditional upserts: each statement touches only the columns of its
// verification dimension and advances the status column only when the
// proposed tier outranks the stored one, so concurrent diploma and identity
// writes for the same subject cannot clobber each other.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// statusRank ranks a status column or value inline. Keeping the ranking in
// SQL makes the monotonic guard atomic with the write.
func statusRank(expr string) string {
	return fmt.Sprintf(`CASE %s
		WHEN 'REJECTED_AUTO' THEN 1
		WHEN 'PENDING_REVIEW' THEN 2
		WHEN 'VERIFIED' THEN 3
		WHEN 'OFFICER_APPROVED' THEN 4
		ELSE 0 END`, expr)
}

func (s *PostgresStore) Get(ctx context.Context, role Role, subjectID string) (*Subject, error) {
	query := `
		SELECT subject_id, role, is_diploma_auto_verified, is_identity_verified,
		       verification_status, avatar_ref, diploma_ref, updated_at
		FROM subjects
		WHERE role = $1 AND subject_id = $2
	`
	var rec Subject
	err := s.db.QueryRowContext(ctx, query, string(role), subjectID).Scan(
		&rec.ID,
		&rec.Role,
		&rec.DiplomaAutoVerified,
		&rec.IdentityVerified,
		&rec.Status,
		&rec.AvatarRef,
		&rec.DiplomaRef,
		&rec.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query subject: %w", err)
	}
	return &rec, nil
}

func (s *PostgresStore) ApplyDiplomaResult(ctx context.Context, upd DiplomaUpdate) (Status, error) {
	query := fmt.Sprintf(`
		INSERT INTO subjects (role, subject_id, is_diploma_auto_verified, diploma_ref, verification_status, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (role, subject_id) DO UPDATE SET
			is_diploma_auto_verified = EXCLUDED.is_diploma_auto_verified,
			diploma_ref = EXCLUDED.diploma_ref,
			verification_status = CASE
				WHEN %s > %s THEN EXCLUDED.verification_status
				ELSE subjects.verification_status END,
			updated_at = now()
		RETURNING verification_status
	`, statusRank("EXCLUDED.verification_status"), statusRank("subjects.verification_status"))

	var status Status
	err := s.db.QueryRowContext(ctx, query,
		string(upd.Role), upd.SubjectID, upd.AutoVerified, upd.DiplomaRef, string(upd.Proposed),
	).Scan(&status)
	if err != nil {
		return "", fmt.Errorf("apply diploma result: %w", err)
	}
	return status, nil
}

func (s *PostgresStore) ApplyIdentityResult(ctx context.Context, upd IdentityUpdate) (Status, error) {
	query := fmt.Sprintf(`
		INSERT INTO subjects (role, subject_id, is_identity_verified, avatar_ref, verification_status, updated_at)
		VALUES ($1, $2, TRUE, $3, $4, now())
		ON CONFLICT (role, subject_id) DO UPDATE SET
			is_identity_verified = TRUE,
			avatar_ref = EXCLUDED.avatar_ref,
			verification_status = CASE
				WHEN %s > %s THEN EXCLUDED.verification_status
				ELSE subjects.verification_status END,
			updated_at = now()
		RETURNING verification_status
	`, statusRank("EXCLUDED.verification_status"), statusRank("subjects.verification_status"))

	var status Status
	err := s.db.QueryRowContext(ctx, query,
		string(upd.Role), upd.SubjectID, upd.AvatarRef, string(upd.Proposed),
	).Scan(&status)
	if err != nil {
		return "", fmt.Errorf("apply identity result: %w", err)
	}
	return status, nil
}

func (s *PostgresStore) ApplyOfficerApproval(ctx context.Context, role Role, subjectID string) (Status, error) {
	query := `
		UPDATE subjects
		SET verification_status = 'OFFICER_APPROVED', updated_at = now()
		WHERE role = $1 AND subject_id = $2
		  AND verification_status IN ('PENDING_REVIEW', 'OFFICER_APPROVED')
		RETURNING verification_status
	`
	var status Status
	err := s.db.QueryRowContext(ctx, query, string(role), subjectID).Scan(&status)
	if err == nil {
		return status, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("apply officer approval: %w", err)
	}

	// No eligible row: distinguish missing from wrong state.
	current, getErr := s.Get(ctx, role, subjectID)
	if getErr != nil {
		return "", getErr
	}
	return current.Status, sentinel.ErrInvalidState
}
