package analytics

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresRecorder appends verification events to the verification_events
// table.
type PostgresRecorder struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresRecorder {
	return &PostgresRecorder{db: db}
}

// InsertEvent appends one event. ON CONFLICT DO NOTHING makes redelivered
// events (same event ID) a no-op instead of a duplicate row.
func (r *PostgresRecorder) InsertEvent(ctx context.Context, ev Event) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO verification_events (id, subject_id, role, event_type, outcome, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING`,
		ev.ID, ev.SubjectID, string(ev.Role), string(ev.EventType), string(ev.Outcome), ev.OccurredAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert verification event: %w", err)
	}
	return nil
}
