package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

// EnsureSchema creates the tables the service owns. Idempotent so redeploys
// and test containers can call it unconditionally.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS subjects (
			role TEXT NOT NULL,
			subject_id TEXT NOT NULL,
			is_diploma_auto_verified BOOLEAN NOT NULL DEFAULT FALSE,
			is_identity_verified BOOLEAN NOT NULL DEFAULT FALSE,
			verification_status TEXT NOT NULL DEFAULT 'UNVERIFIED',
			avatar_ref TEXT NOT NULL DEFAULT '',
			diploma_ref TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (role, subject_id)
		)`,
		`CREATE TABLE IF NOT EXISTS verification_events (
			id UUID PRIMARY KEY,
			subject_id TEXT NOT NULL,
			role TEXT NOT NULL,
			event_type TEXT NOT NULL,
			outcome TEXT NOT NULL,
			occurred_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_verification_events_subject
			ON verification_events (subject_id, occurred_at DESC)`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
