// Package db persists analysis reports and the feedback audit log in
// PostgreSQL or SQLite.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS analyses (
	id UUID PRIMARY KEY,
	report JSONB NOT NULL,
	weighted_score DOUBLE PRECISION NOT NULL,
	job_hash TEXT NOT NULL,
	job_chars INTEGER NOT NULL,
	resume_chars INTEGER NOT NULL,
	cv_chars INTEGER NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS feedback_events (
	id UUID PRIMARY KEY,
	category TEXT NOT NULL,
	skill TEXT NOT NULL,
	original TEXT NOT NULL DEFAULT '',
	changed BOOLEAN NOT NULL,
	subject TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS feedback_events_created_at_idx ON feedback_events (created_at DESC);
`

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

var _ Store = (*DB)(nil)

// Connect establishes a connection pool to the database and creates the
// tables if they do not exist.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}

// SaveAnalysis stores an analysis record, assigning its id and timestamp when unset.
func (db *DB) SaveAnalysis(ctx context.Context, rec *AnalysisRecord) error {
	report, err := encodeReport(rec.Report)
	if err != nil {
		return err
	}
	prepareAnalysis(rec)

	_, err = db.pool.Exec(ctx,
		`INSERT INTO analyses (id, report, weighted_score, job_hash, job_chars, resume_chars, cv_chars, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, report, rec.WeightedScore, rec.JobHash, rec.JobChars, rec.ResumeChars, rec.CVChars, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

// GetAnalysis retrieves an analysis by id. It returns nil when the id is unknown.
func (db *DB) GetAnalysis(ctx context.Context, id uuid.UUID) (*AnalysisRecord, error) {
	var rec AnalysisRecord
	var report []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, report, weighted_score, job_hash, job_chars, resume_chars, cv_chars, created_at
		 FROM analyses WHERE id = $1`,
		id,
	).Scan(&rec.ID, &report, &rec.WeightedScore, &rec.JobHash, &rec.JobChars, &rec.ResumeChars, &rec.CVChars, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get analysis %s: %w", id, err)
	}
	if err := json.Unmarshal(report, &rec.Report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &rec, nil
}

// RecordFeedback appends a feedback event to the audit log.
func (db *DB) RecordFeedback(ctx context.Context, ev *FeedbackEvent) error {
	prepareFeedback(ev)
	_, err := db.pool.Exec(ctx,
		`INSERT INTO feedback_events (id, category, skill, original, changed, subject, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ev.ID, ev.Category, ev.Skill, ev.Original, ev.Changed, ev.Subject, ev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record feedback: %w", err)
	}
	return nil
}

// ListFeedback returns the most recent feedback events, newest first.
func (db *DB) ListFeedback(ctx context.Context, limit int) ([]FeedbackEvent, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, category, skill, original, changed, subject, created_at
		 FROM feedback_events ORDER BY created_at DESC LIMIT $1`,
		feedbackLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	events := make([]FeedbackEvent, 0)
	for rows.Next() {
		var ev FeedbackEvent
		if err := rows.Scan(&ev.ID, &ev.Category, &ev.Skill, &ev.Original, &ev.Changed, &ev.Subject, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	return events, nil
}
