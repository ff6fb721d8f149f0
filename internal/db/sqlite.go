package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const sqliteSchemaVersion = 1

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteDB is a single-file store for deployments without Postgres.
type SQLiteDB struct {
	db *sql.DB
}

var _ Store = (*SQLiteDB)(nil)

// OpenSQLite opens (creating if needed) the database file at path and migrates it.
func OpenSQLite(ctx context.Context, path string) (*SQLiteDB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	pool.SetMaxOpenConns(1)
	pool.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.PingContext(pingCtx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s := &SQLiteDB{db: pool}
	if err := s.migrate(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteDB) migrate(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var version int
	if err := tx.QueryRowContext(ctx, `PRAGMA user_version;`).Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version >= sqliteSchemaVersion {
		return tx.Commit()
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analyses (
			id TEXT PRIMARY KEY,
			report TEXT NOT NULL,
			weighted_score REAL NOT NULL,
			job_hash TEXT NOT NULL,
			job_chars INTEGER NOT NULL,
			resume_chars INTEGER NOT NULL,
			cv_chars INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS feedback_events (
			id TEXT PRIMARY KEY,
			category TEXT NOT NULL,
			skill TEXT NOT NULL,
			original TEXT NOT NULL DEFAULT '',
			changed INTEGER NOT NULL,
			subject TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS feedback_events_created_at_idx ON feedback_events (created_at);`,
		fmt.Sprintf(`PRAGMA user_version = %d;`, sqliteSchemaVersion),
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate sqlite schema: %w", err)
		}
	}
	return tx.Commit()
}

// Close closes the database.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// SaveAnalysis stores an analysis record, assigning its id and timestamp when unset.
func (s *SQLiteDB) SaveAnalysis(ctx context.Context, rec *AnalysisRecord) error {
	report, err := encodeReport(rec.Report)
	if err != nil {
		return err
	}
	prepareAnalysis(rec)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analyses (id, report, weighted_score, job_hash, job_chars, resume_chars, cv_chars, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), string(report), rec.WeightedScore, rec.JobHash, rec.JobChars, rec.ResumeChars, rec.CVChars,
		rec.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

// GetAnalysis retrieves an analysis by id. It returns nil when the id is unknown.
func (s *SQLiteDB) GetAnalysis(ctx context.Context, id uuid.UUID) (*AnalysisRecord, error) {
	var (
		rec       AnalysisRecord
		rawID     string
		report    string
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, report, weighted_score, job_hash, job_chars, resume_chars, cv_chars, created_at
		 FROM analyses WHERE id = ?`,
		id.String(),
	).Scan(&rawID, &report, &rec.WeightedScore, &rec.JobHash, &rec.JobChars, &rec.ResumeChars, &rec.CVChars, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get analysis %s: %w", id, err)
	}

	if rec.ID, err = uuid.Parse(rawID); err != nil {
		return nil, fmt.Errorf("invalid analysis id %q: %w", rawID, err)
	}
	if rec.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("invalid analysis timestamp %q: %w", createdAt, err)
	}
	if err := json.Unmarshal([]byte(report), &rec.Report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &rec, nil
}

// RecordFeedback appends a feedback event to the audit log.
func (s *SQLiteDB) RecordFeedback(ctx context.Context, ev *FeedbackEvent) error {
	prepareFeedback(ev)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feedback_events (id, category, skill, original, changed, subject, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.ID.String(), ev.Category, ev.Skill, ev.Original, ev.Changed, ev.Subject,
		ev.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to record feedback: %w", err)
	}
	return nil
}

// ListFeedback returns the most recent feedback events, newest first.
func (s *SQLiteDB) ListFeedback(ctx context.Context, limit int) ([]FeedbackEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, category, skill, original, changed, subject, created_at
		 FROM feedback_events ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		feedbackLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer func() { _ = rows.Close() }()

	events := make([]FeedbackEvent, 0)
	for rows.Next() {
		var (
			ev        FeedbackEvent
			rawID     string
			createdAt string
		)
		if err := rows.Scan(&rawID, &ev.Category, &ev.Skill, &ev.Original, &ev.Changed, &ev.Subject, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		if ev.ID, err = uuid.Parse(rawID); err != nil {
			return nil, fmt.Errorf("invalid feedback id %q: %w", rawID, err)
		}
		if ev.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("invalid feedback timestamp %q: %w", createdAt, err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	return events, nil
}
