package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/skill-matcher/internal/schemas"
	"github.com/jonathan/skill-matcher/internal/types"
)

// ErrNoStore is returned by OpenStore when no backend is configured.
var ErrNoStore = errors.New("no analysis store configured")

// AnalysisRecord is a persisted analysis report.
type AnalysisRecord struct {
	ID            uuid.UUID            `json:"id"`
	Report        types.AnalysisReport `json:"report"`
	WeightedScore float64              `json:"weighted_score"`
	JobHash       string               `json:"job_hash"`
	JobChars      int                  `json:"job_chars"`
	ResumeChars   int                  `json:"resume_chars"`
	CVChars       int                  `json:"cv_chars"`
	CreatedAt     time.Time            `json:"created_at"`
}

// FeedbackEvent is one entry of the feedback audit log.
type FeedbackEvent struct {
	ID        uuid.UUID `json:"id"`
	Category  string    `json:"category"`
	Skill     string    `json:"skill"`
	Original  string    `json:"original,omitempty"`
	Changed   bool      `json:"changed"`
	Subject   string    `json:"subject,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists analysis reports and the feedback audit log. Lookups of
// unknown ids return nil without error.
type Store interface {
	SaveAnalysis(ctx context.Context, rec *AnalysisRecord) error
	GetAnalysis(ctx context.Context, id uuid.UUID) (*AnalysisRecord, error)
	RecordFeedback(ctx context.Context, ev *FeedbackEvent) error
	ListFeedback(ctx context.Context, limit int) ([]FeedbackEvent, error)
	Close() error
}

// DefaultFeedbackLimit caps ListFeedback when no positive limit is given.
const DefaultFeedbackLimit = 100

// OpenStore connects to Postgres when databaseURL is set, otherwise to SQLite
// when sqlitePath is set. With neither it returns ErrNoStore.
func OpenStore(ctx context.Context, databaseURL, sqlitePath string) (Store, error) {
	switch {
	case databaseURL != "":
		return Connect(ctx, databaseURL)
	case sqlitePath != "":
		return OpenSQLite(ctx, sqlitePath)
	default:
		return nil, ErrNoStore
	}
}

// encodeReport marshals a report and checks it against the report schema
// before it is written.
func encodeReport(report types.AnalysisReport) ([]byte, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := schemas.ValidateReport(data); err != nil {
		return nil, fmt.Errorf("invalid report: %w", err)
	}
	return data, nil
}

func prepareAnalysis(rec *AnalysisRecord) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
}

func prepareFeedback(ev *FeedbackEvent) {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
}

func feedbackLimit(limit int) int {
	if limit <= 0 || limit > DefaultFeedbackLimit {
		return DefaultFeedbackLimit
	}
	return limit
}
