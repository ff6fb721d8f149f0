package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skill-matcher/internal/schemas"
	"github.com/jonathan/skill-matcher/internal/types"
)

func openTestSQLite(t *testing.T) *SQLiteDB {
	t.Helper()
	store, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "matcher.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// storeContract exercises the behavior every Store backend must share.
func storeContract(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("analysis round trip", func(t *testing.T) {
		rec := &AnalysisRecord{
			Report: types.AnalysisReport{
				MatchedKeywords: []string{"java"},
				MatchPercentage: 33,
				MatchLevel:      types.MatchPoor,
				MissingKeywords: []string{"docker", "leadership"},
			},
			WeightedScore: 76.67,
			JobHash:       "abc123",
			JobChars:      36,
			ResumeChars:   4,
		}
		require.NoError(t, store.SaveAnalysis(ctx, rec))
		require.NotEqual(t, uuid.Nil, rec.ID)
		require.False(t, rec.CreatedAt.IsZero())

		got, err := store.GetAnalysis(ctx, rec.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, rec.ID, got.ID)
		assert.Equal(t, rec.Report, got.Report)
		assert.InDelta(t, 76.67, got.WeightedScore, 0.0001)
		assert.Equal(t, "abc123", got.JobHash)
		assert.Equal(t, 36, got.JobChars)
		assert.Equal(t, 4, got.ResumeChars)
		assert.Equal(t, 0, got.CVChars)
		assert.WithinDuration(t, rec.CreatedAt, got.CreatedAt, time.Millisecond)
	})

	t.Run("invalid report is rejected", func(t *testing.T) {
		rec := &AnalysisRecord{
			Report: types.AnalysisReport{MatchPercentage: 150, MatchLevel: types.MatchLevel("Great")},
		}
		err := store.SaveAnalysis(ctx, rec)
		var validationErr *schemas.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Contains(t, err.Error(), "invalid report")
		assert.Equal(t, uuid.Nil, rec.ID, "nothing is assigned or stored")
	})

	t.Run("unknown analysis", func(t *testing.T) {
		got, err := store.GetAnalysis(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("feedback log newest first", func(t *testing.T) {
		base := time.Now().UTC()
		for i, skill := range []string{"golang", "mariadb", "nodejs"} {
			ev := &FeedbackEvent{
				Category:  "programming_skills",
				Skill:     skill,
				Changed:   i != 1,
				CreatedAt: base.Add(time.Duration(i) * time.Second),
			}
			require.NoError(t, store.RecordFeedback(ctx, ev))
			require.NotEqual(t, uuid.Nil, ev.ID)
		}

		events, err := store.ListFeedback(ctx, 2)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, "nodejs", events[0].Skill)
		assert.Equal(t, "mariadb", events[1].Skill)
		assert.False(t, events[1].Changed)
		assert.True(t, events[0].Changed)
	})
}

func TestSQLiteStore(t *testing.T) {
	storeContract(t, openTestSQLite(t))
}

func TestSQLiteStore_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "matcher.db")

	first, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	rec := &AnalysisRecord{Report: types.ErrorReport("boom")}
	require.NoError(t, first.SaveAnalysis(ctx, rec))
	require.NoError(t, first.Close())

	second, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	got, err := second.GetAnalysis(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, types.MatchError, got.Report.MatchLevel)
	assert.Equal(t, "boom", got.Report.Error)
}

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("Skipping Postgres store test: TEST_DATABASE_URL not set")
	}
	store, err := Connect(context.Background(), url)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	storeContract(t, store)
}

func TestOpenStore(t *testing.T) {
	_, err := OpenStore(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrNoStore)

	store, err := OpenStore(context.Background(), "", filepath.Join(t.TempDir(), "x.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	_, ok := store.(*SQLiteDB)
	assert.True(t, ok)
}

func TestFeedbackLimit(t *testing.T) {
	assert.Equal(t, DefaultFeedbackLimit, feedbackLimit(0))
	assert.Equal(t, DefaultFeedbackLimit, feedbackLimit(-3))
	assert.Equal(t, DefaultFeedbackLimit, feedbackLimit(1000))
	assert.Equal(t, 10, feedbackLimit(10))
}
