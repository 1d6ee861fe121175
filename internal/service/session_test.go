package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickeysan/hiit-score-app/internal"
	"github.com/rickeysan/hiit-score-app/internal/capture"
	"github.com/rickeysan/hiit-score-app/internal/storage"
)

func TestArchiveSession(t *testing.T) {
	store, err := storage.NewFileStorage(t.TempDir(), internal.NopLogger())
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	ex := 1

	rec, ok, err := ArchiveSession(ctx, store, "owner", capture.SessionResult{Score: 0, StartedAt: start, EndedAt: start.Add(time.Minute)})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, rec)

	rec, ok, err = ArchiveSession(ctx, store, "owner", capture.SessionResult{ExerciseID: &ex, Score: 42.9, StartedAt: start, EndedAt: start.Add(90*time.Second + 300*time.Millisecond)})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 42, rec.Score)
	assert.Equal(t, "1m30s", rec.DurationLabel)
	assert.Equal(t, &ex, rec.ExerciseID)

	recs, err := store.ListSessions(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, rec.ID, recs[0].ID)
}

func TestValidateSessionRecordRequest(t *testing.T) {
	start := time.Now()
	assert.NoError(t, ValidateSessionRecordRequest(&SessionRecordRequest{Score: 10, StartedAt: start, EndedAt: start.Add(time.Second)}))
	assert.ErrorIs(t, ValidateSessionRecordRequest(&SessionRecordRequest{Score: 10, StartedAt: start, EndedAt: start.Add(-time.Second)}), internal.ErrInvalidArgument)
	assert.ErrorIs(t, ValidateSessionRecordRequest(&SessionRecordRequest{Score: -1, StartedAt: start, EndedAt: start}), internal.ErrInvalidArgument)
}

func records(scores ...int) []internal.SessionRecord {
	out := make([]internal.SessionRecord, len(scores))
	for i, s := range scores {
		out[i] = internal.SessionRecord{ID: string(rune('a' + i)), Score: s}
	}
	return out
}

func TestCalculateSessionStats(t *testing.T) {
	stats := CalculateSessionStats(nil)
	assert.Equal(t, 0, stats.Count)
	assert.Empty(t, stats.Trend)
	assert.Empty(t, stats.Recent)
	assert.Equal(t, "beginner", stats.Level.Name)

	stats = CalculateSessionStats(records(120, 80, 81, 10, 10, 5, 3))
	assert.Equal(t, 120, stats.Best)
	assert.Equal(t, 44, stats.Average) // 309/7 = 44.14
	assert.Equal(t, 7, stats.Count)
	assert.Equal(t, "up", stats.Trend)
	assert.Len(t, stats.Recent, RecentLimit)
	assert.Equal(t, 2, stats.More)
	assert.Equal(t, "advanced", stats.Level.Name)
	assert.Equal(t, 80, stats.PointsToNext)

	assert.Equal(t, "down", CalculateSessionStats(records(10, 20)).Trend)
	assert.Equal(t, "same", CalculateSessionStats(records(20, 20)).Trend)
	assert.Empty(t, CalculateSessionStats(records(20)).Trend)
	assert.Equal(t, 3, CalculateSessionStats(records(2, 3)).Average) // 2.5 rounds up
}

func TestDurationLabel(t *testing.T) {
	assert.Equal(t, "0s", DurationLabel(-time.Second))
	assert.Equal(t, "45s", DurationLabel(45*time.Second))
	assert.Equal(t, "2m0s", DurationLabel(2*time.Minute+200*time.Millisecond))
}
