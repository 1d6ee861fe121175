package service

import (
	"context"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/rickeysan/hiit-score-app/internal"
	"github.com/rickeysan/hiit-score-app/internal/capture"
	"github.com/rickeysan/hiit-score-app/internal/score"
	"github.com/rickeysan/hiit-score-app/internal/storage"
)

var validate = validator.New()

// RecentLimit is how many records the history summary carries.
const RecentLimit = 5

type SessionRecordRequest struct {
	Score      float64   `json:"score" validate:"gte=0"`
	StartedAt  time.Time `json:"startedAt" validate:"required"`
	EndedAt    time.Time `json:"endedAt" validate:"required,gtefield=StartedAt"`
	ExerciseID *int      `json:"exerciseId,omitempty" validate:"omitempty,gt=0"`
}

func ValidateSessionRecordRequest(body *SessionRecordRequest) error {
	if err := validate.Struct(body); err != nil {
		return invalid(err.Error())
	}
	return nil
}

func (r *SessionRecordRequest) Result() capture.SessionResult {
	return capture.SessionResult{
		ExerciseID: r.ExerciseID,
		Score:      r.Score,
		StartedAt:  r.StartedAt,
		EndedAt:    r.EndedAt,
	}
}

// DurationLabel renders a session length rounded to the second, e.g. "1m30s".
func DurationLabel(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return d.Round(time.Second).String()
}

// ArchiveSession stores a finished session for the owner. Sessions that scored
// nothing are not archived and ok is false.
func ArchiveSession(ctx context.Context, repo storage.SessionRepository, ownerID string, res capture.SessionResult) (rec *internal.SessionRecord, ok bool, err error) {
	if res.Score <= 0 {
		return nil, false, nil
	}
	rec = &internal.SessionRecord{
		ID:            uuid.NewString(),
		OwnerID:       ownerID,
		Score:         int(math.Floor(res.Score)),
		Timestamp:     res.EndedAt.UTC(),
		DurationLabel: DurationLabel(res.Duration()),
		ExerciseID:    res.ExerciseID,
	}
	if err := repo.SaveSession(ctx, rec); err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

type SessionStats struct {
	Best         int                      `json:"best"`
	Average      int                      `json:"average"`
	Count        int                      `json:"count"`
	Trend        string                   `json:"trend,omitempty"`
	Recent       []internal.SessionRecord `json:"recent"`
	More         int                      `json:"more"`
	Level        score.Level              `json:"level"`
	PointsToNext int                      `json:"pointsToNext"`
}

// CalculateSessionStats expects records most recent first.
func CalculateSessionStats(recs []internal.SessionRecord) SessionStats {
	stats := SessionStats{Count: len(recs), Recent: []internal.SessionRecord{}}
	if len(recs) == 0 {
		stats.Level = score.LevelFor(0)
		stats.PointsToNext = score.PointsToNextLevel(0)
		return stats
	}

	total := 0
	for _, r := range recs {
		total += r.Score
		if r.Score > stats.Best {
			stats.Best = r.Score
		}
	}
	stats.Average = int(math.Round(float64(total) / float64(len(recs))))

	if len(recs) >= 2 {
		switch latest, prev := recs[0].Score, recs[1].Score; {
		case latest > prev:
			stats.Trend = "up"
		case latest < prev:
			stats.Trend = "down"
		default:
			stats.Trend = "same"
		}
	}

	n := min(len(recs), RecentLimit)
	stats.Recent = append(stats.Recent, recs[:n]...)
	stats.More = len(recs) - n
	stats.Level = score.LevelFor(recs[0].Score)
	stats.PointsToNext = score.PointsToNextLevel(recs[0].Score)
	return stats
}
