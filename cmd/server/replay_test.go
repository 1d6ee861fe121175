package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickeysan/hiit-score-app/internal"
	"github.com/rickeysan/hiit-score-app/internal/capture"
	"github.com/rickeysan/hiit-score-app/internal/exercise"
	"github.com/rickeysan/hiit-score-app/internal/score"
)

func TestSampleRecordingReachesGoal(t *testing.T) {
	rec, err := capture.LoadRecording("testdata/arm_circles.json")
	require.NoError(t, err)
	require.NotNil(t, rec.ExerciseID)

	catalog := exercise.Default()
	ex, err := catalog.Get(*rec.ExerciseID)
	require.NoError(t, err)

	var events []score.Event
	var result *capture.SessionResult
	src := capture.NewReplay(rec)
	loop := capture.NewLoop(src, src, internal.NopLogger(),
		capture.WithScheduler(capture.ImmediateScheduler{}),
		capture.WithSessionOnStart(catalog.ScoreConfig(ex), &ex.ID),
		capture.WithHooks(capture.Hooks{
			OnEvent:      func(ev score.Event) { events = append(events, ev) },
			OnSessionEnd: func(r capture.SessionResult) { result = &r },
		}),
	)
	require.NoError(t, loop.Run(context.Background()))
	require.NotNil(t, result)

	assert.Greater(t, result.Score, float64(ex.TargetScore))
	goals := 0
	for _, ev := range events {
		if ev.Kind == score.GoalAchieved {
			goals++
			assert.Equal(t, ex.TargetScore, ev.Value)
		}
	}
	assert.Equal(t, 1, goals)
	assert.Equal(t, capture.StateStopped, loop.State())
}
