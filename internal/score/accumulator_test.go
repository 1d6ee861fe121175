package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCfg = Config{Milestones: []int{50, 100, 150}, TargetScore: 120}

// newUnit scores one point per pixel so thresholds are exact.
func newUnit(opts ...Option) *Accumulator {
	return NewAccumulator(append([]Option{WithScale(1)}, opts...)...)
}

func TestAccumulator_InactiveIgnoresMovement(t *testing.T) {
	a := newUnit()
	assert.Nil(t, a.Add(80))
	assert.Equal(t, 0.0, a.Score())

	require.NoError(t, a.Start(testCfg))
	a.Add(10)
	a.Stop()
	assert.Nil(t, a.Add(1000))
	assert.InDelta(t, 10, a.Score(), 1e-9)
}

func TestAccumulator_ScaleApplied(t *testing.T) {
	a := NewAccumulator()
	require.NoError(t, a.Start(testCfg))
	a.Add(200)
	assert.InDelta(t, 1.0, a.Score(), 1e-9)

	b := NewAccumulator(WithScale(0.01))
	require.NoError(t, b.Start(testCfg))
	b.Add(200)
	assert.InDelta(t, 2.0, b.Score(), 1e-9)
}

func TestAccumulator_MilestonesFireOnce(t *testing.T) {
	a := newUnit()
	require.NoError(t, a.Start(testCfg))

	assert.Empty(t, a.Add(49.5))

	ev := a.Add(0.5)
	require.Len(t, ev, 1)
	assert.Equal(t, Event{Kind: MilestoneReached, Value: 50, Score: 50}, ev[0])

	// Staying above 50 never re-fires it.
	assert.Empty(t, a.Add(10))
	assert.Empty(t, a.Add(10))
}

func TestAccumulator_JumpAcrossSeveralMilestones(t *testing.T) {
	a := newUnit()
	require.NoError(t, a.Start(Config{Milestones: []int{50, 100, 150}, TargetScore: 1000}))

	ev := a.Add(160)
	require.Len(t, ev, 3)
	assert.Equal(t, 50, ev[0].Value)
	assert.Equal(t, 100, ev[1].Value)
	assert.Equal(t, 150, ev[2].Value)
	assert.Empty(t, a.Add(1))
}

func TestAccumulator_GoalFiresExactlyOnce(t *testing.T) {
	a := newUnit()
	require.NoError(t, a.Start(Config{TargetScore: 20}))

	assert.Empty(t, a.Add(19.5))
	ev := a.Add(0.5)
	require.Len(t, ev, 1)
	assert.Equal(t, GoalAchieved, ev[0].Kind)
	assert.Equal(t, 20, ev[0].Value)

	for i := 0; i < 5; i++ {
		assert.Empty(t, a.Add(5))
	}
}

func TestAccumulator_GoalAndMilestoneTogether(t *testing.T) {
	a := newUnit()
	require.NoError(t, a.Start(Config{Milestones: []int{100}, TargetScore: 100}))
	ev := a.Add(100)
	require.Len(t, ev, 2)
	assert.Equal(t, MilestoneReached, ev[0].Kind)
	assert.Equal(t, GoalAchieved, ev[1].Kind)
}

func TestAccumulator_StartResetsEverything(t *testing.T) {
	a := newUnit()
	require.NoError(t, a.Start(testCfg))
	a.Add(130)
	for i := 0; i < 50; i++ {
		a.Tick()
	}
	require.Greater(t, a.Display(), 0.0)
	a.Stop()

	require.NoError(t, a.Start(testCfg))
	assert.True(t, a.Active())
	assert.Equal(t, 0.0, a.Score())
	assert.Equal(t, 0.0, a.Display())

	// Milestones and goal fire again in the new session.
	ev := a.Add(125)
	require.Len(t, ev, 3)
	assert.Equal(t, 50, ev[0].Value)
	assert.Equal(t, 100, ev[1].Value)
	assert.Equal(t, GoalAchieved, ev[2].Kind)
}

func TestAccumulator_StartRejectsBadConfig(t *testing.T) {
	a := newUnit()
	assert.Error(t, a.Start(Config{TargetScore: 0}))
	assert.Error(t, a.Start(Config{Milestones: []int{100, 50}, TargetScore: 10}))
	assert.Error(t, a.Start(Config{Milestones: []int{-1}, TargetScore: 10}))
	assert.False(t, a.Active())
}

func TestAccumulator_DisplayApproachesScore(t *testing.T) {
	a := newUnit(WithSmoothing(0.5))
	require.NoError(t, a.Start(testCfg))
	a.Add(10)

	assert.InDelta(t, 5, a.Tick(), 1e-9)
	assert.InDelta(t, 7.5, a.Tick(), 1e-9)

	prev := a.Display()
	for i := 0; i < 40; i++ {
		d := a.Tick()
		assert.GreaterOrEqual(t, d, prev)
		assert.LessOrEqual(t, d, a.Score())
		prev = d
	}
	assert.Equal(t, a.Score(), a.Display())
}

func TestAccumulator_StopReturnsAuthoritativeScore(t *testing.T) {
	a := newUnit()
	require.NoError(t, a.Start(testCfg))
	a.Add(33.7)
	a.Tick()
	assert.InDelta(t, 33.7, a.Stop(), 1e-9)
	assert.Less(t, a.Display(), a.Score())
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, "beginner", LevelFor(49).Name)
	assert.Equal(t, "intermediate", LevelFor(50).Name)
	assert.Equal(t, "advanced", LevelFor(199).Name)
	assert.Equal(t, "master", LevelFor(200).Name)
	assert.Equal(t, 150, PointsToNextLevel(50))
	assert.Equal(t, 0, PointsToNextLevel(250))
}
