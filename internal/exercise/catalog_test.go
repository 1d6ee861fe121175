package exercise

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickeysan/hiit-score-app/internal"
	"github.com/rickeysan/hiit-score-app/internal/score"
)

func writeFile(t *testing.T, name, body string) string {
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0644))
	return p
}

func TestDefaultCatalogIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	e, err := c.Get(2)
	require.NoError(t, err)
	assert.Equal(t, 120, e.TargetScore)
	assert.Equal(t, score.Config{Milestones: score.DefaultMilestones, TargetScore: 120}, c.ScoreConfig(e))
}

func TestLoadTOML(t *testing.T) {
	p := writeFile(t, "exercises.toml", `
milestones = [10, 20]

[[exercises]]
id = 7
title = "Jumping Jacks"
target_score = 40

[[exercises]]
id = 8
title = "Squats"
target_score = 30
milestones = [5, 15, 25]
`)
	c, err := Load(p)
	require.NoError(t, err)
	require.Len(t, c.Exercises, 2)

	jj, err := c.Get(7)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 20}, c.ScoreConfig(jj).Milestones)

	sq, err := c.Get(8)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 15, 25}, c.ScoreConfig(sq).Milestones)
}

func TestLoadYAMLDefaultsMilestones(t *testing.T) {
	p := writeFile(t, "exercises.yaml", `
exercises:
  - id: 1
    title: Arm Circles
    target_score: 100
    coming_soon: false
`)
	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, score.DefaultMilestones, c.Milestones)
}

func TestLoadRejectsInvalid(t *testing.T) {
	p := writeFile(t, "bad.yml", `
exercises:
  - id: 1
    target_score: 100
    milestones: [50, 40]
`)
	_, err := Load(p)
	assert.ErrorIs(t, err, internal.ErrInvalidArgument)

	p = writeFile(t, "dup.toml", `
[[exercises]]
id = 1
target_score = 10
[[exercises]]
id = 1
target_score = 20
`)
	_, err = Load(p)
	assert.ErrorIs(t, err, internal.ErrInvalidArgument)

	_, err = Load(writeFile(t, "x.json", `{}`))
	assert.Error(t, err)
}

func TestLoadEmptyPathIsDefault(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Len(t, c.Exercises, 3)
}

func TestGetUnknown(t *testing.T) {
	_, err := Default().Get(42)
	assert.ErrorIs(t, err, internal.ErrNotFound)
}
