// Package exercise loads the exercise catalog and its per-exercise scoring setup.
package exercise

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/rickeysan/hiit-score-app/internal"
	"github.com/rickeysan/hiit-score-app/internal/score"
)

type Exercise struct {
	ID          int    `json:"id" toml:"id" yaml:"id"`
	Title       string `json:"title" toml:"title" yaml:"title"`
	Description string `json:"description" toml:"description" yaml:"description"`
	VideoURL    string `json:"video_url,omitempty" toml:"video_url" yaml:"video_url"`
	TargetScore int    `json:"target_score" toml:"target_score" yaml:"target_score"`
	Milestones  []int  `json:"milestones,omitempty" toml:"milestones" yaml:"milestones"`
	ComingSoon  bool   `json:"coming_soon,omitempty" toml:"coming_soon" yaml:"coming_soon"`
}

type Catalog struct {
	Milestones []int      `json:"milestones" toml:"milestones" yaml:"milestones"`
	Exercises  []Exercise `json:"exercises" toml:"exercises" yaml:"exercises"`
}

// Default mirrors the exercises shipped with the app.
func Default() *Catalog {
	return &Catalog{
		Milestones: append([]int(nil), score.DefaultMilestones...),
		Exercises: []Exercise{
			{
				ID:          1,
				Title:       "1. Arm Circles",
				Description: "Effective for relieving shoulder and neck stiffness",
				VideoURL:    "/lessons/1-udeage.mp4",
				TargetScore: 100,
			},
			{
				ID:          2,
				Title:       "2. Cockroach Exercise",
				Description: "Move large while being aware of your shoulder blades",
				VideoURL:    "/lessons/2-gokiburi.mp4",
				TargetScore: 120,
			},
			{
				ID:          3,
				Title:       "Coming soon",
				Description: "New content coming soon",
				TargetScore: 100,
				ComingSoon:  true,
			},
		},
	}
}

// Load reads a catalog from a .toml, .yaml or .yml file. An empty path yields
// the default catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	var c Catalog
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, &c); err != nil {
			return nil, fmt.Errorf("exercise: failed to decode %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("exercise: failed to read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("exercise: failed to decode %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("exercise: unsupported catalog format %q", filepath.Ext(path))
	}
	if len(c.Milestones) == 0 {
		c.Milestones = append([]int(nil), score.DefaultMilestones...)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) Validate() error {
	seen := make(map[int]bool, len(c.Exercises))
	for _, e := range c.Exercises {
		if seen[e.ID] {
			return fmt.Errorf("%w: duplicate exercise id %d", internal.ErrInvalidArgument, e.ID)
		}
		seen[e.ID] = true
		if err := c.ScoreConfig(e).Validate(); err != nil {
			return fmt.Errorf("exercise %d: %w", e.ID, err)
		}
	}
	return nil
}

// ScoreConfig resolves the scoring setup for e, falling back to the catalog
// milestones.
func (c *Catalog) ScoreConfig(e Exercise) score.Config {
	ms := e.Milestones
	if len(ms) == 0 {
		ms = c.Milestones
	}
	return score.Config{Milestones: ms, TargetScore: e.TargetScore}
}

func (c *Catalog) Get(id int) (Exercise, error) {
	for _, e := range c.Exercises {
		if e.ID == id {
			return e, nil
		}
	}
	return Exercise{}, fmt.Errorf("exercise %d: %w", id, internal.ErrNotFound)
}
