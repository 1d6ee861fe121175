package score

import (
	"fmt"

	"github.com/rickeysan/hiit-score-app/internal"
)

// DefaultMilestones are the celebration thresholds used when an exercise
// does not set its own.
var DefaultMilestones = []int{50, 100, 150, 200, 300, 500}

// Config is the per-exercise scoring setup.
type Config struct {
	Milestones  []int `json:"milestones" toml:"milestones" yaml:"milestones"`
	TargetScore int   `json:"target_score" toml:"target_score" yaml:"target_score"`
}

// Validate requires a positive target and positive, strictly ascending milestones.
func (c Config) Validate() error {
	if c.TargetScore <= 0 {
		return fmt.Errorf("%w: target score must be positive, got %d", internal.ErrInvalidArgument, c.TargetScore)
	}
	for i, m := range c.Milestones {
		if m <= 0 {
			return fmt.Errorf("%w: milestone %d must be positive", internal.ErrInvalidArgument, m)
		}
		if i > 0 && m <= c.Milestones[i-1] {
			return fmt.Errorf("%w: milestones must be strictly ascending (%d after %d)", internal.ErrInvalidArgument, m, c.Milestones[i-1])
		}
	}
	return nil
}
