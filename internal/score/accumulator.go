// Package score turns per-frame movement into a session score.
//
// An Accumulator is owned by a single goroutine (the capture loop) and is not
// safe for concurrent use.
package score

import "math"

const (
	// DefaultScale converts raw pixel movement into score points.
	DefaultScale = 0.005
	// DefaultSmoothing is the fraction of the remaining gap the display score
	// closes on each tick.
	DefaultSmoothing = 0.2

	snapGap = 0.01
)

type EventKind int

const (
	MilestoneReached EventKind = iota + 1
	GoalAchieved
)

func (k EventKind) String() string {
	switch k {
	case MilestoneReached:
		return "milestone"
	case GoalAchieved:
		return "goal"
	default:
		return "unknown"
	}
}

// Event is a one-shot signal raised by Add.
type Event struct {
	Kind  EventKind
	Value int // the milestone or the target crossed
	Score int // floored score when the event fired
}

type Accumulator struct {
	scale     float64
	smoothing float64

	cfg           Config
	active        bool
	score         float64
	display       float64
	lastMilestone int
	goalReached   bool
}

type Option func(*Accumulator)

func WithScale(k float64) Option {
	return func(a *Accumulator) { a.scale = k }
}

func WithSmoothing(f float64) Option {
	return func(a *Accumulator) {
		if f > 0 && f <= 1 {
			a.smoothing = f
		}
	}
}

func NewAccumulator(opts ...Option) *Accumulator {
	a := &Accumulator{scale: DefaultScale, smoothing: DefaultSmoothing}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Start resets all session state and begins scoring with cfg.
func (a *Accumulator) Start(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	ms := make([]int, len(cfg.Milestones))
	copy(ms, cfg.Milestones)
	*a = Accumulator{
		scale:     a.scale,
		smoothing: a.smoothing,
		cfg:       Config{Milestones: ms, TargetScore: cfg.TargetScore},
		active:    true,
	}
	return nil
}

// Stop ends scoring and returns the authoritative score. The value stays
// readable until the next Start.
func (a *Accumulator) Stop() float64 {
	a.active = false
	return a.score
}

func (a *Accumulator) Active() bool     { return a.active }
func (a *Accumulator) Score() float64   { return a.score }
func (a *Accumulator) Display() float64 { return a.display }

// Add applies one frame's movement. Outside a session it does nothing.
// It returns the milestone and goal events newly crossed by this update,
// milestones in ascending order.
func (a *Accumulator) Add(movement float64) []Event {
	if !a.active || movement <= 0 {
		return nil
	}
	a.score += movement * a.scale
	floor := int(math.Floor(a.score))

	var events []Event
	for _, m := range a.cfg.Milestones {
		if m <= a.lastMilestone {
			continue
		}
		if floor < m {
			break
		}
		a.lastMilestone = m
		events = append(events, Event{Kind: MilestoneReached, Value: m, Score: floor})
	}
	if !a.goalReached && floor >= a.cfg.TargetScore {
		a.goalReached = true
		events = append(events, Event{Kind: GoalAchieved, Value: a.cfg.TargetScore, Score: floor})
	}
	return events
}

// Tick moves the display score toward the authoritative score and returns it.
func (a *Accumulator) Tick() float64 {
	gap := a.score - a.display
	if math.Abs(gap) < snapGap {
		a.display = a.score
		return a.display
	}
	a.display += gap * a.smoothing
	return a.display
}
