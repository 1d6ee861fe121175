// Package capture runs the camera → pose → score cycle.
//
// The loop owns every piece of per-frame state. Frame steps, display ticks and
// session commands are multiplexed on one goroutine, so a frame step never
// overlaps another and the score accumulator is only touched from there.
package capture

import (
	"context"
	"time"

	"github.com/rickeysan/hiit-score-app/internal/pose"
)

// Frame is a single image handed from the camera to the detector.
type Frame struct {
	Seq       uint64
	Timestamp time.Time
	Width     int
	Height    int
	Data      []byte
}

// Camera is a live media stream. Close must release the device (stop all
// tracks) and be safe to call after a failed Open.
type Camera interface {
	Open(ctx context.Context) error
	Read(ctx context.Context) (Frame, error)
	Close() error
}

// Detector wraps the pose-estimation model.
type Detector interface {
	Load(ctx context.Context) error
	EstimatePoses(ctx context.Context, f Frame) ([]pose.Pose, error)
}

// Renderer draws the overlay and the animated score.
type Renderer interface {
	DrawSkeleton(f Frame, sk pose.Skeleton)
	DrawScore(display float64, active bool)
}

// FrameScheduler hands out a one-shot signal for the next frame step, the
// way a display-refresh callback would. Cancel drops any pending signal.
type FrameScheduler interface {
	Next() <-chan time.Time
	Cancel()
}

type nopRenderer struct{}

func (nopRenderer) DrawSkeleton(Frame, pose.Skeleton) {}
func (nopRenderer) DrawScore(float64, bool)           {}

// RefreshScheduler paces frame steps at a fixed display rate.
type RefreshScheduler struct {
	interval time.Duration
	timer    *time.Timer
}

func NewRefreshScheduler(hz int) *RefreshScheduler {
	if hz <= 0 {
		hz = 60
	}
	return &RefreshScheduler{interval: time.Second / time.Duration(hz)}
}

func (s *RefreshScheduler) Next() <-chan time.Time {
	if s.timer == nil {
		s.timer = time.NewTimer(s.interval)
	} else {
		s.timer.Reset(s.interval)
	}
	return s.timer.C
}

func (s *RefreshScheduler) Cancel() {
	if s.timer != nil {
		s.timer.Stop()
	}
}

// ImmediateScheduler fires as soon as the previous step is done. Used for
// replaying recordings faster than real time.
type ImmediateScheduler struct{}

func (ImmediateScheduler) Next() <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}

func (ImmediateScheduler) Cancel() {}
