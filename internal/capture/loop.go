package capture

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rickeysan/hiit-score-app/internal"
	"github.com/rickeysan/hiit-score-app/internal/pose"
	"github.com/rickeysan/hiit-score-app/internal/score"
)

type State int32

const (
	StateIdle State = iota
	StateInitializing
	StateRunning
	StateFailed
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateFailed:
		return "failed"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

var (
	ErrAlreadyRun = errors.New("capture: loop already started")
	ErrNotRunning = errors.New("capture: loop not running")
	ErrNoSession  = errors.New("capture: no active session")
)

const (
	defaultDisplayInterval = 50 * time.Millisecond
	logEveryFrames         = 30
)

// SessionResult is the frozen outcome of one scoring session.
type SessionResult struct {
	ExerciseID *int
	Score      float64
	StartedAt  time.Time
	EndedAt    time.Time
}

func (r SessionResult) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}

// Hooks are called from the loop goroutine.
type Hooks struct {
	OnEvent      func(score.Event)
	OnSessionEnd func(SessionResult)
}

type sessionStart struct {
	cfg        score.Config
	exerciseID *int
}

type command struct {
	start *sessionStart
	reply chan commandReply
}

type commandReply struct {
	result SessionResult
	err    error
}

type Loop struct {
	camera          Camera
	detector        Detector
	renderer        Renderer
	frames          FrameScheduler
	acc             *score.Accumulator
	hooks           Hooks
	logger          internal.Logger
	displayInterval time.Duration
	autoStart       *sessionStart
	now             func() time.Time

	commands chan command
	done     chan struct{}
	state    atomic.Int32

	// owned by the loop goroutine
	previous   []pose.Pose
	current    *SessionResult
	frameCount uint64
}

type Option func(*Loop)

func WithRenderer(r Renderer) Option {
	return func(l *Loop) { l.renderer = r }
}

func WithScheduler(s FrameScheduler) Option {
	return func(l *Loop) { l.frames = s }
}

func WithHooks(h Hooks) Option {
	return func(l *Loop) { l.hooks = h }
}

func WithAccumulator(a *score.Accumulator) Option {
	return func(l *Loop) { l.acc = a }
}

func WithClock(now func() time.Time) Option {
	return func(l *Loop) { l.now = now }
}

func WithDisplayInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.displayInterval = d
		}
	}
}

// WithSessionOnStart begins a session as soon as the devices are ready.
func WithSessionOnStart(cfg score.Config, exerciseID *int) Option {
	return func(l *Loop) { l.autoStart = &sessionStart{cfg: cfg, exerciseID: exerciseID} }
}

func NewLoop(camera Camera, detector Detector, logger internal.Logger, opts ...Option) *Loop {
	l := &Loop{
		camera:          camera,
		detector:        detector,
		renderer:        nopRenderer{},
		frames:          NewRefreshScheduler(60),
		acc:             score.NewAccumulator(),
		logger:          logger,
		displayInterval: defaultDisplayInterval,
		now:             time.Now,
		commands:        make(chan command),
		done:            make(chan struct{}),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

func (l *Loop) State() State { return State(l.state.Load()) }

// Run opens the camera, loads the model and processes frames until ctx is
// cancelled or the stream ends. Device failures are returned as *DeviceError.
// The camera is released and any pending frame cancelled on every return path.
// A session still active on return is ended and reported through OnSessionEnd.
func (l *Loop) Run(ctx context.Context) (err error) {
	if !l.state.CompareAndSwap(int32(StateIdle), int32(StateInitializing)) {
		return ErrAlreadyRun
	}
	defer close(l.done)
	defer func() {
		l.frames.Cancel()
		if cerr := l.camera.Close(); cerr != nil {
			l.logger.Warnf("capture: failed to release camera: %v", cerr)
		}
		if l.current != nil {
			l.endSession()
		}
		if err != nil {
			l.state.Store(int32(StateFailed))
		} else {
			l.state.Store(int32(StateStopped))
		}
	}()

	if err := l.camera.Open(ctx); err != nil {
		de := classify(err)
		l.logger.Errorf("capture: camera setup failed: %v", de)
		return de
	}
	if err := l.detector.Load(ctx); err != nil {
		de := &DeviceError{Kind: ErrModelLoad, Cause: err}
		l.logger.Errorf("capture: %v", de)
		return de
	}
	l.state.Store(int32(StateRunning))
	l.logger.Infof("capture: pose detection started")

	if l.autoStart != nil {
		if err := l.startSession(*l.autoStart); err != nil {
			return err
		}
	}

	display := time.NewTicker(l.displayInterval)
	defer display.Stop()

	next := l.frames.Next()
	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-l.commands:
			l.handle(cmd)
		case <-display.C:
			l.renderer.DrawScore(l.acc.Tick(), l.acc.Active())
		case <-next:
			if err := l.step(ctx); err != nil {
				if errors.Is(err, ErrStreamEnded) {
					l.logger.Infof("capture: stream ended after %d frames", l.frameCount)
					return nil
				}
				return err
			}
			next = l.frames.Next()
		}
	}
}

func (l *Loop) step(ctx context.Context) error {
	f, err := l.camera.Read(ctx)
	if err != nil {
		if errors.Is(err, ErrStreamEnded) {
			return err
		}
		if ctx.Err() == nil {
			l.logger.Warnf("capture: frame read failed: %v", err)
		}
		return nil
	}

	poses, err := l.detector.EstimatePoses(ctx, f)
	if err != nil {
		// previous stays on the last successful detection
		l.logger.Warnf("capture: pose detection failed on frame %d: %v", f.Seq, err)
		return nil
	}
	l.frameCount++

	l.renderer.DrawSkeleton(f, pose.Overlay(poses))

	if l.previous != nil && len(poses) > 0 {
		movement := pose.Movement(poses, l.previous)
		for _, ev := range l.acc.Add(movement) {
			l.logger.Infof("capture: %s %d reached at score %d", ev.Kind, ev.Value, ev.Score)
			if l.hooks.OnEvent != nil {
				l.hooks.OnEvent(ev)
			}
		}
	}
	l.previous = poses

	if l.frameCount%logEveryFrames == 0 {
		l.logger.Debugf("capture: frame=%d subjects=%d active=%t score=%.2f",
			l.frameCount, len(poses), l.acc.Active(), l.acc.Score())
	}
	return nil
}

func (l *Loop) handle(cmd command) {
	if cmd.start != nil {
		cmd.reply <- commandReply{err: l.startSession(*cmd.start)}
		return
	}
	if l.current == nil {
		cmd.reply <- commandReply{err: ErrNoSession}
		return
	}
	cmd.reply <- commandReply{result: l.endSession()}
}

func (l *Loop) startSession(s sessionStart) error {
	if l.current != nil {
		l.endSession()
	}
	if err := l.acc.Start(s.cfg); err != nil {
		return err
	}
	l.current = &SessionResult{ExerciseID: s.exerciseID, StartedAt: l.now()}
	l.logger.Infof("capture: session started (target=%d)", s.cfg.TargetScore)
	return nil
}

func (l *Loop) endSession() SessionResult {
	res := *l.current
	res.Score = l.acc.Stop()
	res.EndedAt = l.now()
	l.current = nil
	l.logger.Infof("capture: session ended with score %.2f after %s", res.Score, res.Duration().Round(time.Second))
	if l.hooks.OnSessionEnd != nil {
		l.hooks.OnSessionEnd(res)
	}
	return res
}

func (l *Loop) send(ctx context.Context, cmd command) (commandReply, error) {
	cmd.reply = make(chan commandReply, 1)
	select {
	case l.commands <- cmd:
	case <-l.done:
		return commandReply{}, ErrNotRunning
	case <-ctx.Done():
		return commandReply{}, ctx.Err()
	}
	select {
	case r := <-cmd.reply:
		return r, r.err
	case <-ctx.Done():
		return commandReply{}, ctx.Err()
	}
}

// StartSession resets the score and begins scoring with cfg. A session already
// in progress is ended first.
func (l *Loop) StartSession(ctx context.Context, cfg score.Config, exerciseID *int) error {
	_, err := l.send(ctx, command{start: &sessionStart{cfg: cfg, exerciseID: exerciseID}})
	return err
}

// EndSession freezes the current session and returns its result.
func (l *Loop) EndSession(ctx context.Context) (SessionResult, error) {
	r, err := l.send(ctx, command{})
	return r.result, err
}
