package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rickeysan/hiit-score-app/internal"
	"github.com/rickeysan/hiit-score-app/internal/push"
	"github.com/rickeysan/hiit-score-app/internal/storage"
)

type TimerRequest struct {
	TargetID     string   `json:"targetId" validate:"required"`
	NotifyTime   string   `json:"notifyTime,omitempty" validate:"required_without=DelaySeconds"`
	DelaySeconds *float64 `json:"delaySeconds,omitempty" validate:"required_without=NotifyTime"`
	Title        string   `json:"title,omitempty"`
	Body         string   `json:"body,omitempty"`
}

type TimerResult struct {
	Success    bool      `json:"success"`
	Message    string    `json:"message"`
	ScheduleID string    `json:"scheduleId"`
	NotifyTime time.Time `json:"notifyTime"`
	TargetID   string    `json:"targetId"`
}

type TokenRequest struct {
	Token    string `json:"token" validate:"required"`
	TargetID string `json:"targetId" validate:"required"`
}

type ImmediateRequest struct {
	TargetID string `json:"targetId" validate:"required"`
	Title    string `json:"title,omitempty"`
	Body     string `json:"body,omitempty"`
}

// NotificationService owns the schedule lifecycle: creation validates and
// stores a pending schedule, the store's create trigger arms a timer, and
// dispatch moves the schedule to sent or failed exactly once.
type NotificationService struct {
	schedules storage.ScheduleRepository
	tokens    storage.TokenRepository
	provider  push.Provider
	logger    internal.Logger

	defaultTitle string
	defaultBody  string
	now          func() time.Time

	mu       sync.Mutex
	timers   map[string]*time.Timer
	inflight sync.WaitGroup
	closed   bool
}

type NotificationOption func(*NotificationService)

func WithDefaults(title, body string) NotificationOption {
	return func(s *NotificationService) {
		s.defaultTitle = title
		s.defaultBody = body
	}
}

func WithNow(now func() time.Time) NotificationOption {
	return func(s *NotificationService) { s.now = now }
}

func NewNotificationService(schedules storage.ScheduleRepository, tokens storage.TokenRepository, provider push.Provider, logger internal.Logger, opts ...NotificationOption) *NotificationService {
	s := &NotificationService{
		tokens:       tokens,
		provider:     provider,
		logger:       logger,
		defaultTitle: "Sukima Fit",
		defaultBody:  "Time to exercise! Move your body and refresh",
		now:          time.Now,
		timers:       make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.schedules = storage.WithCreateTrigger(schedules, s.onCreate)
	return s
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", internal.ErrInvalidArgument, msg)
}

func (s *NotificationService) resolveNotifyTime(req *TimerRequest, now time.Time) (time.Time, error) {
	if req.NotifyTime != "" {
		t, err := time.Parse(time.RFC3339, req.NotifyTime)
		if err != nil {
			return time.Time{}, invalid("invalid notifyTime format")
		}
		return t, nil
	}
	if req.DelaySeconds == nil {
		return time.Time{}, invalid("targetId and notifyTime are required")
	}
	return now.Add(time.Duration(*req.DelaySeconds * float64(time.Second))), nil
}

// SetNotificationTimer validates req and stores a pending schedule. Dispatch
// happens later and its outcome is only visible on the stored schedule.
func (s *NotificationService) SetNotificationTimer(ctx context.Context, req *TimerRequest) (*TimerResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, invalid("targetId and notifyTime are required")
	}
	now := s.now()
	notifyAt, err := s.resolveNotifyTime(req, now)
	if err != nil {
		return nil, err
	}
	if !notifyAt.After(now) {
		return nil, invalid("notifyTime must be in the future")
	}

	sc := &internal.Schedule{
		ID:         uuid.NewString(),
		TargetID:   req.TargetID,
		NotifyTime: notifyAt.UTC(),
		Title:      s.orDefault(req.Title, s.defaultTitle),
		Body:       s.orDefault(req.Body, s.defaultBody),
		Status:     internal.StatusPending,
		CreatedAt:  now.UTC(),
		RetryCount: 0,
	}
	if err := s.schedules.CreateSchedule(ctx, sc); err != nil {
		s.logger.Errorf("failed to store schedule for %s: %v", req.TargetID, err)
		return nil, err
	}
	s.logger.Infof("notification schedule %s stored for %s at %s", sc.ID, sc.TargetID, sc.NotifyTime.Format(time.RFC3339))

	return &TimerResult{
		Success:    true,
		Message:    "notification schedule created",
		ScheduleID: sc.ID,
		NotifyTime: sc.NotifyTime,
		TargetID:   sc.TargetID,
	}, nil
}

func (s *NotificationService) orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// onCreate is the create trigger. It defers dispatch by notifyTime - now, or
// dispatches right away when that is not positive.
func (s *NotificationService) onCreate(ctx context.Context, sc internal.Schedule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.logger.Warnf("notification service closed, schedule %s will not be dispatched", sc.ID)
		return
	}

	s.inflight.Add(1)
	delay := sc.NotifyTime.Sub(s.now())
	if delay <= 0 {
		go func() {
			defer s.inflight.Done()
			s.dispatch(ctx, sc.ID)
		}()
		return
	}
	s.timers[sc.ID] = time.AfterFunc(delay, func() {
		defer s.inflight.Done()
		s.mu.Lock()
		delete(s.timers, sc.ID)
		s.mu.Unlock()
		s.dispatch(ctx, sc.ID)
	})
}

func (s *NotificationService) dispatch(ctx context.Context, id string) {
	sc, err := s.schedules.GetSchedule(ctx, id)
	if err != nil {
		s.logger.Errorf("dispatch: failed to load schedule %s: %v", id, err)
		return
	}
	if sc.Status.Terminal() {
		s.logger.Warnf("dispatch: schedule %s already %s", id, sc.Status)
		return
	}

	messageID, sendErr := s.send(ctx, sc.TargetID, sc.Title, sc.Body, sc.ID)
	at := s.now().UTC()
	if sendErr != nil {
		s.logger.Errorf("dispatch: schedule %s failed: %v", id, sendErr)
		err = sc.MarkFailed(sendErr.Error(), at)
	} else {
		s.logger.Infof("dispatch: schedule %s sent as %s", id, messageID)
		err = sc.MarkSent(messageID, at)
	}
	if err != nil {
		s.logger.Errorf("dispatch: %v", err)
		return
	}
	if err := s.schedules.UpdateSchedule(ctx, sc); err != nil {
		s.logger.Errorf("dispatch: failed to record outcome of %s: %v", id, err)
	}
}

func (s *NotificationService) send(ctx context.Context, targetID, title, body, scheduleID string) (string, error) {
	tok, err := s.tokens.GetToken(ctx, targetID)
	if err != nil {
		if errors.Is(err, internal.ErrNotFound) {
			return "", internal.ErrTokenNotFound
		}
		return "", err
	}
	return s.provider.Send(ctx, push.NewMessage(tok.Token, title, body, scheduleID, s.now()))
}

// SaveToken overwrites any previous token registered for the target.
func (s *NotificationService) SaveToken(ctx context.Context, req *TokenRequest) error {
	if err := validate.Struct(req); err != nil {
		return invalid("token and targetId are required")
	}
	now := s.now().UTC()
	return s.tokens.SaveToken(ctx, &internal.DeviceToken{
		Token:     req.Token,
		TargetID:  req.TargetID,
		CreatedAt: now,
		LastUsed:  now,
	})
}

// SendImmediate pushes to the target's token without storing a schedule.
func (s *NotificationService) SendImmediate(ctx context.Context, req *ImmediateRequest) (string, error) {
	if err := validate.Struct(req); err != nil {
		return "", invalid("targetId is required")
	}
	messageID, err := s.send(ctx, req.TargetID, s.orDefault(req.Title, s.defaultTitle), s.orDefault(req.Body, s.defaultBody), "immediate")
	if err != nil {
		s.logger.Errorf("immediate notification to %s failed: %v", req.TargetID, err)
		return "", err
	}
	return messageID, nil
}

func (s *NotificationService) GetSchedule(ctx context.Context, id string) (*internal.Schedule, error) {
	return s.schedules.GetSchedule(ctx, id)
}

// Pending reports how many timers are armed.
func (s *NotificationService) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Close stops armed timers and waits for running dispatches. Stopped
// schedules stay in their stored non-terminal state.
func (s *NotificationService) Close() {
	s.mu.Lock()
	s.closed = true
	for id, t := range s.timers {
		if t.Stop() {
			s.inflight.Done()
		}
		delete(s.timers, id)
	}
	s.mu.Unlock()
	s.inflight.Wait()
}
