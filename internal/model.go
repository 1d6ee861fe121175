package internal

import (
	"fmt"
	"time"
)

type Caller struct {
	ID    string `json:"id"`
	Token string `json:"token"`
	Name  string `json:"name"`
}

type ScheduleStatus string

const (
	StatusPending   ScheduleStatus = "pending"
	StatusScheduled ScheduleStatus = "scheduled"
	StatusSent      ScheduleStatus = "sent"
	StatusFailed    ScheduleStatus = "failed"
)

// Terminal reports whether no further transition is allowed out of s.
func (s ScheduleStatus) Terminal() bool {
	return s == StatusSent || s == StatusFailed
}

type Schedule struct {
	ID         string         `json:"id"`
	TargetID   string         `json:"target_id"`
	NotifyTime time.Time      `json:"notify_time"`
	Title      string         `json:"title"`
	Body       string         `json:"body"`
	Status     ScheduleStatus `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	RetryCount int            `json:"retry_count"`
	Error      string         `json:"error,omitempty"`
	SentAt     *time.Time     `json:"sent_at,omitempty"`
	FailedAt   *time.Time     `json:"failed_at,omitempty"`
	MessageID  string         `json:"message_id,omitempty"`
}

// MarkSent moves a live schedule to sent.
func (s *Schedule) MarkSent(messageID string, at time.Time) error {
	if s.Status.Terminal() {
		return fmt.Errorf("schedule %s: cannot mark sent from %s", s.ID, s.Status)
	}
	s.Status = StatusSent
	s.MessageID = messageID
	s.SentAt = &at
	return nil
}

// MarkFailed moves a live schedule to failed and records the reason.
func (s *Schedule) MarkFailed(reason string, at time.Time) error {
	if s.Status.Terminal() {
		return fmt.Errorf("schedule %s: cannot mark failed from %s", s.ID, s.Status)
	}
	s.Status = StatusFailed
	s.Error = reason
	s.FailedAt = &at
	return nil
}

type DeviceToken struct {
	Token     string    `json:"token"`
	TargetID  string    `json:"target_id"`
	CreatedAt time.Time `json:"created_at"`
	LastUsed  time.Time `json:"last_used"`
}

type SessionRecord struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	Score         int       `json:"score"`
	Timestamp     time.Time `json:"timestamp"`
	DurationLabel string    `json:"duration_label"`
	ExerciseID    *int      `json:"exercise_id,omitempty"`
}
