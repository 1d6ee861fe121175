package storage

import (
	"context"

	"github.com/rickeysan/hiit-score-app/internal"
)

// ScheduleRepository stores notification schedules. Lookups of unknown ids
// return an error wrapping internal.ErrNotFound.
type ScheduleRepository interface {
	CreateSchedule(ctx context.Context, s *internal.Schedule) error
	GetSchedule(ctx context.Context, id string) (*internal.Schedule, error)
	UpdateSchedule(ctx context.Context, s *internal.Schedule) error
}

// TokenRepository keeps one push token per target identity.
type TokenRepository interface {
	SaveToken(ctx context.Context, t *internal.DeviceToken) error
	GetToken(ctx context.Context, targetID string) (*internal.DeviceToken, error)
}

// SessionRepository keeps each owner's session history.
type SessionRepository interface {
	SaveSession(ctx context.Context, r *internal.SessionRecord) error
	// ListSessions returns the owner's records, most recent first.
	ListSessions(ctx context.Context, ownerID string) ([]internal.SessionRecord, error)
}
