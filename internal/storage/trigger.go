package storage

import (
	"context"

	"github.com/rickeysan/hiit-score-app/internal"
)

// CreateHook runs after a schedule has been stored.
type CreateHook func(ctx context.Context, s internal.Schedule)

type triggeredSchedules struct {
	ScheduleRepository
	onCreate CreateHook
}

// WithCreateTrigger wraps repo so that onCreate fires once for every
// successfully created schedule. The hook receives a copy of the stored
// document and a context that outlives the caller's request.
func WithCreateTrigger(repo ScheduleRepository, onCreate CreateHook) ScheduleRepository {
	return &triggeredSchedules{ScheduleRepository: repo, onCreate: onCreate}
}

func (t *triggeredSchedules) CreateSchedule(ctx context.Context, s *internal.Schedule) error {
	if err := t.ScheduleRepository.CreateSchedule(ctx, s); err != nil {
		return err
	}
	if t.onCreate != nil {
		t.onCreate(context.WithoutCancel(ctx), *s)
	}
	return nil
}
