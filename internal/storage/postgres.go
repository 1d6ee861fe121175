package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickeysan/hiit-score-app/internal"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS notification_schedules (
	id          TEXT PRIMARY KEY,
	target_id   TEXT NOT NULL,
	notify_time TIMESTAMPTZ NOT NULL,
	title       TEXT NOT NULL,
	body        TEXT NOT NULL,
	status      TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	retry_count INTEGER NOT NULL DEFAULT 0,
	error       TEXT NOT NULL DEFAULT '',
	sent_at     TIMESTAMPTZ,
	failed_at   TIMESTAMPTZ,
	message_id  TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS push_tokens (
	target_id  TEXT PRIMARY KEY,
	token      TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	last_used  TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS sessions (
	id             TEXT PRIMARY KEY,
	owner_id       TEXT NOT NULL,
	score          INTEGER NOT NULL,
	recorded_at    TIMESTAMPTZ NOT NULL,
	duration_label TEXT NOT NULL,
	exercise_id    INTEGER
);
CREATE INDEX IF NOT EXISTS idx_sessions_owner ON sessions (owner_id, recorded_at DESC);
`

type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStorage(dsn string, logger internal.Logger) (*PostgresStorage, error) {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		logger.Errorf("failed to apply postgres schema: %v", err)
		return nil, err
	}
	return &PostgresStorage{pool: pool, logger: logger}, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// --- ScheduleRepository ---
func (p *PostgresStorage) CreateSchedule(ctx context.Context, s *internal.Schedule) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO notification_schedules (id, target_id, notify_time, title, body, status, created_at, retry_count) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.TargetID, s.NotifyTime, s.Title, s.Body, string(s.Status), s.CreatedAt, s.RetryCount)
	if err != nil {
		p.logger.Errorf("failed to insert schedule: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) GetSchedule(ctx context.Context, id string) (*internal.Schedule, error) {
	row := p.pool.QueryRow(ctx, `SELECT id, target_id, notify_time, title, body, status, created_at, retry_count, error, sent_at, failed_at, message_id FROM notification_schedules WHERE id = $1`, id)
	var s internal.Schedule
	var status string
	if err := row.Scan(&s.ID, &s.TargetID, &s.NotifyTime, &s.Title, &s.Body, &status, &s.CreatedAt, &s.RetryCount, &s.Error, &s.SentAt, &s.FailedAt, &s.MessageID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("storage: schedule %s: %w", id, internal.ErrNotFound)
		}
		p.logger.Errorf("failed to load schedule: %v", err)
		return nil, err
	}
	s.Status = internal.ScheduleStatus(status)
	return &s, nil
}

func (p *PostgresStorage) UpdateSchedule(ctx context.Context, s *internal.Schedule) error {
	tag, err := p.pool.Exec(ctx, `UPDATE notification_schedules SET status = $2, retry_count = $3, error = $4, sent_at = $5, failed_at = $6, message_id = $7 WHERE id = $1`,
		s.ID, string(s.Status), s.RetryCount, s.Error, s.SentAt, s.FailedAt, s.MessageID)
	if err != nil {
		p.logger.Errorf("failed to update schedule: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("storage: schedule %s: %w", s.ID, internal.ErrNotFound)
	}
	return nil
}

// --- TokenRepository ---
func (p *PostgresStorage) SaveToken(ctx context.Context, t *internal.DeviceToken) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO push_tokens (target_id, token, created_at, last_used) VALUES ($1, $2, $3, $4)
		ON CONFLICT (target_id) DO UPDATE SET token = EXCLUDED.token, created_at = EXCLUDED.created_at, last_used = EXCLUDED.last_used`,
		t.TargetID, t.Token, t.CreatedAt, t.LastUsed)
	if err != nil {
		p.logger.Errorf("failed to upsert token: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) GetToken(ctx context.Context, targetID string) (*internal.DeviceToken, error) {
	row := p.pool.QueryRow(ctx, `SELECT target_id, token, created_at, last_used FROM push_tokens WHERE target_id = $1`, targetID)
	var t internal.DeviceToken
	if err := row.Scan(&t.TargetID, &t.Token, &t.CreatedAt, &t.LastUsed); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("storage: token for %s: %w", targetID, internal.ErrNotFound)
		}
		p.logger.Errorf("failed to load token: %v", err)
		return nil, err
	}
	return &t, nil
}

// --- SessionRepository ---
func (p *PostgresStorage) SaveSession(ctx context.Context, r *internal.SessionRecord) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO sessions (id, owner_id, score, recorded_at, duration_label, exercise_id) VALUES ($1, $2, $3, $4, $5, $6)`,
		r.ID, r.OwnerID, r.Score, r.Timestamp, r.DurationLabel, r.ExerciseID)
	if err != nil {
		p.logger.Errorf("failed to insert session: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) ListSessions(ctx context.Context, ownerID string) ([]internal.SessionRecord, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, owner_id, score, recorded_at, duration_label, exercise_id FROM sessions WHERE owner_id = $1 ORDER BY recorded_at DESC`, ownerID)
	if err != nil {
		p.logger.Errorf("failed to query sessions: %v", err)
		return nil, err
	}
	defer rows.Close()

	out := []internal.SessionRecord{}
	for rows.Next() {
		var r internal.SessionRecord
		if err := rows.Scan(&r.ID, &r.OwnerID, &r.Score, &r.Timestamp, &r.DurationLabel, &r.ExerciseID); err != nil {
			p.logger.Errorf("failed to scan session: %v", err)
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// --- Compile-time assertions ---
var _ ScheduleRepository = (*PostgresStorage)(nil)
var _ TokenRepository = (*PostgresStorage)(nil)
var _ SessionRepository = (*PostgresStorage)(nil)
