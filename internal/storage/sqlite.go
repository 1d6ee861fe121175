package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rickeysan/hiit-score-app/internal"

	_ "modernc.org/sqlite" // SQLite driver.
)

type SQLiteStorage struct {
	db     *sql.DB
	logger internal.Logger
}

func NewSQLiteStorage(path string, logger internal.Logger) (*SQLiteStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		logger.Errorf("failed to open sqlite: %v", err)
		return nil, err
	}
	// one writer at a time keeps SQLite from returning SQLITE_BUSY
	db.SetMaxOpenConns(1)
	s := &SQLiteStorage{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		logger.Errorf("failed to migrate sqlite: %v", err)
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS notification_schedules (
			id TEXT PRIMARY KEY,
			target_id TEXT NOT NULL,
			notify_time TEXT NOT NULL,
			title TEXT NOT NULL,
			body TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at TEXT NOT NULL,
			retry_count INTEGER NOT NULL DEFAULT 0,
			error TEXT NOT NULL DEFAULT '',
			sent_at TEXT,
			failed_at TEXT,
			message_id TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS push_tokens (
			target_id TEXT PRIMARY KEY,
			token TEXT NOT NULL,
			created_at TEXT NOT NULL,
			last_used TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			recorded_at TEXT NOT NULL,
			duration_label TEXT NOT NULL,
			exercise_id INTEGER
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_owner ON sessions(owner_id, recorded_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(v string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, v)
}

func formatOptTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseOptTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid {
		return nil, nil
	}
	t, err := parseTime(v.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// --- ScheduleRepository ---
func (s *SQLiteStorage) CreateSchedule(ctx context.Context, sc *internal.Schedule) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notification_schedules (id, target_id, notify_time, title, body, status, created_at, retry_count) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sc.ID, sc.TargetID, formatTime(sc.NotifyTime), sc.Title, sc.Body, string(sc.Status), formatTime(sc.CreatedAt), sc.RetryCount)
	if err != nil {
		s.logger.Errorf("failed to insert schedule: %v", err)
		return err
	}
	return nil
}

func (s *SQLiteStorage) GetSchedule(ctx context.Context, id string) (*internal.Schedule, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, target_id, notify_time, title, body, status, created_at, retry_count, error, sent_at, failed_at, message_id FROM notification_schedules WHERE id = ?`, id)
	var (
		sc                  internal.Schedule
		status, notify, crt string
		sent, failed        sql.NullString
	)
	if err := row.Scan(&sc.ID, &sc.TargetID, &notify, &sc.Title, &sc.Body, &status, &crt, &sc.RetryCount, &sc.Error, &sent, &failed, &sc.MessageID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("storage: schedule %s: %w", id, internal.ErrNotFound)
		}
		return nil, err
	}
	sc.Status = internal.ScheduleStatus(status)
	var err error
	if sc.NotifyTime, err = parseTime(notify); err != nil {
		return nil, err
	}
	if sc.CreatedAt, err = parseTime(crt); err != nil {
		return nil, err
	}
	if sc.SentAt, err = parseOptTime(sent); err != nil {
		return nil, err
	}
	if sc.FailedAt, err = parseOptTime(failed); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (s *SQLiteStorage) UpdateSchedule(ctx context.Context, sc *internal.Schedule) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notification_schedules SET status = ?, retry_count = ?, error = ?, sent_at = ?, failed_at = ?, message_id = ? WHERE id = ?`,
		string(sc.Status), sc.RetryCount, sc.Error, formatOptTime(sc.SentAt), formatOptTime(sc.FailedAt), sc.MessageID, sc.ID)
	if err != nil {
		s.logger.Errorf("failed to update schedule: %v", err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("storage: schedule %s: %w", sc.ID, internal.ErrNotFound)
	}
	return nil
}

// --- TokenRepository ---
func (s *SQLiteStorage) SaveToken(ctx context.Context, t *internal.DeviceToken) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO push_tokens (target_id, token, created_at, last_used) VALUES (?, ?, ?, ?)`,
		t.TargetID, t.Token, formatTime(t.CreatedAt), formatTime(t.LastUsed))
	if err != nil {
		s.logger.Errorf("failed to upsert token: %v", err)
		return err
	}
	return nil
}

func (s *SQLiteStorage) GetToken(ctx context.Context, targetID string) (*internal.DeviceToken, error) {
	row := s.db.QueryRowContext(ctx, `SELECT target_id, token, created_at, last_used FROM push_tokens WHERE target_id = ?`, targetID)
	var (
		t             internal.DeviceToken
		created, last string
	)
	if err := row.Scan(&t.TargetID, &t.Token, &created, &last); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("storage: token for %s: %w", targetID, internal.ErrNotFound)
		}
		return nil, err
	}
	var err error
	if t.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if t.LastUsed, err = parseTime(last); err != nil {
		return nil, err
	}
	return &t, nil
}

// --- SessionRepository ---
func (s *SQLiteStorage) SaveSession(ctx context.Context, r *internal.SessionRecord) error {
	var exID sql.NullInt64
	if r.ExerciseID != nil {
		exID = sql.NullInt64{Int64: int64(*r.ExerciseID), Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, owner_id, score, recorded_at, duration_label, exercise_id) VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.OwnerID, r.Score, formatTime(r.Timestamp), r.DurationLabel, exID)
	if err != nil {
		s.logger.Errorf("failed to insert session: %v", err)
		return err
	}
	return nil
}

func (s *SQLiteStorage) ListSessions(ctx context.Context, ownerID string) ([]internal.SessionRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, score, recorded_at, duration_label, exercise_id FROM sessions WHERE owner_id = ? ORDER BY recorded_at DESC`, ownerID)
	if err != nil {
		s.logger.Errorf("failed to query sessions: %v", err)
		return nil, err
	}
	defer rows.Close()

	out := []internal.SessionRecord{}
	for rows.Next() {
		var (
			r    internal.SessionRecord
			at   string
			exID sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &r.OwnerID, &r.Score, &at, &r.DurationLabel, &exID); err != nil {
			return nil, err
		}
		if r.Timestamp, err = parseTime(at); err != nil {
			return nil, err
		}
		if exID.Valid {
			id := int(exID.Int64)
			r.ExerciseID = &id
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// --- Compile-time assertions ---
var _ ScheduleRepository = (*SQLiteStorage)(nil)
var _ TokenRepository = (*SQLiteStorage)(nil)
var _ SessionRepository = (*SQLiteStorage)(nil)
