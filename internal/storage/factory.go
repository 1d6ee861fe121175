package storage

import (
	"fmt"

	"github.com/rickeysan/hiit-score-app/internal"
	"github.com/rickeysan/hiit-score-app/internal/config"
)

// Repositories bundles the collections one backend serves.
type Repositories struct {
	Schedules ScheduleRepository
	Tokens    TokenRepository
	Sessions  SessionRepository
	Close     func() error
}

func NewFileRepositories(dataDir string, logger internal.Logger) (*Repositories, error) {
	storage, err := NewFileStorage(dataDir, logger)
	if err != nil {
		return nil, err
	}
	return &Repositories{Schedules: storage, Tokens: storage, Sessions: storage, Close: storage.Close}, nil
}

func NewPostgresRepositories(dsn string, logger internal.Logger) (*Repositories, error) {
	storage, err := NewPostgresStorage(dsn, logger)
	if err != nil {
		return nil, err
	}
	return &Repositories{Schedules: storage, Tokens: storage, Sessions: storage, Close: storage.Close}, nil
}

func NewSQLiteRepositories(path string, logger internal.Logger) (*Repositories, error) {
	storage, err := NewSQLiteStorage(path, logger)
	if err != nil {
		return nil, err
	}
	return &Repositories{Schedules: storage, Tokens: storage, Sessions: storage, Close: storage.Close}, nil
}

// Open selects the backend named by cfg.DBType.
func Open(cfg *config.Config, logger internal.Logger) (*Repositories, error) {
	switch cfg.DBType {
	case "postgres":
		return NewPostgresRepositories(cfg.DBDSN, logger)
	case "sqlite":
		return NewSQLiteRepositories(cfg.SQLitePath, logger)
	case "file":
		return NewFileRepositories(cfg.DataDir, logger)
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.DBType)
	}
}
