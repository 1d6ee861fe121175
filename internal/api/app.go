package api

import (
	"github.com/rickeysan/hiit-score-app/internal"
	"github.com/rickeysan/hiit-score-app/internal/exercise"
	"github.com/rickeysan/hiit-score-app/internal/service"
	"github.com/rickeysan/hiit-score-app/internal/storage"
)

type App interface {
	Logger() internal.Logger
	Notifications() *service.NotificationService
	SessionRepo() storage.SessionRepository
	Catalog() *exercise.Catalog
}
