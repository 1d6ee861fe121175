package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rickeysan/hiit-score-app/internal"
	"github.com/rickeysan/hiit-score-app/internal/api"
	"github.com/rickeysan/hiit-score-app/internal/auth"
	"github.com/rickeysan/hiit-score-app/internal/config"
	"github.com/rickeysan/hiit-score-app/internal/exercise"
	"github.com/rickeysan/hiit-score-app/internal/push"
	"github.com/rickeysan/hiit-score-app/internal/service"
	"github.com/rickeysan/hiit-score-app/internal/storage"
)

type server struct {
	logger  internal.Logger
	notify  *service.NotificationService
	repos   *storage.Repositories
	catalog *exercise.Catalog
}

func (s *server) Logger() internal.Logger { return s.logger }

func (s *server) Notifications() *service.NotificationService { return s.notify }

func (s *server) SessionRepo() storage.SessionRepository { return s.repos.Sessions }

func (s *server) Catalog() *exercise.Catalog { return s.catalog }

func newPushProvider(cfg *config.Config, logger internal.Logger) push.Provider {
	if cfg.PushEndpoint == "" {
		logger.Warnf("PUSH_ENDPOINT not set, notifications are only logged")
		return push.NewLogProvider(logger)
	}
	return push.NewHTTPProvider(cfg.PushEndpoint, cfg.PushServerKey, logger)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and notification dispatcher",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, catalog, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		repos, err := storage.Open(cfg, logger)
		if err != nil {
			logger.Errorf("failed to init storage: %v", err)
			return err
		}
		defer func() {
			if err := repos.Close(); err != nil {
				logger.Errorf("failed to close storage: %v", err)
			}
		}()

		notify := service.NewNotificationService(repos.Schedules, repos.Tokens, newPushProvider(cfg, logger), logger,
			service.WithDefaults(cfg.DefaultTitle, cfg.DefaultBody))
		defer notify.Close()

		app := &server{logger: logger, notify: notify, repos: repos, catalog: catalog}
		srv := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           api.NewRouter(app, auth.NewProvider(cfg, logger)),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Infof("server listening on %s (%s storage)", cfg.HTTPAddr, cfg.DBType)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				logger.Errorf("failed to start server: %v", err)
				return err
			}
		case <-ctx.Done():
		}

		logger.Infof("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}
