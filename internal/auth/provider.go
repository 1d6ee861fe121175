package auth

import (
	"context"
	"errors"

	"github.com/rickeysan/hiit-score-app/internal"
	"github.com/rickeysan/hiit-score-app/internal/config"
)

var ErrUnauthorized = errors.New("unauthorized")

// Provider resolves a bearer token to the caller it belongs to.
type Provider interface {
	Authenticate(ctx context.Context, token string) (*internal.Caller, error)
}

// NewProvider uses the static API token in development and the remote auth
// service everywhere else.
func NewProvider(cfg *config.Config, logger internal.Logger) Provider {
	if cfg.Env == "development" {
		return NewLocalAuthProvider(cfg.APIToken, logger)
	}
	return NewRemoteAuthProvider(cfg.AuthServiceURL, logger)
}
