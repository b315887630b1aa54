package api

import (
	"github.com/JaimeStill/dossier/internal/config"
	"github.com/JaimeStill/dossier/internal/infrastructure"
	"github.com/JaimeStill/dossier/pkg/auth"
	"github.com/JaimeStill/dossier/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration and the
// credential services shared by the auth routes and middleware.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Tokens     *auth.Tokens
	Passwords  *auth.Passwords
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
			Queue:     infra.Queue,
		},
		Pagination: cfg.API.Pagination,
		Tokens:     auth.NewTokens(&cfg.Auth),
		Passwords:  auth.NewPasswords(&cfg.Auth),
	}
}
