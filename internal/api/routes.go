package api

import (
	"net/http"

	"github.com/JaimeStill/dossier/internal/config"
	"github.com/JaimeStill/dossier/pkg/auth"
	"github.com/JaimeStill/dossier/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	requireAuth := auth.RequireAuth(runtime.Tokens, runtime.Logger)
	evidence := domain.Evidence.Handler(cfg.API.MaxUploadSizeBytes())

	groups := []routes.Group{
		domain.Users.Handler(runtime.Tokens).Routes(),
		domain.Cases.Handler().Routes(),
		domain.Collections.Handler().Routes(),
		domain.Groups.Handler().Routes(),
		evidence.Routes(),
		evidence.CaseRoutes(),
	}

	for i := range groups {
		groups[i].Middleware = append(groups[i].Middleware, requireAuth)
	}

	routes.Register(mux, groups...)
}
