package users

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/dossier/pkg/auth"
	"github.com/JaimeStill/dossier/pkg/handlers"
	"github.com/JaimeStill/dossier/pkg/routes"
)

// Handler provides HTTP endpoints for registration, login, and the current user.
type Handler struct {
	sys    System
	tokens *auth.Tokens
	logger *slog.Logger
}

func NewHandler(sys System, tokens *auth.Tokens, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		tokens: tokens,
		logger: logger.With("handler", "auth"),
	}
}

// Routes returns the /auth group. Register and login are public.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/auth",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/register", Handler: h.Register, Public: true},
			{Method: "POST", Pattern: "/login", Handler: h.Login, Public: true},
			{Method: "GET", Pattern: "/me", Handler: h.Me},
		},
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var cmd RegisterCommand
	if err := handlers.DecodeJSON(r, &cmd); err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	u, err := h.sys.Register(r.Context(), cmd)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, u)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var cmd LoginCommand
	if err := handlers.DecodeJSON(r, &cmd); err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	u, err := h.sys.Authenticate(r.Context(), cmd)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	tok, err := h.tokens.Issue(u.ID, u.Username)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, tok)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, err := auth.UserID(r.Context())
	if err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	u, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, u)
}
