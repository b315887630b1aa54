package cases

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/dossier/pkg/apperrors"
	"github.com/JaimeStill/dossier/pkg/auth"
	"github.com/JaimeStill/dossier/pkg/handlers"
	"github.com/JaimeStill/dossier/pkg/routes"
)

// ErrInvalidID is returned for a malformed case id path parameter.
var ErrInvalidID = apperrors.New(apperrors.ErrInvalidInput, "invalid case id")

// Handler provides HTTP endpoints for case operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "cases"),
	}
}

// Routes returns the route group definition for case endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/cases",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "GET", Pattern: "/shared", Handler: h.ListShared},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

// List returns the cases owned by the caller.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	result, err := h.sys.ListOwned(r.Context(), userID)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// ListShared returns every case the caller can read, owned ones included.
func (h *Handler) ListShared(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	result, err := h.sys.ListShared(r.Context(), userID)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	var cmd CreateCommand
	if err := handlers.DecodeJSON(r, &cmd); err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	c, err := h.sys.Create(r.Context(), cmd, userID)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, c)
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	userID, caseID, ok := h.identify(w, r)
	if !ok {
		return
	}

	c, err := h.sys.Find(r.Context(), caseID, userID)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, caseID, ok := h.identify(w, r)
	if !ok {
		return
	}

	var cmd UpdateCommand
	if err := handlers.DecodeJSON(r, &cmd); err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	c, err := h.sys.Update(r.Context(), caseID, cmd, userID)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, caseID, ok := h.identify(w, r)
	if !ok {
		return
	}

	if err := h.sys.Delete(r.Context(), caseID, userID); err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) identify(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return uuid.Nil, uuid.Nil, false
	}

	caseID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondDomainError(w, h.logger, ErrInvalidID)
		return uuid.Nil, uuid.Nil, false
	}

	return userID, caseID, true
}
