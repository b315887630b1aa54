package collections

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/dossier/pkg/auth"
	"github.com/JaimeStill/dossier/pkg/handlers"
	"github.com/JaimeStill/dossier/pkg/routes"
)

// Handler provides HTTP endpoints for collection operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "collections"),
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/collections",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
			{Method: "POST", Pattern: "/{id}/cases/{case_id}", Handler: h.AddCase},
			{Method: "DELETE", Pattern: "/{id}/cases/{case_id}", Handler: h.RemoveCase},
		},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	result, err := h.sys.List(r.Context(), userID)
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

// Find returns the collection together with the cases it holds.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	userID, ids, ok := h.parse(w, r, "id")
	if !ok {
		return
	}

	c, err := h.sys.Find(r.Context(), ids[0], userID)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ids, ok := h.parse(w, r, "id")
	if !ok {
		return
	}

	var cmd UpdateCommand
	if err := handlers.DecodeJSON(r, &cmd); err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	c, err := h.sys.Update(r.Context(), ids[0], cmd, userID)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ids, ok := h.parse(w, r, "id")
	if !ok {
		return
	}

	if err := h.sys.Delete(r.Context(), ids[0], userID); err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddCase(w http.ResponseWriter, r *http.Request) {
	userID, ids, ok := h.parse(w, r, "id", "case_id")
	if !ok {
		return
	}

	if err := h.sys.AddCase(r.Context(), ids[0], ids[1], userID); err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	handlers.RespondMessage(w, http.StatusCreated, "case added to collection")
}

func (h *Handler) RemoveCase(w http.ResponseWriter, r *http.Request) {
	userID, ids, ok := h.parse(w, r, "id", "case_id")
	if !ok {
		return
	}

	if err := h.sys.RemoveCase(r.Context(), ids[0], ids[1], userID); err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parse resolves the caller and the named uuid path values in order.
func (h *Handler) parse(w http.ResponseWriter, r *http.Request, names ...string) (uuid.UUID, []uuid.UUID, bool) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return uuid.Nil, nil, false
	}

	ids := make([]uuid.UUID, len(names))
	for i, name := range names {
		id, err := uuid.Parse(r.PathValue(name))
		if err != nil {
			handlers.RespondDomainError(w, h.logger, ErrInvalidID)
			return uuid.Nil, nil, false
		}
		ids[i] = id
	}

	return userID, ids, true
}
