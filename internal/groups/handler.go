package groups

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/dossier/pkg/auth"
	"github.com/JaimeStill/dossier/pkg/handlers"
	"github.com/JaimeStill/dossier/pkg/routes"
)

// Handler provides HTTP endpoints for group operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "groups"),
	}
}

// Routes returns the route group definition for group endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/groups",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
		Children: []routes.Group{
			{
				Prefix: "/{id}/users",
				Routes: []routes.Route{
					{Method: "POST", Pattern: "/{user_id}", Handler: h.AddUser},
					{Method: "DELETE", Pattern: "/{user_id}", Handler: h.RemoveUser},
				},
			},
			{
				Prefix: "/{id}/cases",
				Routes: []routes.Route{
					{Method: "POST", Pattern: "/{case_id}", Handler: h.ShareCase},
					{Method: "DELETE", Pattern: "/{case_id}", Handler: h.RemoveCase},
				},
			},
		},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.parse(w, r)
	if !ok {
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
	userID, _, ok := h.parse(w, r)
	if !ok {
		return
	}

	var cmd Command
	if err := handlers.DecodeJSON(r, &cmd); err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	g, err := h.sys.Create(r.Context(), cmd, userID)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, g)
}

// Find returns the group with its members and shared cases.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	userID, ids, ok := h.parse(w, r, "id")
	if !ok {
		return
	}

	g, err := h.sys.Find(r.Context(), ids[0], userID)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, g)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ids, ok := h.parse(w, r, "id")
	if !ok {
		return
	}

	var cmd Command
	if err := handlers.DecodeJSON(r, &cmd); err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	g, err := h.sys.Update(r.Context(), ids[0], cmd, userID)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, g)
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

func (h *Handler) AddUser(w http.ResponseWriter, r *http.Request) {
	userID, ids, ok := h.parse(w, r, "id", "user_id")
	if !ok {
		return
	}

	if err := h.sys.AddUser(r.Context(), ids[1], ids[0], userID); err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	handlers.RespondMessage(w, http.StatusCreated, "user added to group")
}

func (h *Handler) RemoveUser(w http.ResponseWriter, r *http.Request) {
	userID, ids, ok := h.parse(w, r, "id", "user_id")
	if !ok {
		return
	}

	if err := h.sys.RemoveUser(r.Context(), ids[1], ids[0], userID); err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ShareCase(w http.ResponseWriter, r *http.Request) {
	userID, ids, ok := h.parse(w, r, "id", "case_id")
	if !ok {
		return
	}

	if err := h.sys.ShareCase(r.Context(), ids[1], ids[0], userID); err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	handlers.RespondMessage(w, http.StatusCreated, "case shared with group")
}

func (h *Handler) RemoveCase(w http.ResponseWriter, r *http.Request) {
	userID, ids, ok := h.parse(w, r, "id", "case_id")
	if !ok {
		return
	}

	if err := h.sys.RemoveCase(r.Context(), ids[1], ids[0], userID); err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) parse(w http.ResponseWriter, r *http.Request, names ...string) (uuid.UUID, []uuid.UUID, bool) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return uuid.Nil, nil, false
	}

	ids := make([]uuid.UUID, len(names))
	for i, name := range names {
		if ids[i], err = uuid.Parse(r.PathValue(name)); err != nil {
			handlers.RespondDomainError(w, h.logger, ErrInvalidID)
			return uuid.Nil, nil, false
		}
	}

	return userID, ids, true
}
