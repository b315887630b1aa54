package evidence

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/dossier/pkg/auth"
	"github.com/JaimeStill/dossier/pkg/handlers"
	"github.com/JaimeStill/dossier/pkg/pagination"
	"github.com/JaimeStill/dossier/pkg/routes"
)

// uploadMemory caps how much of a multipart body is held in memory. Larger
// parts spill to temporary files; maxUploadSize bounds the whole body.
const uploadMemory = 32 << 20

// Handler provides HTTP endpoints for evidence upload and reads.
type Handler struct {
	sys           System
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
}

// NewHandler creates a Handler with the given system, logger, pagination config, and upload size limit.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "evidence"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the /evidences group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/evidences",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Upload},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "GET", Pattern: "/{id}/messages", Handler: h.Messages},
			{Method: "GET", Pattern: "/{id}/source", Handler: h.Source},
		},
	}
}

// CaseRoutes returns the evidence listing nested under a case.
func (h *Handler) CaseRoutes() routes.Group {
	return routes.Group{
		Prefix: "/cases/{id}/evidences",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.ListByCase},
		},
	}
}

// Upload accepts a multipart form with a case_id field and one or more
// files under evidences. Parsing happens later on the worker.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(min(h.maxUploadSize, uploadMemory)); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
			return
		}
		handlers.RespondDomainError(w, h.logger, ErrNoFiles)
		return
	}
	defer r.MultipartForm.RemoveAll()

	caseID, err := uuid.Parse(strings.TrimSpace(r.FormValue("case_id")))
	if err != nil {
		handlers.RespondDomainError(w, h.logger, ErrInvalidCaseID)
		return
	}

	headers := r.MultipartForm.File["evidences"]
	if len(headers) == 0 {
		handlers.RespondDomainError(w, h.logger, ErrNoFiles)
		return
	}

	files, closeAll, err := openFiles(headers)
	defer closeAll()
	if err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	dispatch, err := h.sys.UploadAndDispatch(r.Context(), caseID, files, userID)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	handlers.RespondJSON(w, http.StatusAccepted, map[string]any{
		"message":     "evidence uploaded and queued for parsing",
		"dispatch_id": dispatch.DispatchID,
		"saved_paths": dispatch.SavedPaths,
	})
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.identify(w, r)
	if !ok {
		return
	}

	e, err := h.sys.Find(r.Context(), id, userID)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, e)
}

func (h *Handler) ListByCase(w http.ResponseWriter, r *http.Request) {
	userID, caseID, ok := h.identify(w, r)
	if !ok {
		return
	}

	result, err := h.sys.ListByCase(r.Context(), caseID, userID)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Messages returns a page of parsed messages in file order.
func (h *Handler) Messages(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.identify(w, r)
	if !ok {
		return
	}

	page := pagination.FromQuery(r.URL.Query(), h.pagination)

	result, err := h.sys.ListMessages(r.Context(), id, userID, page)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Source streams the stored upload back to the caller.
func (h *Handler) Source(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.identify(w, r)
	if !ok {
		return
	}

	e, rc, err := h.sys.OpenSource(r.Context(), id, userID)
	if err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+strings.ReplaceAll(originalFilename(e.Source), `"`, "")+`"`)
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Error("failed to stream evidence source", "id", id, "error", err)
	}
}

func (h *Handler) identify(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		handlers.RespondDomainError(w, h.logger, err)
		return uuid.Nil, uuid.Nil, false
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondDomainError(w, h.logger, ErrInvalidID)
		return uuid.Nil, uuid.Nil, false
	}

	return userID, id, true
}

func openFiles(headers []*multipart.FileHeader) ([]File, func(), error) {
	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	files := make([]File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, closeAll, err
		}
		opened = append(opened, f)

		contentType := fh.Header.Get("Content-Type")
		if contentType == "" || contentType == "application/octet-stream" {
			contentType = "text/csv"
		}

		files = append(files, File{
			Name:        fh.Filename,
			ContentType: contentType,
			Body:        f,
		})
	}
	return files, closeAll, nil
}
