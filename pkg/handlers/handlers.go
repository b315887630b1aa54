// Package handlers provides JSON response helpers shared by domain HTTP handlers.
package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/dossier/pkg/apperrors"
)

// RespondJSON writes data as a JSON body with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondMessage writes a {"message": msg} body with the given status code.
func RespondMessage(w http.ResponseWriter, status int, msg string) {
	RespondJSON(w, status, map[string]string{"message": msg})
}

// RespondError writes err as a JSON error body with an explicit status code.
// Use it for request-level failures detected by the handler itself.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request rejected", "status", status, "error", err)
	}

	RespondJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  codeForStatus(status),
	})
}

// RespondDomainError translates an error returned by a domain system into its
// boundary class and writes the class status, message, and code.
func RespondDomainError(w http.ResponseWriter, logger *slog.Logger, err error) {
	appErr := apperrors.Translate(err)

	if appErr.Status() >= http.StatusInternalServerError {
		logger.Error("request failed", "code", appErr.Code(), "error", err)
	} else {
		logger.Warn("request rejected", "code", appErr.Code(), "error", err)
	}

	RespondJSON(w, appErr.Status(), map[string]string{
		"error": appErr.Message,
		"code":  appErr.Code(),
	})
}

// DecodeJSON decodes the request body into v, rejecting unknown fields.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return nil
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return apperrors.AuthenticationFailure.Code()
	case http.StatusForbidden:
		return apperrors.UnauthorizedAccess.Code()
	case http.StatusNotFound:
		return apperrors.ResourceNotFound.Code()
	case http.StatusConflict:
		return apperrors.ResourceConflict.Code()
	}
	if status >= http.StatusInternalServerError {
		return apperrors.InternalError.Code()
	}
	return apperrors.InvalidRequest.Code()
}
