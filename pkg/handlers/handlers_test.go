package handlers_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/dossier/pkg/apperrors"
	"github.com/JaimeStill/dossier/pkg/handlers"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeBody(t *testing.T, res *http.Response) map[string]string {
	t.Helper()
	body, _ := io.ReadAll(res.Body)
	var parsed map[string]string
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	return parsed
}

func TestRespondJSON(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		data       any
		wantStatus int
	}{
		{
			name:       "200 with map",
			status:     http.StatusOK,
			data:       map[string]string{"key": "value"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "201 with struct",
			status:     http.StatusCreated,
			data:       struct{ ID int }{ID: 42},
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handlers.RespondJSON(rec, tt.status, tt.data)

			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.wantStatus {
				t.Errorf("status: got %d, want %d", res.StatusCode, tt.wantStatus)
			}
			if ct := res.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("content-type: got %s", ct)
			}
		})
	}
}

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()

	handlers.RespondError(rec, discardLogger(), http.StatusBadRequest, errors.New("invalid input"))

	res := rec.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", res.StatusCode)
	}

	parsed := decodeBody(t, res)
	if parsed["error"] != "invalid input" {
		t.Errorf("error: got %s, want invalid input", parsed["error"])
	}
	if parsed["code"] != "invalid_request" {
		t.Errorf("code: got %s, want invalid_request", parsed["code"])
	}
}

func TestRespondDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "access denied",
			err:        apperrors.New(apperrors.ErrAccessDenied, "case not found or access denied"),
			wantStatus: http.StatusForbidden,
			wantCode:   "unauthorized_access",
			wantMsg:    "case not found or access denied",
		},
		{
			name:       "duplicate association",
			err:        apperrors.New(apperrors.ErrDuplicateAssociation, "user already in group"),
			wantStatus: http.StatusConflict,
			wantCode:   "resource_conflict",
			wantMsg:    "user already in group",
		},
		{
			name:       "internal error hides detail",
			err:        errors.New("dial tcp 10.0.0.1:5432: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal_error",
			wantMsg:    "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handlers.RespondDomainError(rec, discardLogger(), tt.err)

			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.wantStatus {
				t.Errorf("status: got %d, want %d", res.StatusCode, tt.wantStatus)
			}

			parsed := decodeBody(t, res)
			if parsed["code"] != tt.wantCode {
				t.Errorf("code: got %s, want %s", parsed["code"], tt.wantCode)
			}
			if parsed["error"] != tt.wantMsg {
				t.Errorf("error: got %s, want %s", parsed["error"], tt.wantMsg)
			}
		})
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	var dst struct {
		Title string `json:"title"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"a","extra":1}`))
	err := handlers.DecodeJSON(req, &dst)
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("DecodeJSON error = %v, want ErrInvalidInput", err)
	}
}
