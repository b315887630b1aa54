package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JaimeStill/dossier/pkg/apperrors"
)

func TestNewMatchesKind(t *testing.T) {
	err := apperrors.New(apperrors.ErrAccessDenied, "case not found or access denied")

	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, "case not found or access denied", err.Error())
}

func TestTranslate(t *testing.T) {
	denied := apperrors.New(apperrors.ErrAccessDenied, "case not found or access denied")
	missing := apperrors.New(apperrors.ErrNotFound, "user not in group")
	dup := apperrors.New(apperrors.ErrDuplicateAssociation, "case already in collection")
	unauth := apperrors.New(apperrors.ErrUnauthenticated, "invalid username or password")

	tests := []struct {
		name       string
		err        error
		wantClass  apperrors.Class
		wantCode   string
		wantStatus int
		wantMsg    string
	}{
		{"access denied", denied, apperrors.UnauthorizedAccess, "unauthorized_access", http.StatusForbidden, "case not found or access denied"},
		{"wrapped access denied", fmt.Errorf("get case: %w", denied), apperrors.UnauthorizedAccess, "unauthorized_access", http.StatusForbidden, "case not found or access denied"},
		{"not found", missing, apperrors.ResourceNotFound, "resource_not_found", http.StatusNotFound, "user not in group"},
		{"duplicate", dup, apperrors.ResourceConflict, "resource_conflict", http.StatusConflict, "case already in collection"},
		{"authentication", unauth, apperrors.AuthenticationFailure, "authentication_failure", http.StatusUnauthorized, "invalid username or password"},
		{"internal", errors.New("pq: connection reset"), apperrors.InternalError, "internal_error", http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := apperrors.Translate(tt.err)
			assert.Equal(t, tt.wantClass, got.Class)
			assert.Equal(t, tt.wantCode, got.Code())
			assert.Equal(t, tt.wantStatus, got.Status())
			assert.Equal(t, tt.wantMsg, got.Message)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestTranslateIsIdempotent(t *testing.T) {
	first := apperrors.Translate(apperrors.New(apperrors.ErrNotFound, "group not found"))
	second := apperrors.Translate(fmt.Errorf("wrapped: %w", first))
	assert.Same(t, first, second)
}

func TestMapHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, apperrors.MapHTTPStatus(fmt.Errorf("%w: bad", apperrors.ErrInvalidInput)))
	assert.Equal(t, http.StatusInternalServerError, apperrors.MapHTTPStatus(errors.New("boom")))
}
