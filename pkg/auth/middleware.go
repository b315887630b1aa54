package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/JaimeStill/dossier/pkg/handlers"
	"github.com/JaimeStill/dossier/pkg/routes"
)

// RequireAuth returns route middleware that rejects requests without a
// valid bearer token and stores the caller's Identity in the context.
func RequireAuth(tokens *Tokens, logger *slog.Logger) routes.Middleware {
	logger = logger.With("middleware", "auth")

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearer(r.Header.Get("Authorization"))
			if !ok {
				w.Header().Set("WWW-Authenticate", "Bearer")
				handlers.RespondDomainError(w, logger, ErrMissingToken)
				return
			}

			id, err := tokens.Validate(raw)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				handlers.RespondDomainError(w, logger, err)
				return
			}

			next(w, r.WithContext(WithIdentity(r.Context(), id)))
		}
	}
}

func bearer(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
