package http

import (
	"net/http"
	"strings"

	"github.com/secmon-lab/issueboard/pkg/domain/model/auth"
)

const (
	tokenIDCookie     = "token_id"
	tokenSecretCookie = "token_secret"
)

// credentials extracts a token from the token_id/token_secret cookies or an
// "Authorization: Bearer <id>.<secret>" header. Cookies win when both exist.
func credentials(r *http.Request) (auth.TokenID, auth.TokenSecret, bool) {
	idCookie, idErr := r.Cookie(tokenIDCookie)
	secretCookie, secretErr := r.Cookie(tokenSecretCookie)
	if idErr == nil && secretErr == nil {
		return auth.TokenID(idCookie.Value), auth.TokenSecret(secretCookie.Value), true
	}

	header := r.Header.Get("Authorization")
	bearer, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", "", false
	}
	id, secret, ok := strings.Cut(strings.TrimSpace(bearer), ".")
	if !ok || id == "" || secret == "" {
		return "", "", false
	}
	return auth.TokenID(id), auth.TokenSecret(secret), true
}

// authMiddleware validates authentication for protected requests
func authMiddleware(authUC AuthUseCase) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authUC == nil {
				ctx := auth.ContextWithToken(r.Context(), auth.NewAnonymousUser())
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			// NoAuthn mode accepts any request as the configured user
			if authUC.IsNoAuthn() {
				token, err := authUC.ValidateToken(r.Context(), "", "")
				if err != nil {
					writeError(r.Context(), w, err)
					return
				}
				next.ServeHTTP(w, r.WithContext(auth.ContextWithToken(r.Context(), token)))
				return
			}

			tokenID, tokenSecret, ok := credentials(r)
			if !ok {
				writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
				return
			}

			token, err := authUC.ValidateToken(r.Context(), tokenID, tokenSecret)
			if err != nil {
				writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{Error: "invalid authentication token"})
				return
			}

			ctx := auth.ContextWithToken(r.Context(), token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
