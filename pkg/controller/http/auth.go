package http

import (
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/issueboard/pkg/domain/model/auth"
	"github.com/secmon-lab/issueboard/pkg/usecase"
)

type AuthUseCase = usecase.AuthUseCaseInterface

type userMeResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// authLogoutHandler revokes the token of the request and clears the cookies
func authLogoutHandler(authUC AuthUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if tokenID, _, ok := credentials(r); ok && authUC != nil {
			if err := authUC.Logout(r.Context(), tokenID); err != nil {
				writeError(r.Context(), w, goerr.Wrap(err, "failed to logout"))
				return
			}
		}

		for _, name := range []string{tokenIDCookie, tokenSecretCookie} {
			http.SetCookie(w, &http.Cookie{
				Name:     name,
				Value:    "",
				Path:     "/",
				HttpOnly: true,
				Secure:   r.TLS != nil,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   -1,
			})
		}

		writeJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
	}
}

// authMeHandler returns the user authenticated by authMiddleware
func authMeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.TokenFromContext(r.Context())
		if err != nil {
			writeError(r.Context(), w, goerr.Wrap(usecase.ErrUnauthenticated, err.Error()))
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, userMeResponse{
			Email: token.Email,
			Name:  token.Name,
		})
	}
}
