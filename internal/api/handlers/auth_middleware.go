package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/mdmahmu/toolstun-server/internal/auth"
)

type TokenVerifier interface {
	Verify(token string) (string, error)
}

// RequireToken admits requests carrying a valid bearer token and stores its
// subject in the request context.
func RequireToken(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			scheme, token, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "unauthorized access", nil)
				return
			}

			subject, err := tokens.Verify(strings.TrimSpace(token))
			if err != nil {
				zap.L().Debug("token rejected", zap.String("path", r.URL.Path), zap.Error(err))
				writeError(w, http.StatusForbidden, codeForbidden, "forbidden access", nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithSubject(r.Context(), subject)))
		})
	}
}
