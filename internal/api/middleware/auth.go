package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rohits-web03/chatterbox/internal/utils"
)

type contextKey string

const UserIDKey contextKey = "userID"

// TokenVerifier resolves a bearer token to the user id it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// AuthMiddleware accepts "Authorization: Bearer <token>" or a "token" cookie
// and stores the verified user id in the request context.
func AuthMiddleware(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			tokenStr := bearerToken(r)
			if tokenStr == "" {
				utils.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			userID, err := tokens.Verify(tokenStr)
			if err != nil {
				utils.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if c, err := r.Cookie("token"); err == nil {
		return c.Value
	}
	return ""
}

// UserIDFromContext returns the id stored by AuthMiddleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok && id != ""
}
