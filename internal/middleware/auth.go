package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// Authenticator resolves a bearer token to a user with a server-side role.
type Authenticator interface {
	Authenticate(ctx context.Context, bearerToken string) (*model.User, error)
}

type userKey struct{}

// Identify resolves the Authorization bearer token, when present, and stores
// the user in the request context. Requests without a valid token pass
// through anonymously; RequireUser and RequireAdmin enforce access.
func Identify(auth Authenticator, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				if !errors.Is(err, model.ErrUnauthenticated) {
					logger.Error().Err(err).Str("path", r.URL.Path).Msg("identity lookup failed")
				} else {
					logger.Debug().
						Str("path", r.URL.Path).
						Str("token", token[:min(8, len(token))]).
						Msg("bearer token rejected")
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, user)))
		})
	}
}

// RequireUser rejects anonymous requests with 401.
func RequireUser(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserFromContext(r.Context()) == nil {
				logger.Warn().Str("path", r.URL.Path).Msg("missing identity")
				writeError(w, r, http.StatusUnauthorized, model.ErrCodeUnauthorised, model.ErrUnauthenticated.Message)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin rejects anonymous requests with 401 and non-admins with 403.
func RequireAdmin(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				logger.Warn().Str("path", r.URL.Path).Msg("missing identity")
				writeError(w, r, http.StatusUnauthorized, model.ErrCodeUnauthorised, model.ErrUnauthenticated.Message)
				return
			}
			if !user.IsAdmin() {
				logger.Warn().
					Str("path", r.URL.Path).
					Str("user_id", user.ID).
					Msg("admin access denied")
				writeError(w, r, http.StatusForbidden, model.ErrCodeForbidden, model.ErrForbidden.Message)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFromContext returns the user stored by Identify, or nil.
func UserFromContext(ctx context.Context) *model.User {
	user, _ := ctx.Value(userKey{}).(*model.User)
	return user
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}
