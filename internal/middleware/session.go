package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// CartSessionHeader carries the cart session id for clients without cookies.
	CartSessionHeader = "X-Cart-Session"

	// CartSessionCookie is the cookie holding the cart session id.
	CartSessionCookie = "cart_session"

	cartSessionMaxAge = 30 * 24 * time.Hour
)

type sessionKey struct{}

// CartSession binds every request to a cart session. The id comes from the
// X-Cart-Session header, then the cart_session cookie; when neither is present
// a new id is minted and returned in both. Ids must be UUIDs.
func CartSession(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(CartSessionHeader))
			if id == "" {
				if c, err := r.Cookie(CartSessionCookie); err == nil {
					id = c.Value
				}
			}

			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     CartSessionCookie,
					Value:    id,
					Path:     "/",
					MaxAge:   int(cartSessionMaxAge.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
				logger.Debug().Str("session_id", id).Msg("cart session minted")
			} else if parsed, err := uuid.Parse(id); err != nil {
				logger.Warn().Str("path", r.URL.Path).Msg("invalid cart session id")
				writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidSession, "invalid cart session")
				return
			} else {
				id = parsed.String()
			}

			w.Header().Set(CartSessionHeader, id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, id)))
		})
	}
}

// CartSessionID returns the session bound by CartSession, or "".
func CartSessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}
