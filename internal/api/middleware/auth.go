package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	apiContext "bursar/internal/api/context"
	"bursar/internal/pkg/errors"
	"bursar/internal/platform/auth"
	"bursar/internal/platform/models"
)

const loginPath = "/login"

// UserLoader resolves the user id stored in a session.
type UserLoader interface {
	LoadUser(ctx context.Context, id int64) (*models.User, error)
}

type AuthMiddleware struct {
	sessions *auth.SessionManager
	users    UserLoader
}

func NewAuthMiddleware(sessions *auth.SessionManager, users UserLoader) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions, users: users}
}

// Handle lets the request through only with a valid session whose user still
// exists; everyone else is sent to the login page.
func (m *AuthMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.sessions.Claims(r)
		if err != nil {
			http.Redirect(w, r, loginPath, http.StatusFound)
			return
		}

		id, err := claims.UserID()
		if err != nil {
			m.sessions.End(w)
			http.Redirect(w, r, loginPath, http.StatusFound)
			return
		}

		user, err := m.users.LoadUser(r.Context(), id)
		if err != nil {
			log.Ctx(r.Context()).Error().Err(err).Int64("user_id", id).Msg("failed to load session user")
			errors.WriteError(w, r, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
			return
		}
		if user == nil {
			m.sessions.End(w)
			http.Redirect(w, r, loginPath, http.StatusFound)
			return
		}

		ctx := context.WithValue(r.Context(), apiContext.User, user)
		next(w, r.WithContext(ctx))
	}
}

// CurrentUser returns the user placed on the context by Handle.
func CurrentUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(apiContext.User).(*models.User)
	return user
}
