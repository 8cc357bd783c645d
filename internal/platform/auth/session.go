package auth

import (
	"errors"
	"net/http"

	"bursar/internal/platform/config"
)

var ErrNoSession = errors.New("no session")

// SessionManager keeps the signed session token in an HttpOnly cookie.
type SessionManager struct {
	tokens *TokenService
	config config.SessionConfig
}

func NewSessionManager(tokens *TokenService, cfg config.SessionConfig) *SessionManager {
	return &SessionManager{tokens: tokens, config: cfg}
}

func (m *SessionManager) Start(w http.ResponseWriter, userID int64, username string) error {
	token, err := m.tokens.GenerateSessionToken(userID, username)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.config.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.config.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.config.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (m *SessionManager) End(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.config.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.config.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Claims returns the validated claims of the request's session cookie.
func (m *SessionManager) Claims(r *http.Request) (*Claims, error) {
	cookie, err := r.Cookie(m.config.CookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrNoSession
	}
	return m.tokens.ValidateToken(cookie.Value)
}
