package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"bursar/internal/api/flash"
	"bursar/internal/api/middleware"
	"bursar/internal/engine/accounts"
	apperrors "bursar/internal/pkg/errors"
	"bursar/internal/platform/audit"
	"bursar/internal/platform/auth"
	"bursar/internal/platform/metrics"
	"bursar/internal/web"
)

const (
	msgInvalidCredentials = "Invalid credentials."
	msgUsernameTaken      = "Username already exists."
	msgMissingCredentials = "Username and password are required."
	msgAccountCreated     = "Account created. Please login."
	msgLoggedOut          = "You have been logged out."
)

type AuthHandler struct {
	accounts *accounts.Service
	sessions *auth.SessionManager
	views    *web.Templates
	metrics  *metrics.Metrics
	audit    *audit.Logger
}

func NewAuthHandler(accounts *accounts.Service, sessions *auth.SessionManager, views *web.Templates, m *metrics.Metrics, auditLog *audit.Logger) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		sessions: sessions,
		views:    views,
		metrics:  m,
		audit:    auditLog,
	}
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.views, http.StatusOK, "login", web.Page{
		Title:    "Login",
		Messages: flash.Pop(w, r),
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		apperrors.WriteError(w, r, http.StatusBadRequest, apperrors.ErrCodeInvalidInput, "Invalid form body", nil)
		return
	}
	username := r.PostForm.Get("username")

	user, err := h.accounts.Login(r.Context(), username, r.PostForm.Get("password"))
	if errors.Is(err, accounts.ErrInvalidCredentials) {
		h.metrics.Logins.WithLabelValues("failure").Inc()
		h.audit.Log(r, audit.ActionLoginFailed, username, nil)
		render(w, r, h.views, http.StatusOK, "login", web.Page{
			Title:    "Login",
			Messages: []string{msgInvalidCredentials},
		})
		return
	}
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("login failed")
		apperrors.WriteError(w, r, http.StatusInternalServerError, apperrors.ErrCodeInternal, "Database error", nil)
		return
	}

	if err := h.sessions.Start(w, user.ID, user.Username); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("failed to start session")
		apperrors.WriteError(w, r, http.StatusInternalServerError, apperrors.ErrCodeInternal, "Failed to start session", nil)
		return
	}

	h.metrics.Logins.WithLabelValues("success").Inc()
	h.audit.Log(r, audit.ActionLogin, user.Username, nil)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.views, http.StatusOK, "signup", web.Page{
		Title:    "Sign up",
		Messages: flash.Pop(w, r),
	})
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		apperrors.WriteError(w, r, http.StatusBadRequest, apperrors.ErrCodeInvalidInput, "Invalid form body", nil)
		return
	}

	user, err := h.accounts.Signup(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	switch {
	case errors.Is(err, accounts.ErrUsernameTaken):
		h.metrics.Signups.WithLabelValues("duplicate").Inc()
		flash.Add(w, r, msgUsernameTaken)
		http.Redirect(w, r, "/signup", http.StatusFound)
		return
	case errors.Is(err, accounts.ErrMissingCredentials):
		h.metrics.Signups.WithLabelValues("invalid").Inc()
		flash.Add(w, r, msgMissingCredentials)
		http.Redirect(w, r, "/signup", http.StatusFound)
		return
	case err != nil:
		log.Ctx(r.Context()).Error().Err(err).Msg("signup failed")
		apperrors.WriteError(w, r, http.StatusInternalServerError, apperrors.ErrCodeInternal, "Failed to create account", nil)
		return
	}

	h.metrics.Signups.WithLabelValues("success").Inc()
	h.audit.Log(r, audit.ActionSignup, user.Username, map[string]string{"user_id": strconv.FormatInt(user.ID, 10)})
	flash.Add(w, r, msgAccountCreated)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if user := middleware.CurrentUser(r.Context()); user != nil {
		h.audit.Log(r, audit.ActionLogout, user.Username, nil)
	}
	h.sessions.End(w)
	flash.Add(w, r, msgLoggedOut)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func render(w http.ResponseWriter, r *http.Request, views *web.Templates, status int, name string, page web.Page) {
	if err := views.Render(w, status, name, page); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Str("template", name).Msg("failed to render page")
		apperrors.WriteError(w, r, http.StatusInternalServerError, apperrors.ErrCodeInternal, "Failed to render page", nil)
	}
}
