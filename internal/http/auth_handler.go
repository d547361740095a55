package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/kadeksinduarta/selat-frontend/internal/api"
	"github.com/kadeksinduarta/selat-frontend/internal/domain"
	"github.com/kadeksinduarta/selat-frontend/internal/session"
	"github.com/sirupsen/logrus"
)

type Authenticator interface {
	Login(ctx context.Context, creds api.Credentials) (*api.AuthResult, error)
	Register(ctx context.Context, reg api.Registration) (*api.AuthResult, error)
}

type AuthHandler struct {
	auth     Authenticator
	sessions *session.Manager
	timeout  time.Duration
	log      logrus.FieldLogger
}

func NewAuthHandler(auth Authenticator, sessions *session.Manager, timeout time.Duration, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		sessions: sessions,
		timeout:  timeout,
		log:      log,
	}
}

type AuthResponseDTO struct {
	User     domain.Profile `json:"user"`
	Redirect string         `json:"redirect"`
}

// POST /api/v1/auth/login?redirect=
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var creds api.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
		respondError(w, http.StatusUnprocessableEntity, "missing_credentials", "email and password are required")
		return
	}

	result, err := h.auth.Login(ctx, creds)
	if err != nil {
		handleRemoteError(w, err)
		return
	}
	h.signIn(w, r, result, safeRedirect(r.URL.Query().Get("redirect"), "/"))
}

// POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var reg api.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if msg := validateRegistration(reg); msg != "" {
		respondError(w, http.StatusUnprocessableEntity, "invalid_registration", msg)
		return
	}

	result, err := h.auth.Register(ctx, reg)
	if err != nil {
		handleRemoteError(w, err)
		return
	}
	h.signIn(w, r, result, "/profile")
}

// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := *session.FromContext(r.Context())
	claims.Token = ""
	claims.UserName = ""
	if err := h.sessions.Write(w, &claims); err != nil {
		h.log.WithError(err).Error("write session cookie")
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"redirect": "/"})
}

// signIn keeps the session id so the anonymous cart survives login.
func (h *AuthHandler) signIn(w http.ResponseWriter, r *http.Request, result *api.AuthResult, redirect string) {
	claims := *session.FromContext(r.Context())
	claims.Token = result.Token
	claims.UserName = result.User.Name
	if err := h.sessions.Write(w, &claims); err != nil {
		h.log.WithError(err).Error("write session cookie")
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, AuthResponseDTO{User: result.User, Redirect: redirect})
}

func validateRegistration(reg api.Registration) string {
	switch {
	case strings.TrimSpace(reg.Name) == "":
		return "name is required"
	case strings.TrimSpace(reg.Email) == "":
		return "email is required"
	case len(reg.Password) < 6:
		return "password must be at least 6 characters"
	case reg.Password != reg.PasswordConfirmation:
		return "password confirmation does not match"
	}
	return ""
}
