package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"techblog/internal/auth"
	"techblog/internal/middleware"
	"techblog/internal/models"
	"techblog/internal/session"
)

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	identity     auth.Identity
	ttl          time.Duration
	secureCookie bool
}

// NewAuth creates a new Auth handler group. ttl is the session lifetime
// used for the cookie's Max-Age.
func NewAuth(identity auth.Identity, ttl time.Duration, secureCookie bool) *Auth {
	return &Auth{identity: identity, ttl: ttl, secureCookie: secureCookie}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// sessionResponse carries the token for API clients; browsers also get
// it as an HttpOnly cookie.
type sessionResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// SignIn exchanges credentials for a session.
func (a *Auth) SignIn(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if !decodeJSON(w, r, &c) {
		return
	}

	token, user, err := a.identity.SignIn(r.Context(), c.Email, c.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	session.SetCookie(w, token, a.ttl, a.secureCookie)
	respondJSON(w, r, http.StatusOK, sessionResponse{Token: token, User: user})
}

// SignUp registers a reader account and signs it in.
func (a *Auth) SignUp(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if !decodeJSON(w, r, &c) {
		return
	}
	if err := validateSignUp(c.Name); err != nil {
		respondError(w, r, err)
		return
	}

	token, user, err := a.identity.SignUp(r.Context(), c.Email, c.Password, c.Name)
	if err != nil {
		respondError(w, r, err)
		return
	}

	session.SetCookie(w, token, a.ttl, a.secureCookie)
	respondJSON(w, r, http.StatusCreated, sessionResponse{Token: token, User: user})
}

// SignOut destroys the session, if any, and clears the cookie.
func (a *Auth) SignOut(w http.ResponseWriter, r *http.Request) {
	if token := session.TokenFromRequest(r); token != "" {
		if err := a.identity.SignOut(r.Context(), token); err != nil {
			slog.Error("session destroy failed", "error", err)
		}
	}

	session.ClearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the signed-in user.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, middleware.UserFromCtx(r.Context()))
}
