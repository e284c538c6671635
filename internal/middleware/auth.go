// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"techblog/internal/auth"
	"techblog/internal/models"
	"techblog/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// UserKey is the context key for the signed-in user.
	UserKey contextKey = "user"
)

// LoadUser resolves the session token on the request through identity and
// stores the signed-in user in the request context. Downstream handlers
// can access it via UserFromCtx(). This middleware does NOT enforce
// authentication.
func LoadUser(identity auth.Identity) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := session.TokenFromRequest(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := identity.CurrentUser(r.Context(), token)
			if err != nil {
				// Treat as anonymous; the request may not need a user.
				slog.Warn("failed to resolve session", "error", err, "path", r.URL.Path)
				next.ServeHTTP(w, r)
				return
			}

			if user != nil {
				r = r.WithContext(WithUser(r.Context(), user))
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser returns 401 when no user is signed in.
// Must be applied after LoadUser in the middleware chain.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromCtx(r.Context()) == nil {
			Error(w, r, http.StatusUnauthorized, "sign in required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuthor returns 403 unless the user may write posts.
func RequireAuthor(next http.Handler) http.Handler {
	return requireRole(next, (*models.User).CanAuthor)
}

// RequireAdmin returns 403 if the authenticated user is not an admin.
func RequireAdmin(next http.Handler) http.Handler {
	return requireRole(next, (*models.User).IsAdmin)
}

func requireRole(next http.Handler, allowed func(*models.User) bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromCtx(r.Context())
		if user == nil {
			Error(w, r, http.StatusUnauthorized, "sign in required")
			return
		}
		if !allowed(user) {
			Error(w, r, http.StatusForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// UserFromCtx extracts the signed-in user from the request context.
// Returns nil if the request is anonymous.
func UserFromCtx(ctx context.Context) *models.User {
	user, _ := ctx.Value(UserKey).(*models.User)
	return user
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// Error writes a JSON error body with the given status.
func Error(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorBody{Error: msg})
}
