// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON HTTP API over the content
// repository and the identity adapter.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"techblog/internal/auth"
	"techblog/internal/blog"
	"techblog/internal/middleware"
)

// maxJSONBody caps request bodies decoded as JSON.
const maxJSONBody = 1 << 20

// statusFor maps repository and identity errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, blog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, blog.ErrDuplicateSlug),
		errors.Is(err, blog.ErrInUse),
		errors.Is(err, auth.ErrEmailInUse):
		return http.StatusConflict
	case errors.Is(err, blog.ErrInvalidInput),
		errors.Is(err, auth.ErrWeakPassword):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, blog.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, auth.ErrTooManyAttempts):
		return http.StatusTooManyRequests
	case errors.Is(err, blog.ErrBackendUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as a JSON error body. Client errors echo the
// error text; server errors are logged and replaced by a generic message.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path)
		middleware.Error(w, r, status, http.StatusText(status))
		return
	}
	middleware.Error(w, r, status, err.Error())
}

// respondJSON writes v with the given status.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

// idResponse is returned by every create and update endpoint.
type idResponse struct {
	ID uuid.UUID `json:"id"`
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := render.DecodeJSON(r.Body, v); err != nil {
		middleware.Error(w, r, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// pathID parses a UUID route parameter. Malformed ids are reported as
// 404 since they can never resolve.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		middleware.Error(w, r, http.StatusNotFound, blog.ErrNotFound.Error())
		return uuid.Nil, false
	}
	return id, true
}

// queryInt reads an integer query parameter, returning 0 when absent or
// malformed.
func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}
