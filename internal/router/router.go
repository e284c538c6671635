// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// blog API. It organizes routes into public, signed-in, author and admin
// groups with appropriate middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"techblog/internal/auth"
	"techblog/internal/handlers"
	"techblog/internal/middleware"
)

// Deps carries everything the router mounts. AuthLimiter and Uploads may
// be nil.
type Deps struct {
	Identity    auth.Identity
	Posts       *handlers.Posts
	Categories  *handlers.Terms
	Tags        *handlers.Terms
	Comments    *handlers.Comments
	Auth        *handlers.Auth
	Health      http.Handler
	Uploads     http.Handler
	AuthLimiter *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders)

	if d.Uploads != nil {
		r.Handle("/uploads/*", d.Uploads)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(middleware.LoadUser(d.Identity))

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			middleware.Error(w, r, http.StatusNotFound, "not found")
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			middleware.Error(w, r, http.StatusMethodNotAllowed, "method not allowed")
		})

		r.Method(http.MethodGet, "/health", d.Health)

		// Public reading.
		r.Route("/posts", func(r chi.Router) {
			r.Get("/", d.Posts.List)
			r.Get("/featured", d.Posts.Featured)
			r.Get("/popular", d.Posts.Popular)
			r.Get("/recent", d.Posts.Recent)
			r.Get("/{slug}", d.Posts.BySlug)
			r.Post("/{id}/views", d.Posts.RecordView)
			r.Get("/{id}/comments", d.Comments.List)
			r.Post("/{id}/comments", d.Comments.Add)
		})
		mountTermsPublic(r, "/categories", d.Categories)
		mountTermsPublic(r, "/tags", d.Tags)

		// Identity.
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Group(func(r chi.Router) {
				if d.AuthLimiter != nil {
					r.Use(d.AuthLimiter.Middleware)
				}
				r.Post("/signin", d.Auth.SignIn)
				r.Post("/signup", d.Auth.SignUp)
			})
			r.Post("/signout", d.Auth.SignOut)
			r.With(middleware.RequireUser).Get("/me", d.Auth.Me)
		})

		// Comment moderation.
		r.Route("/comments/{id}", func(r chi.Router) {
			r.With(middleware.RequireUser).Put("/", d.Comments.Update)
			r.With(middleware.RequireAdmin).Delete("/", d.Comments.Delete)
		})

		// Authoring.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.NoStore)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuthor)
				r.Post("/posts", d.Posts.Create)
				r.Get("/posts/{id}", d.Posts.Get)
				r.Put("/posts/{id}", d.Posts.Update)
				r.Delete("/posts/{id}", d.Posts.Delete)
				r.Post("/posts/{id}/image", d.Posts.UploadImage)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				mountTermsAdmin(r, "/categories", d.Categories)
				mountTermsAdmin(r, "/tags", d.Tags)
			})
		})
	})

	return r
}

func mountTermsPublic(r chi.Router, prefix string, h *handlers.Terms) {
	r.Get(prefix, h.List)
	r.Get(prefix+"/{slug}", h.BySlug)
}

func mountTermsAdmin(r chi.Router, prefix string, h *handlers.Terms) {
	r.Post(prefix, h.Create)
	r.Put(prefix+"/{id}", h.Update)
	r.Delete(prefix+"/{id}", h.Delete)
}
