// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"techblog/internal/blog"
)

// Terms serves one kind of taxonomy term. The router mounts one instance
// for categories and one for tags.
type Terms struct {
	set blog.TermSet
}

// NewTerms creates a Terms handler group bound to set's kind.
func NewTerms(set blog.TermSet) *Terms {
	return &Terms{set: set}
}

func (t *Terms) List(w http.ResponseWriter, r *http.Request) {
	terms, err := t.set.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, terms)
}

func (t *Terms) BySlug(w http.ResponseWriter, r *http.Request) {
	term, err := t.set.BySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	if term == nil {
		respondError(w, r, blog.ErrNotFound)
		return
	}
	respondJSON(w, r, http.StatusOK, term)
}

func (t *Terms) Create(w http.ResponseWriter, r *http.Request) {
	var in blog.TermInput
	if !decodeJSON(w, r, &in) {
		return
	}

	id, err := t.set.Create(r.Context(), in)
	if err != nil {
		respondError(w, r, err)
		return
	}

	slog.Info("term created", "kind", t.set.Kind(), "id", id)
	respondJSON(w, r, http.StatusCreated, idResponse{ID: id})
}

func (t *Terms) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var patch blog.TermPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	id, err := t.set.Update(r.Context(), id, patch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, idResponse{ID: id})
}

// Delete refuses with 409 while posts still reference the term.
func (t *Terms) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if _, err := t.set.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	slog.Info("term deleted", "kind", t.set.Kind(), "id", id)
	w.WriteHeader(http.StatusNoContent)
}
