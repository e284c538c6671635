// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"techblog/internal/blog"
	"techblog/internal/markdown"
	"techblog/internal/middleware"
	"techblog/internal/models"
)

// Posts groups the public and admin post endpoints.
type Posts struct {
	repo blog.PostRepository
}

// NewPosts creates a new Posts handler group.
func NewPosts(repo blog.PostRepository) *Posts {
	return &Posts{repo: repo}
}

// List returns one page of published posts. Query parameters: page_size,
// cursor, page, category, tag, q.
func (p *Posts) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := blog.ListParams{
		PageSize: queryInt(r, "page_size"),
		Cursor:   q.Get("cursor"),
		Page:     queryInt(r, "page"),
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
		Search:   q.Get("q"),
	}

	page, err := p.repo.ListPosts(r.Context(), params)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, page)
}

// Featured returns the featured shelf.
func (p *Posts) Featured(w http.ResponseWriter, r *http.Request) {
	p.shelf(w, r, p.repo.GetFeaturedPosts)
}

// Popular returns the most viewed shelf.
func (p *Posts) Popular(w http.ResponseWriter, r *http.Request) {
	p.shelf(w, r, p.repo.GetMostViewedPosts)
}

// Recent returns the most recently published shelf.
func (p *Posts) Recent(w http.ResponseWriter, r *http.Request) {
	p.shelf(w, r, p.repo.GetRecentPosts)
}

func (p *Posts) shelf(w http.ResponseWriter, r *http.Request, fetch func(ctx context.Context, limit int) ([]models.Post, error)) {
	posts, err := fetch(r.Context(), queryInt(r, "limit"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	respondJSON(w, r, http.StatusOK, posts)
}

// BySlug returns a single post. Drafts are only visible to their author
// and to admins.
func (p *Posts) BySlug(w http.ResponseWriter, r *http.Request) {
	post, err := p.repo.GetPostBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	if post == nil || (!post.IsPublished() && !canEdit(middleware.UserFromCtx(r.Context()), post)) {
		respondError(w, r, blog.ErrNotFound)
		return
	}
	respondJSON(w, r, http.StatusOK, post)
}

// RecordView bumps the view counter. It always answers 204; the
// repository logs lookups that miss.
func (p *Posts) RecordView(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	p.repo.IncrementViewCount(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

// Get returns any post by id for the editor.
func (p *Posts) Get(w http.ResponseWriter, r *http.Request) {
	post, ok := p.editable(w, r)
	if !ok {
		return
	}
	respondJSON(w, r, http.StatusOK, post)
}

// createRequest is a PostInput whose content may be sent as Markdown.
type createRequest struct {
	blog.PostInput
	Format string `json:"format"`
}

// updateRequest is a PostPatch whose content may be sent as Markdown.
type updateRequest struct {
	blog.PostPatch
	Format string `json:"format"`
}

// Create stores a new post written by the signed-in user.
func (p *Posts) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	content, err := convertBody(req.Format, req.Content)
	if err != nil {
		respondError(w, r, err)
		return
	}
	req.Content = content

	user := middleware.UserFromCtx(r.Context())
	id, err := p.repo.CreatePost(r.Context(), user, req.PostInput)
	if err != nil {
		respondError(w, r, err)
		return
	}

	slog.Info("post created", "id", id, "author_id", user.ID)
	respondJSON(w, r, http.StatusCreated, idResponse{ID: id})
}

// Update applies a partial update.
func (p *Posts) Update(w http.ResponseWriter, r *http.Request) {
	post, ok := p.editable(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Content != nil {
		content, err := convertBody(req.Format, *req.Content)
		if err != nil {
			respondError(w, r, err)
			return
		}
		req.Content = &content
	}

	id, err := p.repo.UpdatePost(r.Context(), post.ID, req.PostPatch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, idResponse{ID: id})
}

// Delete removes a post with its comments and featured image.
func (p *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	post, ok := p.editable(w, r)
	if !ok {
		return
	}

	if _, err := p.repo.DeletePost(r.Context(), post.ID); err != nil {
		respondError(w, r, err)
		return
	}

	slog.Info("post deleted", "id", post.ID)
	w.WriteHeader(http.StatusNoContent)
}

// UploadImage stores a featured image for the post and returns its URL.
// The post itself is left unchanged; the editor saves the URL through
// Update.
func (p *Posts) UploadImage(w http.ResponseWriter, r *http.Request) {
	post, ok := p.editable(w, r)
	if !ok {
		return
	}

	upload, closeFn, err := readImageUpload(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer closeFn()

	url, err := p.repo.UploadFeaturedImage(r.Context(), post.ID, upload)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, map[string]string{"url": url})
}

// editable loads the {id} post and checks the signed-in user may change it.
func (p *Posts) editable(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return nil, false
	}

	post, err := p.repo.GetPost(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return nil, false
	}
	if post == nil {
		respondError(w, r, blog.ErrNotFound)
		return nil, false
	}
	if !canEdit(middleware.UserFromCtx(r.Context()), post) {
		respondError(w, r, blog.ErrForbidden)
		return nil, false
	}
	return post, true
}

// convertBody turns a Markdown body into stored HTML.
func convertBody(format, body string) (string, error) {
	html, err := markdown.Convert(format, body)
	if err != nil {
		return "", fmt.Errorf("%w: %w", blog.ErrInvalidInput, err)
	}
	return html, nil
}

// canEdit reports whether user may change post: admins may change any
// post, authors only their own.
func canEdit(user *models.User, post *models.Post) bool {
	if user == nil {
		return false
	}
	if user.IsAdmin() {
		return true
	}
	return user.CanAuthor() && post.Author.ID == user.ID && post.Author.ID != uuid.Nil
}
