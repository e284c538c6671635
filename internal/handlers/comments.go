// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"techblog/internal/blog"
	"techblog/internal/middleware"
	"techblog/internal/models"
)

// Comments groups the comment endpoints.
type Comments struct {
	repo blog.CommentRepository
}

// NewComments creates a new Comments handler group.
func NewComments(repo blog.CommentRepository) *Comments {
	return &Comments{repo: repo}
}

// List returns the comments of a post, newest first.
func (c *Comments) List(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	comments, err := c.repo.ListCommentsByPost(r.Context(), postID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	respondJSON(w, r, http.StatusOK, comments)
}

// Add posts a comment as the signed-in user, or as a guest when the
// request is anonymous. Guests must send name and email.
func (c *Comments) Add(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var in blog.CommentInput
	if !decodeJSON(w, r, &in) {
		return
	}
	in.PostID = postID

	id, err := c.repo.AddComment(r.Context(), middleware.UserFromCtx(r.Context()), in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, idResponse{ID: id})
}

type commentUpdate struct {
	Content string `json:"content"`
}

// Update edits a comment's content. Only its author or an admin may.
func (c *Comments) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var body commentUpdate
	if !decodeJSON(w, r, &body) {
		return
	}

	id, err := c.repo.UpdateComment(r.Context(), middleware.UserFromCtx(r.Context()), id, body.Content)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, idResponse{ID: id})
}

// Delete removes a comment (admin only).
func (c *Comments) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if _, err := c.repo.DeleteComment(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
