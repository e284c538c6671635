// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package blog defines the content repository contract shared by the
// PostgreSQL store and the in-memory mock backend, together with the
// validation, slug and pagination rules both of them apply.
package blog

import (
	"context"
	"io"

	"github.com/google/uuid"

	"techblog/internal/models"
)

// PostRepository covers reading, authoring and deleting posts.
type PostRepository interface {
	// ListPosts returns one page of published posts, newest first.
	ListPosts(ctx context.Context, params ListParams) (*PostPage, error)
	// GetPost returns nil, nil when the id does not resolve.
	GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error)
	// GetPostBySlug returns nil, nil when no post owns the slug.
	GetPostBySlug(ctx context.Context, slug string) (*models.Post, error)
	GetFeaturedPosts(ctx context.Context, limit int) ([]models.Post, error)
	GetMostViewedPosts(ctx context.Context, limit int) ([]models.Post, error)
	GetRecentPosts(ctx context.Context, limit int) ([]models.Post, error)
	CreatePost(ctx context.Context, author *models.User, in PostInput) (uuid.UUID, error)
	UpdatePost(ctx context.Context, id uuid.UUID, patch PostPatch) (uuid.UUID, error)
	DeletePost(ctx context.Context, id uuid.UUID) (bool, error)
	// IncrementViewCount never fails the caller; errors are logged.
	IncrementViewCount(ctx context.Context, id uuid.UUID)
	UploadFeaturedImage(ctx context.Context, postID uuid.UUID, file Upload) (string, error)
}

// TermRepository covers categories and tags.
type TermRepository interface {
	ListTerms(ctx context.Context, kind models.TermKind) ([]models.Term, error)
	GetTermBySlug(ctx context.Context, kind models.TermKind, slug string) (*models.Term, error)
	CreateTerm(ctx context.Context, kind models.TermKind, in TermInput) (uuid.UUID, error)
	UpdateTerm(ctx context.Context, kind models.TermKind, id uuid.UUID, patch TermPatch) (uuid.UUID, error)
	DeleteTerm(ctx context.Context, kind models.TermKind, id uuid.UUID) (bool, error)
	// RecomputeTermCounts overwrites every term's PostCount with the live
	// number of posts that reference it.
	RecomputeTermCounts(ctx context.Context) error
}

// CommentRepository covers reader comments.
type CommentRepository interface {
	ListCommentsByPost(ctx context.Context, postID uuid.UUID) ([]models.Comment, error)
	// AddComment posts as actor, or as a guest when actor is nil.
	AddComment(ctx context.Context, actor *models.User, in CommentInput) (uuid.UUID, error)
	UpdateComment(ctx context.Context, actor *models.User, id uuid.UUID, content string) (uuid.UUID, error)
	DeleteComment(ctx context.Context, id uuid.UUID) (bool, error)
}

// Repository is the full capability set. Callers never know which
// backend sits behind it.
type Repository interface {
	PostRepository
	TermRepository
	CommentRepository
}

// Upload is a featured image handed to UploadFeaturedImage.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
	Size        int64
}
