// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package memory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"techblog/internal/blog"
	"techblog/internal/models"
	"techblog/internal/storage"
)

func (s *Store) ListPosts(ctx context.Context, params blog.ListParams) (*blog.PostPage, error) {
	params = params.Normalize()

	s.mu.RLock()
	matched := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if !p.IsPublished() {
			continue
		}
		if params.Category != "" && !p.HasCategory(params.Category) {
			continue
		}
		if params.Tag != "" && !p.HasTag(params.Tag) {
			continue
		}
		matched = append(matched, *p.Clone())
	}
	s.mu.RUnlock()

	blog.SortByRecency(matched)
	return blog.PaginatePosts(matched, params)
}

func (s *Store) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, nil
	}
	return p.Clone(), nil
}

func (s *Store) GetPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p := s.postBySlugLocked(slug); p != nil {
		return p.Clone(), nil
	}
	return nil, nil
}

func (s *Store) GetFeaturedPosts(ctx context.Context, limit int) ([]models.Post, error) {
	return s.shelf(limit, func(p *models.Post) bool { return p.Featured }, blog.SortByRecency), nil
}

func (s *Store) GetMostViewedPosts(ctx context.Context, limit int) ([]models.Post, error) {
	return s.shelf(limit, nil, blog.SortByViews), nil
}

func (s *Store) GetRecentPosts(ctx context.Context, limit int) ([]models.Post, error) {
	return s.shelf(limit, nil, blog.SortByRecency), nil
}

// shelf returns up to limit published posts passing keep, in the order
// set by sortFn.
func (s *Store) shelf(limit int, keep func(*models.Post) bool, sortFn func([]models.Post)) []models.Post {
	limit = blog.ClampLimit(limit)

	s.mu.RLock()
	out := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if p.IsPublished() && (keep == nil || keep(p)) {
			out = append(out, *p)
		}
	}
	s.mu.RUnlock()

	sortFn(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return clonePosts(out)
}

func (s *Store) CreatePost(ctx context.Context, author *models.User, in blog.PostInput) (uuid.UUID, error) {
	p, err := blog.NewPost(author, in, s.now())
	if err != nil {
		return uuid.Nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.postBySlugLocked(p.Slug) != nil {
		return uuid.Nil, fmt.Errorf("create post %q: %w", p.Slug, blog.ErrDuplicateSlug)
	}
	s.posts[p.ID] = p
	s.recomputeLocked()
	return p.ID, nil
}

func (s *Store) UpdatePost(ctx context.Context, id uuid.UUID, patch blog.PostPatch) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.posts[id]
	if !ok {
		return uuid.Nil, fmt.Errorf("update post %s: %w", id, blog.ErrNotFound)
	}

	// Patch a copy so a rejected update leaves the stored post untouched.
	p := existing.Clone()
	checkSlug, err := blog.ApplyPatch(p, patch, s.now())
	if err != nil {
		return uuid.Nil, err
	}
	if checkSlug {
		if other := s.postBySlugLocked(p.Slug); other != nil && other.ID != id {
			return uuid.Nil, fmt.Errorf("update post %q: %w", p.Slug, blog.ErrDuplicateSlug)
		}
	}

	s.posts[id] = p
	s.recomputeLocked()
	return id, nil
}

func (s *Store) DeletePost(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	p, ok := s.posts[id]
	if !ok {
		s.mu.Unlock()
		return false, fmt.Errorf("delete post %s: %w", id, blog.ErrNotFound)
	}
	for cid, c := range s.comments {
		if c.PostID == id {
			delete(s.comments, cid)
		}
	}
	delete(s.posts, id)
	s.recomputeLocked()
	s.mu.Unlock()

	if p.FeaturedImage != nil {
		if err := storage.DeleteByURL(ctx, s.blobs, *p.FeaturedImage); err != nil {
			slog.Warn("delete featured image failed", "post_id", id, "url", *p.FeaturedImage, "error", err)
		}
	}
	return true, nil
}

func (s *Store) IncrementViewCount(ctx context.Context, id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		slog.Warn("increment view count: post not found", "post_id", id)
		return
	}
	p.ViewCount++
}

func (s *Store) UploadFeaturedImage(ctx context.Context, postID uuid.UUID, file blog.Upload) (string, error) {
	return storage.PutFeaturedImage(ctx, s.blobs, postID, file, s.now())
}

// postBySlugLocked finds a post by exact slug. Caller holds s.mu.
func (s *Store) postBySlugLocked(slug string) *models.Post {
	for _, p := range s.posts {
		if p.Slug == slug {
			return p
		}
	}
	return nil
}
