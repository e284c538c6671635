package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"techblog/internal/blog"
	"techblog/internal/models"
)

// ListCommentsByPost returns the comments on a post, newest first.
func (s *Store) ListCommentsByPost(ctx context.Context, postID uuid.UUID) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Comment, 0)
	for _, c := range s.comments {
		if c.PostID == postID {
			out = append(out, cloneComment(c))
		}
	}
	slices.SortFunc(out, func(a, b models.Comment) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID.String(), a.ID.String())
	})
	return out, nil
}

func (s *Store) AddComment(ctx context.Context, actor *models.User, in blog.CommentInput) (uuid.UUID, error) {
	c, err := blog.NewComment(actor, in, s.now())
	if err != nil {
		return uuid.Nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[c.PostID]; !ok {
		return uuid.Nil, fmt.Errorf("add comment to post %s: %w", c.PostID, blog.ErrNotFound)
	}
	s.comments[c.ID] = c
	return c.ID, nil
}

func (s *Store) UpdateComment(ctx context.Context, actor *models.User, id uuid.UUID, content string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.comments[id]
	if !ok {
		return uuid.Nil, fmt.Errorf("update comment %s: %w", id, blog.ErrNotFound)
	}
	c := cloneComment(existing)
	if err := blog.EditComment(actor, &c, content, s.now()); err != nil {
		return uuid.Nil, err
	}
	s.comments[id] = &c
	return id, nil
}

func (s *Store) DeleteComment(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[id]; !ok {
		return false, fmt.Errorf("delete comment %s: %w", id, blog.ErrNotFound)
	}
	delete(s.comments, id)
	return true, nil
}

func cloneComment(c *models.Comment) models.Comment {
	out := *c
	if c.Author.ID != nil {
		v := *c.Author.ID
		out.Author.ID = &v
	}
	if c.Author.PhotoURL != nil {
		v := *c.Author.PhotoURL
		out.Author.PhotoURL = &v
	}
	return out
}
