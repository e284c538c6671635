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

func (s *Store) ListTerms(ctx context.Context, kind models.TermKind) ([]models.Term, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Term, 0)
	for _, t := range s.terms {
		if t.Kind == kind {
			out = append(out, cloneTerm(t))
		}
	}
	slices.SortFunc(out, func(a, b models.Term) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}

func (s *Store) GetTermBySlug(ctx context.Context, kind models.TermKind, slug string) (*models.Term, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if t := s.termBySlugLocked(kind, slug); t != nil {
		c := cloneTerm(t)
		return &c, nil
	}
	return nil, nil
}

func (s *Store) CreateTerm(ctx context.Context, kind models.TermKind, in blog.TermInput) (uuid.UUID, error) {
	t, err := blog.NewTerm(kind, in, s.now())
	if err != nil {
		return uuid.Nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.termBySlugLocked(kind, t.Slug) != nil {
		return uuid.Nil, fmt.Errorf("create %s %q: %w", kind, t.Slug, blog.ErrDuplicateSlug)
	}
	t.PostCount = blog.CountReferences(s.postList(), kind, t.Name)
	s.terms[t.ID] = t
	return t.ID, nil
}

func (s *Store) UpdateTerm(ctx context.Context, kind models.TermKind, id uuid.UUID, patch blog.TermPatch) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.terms[id]
	if !ok || existing.Kind != kind {
		return uuid.Nil, fmt.Errorf("update %s %s: %w", kind, id, blog.ErrNotFound)
	}

	t := cloneTerm(existing)
	checkSlug, renamed, err := blog.ApplyTermPatch(&t, patch, s.now())
	if err != nil {
		return uuid.Nil, err
	}
	if checkSlug {
		if other := s.termBySlugLocked(kind, t.Slug); other != nil && other.ID != id {
			return uuid.Nil, fmt.Errorf("update %s %q: %w", kind, t.Slug, blog.ErrDuplicateSlug)
		}
	}
	if renamed {
		t.PostCount = blog.CountReferences(s.postList(), kind, t.Name)
	}
	s.terms[id] = &t
	return id, nil
}

func (s *Store) DeleteTerm(ctx context.Context, kind models.TermKind, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.terms[id]
	if !ok || t.Kind != kind {
		return false, fmt.Errorf("delete %s %s: %w", kind, id, blog.ErrNotFound)
	}
	if n := blog.CountReferences(s.postList(), kind, t.Name); n > 0 {
		return false, fmt.Errorf("delete %s %q (%d posts): %w", kind, t.Name, n, blog.ErrInUse)
	}
	delete(s.terms, id)
	return true, nil
}

func (s *Store) RecomputeTermCounts(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recomputeLocked()
	return nil
}

// termBySlugLocked finds a term of kind by slug. Caller holds s.mu.
func (s *Store) termBySlugLocked(kind models.TermKind, slug string) *models.Term {
	for _, t := range s.terms {
		if t.Kind == kind && t.Slug == slug {
			return t
		}
	}
	return nil
}

func cloneTerm(t *models.Term) models.Term {
	c := *t
	if t.Description != nil {
		v := *t.Description
		c.Description = &v
	}
	return c
}
