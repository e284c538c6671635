package blog

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"techblog/internal/models"
	"techblog/internal/slug"
)

const (
	maxTermNameLen        = 100
	maxTermDescriptionLen = 500
)

// TermInput carries the fields of a new category or tag.
type TermInput struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
}

// TermPatch is a partial update of a category or tag.
type TermPatch struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
}

// NewTerm validates in and builds the record to insert with a zero
// PostCount.
func NewTerm(kind models.TermKind, in TermInput, now time.Time) (*models.Term, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown term kind %q", ErrInvalidInput, kind)
	}
	t := &models.Term{
		ID:          uuid.New(),
		Kind:        kind,
		Name:        strings.TrimSpace(in.Name),
		Slug:        in.Slug,
		Description: nonEmpty(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if t.Slug == "" {
		t.Slug = slug.Generate(t.Name)
	}
	if err := validateTerm(t); err != nil {
		return nil, err
	}
	return t, nil
}

// ApplyTermPatch merges patch onto t and reports whether the slug must be
// re-checked for uniqueness, and whether the name changed.
func ApplyTermPatch(t *models.Term, patch TermPatch, now time.Time) (checkSlug, renamed bool, err error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		renamed = name != t.Name
		t.Name = name
		if patch.Slug == nil || *patch.Slug == "" {
			t.Slug = slug.Generate(t.Name)
			checkSlug = true
		}
	}
	if patch.Slug != nil && *patch.Slug != "" && *patch.Slug != t.Slug {
		t.Slug = *patch.Slug
		checkSlug = true
	}
	if patch.Description != nil {
		t.Description = nonEmpty(patch.Description)
	}
	t.UpdatedAt = now

	if err := validateTerm(t); err != nil {
		return false, false, err
	}
	return checkSlug, renamed, nil
}

func validateTerm(t *models.Term) error {
	if t.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(t.Name) > maxTermNameLen {
		return fmt.Errorf("%w: name is too long (max %d characters)", ErrInvalidInput, maxTermNameLen)
	}
	if t.Slug == "" {
		return fmt.Errorf("%w: name does not produce a usable slug", ErrInvalidInput)
	}
	if t.Description != nil && utf8.RuneCountInString(*t.Description) > maxTermDescriptionLen {
		return fmt.Errorf("%w: description is too long (max %d characters)", ErrInvalidInput, maxTermDescriptionLen)
	}
	return nil
}

// References reports whether p lists the named term of the given kind.
func References(p *models.Post, kind models.TermKind, name string) bool {
	if kind == models.TermTag {
		return p.HasTag(name)
	}
	return p.HasCategory(name)
}

// CountReferences counts the posts that list the named term.
func CountReferences(posts []models.Post, kind models.TermKind, name string) int {
	n := 0
	for i := range posts {
		if References(&posts[i], kind, name) {
			n++
		}
	}
	return n
}

// TermSet is a TermRepository bound to one kind, giving callers the
// per-entity surface (Categories.Create, Tags.Delete, ...).
type TermSet struct {
	repo TermRepository
	kind models.TermKind
}

// Categories returns the category view of repo.
func Categories(repo TermRepository) TermSet {
	return TermSet{repo: repo, kind: models.TermCategory}
}

// Tags returns the tag view of repo.
func Tags(repo TermRepository) TermSet {
	return TermSet{repo: repo, kind: models.TermTag}
}

// Kind returns the term kind this set is bound to.
func (s TermSet) Kind() models.TermKind { return s.kind }

func (s TermSet) List(ctx context.Context) ([]models.Term, error) {
	return s.repo.ListTerms(ctx, s.kind)
}

func (s TermSet) BySlug(ctx context.Context, slug string) (*models.Term, error) {
	return s.repo.GetTermBySlug(ctx, s.kind, slug)
}

func (s TermSet) Create(ctx context.Context, in TermInput) (uuid.UUID, error) {
	return s.repo.CreateTerm(ctx, s.kind, in)
}

func (s TermSet) Update(ctx context.Context, id uuid.UUID, patch TermPatch) (uuid.UUID, error) {
	return s.repo.UpdateTerm(ctx, s.kind, id, patch)
}

func (s TermSet) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.DeleteTerm(ctx, s.kind, id)
}
