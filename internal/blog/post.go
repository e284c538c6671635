// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blog

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"techblog/internal/models"
	"techblog/internal/slug"
)

// Validation limits for post fields.
const (
	maxTitleLen   = 300
	maxSlugLen    = 300
	maxContentLen = 200_000
	maxExcerptLen = 1_000
)

// PostInput carries every caller-editable field of a new post.
type PostInput struct {
	Title         string            `json:"title"`
	Slug          string            `json:"slug"`
	Content       string            `json:"content"`
	Excerpt       string            `json:"excerpt"`
	FeaturedImage *string           `json:"featured_image"`
	Categories    []string          `json:"categories"`
	Tags          []string          `json:"tags"`
	Status        models.PostStatus `json:"status"`
	Featured      bool              `json:"featured"`
}

// PostPatch is a partial update. Nil fields are left untouched; an empty
// FeaturedImage clears the image.
type PostPatch struct {
	Title         *string            `json:"title"`
	Slug          *string            `json:"slug"`
	Content       *string            `json:"content"`
	Excerpt       *string            `json:"excerpt"`
	FeaturedImage *string            `json:"featured_image"`
	Categories    *[]string          `json:"categories"`
	Tags          *[]string          `json:"tags"`
	Status        *models.PostStatus `json:"status"`
	Featured      *bool              `json:"featured"`
}

// NewPost validates in and builds the record to insert. The slug is the
// caller's verbatim, or derived from the title.
func NewPost(author *models.User, in PostInput, now time.Time) (*models.Post, error) {
	if author == nil {
		return nil, fmt.Errorf("%w: post author is required", ErrInvalidInput)
	}
	if in.Status == "" {
		in.Status = models.PostStatusDraft
	}

	p := &models.Post{
		ID:            uuid.New(),
		Title:         strings.TrimSpace(in.Title),
		Slug:          in.Slug,
		Content:       in.Content,
		Excerpt:       in.Excerpt,
		FeaturedImage: nonEmpty(in.FeaturedImage),
		Author:        author.AuthorSnapshot(),
		Categories:    NormalizeNames(in.Categories),
		Tags:          NormalizeNames(in.Tags),
		Status:        in.Status,
		Featured:      in.Featured,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if p.Slug == "" {
		p.Slug = slug.Generate(p.Title)
	}
	if p.IsPublished() {
		p.PublishedAt = &now
	}

	if err := validatePost(p); err != nil {
		return nil, err
	}
	return p, nil
}

// ApplyPatch merges patch onto p. It reports whether the slug must be
// re-checked for uniqueness (excluding p itself). PublishedAt is stamped
// the first time the post becomes published and never changed afterwards.
func ApplyPatch(p *models.Post, patch PostPatch, now time.Time) (checkSlug bool, err error) {
	if patch.Title != nil {
		p.Title = strings.TrimSpace(*patch.Title)
		if patch.Slug == nil || *patch.Slug == "" {
			p.Slug = slug.Generate(p.Title)
			checkSlug = true
		}
	}
	if patch.Slug != nil && *patch.Slug != "" && *patch.Slug != p.Slug {
		p.Slug = *patch.Slug
		checkSlug = true
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if patch.Excerpt != nil {
		p.Excerpt = *patch.Excerpt
	}
	if patch.FeaturedImage != nil {
		p.FeaturedImage = nonEmpty(patch.FeaturedImage)
	}
	if patch.Categories != nil {
		p.Categories = NormalizeNames(*patch.Categories)
	}
	if patch.Tags != nil {
		p.Tags = NormalizeNames(*patch.Tags)
	}
	if patch.Featured != nil {
		p.Featured = *patch.Featured
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if p.IsPublished() && p.PublishedAt == nil {
		p.PublishedAt = &now
	}
	p.UpdatedAt = now

	if err := validatePost(p); err != nil {
		return false, err
	}
	return checkSlug, nil
}

// validatePost checks the fields of a post about to be written.
func validatePost(p *models.Post) error {
	if p.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(p.Title) > maxTitleLen {
		return fmt.Errorf("%w: title is too long (max %d characters)", ErrInvalidInput, maxTitleLen)
	}
	if p.Slug == "" {
		return fmt.Errorf("%w: title does not produce a usable slug", ErrInvalidInput)
	}
	if utf8.RuneCountInString(p.Slug) > maxSlugLen {
		return fmt.Errorf("%w: slug is too long (max %d characters)", ErrInvalidInput, maxSlugLen)
	}
	if utf8.RuneCountInString(p.Content) > maxContentLen {
		return fmt.Errorf("%w: content is too long (max %d characters)", ErrInvalidInput, maxContentLen)
	}
	if utf8.RuneCountInString(p.Excerpt) > maxExcerptLen {
		return fmt.Errorf("%w: excerpt is too long (max %d characters)", ErrInvalidInput, maxExcerptLen)
	}
	if !p.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, p.Status)
	}
	return nil
}

// NormalizeNames trims category/tag names, drops empties and duplicates,
// and keeps the caller's order.
func NormalizeNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
