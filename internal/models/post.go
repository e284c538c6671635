// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the publishing state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// Valid reports whether s is one of the known statuses.
func (s PostStatus) Valid() bool {
	return s == PostStatusDraft || s == PostStatusPublished
}

// AuthorSnapshot is a point-in-time copy of the user who wrote a post.
// Renaming the user later does not touch existing snapshots.
type AuthorSnapshot struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	PhotoURL *string   `json:"photo_url,omitempty"`
}

// Post is a single blog article.
type Post struct {
	ID            uuid.UUID      `json:"id"`
	Title         string         `json:"title"`
	Slug          string         `json:"slug"`
	Content       string         `json:"content"`
	Excerpt       string         `json:"excerpt"`
	FeaturedImage *string        `json:"featured_image,omitempty"`
	Author        AuthorSnapshot `json:"author"`
	Categories    []string       `json:"categories"`
	Tags          []string       `json:"tags"`
	Status        PostStatus     `json:"status"`
	Featured      bool           `json:"featured"`
	ViewCount     int64          `json:"view_count"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	PublishedAt   *time.Time     `json:"published_at,omitempty"`
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// SortTime is the timestamp used to order post listings: the publish
// time, or the creation time for posts that were never published.
func (p *Post) SortTime() time.Time {
	if p.PublishedAt != nil {
		return *p.PublishedAt
	}
	return p.CreatedAt
}

// HasCategory reports whether the post is filed under the named category.
func (p *Post) HasCategory(name string) bool {
	return slices.Contains(p.Categories, name)
}

// HasTag reports whether the post carries the named tag.
func (p *Post) HasTag(name string) bool {
	return slices.Contains(p.Tags, name)
}

// Clone returns a deep copy so callers can't mutate shared slices.
func (p *Post) Clone() *Post {
	c := *p
	c.Categories = slices.Clone(p.Categories)
	c.Tags = slices.Clone(p.Tags)
	if p.FeaturedImage != nil {
		v := *p.FeaturedImage
		c.FeaturedImage = &v
	}
	if p.PublishedAt != nil {
		v := *p.PublishedAt
		c.PublishedAt = &v
	}
	if p.Author.PhotoURL != nil {
		v := *p.Author.PhotoURL
		c.Author.PhotoURL = &v
	}
	return &c
}
