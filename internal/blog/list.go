// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blog

import (
	"encoding/base64"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"techblog/internal/models"
)

const (
	// DefaultPageSize applies when ListParams.PageSize is unset.
	DefaultPageSize = 10
	// MaxPageSize caps a single listing page.
	MaxPageSize = 100
	// DefaultLimit applies to the featured/most-viewed/recent shelves.
	DefaultLimit = 5
)

// ListParams selects one page of published posts.
//
// Cursor is the opaque NextCursor of a previous page. When it is empty,
// Page (1-based) selects a page by offset instead. Search is applied to
// the fetched page only: it narrows a page, it does not search the corpus.
type ListParams struct {
	PageSize int
	Cursor   string
	Page     int
	Category string
	Tag      string
	Search   string
}

// Normalize fills defaults and clamps the page size. Page is capped so
// that Offset cannot overflow.
func (p ListParams) Normalize() ListParams {
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if maxPage := math.MaxInt / p.PageSize; p.Page > maxPage {
		p.Page = maxPage
	}
	p.Category = strings.TrimSpace(p.Category)
	p.Tag = strings.TrimSpace(p.Tag)
	p.Search = strings.TrimSpace(p.Search)
	return p
}

// Offset is the number of rows skipped for page-number pagination.
func (p ListParams) Offset() int {
	if p.Cursor != "" {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// PostPage is one page of a post listing.
type PostPage struct {
	Posts      []models.Post `json:"posts"`
	NextCursor string        `json:"next_cursor,omitempty"`
	HasMore    bool          `json:"has_more"`
	TotalPosts int           `json:"total_posts"`
	TotalPages int           `json:"total_pages"`
}

// NewPostPage assembles a page from the rows fetched for params. total is
// the number of posts matching the category/tag filters, before search.
func NewPostPage(fetched []models.Post, total int, params ListParams) *PostPage {
	page := &PostPage{
		Posts:      FilterSearch(fetched, params.Search),
		HasMore:    len(fetched) == params.PageSize,
		TotalPosts: total,
		TotalPages: (total + params.PageSize - 1) / params.PageSize,
	}
	if page.HasMore {
		page.NextCursor = EncodeCursor(&fetched[len(fetched)-1])
	}
	if page.Posts == nil {
		page.Posts = []models.Post{}
	}
	return page
}

// Cursor marks the last post of a page in (sort time, id) order.
type Cursor struct {
	SortTime time.Time
	ID       uuid.UUID
}

// EncodeCursor returns the opaque cursor pointing just past p.
func EncodeCursor(p *models.Post) string {
	raw := strconv.FormatInt(p.SortTime().UnixNano(), 10) + ":" + p.ID.String()
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses a cursor produced by EncodeCursor.
func DecodeCursor(s string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: malformed cursor", ErrInvalidInput)
	}
	ts, id, ok := strings.Cut(string(raw), ":")
	if !ok {
		return Cursor{}, fmt.Errorf("%w: malformed cursor", ErrInvalidInput)
	}
	nanos, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: malformed cursor", ErrInvalidInput)
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: malformed cursor", ErrInvalidInput)
	}
	return Cursor{SortTime: time.Unix(0, nanos).UTC(), ID: uid}, nil
}

// Precedes reports whether p sorts strictly after the cursor position,
// i.e. belongs on a following page.
func (c Cursor) Precedes(p *models.Post) bool {
	t := p.SortTime()
	if !t.Equal(c.SortTime) {
		return t.Before(c.SortTime)
	}
	return p.ID.String() < c.ID.String()
}

// MatchesSearch reports whether q occurs, case-insensitively, in the
// title, excerpt or raw content of p.
func MatchesSearch(p *models.Post, q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.Excerpt), q) ||
		strings.Contains(strings.ToLower(p.Content), q)
}

// FilterSearch keeps the posts matching q.
func FilterSearch(posts []models.Post, q string) []models.Post {
	if strings.TrimSpace(q) == "" {
		return posts
	}
	out := make([]models.Post, 0, len(posts))
	for i := range posts {
		if MatchesSearch(&posts[i], q) {
			out = append(out, posts[i])
		}
	}
	return out
}

// SortByRecency orders posts by publish time (creation time when never
// published) descending, ties broken by id descending.
func SortByRecency(posts []models.Post) {
	slices.SortStableFunc(posts, func(a, b models.Post) int {
		if c := b.SortTime().Compare(a.SortTime()); c != 0 {
			return c
		}
		return strings.Compare(b.ID.String(), a.ID.String())
	})
}

// SortByViews orders posts by view count descending, then by recency.
func SortByViews(posts []models.Post) {
	slices.SortStableFunc(posts, func(a, b models.Post) int {
		if a.ViewCount != b.ViewCount {
			if a.ViewCount > b.ViewCount {
				return -1
			}
			return 1
		}
		if c := b.SortTime().Compare(a.SortTime()); c != 0 {
			return c
		}
		return strings.Compare(b.ID.String(), a.ID.String())
	})
}

// PaginatePosts pages an already filtered slice that is sorted by
// recency. Used by backends without a query planner.
func PaginatePosts(sorted []models.Post, params ListParams) (*PostPage, error) {
	params = params.Normalize()

	start := params.Offset()
	if params.Cursor != "" {
		cur, err := DecodeCursor(params.Cursor)
		if err != nil {
			return nil, err
		}
		start = len(sorted)
		for i := range sorted {
			if cur.Precedes(&sorted[i]) {
				start = i
				break
			}
		}
	}
	if start < 0 || start > len(sorted) {
		start = len(sorted)
	}
	end := min(start+params.PageSize, len(sorted))

	return NewPostPage(sorted[start:end], len(sorted), params), nil
}

// ClampLimit applies DefaultLimit and MaxPageSize to shelf limits.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return min(limit, MaxPageSize)
}
