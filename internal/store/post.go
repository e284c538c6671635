// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"techblog/internal/blog"
	"techblog/internal/models"
	"techblog/internal/storage"
)

// PostStore handles all post-related database operations.
type PostStore struct {
	db    *sql.DB
	blobs storage.BlobStore
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB, blobs storage.BlobStore) *PostStore {
	return &PostStore{db: db, blobs: blobs}
}

const postColumns = `id, title, slug, content, excerpt, featured_image,
	author_id, author_name, author_photo_url, categories, tags,
	status, featured, view_count, created_at, updated_at, published_at`

// sortKey is the listing order expression, shared with the listing index.
const sortKey = `COALESCE(published_at, created_at)`

// scanPost scans a row into a Post. TEXT[] columns go through pgtype.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	m := pgtype.NewMap()
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.FeaturedImage,
		&p.Author.ID, &p.Author.Name, &p.Author.PhotoURL,
		m.SQLScanner(&p.Categories), m.SQLScanner(&p.Tags),
		&p.Status, &p.Featured, &p.ViewCount, &p.CreatedAt, &p.UpdatedAt, &p.PublishedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.Categories == nil {
		p.Categories = []string{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return &p, nil
}

func collectPosts(rows *sql.Rows) ([]models.Post, error) {
	defer rows.Close()

	items := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

func textArray(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// ListPosts pages published posts by keyset cursor, or by offset when no
// cursor is given. Search narrows the fetched page only.
func (s *PostStore) ListPosts(ctx context.Context, params blog.ListParams) (*blog.PostPage, error) {
	params = params.Normalize()

	where := []string{"status = 'published'"}
	var args []any
	if params.Category != "" {
		args = append(args, params.Category)
		where = append(where, fmt.Sprintf("categories @> ARRAY[$%d]::text[]", len(args)))
	}
	if params.Tag != "" {
		args = append(args, params.Tag)
		where = append(where, fmt.Sprintf("tags @> ARRAY[$%d]::text[]", len(args)))
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM posts WHERE " + strings.Join(where, " AND ")
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, handlePostgresError("count posts", err, nil)
	}

	if params.Cursor != "" {
		cur, err := blog.DecodeCursor(params.Cursor)
		if err != nil {
			return nil, err
		}
		args = append(args, cur.SortTime, cur.ID)
		where = append(where, fmt.Sprintf("(%s, id) < ($%d, $%d)", sortKey, len(args)-1, len(args)))
	}
	args = append(args, params.PageSize, params.Offset())

	query := fmt.Sprintf(`SELECT %s FROM posts WHERE %s ORDER BY %s DESC, id DESC LIMIT $%d OFFSET $%d`,
		postColumns, strings.Join(where, " AND "), sortKey, len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, handlePostgresError("list posts", err, nil)
	}
	posts, err := collectPosts(rows)
	if err != nil {
		return nil, handlePostgresError("list posts", err, nil)
	}
	return blog.NewPostPage(posts, total, params), nil
}

// GetPost retrieves a post by its UUID. Returns nil if not found.
func (s *PostStore) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	return s.findOne(ctx, "get post", `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
}

// GetPostBySlug retrieves a post by its slug. Returns nil if not found.
func (s *PostStore) GetPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return s.findOne(ctx, "get post by slug", `SELECT `+postColumns+` FROM posts WHERE slug = $1`, slug)
}

func (s *PostStore) findOne(ctx context.Context, op, query string, arg any) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, handlePostgresError(op, err, nil)
	}
	return p, nil
}

func (s *PostStore) GetFeaturedPosts(ctx context.Context, limit int) ([]models.Post, error) {
	return s.shelf(ctx, "featured posts", `status = 'published' AND featured`,
		sortKey+` DESC, id DESC`, limit)
}

func (s *PostStore) GetMostViewedPosts(ctx context.Context, limit int) ([]models.Post, error) {
	return s.shelf(ctx, "most viewed posts", `status = 'published'`,
		`view_count DESC, `+sortKey+` DESC, id DESC`, limit)
}

func (s *PostStore) GetRecentPosts(ctx context.Context, limit int) ([]models.Post, error) {
	return s.shelf(ctx, "recent posts", `status = 'published'`,
		sortKey+` DESC, id DESC`, limit)
}

func (s *PostStore) shelf(ctx context.Context, op, where, order string, limit int) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE `+where+` ORDER BY `+order+` LIMIT $1`,
		blog.ClampLimit(limit))
	if err != nil {
		return nil, handlePostgresError(op, err, nil)
	}
	posts, err := collectPosts(rows)
	if err != nil {
		return nil, handlePostgresError(op, err, nil)
	}
	return posts, nil
}

// CreatePost inserts a post and refreshes term counts in one transaction.
// The unique slug index turns a concurrent duplicate into ErrDuplicateSlug.
func (s *PostStore) CreatePost(ctx context.Context, author *models.User, in blog.PostInput) (uuid.UUID, error) {
	p, err := blog.NewPost(author, in, now())
	if err != nil {
		return uuid.Nil, err
	}

	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO posts (`+postColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		`, p.ID, p.Title, p.Slug, p.Content, p.Excerpt, p.FeaturedImage,
			p.Author.ID, p.Author.Name, p.Author.PhotoURL, textArray(p.Categories), textArray(p.Tags),
			p.Status, p.Featured, p.ViewCount, p.CreatedAt, p.UpdatedAt, p.PublishedAt)
		if err != nil {
			return handlePostgresError(fmt.Sprintf("create post %q", p.Slug), err, blog.ErrDuplicateSlug)
		}
		return recomputeTermCounts(ctx, tx)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return p.ID, nil
}

// UpdatePost merges patch onto the stored post under a row lock.
func (s *PostStore) UpdatePost(ctx context.Context, id uuid.UUID, patch blog.PostPatch) (uuid.UUID, error) {
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		p, err := scanPost(tx.QueryRowContext(ctx,
			`SELECT `+postColumns+` FROM posts WHERE id = $1 FOR UPDATE`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("update post %s: %w", id, blog.ErrNotFound)
		}
		if err != nil {
			return handlePostgresError("update post", err, nil)
		}

		if _, err := blog.ApplyPatch(p, patch, now()); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE posts SET
				title = $2, slug = $3, content = $4, excerpt = $5, featured_image = $6,
				categories = $7, tags = $8, status = $9, featured = $10,
				updated_at = $11, published_at = $12
			WHERE id = $1
		`, p.ID, p.Title, p.Slug, p.Content, p.Excerpt, p.FeaturedImage,
			textArray(p.Categories), textArray(p.Tags), p.Status, p.Featured,
			p.UpdatedAt, p.PublishedAt)
		if err != nil {
			return handlePostgresError(fmt.Sprintf("update post %q", p.Slug), err, blog.ErrDuplicateSlug)
		}
		return recomputeTermCounts(ctx, tx)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// DeletePost removes a post and its comments, refreshes term counts, then
// deletes the featured image. A failed image delete is logged only.
func (s *PostStore) DeletePost(ctx context.Context, id uuid.UUID) (bool, error) {
	var image *string
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`SELECT featured_image FROM posts WHERE id = $1 FOR UPDATE`, id).Scan(&image)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("delete post %s: %w", id, blog.ErrNotFound)
		}
		if err != nil {
			return handlePostgresError("delete post", err, nil)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE post_id = $1`, id); err != nil {
			return handlePostgresError("delete post comments", err, nil)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id); err != nil {
			return handlePostgresError("delete post", err, nil)
		}
		return recomputeTermCounts(ctx, tx)
	})
	if err != nil {
		return false, err
	}

	if image != nil && s.blobs != nil {
		if err := storage.DeleteByURL(ctx, s.blobs, *image); err != nil {
			slog.Warn("delete featured image failed", "post_id", id, "url", *image, "error", err)
		}
	}
	return true, nil
}

// IncrementViewCount bumps the counter atomically in SQL. Failures are
// logged and never reach the reader.
func (s *PostStore) IncrementViewCount(ctx context.Context, id uuid.UUID) {
	res, err := s.db.ExecContext(ctx, `UPDATE posts SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		slog.Error("increment view count failed", "post_id", id, "error", err)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		slog.Warn("increment view count: post not found", "post_id", id)
	}
}

func (s *PostStore) UploadFeaturedImage(ctx context.Context, postID uuid.UUID, file blog.Upload) (string, error) {
	if s.blobs == nil {
		return "", fmt.Errorf("upload featured image: %w: object storage not configured", blog.ErrBackendUnavailable)
	}
	return storage.PutFeaturedImage(ctx, s.blobs, postID, file, now())
}
