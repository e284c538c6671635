// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"techblog/internal/blog"
	"techblog/internal/models"
)

// TermStore manages categories and tags in the terms table.
type TermStore struct {
	db *sql.DB
}

// NewTermStore returns a new TermStore.
func NewTermStore(db *sql.DB) *TermStore {
	return &TermStore{db: db}
}

const termColumns = `id, kind, name, slug, description, post_count, created_at, updated_at`

// scanTerm scans a row into a Term struct.
func scanTerm(scanner interface{ Scan(...any) error }) (*models.Term, error) {
	var t models.Term
	err := scanner.Scan(
		&t.ID, &t.Kind, &t.Name, &t.Slug, &t.Description,
		&t.PostCount, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// postsColumn is the posts array column that references terms of kind.
func postsColumn(kind models.TermKind) string {
	if kind == models.TermTag {
		return "tags"
	}
	return "categories"
}

// ListTerms returns all terms of kind ordered by name.
func (s *TermStore) ListTerms(ctx context.Context, kind models.TermKind) ([]models.Term, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+termColumns+` FROM terms WHERE kind = $1 ORDER BY name, id`, kind)
	if err != nil {
		return nil, handlePostgresError("list terms", err, nil)
	}
	defer rows.Close()

	items := []models.Term{}
	for rows.Next() {
		t, err := scanTerm(rows)
		if err != nil {
			return nil, handlePostgresError("scan term", err, nil)
		}
		items = append(items, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, handlePostgresError("list terms", err, nil)
	}
	return items, nil
}

// GetTermBySlug returns nil if no term of kind has the slug.
func (s *TermStore) GetTermBySlug(ctx context.Context, kind models.TermKind, slug string) (*models.Term, error) {
	t, err := scanTerm(s.db.QueryRowContext(ctx,
		`SELECT `+termColumns+` FROM terms WHERE kind = $1 AND slug = $2`, kind, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, handlePostgresError("get term by slug", err, nil)
	}
	return t, nil
}

// CreateTerm inserts a term with its live post count.
func (s *TermStore) CreateTerm(ctx context.Context, kind models.TermKind, in blog.TermInput) (uuid.UUID, error) {
	t, err := blog.NewTerm(kind, in, now())
	if err != nil {
		return uuid.Nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO terms (id, kind, name, slug, description, post_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5,
		        (SELECT COUNT(*) FROM posts WHERE `+postsColumn(kind)+` @> ARRAY[$3]::text[]),
		        $6, $7)
	`, t.ID, t.Kind, t.Name, t.Slug, t.Description, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return uuid.Nil, handlePostgresError(fmt.Sprintf("create %s %q", kind, t.Slug), err, blog.ErrDuplicateSlug)
	}
	return t.ID, nil
}

// UpdateTerm applies patch under a row lock. A rename refreshes the
// term's post count; posts are not rewritten.
func (s *TermStore) UpdateTerm(ctx context.Context, kind models.TermKind, id uuid.UUID, patch blog.TermPatch) (uuid.UUID, error) {
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		t, err := scanTerm(tx.QueryRowContext(ctx,
			`SELECT `+termColumns+` FROM terms WHERE id = $1 AND kind = $2 FOR UPDATE`, id, kind))
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("update %s %s: %w", kind, id, blog.ErrNotFound)
		}
		if err != nil {
			return handlePostgresError("update term", err, nil)
		}

		if _, _, err := blog.ApplyTermPatch(t, patch, now()); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE terms SET
				name = $2, slug = $3, description = $4, updated_at = $5,
				post_count = (SELECT COUNT(*) FROM posts WHERE `+postsColumn(kind)+` @> ARRAY[$2]::text[])
			WHERE id = $1
		`, t.ID, t.Name, t.Slug, t.Description, t.UpdatedAt)
		if err != nil {
			return handlePostgresError(fmt.Sprintf("update %s %q", kind, t.Slug), err, blog.ErrDuplicateSlug)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// DeleteTerm removes a term no post references.
func (s *TermStore) DeleteTerm(ctx context.Context, kind models.TermKind, id uuid.UUID) (bool, error) {
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		var name string
		err := tx.QueryRowContext(ctx,
			`SELECT name FROM terms WHERE id = $1 AND kind = $2 FOR UPDATE`, id, kind).Scan(&name)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("delete %s %s: %w", kind, id, blog.ErrNotFound)
		}
		if err != nil {
			return handlePostgresError("delete term", err, nil)
		}

		var refs int
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM posts WHERE `+postsColumn(kind)+` @> ARRAY[$1]::text[]`, name).Scan(&refs)
		if err != nil {
			return handlePostgresError("count term references", err, nil)
		}
		if refs > 0 {
			return fmt.Errorf("delete %s %q (%d posts): %w", kind, name, refs, blog.ErrInUse)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM terms WHERE id = $1`, id); err != nil {
			return handlePostgresError("delete term", err, nil)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// RecomputeTermCounts rewrites every post_count from the posts table.
func (s *TermStore) RecomputeTermCounts(ctx context.Context) error {
	return recomputeTermCounts(ctx, s.db)
}

func recomputeTermCounts(ctx context.Context, q dbtx) error {
	for _, kind := range []models.TermKind{models.TermCategory, models.TermTag} {
		_, err := q.ExecContext(ctx, `
			UPDATE terms SET post_count = (
				SELECT COUNT(*) FROM posts p WHERE p.`+postsColumn(kind)+` @> ARRAY[terms.name]
			)
			WHERE kind = $1
		`, kind)
		if err != nil {
			return handlePostgresError("recompute "+string(kind)+" counts", err, nil)
		}
	}
	return nil
}
