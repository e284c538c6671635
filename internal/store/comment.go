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

// CommentStore handles reader comments.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore returns a new CommentStore.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

const commentColumns = `id, post_id, author_id, author_name, author_email, author_photo_url,
	content, created_at, updated_at`

func scanComment(scanner interface{ Scan(...any) error }) (*models.Comment, error) {
	var c models.Comment
	err := scanner.Scan(
		&c.ID, &c.PostID, &c.Author.ID, &c.Author.Name, &c.Author.Email, &c.Author.PhotoURL,
		&c.Content, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCommentsByPost returns the comments on a post, newest first.
func (s *CommentStore) ListCommentsByPost(ctx context.Context, postID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+commentColumns+` FROM comments
		WHERE post_id = $1
		ORDER BY created_at DESC, id DESC
	`, postID)
	if err != nil {
		return nil, handlePostgresError("list comments", err, nil)
	}
	defer rows.Close()

	items := []models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, handlePostgresError("scan comment", err, nil)
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, handlePostgresError("list comments", err, nil)
	}
	return items, nil
}

// AddComment inserts a comment. The post_id foreign key rejects comments
// on missing posts with ErrNotFound.
func (s *CommentStore) AddComment(ctx context.Context, actor *models.User, in blog.CommentInput) (uuid.UUID, error) {
	c, err := blog.NewComment(actor, in, now())
	if err != nil {
		return uuid.Nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO comments (`+commentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, c.ID, c.PostID, c.Author.ID, c.Author.Name, c.Author.Email, c.Author.PhotoURL,
		c.Content, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return uuid.Nil, handlePostgresError(fmt.Sprintf("add comment to post %s", c.PostID), err, nil)
	}
	return c.ID, nil
}

func (s *CommentStore) UpdateComment(ctx context.Context, actor *models.User, id uuid.UUID, content string) (uuid.UUID, error) {
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		c, err := scanComment(tx.QueryRowContext(ctx,
			`SELECT `+commentColumns+` FROM comments WHERE id = $1 FOR UPDATE`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("update comment %s: %w", id, blog.ErrNotFound)
		}
		if err != nil {
			return handlePostgresError("update comment", err, nil)
		}

		if err := blog.EditComment(actor, c, content, now()); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE comments SET content = $2, updated_at = $3 WHERE id = $1`,
			c.ID, c.Content, c.UpdatedAt)
		if err != nil {
			return handlePostgresError("update comment", err, nil)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (s *CommentStore) DeleteComment(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return false, handlePostgresError("delete comment", err, nil)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, fmt.Errorf("delete comment %s: %w", id, blog.ErrNotFound)
	}
	return true, nil
}
