// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store implements the content repository and the user source on
// PostgreSQL. Each store struct wraps a *sql.DB and exposes typed query
// methods; Repository composes them into a blog.Repository.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"techblog/internal/blog"
	"techblog/internal/storage"
)

// Postgres error codes the stores translate.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repository implements blog.Repository on PostgreSQL.
type Repository struct {
	*PostStore
	*TermStore
	*CommentStore
}

var _ blog.Repository = (*Repository)(nil)

// New composes the post, term and comment stores. blobs may be nil when
// object storage is not configured; image uploads then fail.
func New(db *sql.DB, blobs storage.BlobStore) *Repository {
	return &Repository{
		PostStore:    NewPostStore(db, blobs),
		TermStore:    NewTermStore(db),
		CommentStore: NewCommentStore(db),
	}
}

// handlePostgresError maps constraint violations to domain errors and
// wraps everything else as a backend failure.
func handlePostgresError(op string, err error, onUnique error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			if onUnique != nil {
				return fmt.Errorf("%s: %w", op, onUnique)
			}
		case codeForeignKeyViolation:
			return fmt.Errorf("%s: referenced record: %w", op, blog.ErrNotFound)
		}
	}
	return fmt.Errorf("%s: %w: %w", op, blog.ErrBackendUnavailable, err)
}

// withTx runs fn in a transaction, committing on success.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w: %w", blog.ErrBackendUnavailable, err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			slog.Error("rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w: %w", blog.ErrBackendUnavailable, err)
	}
	return nil
}

// now returns the current time at the precision Postgres stores.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
