// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage provides blob storage for post featured images: an
// S3-compatible backend for production and an in-memory backend for the
// mock data layer.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"techblog/internal/blog"
)

// BlobStore stores objects under string keys and serves them by URL.
type BlobStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	// FileURL returns the public URL of key.
	FileURL(key string) string
	// KeyFromURL maps a URL produced by FileURL back to its key. It
	// returns false for URLs that don't belong to this store.
	KeyFromURL(rawURL string) (string, bool)
}

// FeaturedImageKey builds the object key for a post image:
// posts/{postId}/{unixMillis}.{ext}.
func FeaturedImageKey(postID uuid.UUID, filename string, now time.Time) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), ".")
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("posts/%s/%d.%s", postID, now.UnixMilli(), ext)
}

// PutFeaturedImage uploads file for the given post and returns its URL.
func PutFeaturedImage(ctx context.Context, blobs BlobStore, postID uuid.UUID, file blog.Upload, now time.Time) (string, error) {
	if file.Body == nil {
		return "", fmt.Errorf("%w: image body is required", blog.ErrInvalidInput)
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := FeaturedImageKey(postID, file.Filename, now)
	if err := blobs.Upload(ctx, key, contentType, file.Body, file.Size); err != nil {
		return "", fmt.Errorf("upload featured image: %w: %w", blog.ErrBackendUnavailable, err)
	}
	return blobs.FileURL(key), nil
}

// DeleteByURL removes the object behind a URL served by blobs. URLs that
// point elsewhere are ignored.
func DeleteByURL(ctx context.Context, blobs BlobStore, rawURL string) error {
	key, ok := blobs.KeyFromURL(rawURL)
	if !ok {
		return nil
	}
	return blobs.Delete(ctx, key)
}
