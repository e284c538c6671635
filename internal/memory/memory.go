// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package memory implements the content repository and the user source
// on process-local maps. It backs local development and tests, and can be
// preloaded with demo data via Seed.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"techblog/internal/blog"
	"techblog/internal/models"
	"techblog/internal/storage"
)

// Store implements blog.Repository using in-memory storage. One RWMutex
// guards every map, so concurrent callers never observe a torn write.
type Store struct {
	mu       sync.RWMutex
	posts    map[uuid.UUID]*models.Post
	terms    map[uuid.UUID]*models.Term
	comments map[uuid.UUID]*models.Comment
	users    map[uuid.UUID]*models.User

	blobs storage.BlobStore
	now   func() time.Time
}

var _ blog.Repository = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the wall clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithBlobStore sets where featured images are written. Defaults to an
// in-memory blob store serving under /uploads.
func WithBlobStore(blobs storage.BlobStore) Option {
	return func(s *Store) { s.blobs = blobs }
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		posts:    make(map[uuid.UUID]*models.Post),
		terms:    make(map[uuid.UUID]*models.Term),
		comments: make(map[uuid.UUID]*models.Comment),
		users:    make(map[uuid.UUID]*models.User),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.blobs == nil {
		s.blobs = storage.NewMemory("/uploads")
	}
	return s
}

// Blobs returns the blob store behind UploadFeaturedImage.
func (s *Store) Blobs() storage.BlobStore {
	return s.blobs
}

// postList snapshots every post. Caller holds s.mu.
func (s *Store) postList() []models.Post {
	out := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, *p)
	}
	return out
}

// recomputeLocked rewrites every term's PostCount from the live post set.
// Caller holds s.mu for writing.
func (s *Store) recomputeLocked() {
	posts := s.postList()
	for _, t := range s.terms {
		t.PostCount = blog.CountReferences(posts, t.Kind, t.Name)
	}
}

func clonePosts(posts []models.Post) []models.Post {
	out := make([]models.Post, len(posts))
	for i := range posts {
		out[i] = *posts[i].Clone()
	}
	return out
}
