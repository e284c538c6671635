// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for the HTTP API
// tests: the full router over a seeded in-memory backend.
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"techblog/internal/auth"
	"techblog/internal/blog"
	"techblog/internal/handlers"
	"techblog/internal/memory"
	"techblog/internal/models"
	"techblog/internal/router"
	"techblog/internal/session"
	"techblog/internal/storage"
)

type testAPI struct {
	t       *testing.T
	store   *memory.Store
	handler http.Handler
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	store := memory.New()
	require.NoError(t, store.Seed(context.Background()))

	sessions := session.NewMemory()
	identity := auth.NewService(store, sessions, auth.WithBcryptCost(bcrypt.MinCost))

	blobs, ok := store.Blobs().(*storage.Memory)
	require.True(t, ok, "memory store should default to in-memory blobs")

	h := router.New(router.Deps{
		Identity:   identity,
		Posts:      handlers.NewPosts(store),
		Categories: handlers.NewTerms(blog.Categories(store)),
		Tags:       handlers.NewTerms(blog.Tags(store)),
		Comments:   handlers.NewComments(store),
		Auth:       handlers.NewAuth(identity, sessions.TTL(), false),
		Health:     handlers.NewHealth("memory", nil),
		Uploads:    handlers.NewUploads(blobs),
	})

	return &testAPI{t: t, store: store, handler: h}
}

// do sends a JSON request. token may be empty for anonymous calls.
func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return a.serve(req)
}

func (a *testAPI) serve(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)
	return rr
}

// signIn returns a session token for a seeded demo account.
func (a *testAPI) signIn(email string) string {
	a.t.Helper()

	rr := a.do(http.MethodPost, "/api/auth/signin", "", map[string]string{
		"email":    email,
		"password": memory.DemoPassword,
	})
	require.Equal(a.t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	decode(a.t, rr, &resp)
	require.NotEmpty(a.t, resp.Token)
	return resp.Token
}

// createPost writes a post as the token's owner and returns its id.
func (a *testAPI) createPost(token string, in blog.PostInput) string {
	a.t.Helper()

	rr := a.do(http.MethodPost, "/api/admin/posts", token, in)
	require.Equal(a.t, http.StatusCreated, rr.Code, rr.Body.String())
	return idOf(a.t, rr)
}

// postBySlug fetches a post through the store, bypassing the API.
func (a *testAPI) postBySlug(slug string) *models.Post {
	a.t.Helper()

	p, err := a.store.GetPostBySlug(context.Background(), slug)
	require.NoError(a.t, err)
	require.NotNil(a.t, p, "post %q should exist", slug)
	return p
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}

func idOf(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		ID string `json:"id"`
	}
	decode(t, rr, &resp)
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

func errorOf(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	decode(t, rr, &resp)
	return resp.Error
}
