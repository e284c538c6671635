// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers_test

import (
	"bytes"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techblog/internal/blog"
	"techblog/internal/memory"
	"techblog/internal/models"
)

type pageResponse struct {
	Posts      []models.Post `json:"posts"`
	NextCursor string        `json:"next_cursor"`
	HasMore    bool          `json:"has_more"`
	TotalPosts int           `json:"total_posts"`
	TotalPages int           `json:"total_pages"`
}

func TestListPosts(t *testing.T) {
	api := newTestAPI(t)

	t.Run("published only", func(t *testing.T) {
		rr := api.do(http.MethodGet, "/api/posts", "", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

		var page pageResponse
		decode(t, rr, &page)
		assert.Equal(t, 6, page.TotalPosts)
		assert.Equal(t, 1, page.TotalPages)
		assert.Len(t, page.Posts, 6)
		assert.False(t, page.HasMore)
		for _, p := range page.Posts {
			assert.Equal(t, models.PostStatusPublished, p.Status)
		}
	})

	t.Run("cursor walks every page", func(t *testing.T) {
		seen := map[string]bool{}
		path := "/api/posts?page_size=4"
		for i := 0; i < 3 && path != ""; i++ {
			rr := api.do(http.MethodGet, path, "", nil)
			require.Equal(t, http.StatusOK, rr.Code)

			var page pageResponse
			decode(t, rr, &page)
			for _, p := range page.Posts {
				assert.False(t, seen[p.Slug], "post %q repeated across pages", p.Slug)
				seen[p.Slug] = true
			}
			path = ""
			if page.HasMore {
				path = "/api/posts?page_size=4&cursor=" + page.NextCursor
			}
		}
		assert.Len(t, seen, 6)
	})

	t.Run("page number", func(t *testing.T) {
		rr := api.do(http.MethodGet, "/api/posts?page_size=4&page=2", "", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var page pageResponse
		decode(t, rr, &page)
		assert.Len(t, page.Posts, 2)
		assert.Equal(t, 2, page.TotalPages)
	})

	t.Run("page far past the end", func(t *testing.T) {
		rr := api.do(http.MethodGet, "/api/posts?page=1844674407370955162", "", nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var page pageResponse
		decode(t, rr, &page)
		assert.Empty(t, page.Posts)
		assert.Equal(t, 6, page.TotalPosts)
	})

	t.Run("category filter", func(t *testing.T) {
		rr := api.do(http.MethodGet, "/api/posts?category=Logistics", "", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var page pageResponse
		decode(t, rr, &page)
		require.NotEmpty(t, page.Posts)
		for _, p := range page.Posts {
			assert.True(t, p.HasCategory("Logistics"), "post %q", p.Slug)
		}
	})

	t.Run("search narrows the page", func(t *testing.T) {
		rr := api.do(http.MethodGet, "/api/posts?q=blockchain", "", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var page pageResponse
		decode(t, rr, &page)
		require.NotEmpty(t, page.Posts)
		assert.Less(t, len(page.Posts), page.TotalPosts)
		for _, p := range page.Posts {
			assert.True(t, blog.MatchesSearch(&p, "blockchain"))
		}
	})

	t.Run("garbage cursor", func(t *testing.T) {
		rr := api.do(http.MethodGet, "/api/posts?cursor=!!!", "", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestShelves(t *testing.T) {
	api := newTestAPI(t)

	t.Run("featured", func(t *testing.T) {
		rr := api.do(http.MethodGet, "/api/posts/featured", "", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var posts []models.Post
		decode(t, rr, &posts)
		assert.Len(t, posts, 3)
		for _, p := range posts {
			assert.True(t, p.Featured)
		}
	})

	t.Run("popular honours limit", func(t *testing.T) {
		rr := api.do(http.MethodGet, "/api/posts/popular?limit=2", "", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var posts []models.Post
		decode(t, rr, &posts)
		require.Len(t, posts, 2)
		assert.GreaterOrEqual(t, posts[0].ViewCount, posts[1].ViewCount)
	})

	t.Run("recent defaults to five", func(t *testing.T) {
		rr := api.do(http.MethodGet, "/api/posts/recent", "", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var posts []models.Post
		decode(t, rr, &posts)
		require.Len(t, posts, 5)
		assert.False(t, posts[0].SortTime().Before(posts[1].SortTime()))
	})
}

func TestPostBySlug(t *testing.T) {
	api := newTestAPI(t)

	rr := api.do(http.MethodGet, "/api/posts/the-role-of-technology-in-modern-logistics", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var post models.Post
	decode(t, rr, &post)
	assert.Equal(t, "The Role of Technology in Modern Logistics", post.Title)

	rr = api.do(http.MethodGet, "/api/posts/no-such-post", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "not found", errorOf(t, rr))
}

func TestDraftVisibility(t *testing.T) {
	api := newTestAPI(t)
	author := api.signIn(memory.DemoAuthorEmail)
	api.createPost(author, blog.PostInput{Title: "Unfinished Thoughts", Content: "wip"})

	path := "/api/posts/unfinished-thoughts"
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, path, "", nil).Code, "anonymous")
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, path, api.signIn(memory.DemoReaderEmail), nil).Code, "reader")
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, path, author, nil).Code, "author")
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, path, api.signIn(memory.DemoAdminEmail), nil).Code, "admin")
}

func TestRecordView(t *testing.T) {
	api := newTestAPI(t)
	post := api.postBySlug("the-role-of-technology-in-modern-logistics")

	rr := api.do(http.MethodPost, "/api/posts/"+post.ID.String()+"/views", "", nil)
	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, post.ViewCount+1, api.postBySlug(post.Slug).ViewCount)

	rr = api.do(http.MethodPost, "/api/posts/not-a-uuid/views", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = api.do(http.MethodPost, "/api/posts/00000000-0000-0000-0000-000000000001/views", "", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code, "unknown ids are swallowed")
}

func TestCreatePost(t *testing.T) {
	api := newTestAPI(t)
	in := blog.PostInput{
		Title:      "Edge Computing at the Depot",
		Content:    "<p>Latency matters.</p>",
		Categories: []string{"Technology"},
		Status:     models.PostStatusPublished,
	}

	t.Run("anonymous", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodPost, "/api/admin/posts", "", in).Code)
	})

	t.Run("reader", func(t *testing.T) {
		token := api.signIn(memory.DemoReaderEmail)
		assert.Equal(t, http.StatusForbidden, api.do(http.MethodPost, "/api/admin/posts", token, in).Code)
	})

	author := api.signIn(memory.DemoAuthorEmail)

	t.Run("author", func(t *testing.T) {
		before := termCount(t, api, "categories", "technology")

		id := api.createPost(author, in)
		post := api.postBySlug("edge-computing-at-the-depot")
		assert.Equal(t, id, post.ID.String())
		assert.Equal(t, "Author User", post.Author.Name)
		assert.NotNil(t, post.PublishedAt)

		assert.Equal(t, before+1, termCount(t, api, "categories", "technology"))
	})

	t.Run("duplicate slug", func(t *testing.T) {
		rr := api.do(http.MethodPost, "/api/admin/posts", author, in)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("missing title", func(t *testing.T) {
		rr := api.do(http.MethodPost, "/api/admin/posts", author, blog.PostInput{Content: "x"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, errorOf(t, rr), "title is required")
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/posts", strings.NewReader("{"))
		req.Header.Set("Authorization", "Bearer "+author)
		assert.Equal(t, http.StatusBadRequest, api.serve(req).Code)
	})
}

func TestUpdateAndDeletePost(t *testing.T) {
	api := newTestAPI(t)
	author := api.signIn(memory.DemoAuthorEmail)
	admin := api.signIn(memory.DemoAdminEmail)

	own := api.createPost(author, blog.PostInput{Title: "Cold Chain Basics", Categories: []string{"Logistics"}})
	adminPost := api.postBySlug("the-role-of-technology-in-modern-logistics")

	t.Run("author cannot edit another author's post", func(t *testing.T) {
		rr := api.do(http.MethodPut, "/api/admin/posts/"+adminPost.ID.String(), author, map[string]any{"title": "Hijacked"})
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("author edits own post", func(t *testing.T) {
		rr := api.do(http.MethodPut, "/api/admin/posts/"+own, author, map[string]any{
			"title":  "Cold Chain Fundamentals",
			"status": "published",
		})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		post := api.postBySlug("cold-chain-fundamentals")
		assert.True(t, post.IsPublished())
	})

	t.Run("get for editor", func(t *testing.T) {
		rr := api.do(http.MethodGet, "/api/admin/posts/"+own, author, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var post models.Post
		decode(t, rr, &post)
		assert.Equal(t, "Cold Chain Fundamentals", post.Title)
	})

	t.Run("update unknown post", func(t *testing.T) {
		rr := api.do(http.MethodPut, "/api/admin/posts/00000000-0000-0000-0000-000000000001", admin, map[string]any{"title": "x"})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("admin deletes any post", func(t *testing.T) {
		rr := api.do(http.MethodDelete, "/api/admin/posts/"+own, admin, nil)
		require.Equal(t, http.StatusNoContent, rr.Code)

		rr = api.do(http.MethodGet, "/api/admin/posts/"+own, admin, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestUploadFeaturedImage(t *testing.T) {
	api := newTestAPI(t)
	author := api.signIn(memory.DemoAuthorEmail)
	id := api.createPost(author, blog.PostInput{Title: "Pallet Sensors"})

	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 4, 3))))
	pngData := img.Bytes()

	upload := func(filename string, data []byte) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/admin/posts/"+id+"/image", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+author)
		return api.serve(req)
	}

	t.Run("png is stored and served", func(t *testing.T) {
		rr := upload("sensor.PNG", pngData)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		var resp struct {
			URL string `json:"url"`
		}
		decode(t, rr, &resp)
		assert.True(t, strings.HasPrefix(resp.URL, "/uploads/posts/"+id+"/"), resp.URL)
		assert.True(t, strings.HasSuffix(resp.URL, ".png"), resp.URL)

		got := api.serve(httptest.NewRequest(http.MethodGet, resp.URL, nil))
		require.Equal(t, http.StatusOK, got.Code)
		assert.Equal(t, "image/png", got.Header().Get("Content-Type"))
		assert.Equal(t, pngData, got.Body.Bytes())

		assert.Nil(t, api.postBySlug("pallet-sensors").FeaturedImage, "upload must not modify the post")
	})

	t.Run("truncated png is rejected", func(t *testing.T) {
		rr := upload("broken.png", pngData[:20])
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, errorOf(t, rr), "could not be decoded")
	})

	t.Run("non-image is rejected", func(t *testing.T) {
		rr := upload("notes.txt", []byte("just some text"))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing file part", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/posts/"+id+"/image", strings.NewReader(""))
		req.Header.Set("Authorization", "Bearer "+author)
		assert.Equal(t, http.StatusBadRequest, api.serve(req).Code)
	})
}

func TestUnknownUpload(t *testing.T) {
	api := newTestAPI(t)
	rr := api.serve(httptest.NewRequest(http.MethodGet, "/uploads/posts/nope.png", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMarkdownBody(t *testing.T) {
	api := newTestAPI(t)
	author := api.signIn(memory.DemoAuthorEmail)

	rr := api.do(http.MethodPost, "/api/admin/posts", author, map[string]any{
		"title":   "Dock Scheduling",
		"content": "## Time Slots\n\nBook **early**.",
		"format":  "markdown",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	id := idOf(t, rr)

	post := api.postBySlug("dock-scheduling")
	assert.Contains(t, post.Content, `<h2 id="time-slots">Time Slots</h2>`)
	assert.Contains(t, post.Content, "<strong>early</strong>")

	rr = api.do(http.MethodPut, "/api/admin/posts/"+id, author, map[string]any{
		"content": "- one\n- two",
		"format":  "markdown",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, api.postBySlug("dock-scheduling").Content, "<li>one</li>")

	rr = api.do(http.MethodPut, "/api/admin/posts/"+id, author, map[string]any{
		"content": "x",
		"format":  "asciidoc",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
