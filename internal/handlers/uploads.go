package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"techblog/internal/storage"
)

// Uploads serves featured images held by the in-memory blob store. The
// postgres backend serves images straight from the bucket's public URL.
type Uploads struct {
	blobs *storage.Memory
}

// NewUploads creates an Uploads handler over blobs.
func NewUploads(blobs *storage.Memory) *Uploads {
	return &Uploads{blobs: blobs}
}

func (u *Uploads) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data, contentType, ok := u.blobs.Get(chi.URLParam(r, "*"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Write(data)
}
