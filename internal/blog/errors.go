package blog

import "errors"

// Errors surfaced by every Repository implementation. Backends wrap the
// underlying cause, so match with errors.Is.
var (
	// ErrNotFound indicates the identifier does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateSlug indicates another record of the same collection
	// already owns the slug.
	ErrDuplicateSlug = errors.New("slug already in use")

	// ErrInUse indicates a category or tag is still referenced by posts.
	ErrInUse = errors.New("still referenced by posts")

	// ErrInvalidInput indicates a required field is missing or malformed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden indicates the actor may not modify the record.
	ErrForbidden = errors.New("forbidden")

	// ErrBackendUnavailable wraps transport and infrastructure failures.
	ErrBackendUnavailable = errors.New("backend unavailable")
)
