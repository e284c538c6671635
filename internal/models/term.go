// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// TermKind separates categories from tags. Both share one shape and one
// set of rules, each within its own slug namespace.
type TermKind string

const (
	TermCategory TermKind = "category"
	TermTag      TermKind = "tag"
)

// Valid reports whether k is a known term kind.
func (k TermKind) Valid() bool {
	return k == TermCategory || k == TermTag
}

// Term is a category or a tag. Posts reference terms by Name.
type Term struct {
	ID          uuid.UUID `json:"id"`
	Kind        TermKind  `json:"kind"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// PostCount is derived from the post set and overwritten on every
	// post mutation.
	PostCount int `json:"post_count"`
}
