// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// CommentAuthor identifies who wrote a comment. ID is nil for guests,
// who supply only a name and email.
type CommentAuthor struct {
	ID       *uuid.UUID `json:"id,omitempty"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	PhotoURL *string    `json:"photo_url,omitempty"`
}

// IsGuest returns true if the comment was left without an account.
func (a CommentAuthor) IsGuest() bool {
	return a.ID == nil
}

// Comment is a reader response attached to a post.
type Comment struct {
	ID        uuid.UUID     `json:"id"`
	PostID    uuid.UUID     `json:"post_id"`
	Author    CommentAuthor `json:"author"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
