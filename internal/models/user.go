// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's permission level in the system.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleAuthor Role = "author"
	RoleReader Role = "reader"
)

// SocialLinks are optional profile links shown next to an author's posts.
type SocialLinks struct {
	Twitter  string `json:"twitter,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Website  string `json:"website,omitempty"`
}

// User is an account owned by the identity layer. The content repository
// only ever reads users to take snapshots of them.
type User struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"` // Never serialize the hash
	PhotoURL     *string     `json:"photo_url,omitempty"`
	Bio          *string     `json:"bio,omitempty"`
	SocialLinks  SocialLinks `json:"social_links"`
	Role         Role        `json:"role"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanAuthor returns true if the user may write posts.
func (u *User) CanAuthor() bool {
	return u.Role == RoleAdmin || u.Role == RoleAuthor
}

// AuthorSnapshot copies the fields embedded in a post.
func (u *User) AuthorSnapshot() AuthorSnapshot {
	return AuthorSnapshot{ID: u.ID, Name: u.Name, PhotoURL: u.PhotoURL}
}

// CommentAuthor copies the fields embedded in a comment.
func (u *User) CommentAuthor() CommentAuthor {
	id := u.ID
	return CommentAuthor{ID: &id, Name: u.Name, Email: u.Email, PhotoURL: u.PhotoURL}
}
