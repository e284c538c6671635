package blog

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"techblog/internal/models"
)

const (
	maxCommentLen   = 5_000
	maxGuestNameLen = 100
)

// CommentInput carries a new comment. GuestName and GuestEmail are only
// read when the comment is left without an account.
type CommentInput struct {
	PostID     uuid.UUID `json:"post_id"`
	Content    string    `json:"content"`
	GuestName  string    `json:"name"`
	GuestEmail string    `json:"email"`
}

// NewComment validates in and builds the record to insert, taking the
// author snapshot from actor or from the guest fields when actor is nil.
func NewComment(actor *models.User, in CommentInput, now time.Time) (*models.Comment, error) {
	content, err := validateCommentContent(in.Content)
	if err != nil {
		return nil, err
	}
	if in.PostID == uuid.Nil {
		return nil, fmt.Errorf("%w: post id is required", ErrInvalidInput)
	}

	var author models.CommentAuthor
	if actor != nil {
		author = actor.CommentAuthor()
	} else {
		name := strings.TrimSpace(in.GuestName)
		if name == "" {
			return nil, fmt.Errorf("%w: guest name is required", ErrInvalidInput)
		}
		if utf8.RuneCountInString(name) > maxGuestNameLen {
			return nil, fmt.Errorf("%w: guest name is too long", ErrInvalidInput)
		}
		addr, err := mail.ParseAddress(strings.TrimSpace(in.GuestEmail))
		if err != nil {
			return nil, fmt.Errorf("%w: a valid guest email is required", ErrInvalidInput)
		}
		author = models.CommentAuthor{Name: name, Email: addr.Address}
	}

	return &models.Comment{
		ID:        uuid.New(),
		PostID:    in.PostID,
		Author:    author,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// EditComment checks that actor may edit c and applies the new content.
// Only the registered author of a comment, or an admin, may edit it.
func EditComment(actor *models.User, c *models.Comment, content string, now time.Time) error {
	if actor == nil {
		return fmt.Errorf("%w: sign in to edit comments", ErrForbidden)
	}
	owner := c.Author.ID != nil && *c.Author.ID == actor.ID
	if !owner && !actor.IsAdmin() {
		return fmt.Errorf("%w: only the author may edit this comment", ErrForbidden)
	}
	text, err := validateCommentContent(content)
	if err != nil {
		return err
	}
	c.Content = text
	c.UpdatedAt = now
	return nil
}

func validateCommentContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("%w: comment content is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(content) > maxCommentLen {
		return "", fmt.Errorf("%w: comment is too long (max %d characters)", ErrInvalidInput, maxCommentLen)
	}
	return content, nil
}
