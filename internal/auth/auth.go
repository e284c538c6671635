// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package auth implements the identity adapter: sign-up, sign-in and
// sign-out over opaque session tokens, plus resolution of the current
// user. The content repository never authenticates; handlers resolve
// the actor here and pass it explicitly.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"techblog/internal/blog"
	"techblog/internal/models"
	"techblog/internal/session"
)

const (
	// MinPasswordLen is the shortest password SignUp accepts.
	MinPasswordLen = 6

	// MaxPasswordBytes is the longest password bcrypt can hash.
	MaxPasswordBytes = 72

	// MaxFailedAttempts failed sign-ins per email within FailureWindow
	// lock the email out until the oldest failure ages out.
	MaxFailedAttempts = 5
	FailureWindow     = 15 * time.Minute
)

// Identity resolves and manages the signed-in user behind a session token.
type Identity interface {
	// CurrentUser returns nil, nil when token is empty, unknown or expired.
	CurrentUser(ctx context.Context, token string) (*models.User, error)
	SignIn(ctx context.Context, email, password string) (string, *models.User, error)
	SignUp(ctx context.Context, email, password, name string) (string, *models.User, error)
	SignOut(ctx context.Context, token string) error
}

// UserStore is the account storage the identity adapter reads and writes.
type UserStore interface {
	// FindByEmail returns nil, nil when no user has the email.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByID returns nil, nil when the id does not resolve.
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// CreateUser returns ErrEmailInUse when the email is taken.
	CreateUser(ctx context.Context, u *models.User) error
}

// SessionStore holds session tokens.
type SessionStore interface {
	Create(ctx context.Context, data *session.Data) (string, error)
	Get(ctx context.Context, token string) (*session.Data, error)
	Destroy(ctx context.Context, token string) error
}

// Service implements Identity on a UserStore and a SessionStore.
type Service struct {
	users    UserStore
	sessions SessionStore
	attempts *attemptLimiter
	cost     int
	now      func() time.Time
}

var _ Identity = (*Service)(nil)

// Option configures a Service.
type Option func(*Service)

// WithBcryptCost overrides the bcrypt cost for new password hashes.
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

// WithClock replaces the wall clock used for lockouts and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
		s.attempts.now = now
	}
}

// NewService creates an identity service.
func NewService(users UserStore, sessions SessionStore, opts ...Option) *Service {
	s := &Service{
		users:    users,
		sessions: sessions,
		attempts: newAttemptLimiter(MaxFailedAttempts, FailureWindow),
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}
	data, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("current user: %w: %w", blog.ErrBackendUnavailable, err)
	}
	if data == nil {
		return nil, nil
	}

	user, err := s.users.FindByID(ctx, data.UserID)
	if err != nil {
		return nil, fmt.Errorf("current user: %w: %w", blog.ErrBackendUnavailable, err)
	}
	if user == nil {
		// The account is gone; drop the orphaned session.
		if err := s.sessions.Destroy(ctx, token); err != nil {
			slog.Warn("destroy orphaned session failed", "error", err)
		}
		return nil, nil
	}
	return user, nil
}

func (s *Service) SignIn(ctx context.Context, email, password string) (string, *models.User, error) {
	email = normalizeEmail(email)
	if s.attempts.blocked(email) {
		return "", nil, ErrTooManyAttempts
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("sign in: %w: %w", blog.ErrBackendUnavailable, err)
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.attempts.fail(email)
		slog.Warn("failed sign-in", "email", email)
		return "", nil, ErrInvalidCredentials
	}
	s.attempts.reset(email)

	token, err := s.startSession(ctx, user)
	if err != nil {
		return "", nil, err
	}
	slog.Info("user signed in", "user_id", user.ID, "role", user.Role)
	return token, user, nil
}

func (s *Service) SignUp(ctx context.Context, email, password, name string) (string, *models.User, error) {
	if utf8.RuneCountInString(password) < MinPasswordLen {
		return "", nil, ErrWeakPassword
	}
	if len(password) > MaxPasswordBytes {
		return "", nil, fmt.Errorf("%w: password is too long (max %d bytes)", blog.ErrInvalidInput, MaxPasswordBytes)
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return "", nil, fmt.Errorf("%w: a valid email is required", blog.ErrInvalidInput)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil, fmt.Errorf("%w: name is required", blog.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        normalizeEmail(addr.Address),
		PasswordHash: string(hash),
		Role:         models.RoleReader,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrEmailInUse) {
			return "", nil, ErrEmailInUse
		}
		return "", nil, fmt.Errorf("sign up: %w: %w", blog.ErrBackendUnavailable, err)
	}

	token, err := s.startSession(ctx, user)
	if err != nil {
		return "", nil, err
	}
	slog.Info("user signed up", "user_id", user.ID)
	return token, user, nil
}

func (s *Service) SignOut(ctx context.Context, token string) error {
	if err := s.sessions.Destroy(ctx, token); err != nil {
		return fmt.Errorf("sign out: %w: %w", blog.ErrBackendUnavailable, err)
	}
	return nil
}

func (s *Service) startSession(ctx context.Context, user *models.User) (string, error) {
	token, err := s.sessions.Create(ctx, &session.Data{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})
	if err != nil {
		return "", fmt.Errorf("start session: %w: %w", blog.ErrBackendUnavailable, err)
	}
	return token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
