package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"techblog/internal/auth"
	"techblog/internal/blog"
	"techblog/internal/memory"
	"techblog/internal/models"
	"techblog/internal/session"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newService(t *testing.T) (*auth.Service, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)}
	svc := auth.NewService(memory.New(), session.NewMemory(),
		auth.WithBcryptCost(bcrypt.MinCost),
		auth.WithClock(c.now),
	)
	return svc, c
}

func TestSignUpCreatesReaderAndSession(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	token, user, err := svc.SignUp(ctx, "  New.User@Example.com ", "secret1", "New User")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, models.RoleReader, user.Role)
	assert.Equal(t, "new.user@example.com", user.Email)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	current, err := svc.CurrentUser(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, user.ID, current.ID)
}

func TestSignUpRejections(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, _, err := svc.SignUp(ctx, "a@example.com", "12345", "A")
	assert.ErrorIs(t, err, auth.ErrWeakPassword)

	_, _, err = svc.SignUp(ctx, "long@example.com", strings.Repeat("a", 100), "Long")
	assert.ErrorIs(t, err, blog.ErrInvalidInput)

	_, _, err = svc.SignUp(ctx, "max@example.com", strings.Repeat("ä", 36), "Max")
	assert.NoError(t, err, "72 bytes is accepted")

	_, _, err = svc.SignUp(ctx, "not-an-email", "123456", "A")
	assert.ErrorIs(t, err, blog.ErrInvalidInput)

	_, _, err = svc.SignUp(ctx, "a@example.com", "123456", "  ")
	assert.ErrorIs(t, err, blog.ErrInvalidInput)

	_, _, err = svc.SignUp(ctx, "a@example.com", "123456", "A")
	require.NoError(t, err)

	_, _, err = svc.SignUp(ctx, "A@EXAMPLE.COM", "abcdef", "Other A")
	assert.ErrorIs(t, err, auth.ErrEmailInUse)
}

func TestSignInAndSignOut(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, created, err := svc.SignUp(ctx, "reader@example.com", "hunter22", "Reader")
	require.NoError(t, err)

	token, user, err := svc.SignIn(ctx, "Reader@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	require.NoError(t, svc.SignOut(ctx, token))

	current, err := svc.CurrentUser(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestSignInInvalidCredentials(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, _, err := svc.SignUp(ctx, "reader@example.com", "hunter22", "Reader")
	require.NoError(t, err)

	_, _, err = svc.SignIn(ctx, "reader@example.com", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, _, err = svc.SignIn(ctx, "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestSignInLocksOutAfterRepeatedFailures(t *testing.T) {
	svc, c := newService(t)
	ctx := context.Background()

	_, _, err := svc.SignUp(ctx, "reader@example.com", "hunter22", "Reader")
	require.NoError(t, err)

	for i := range auth.MaxFailedAttempts {
		_, _, err := svc.SignIn(ctx, "reader@example.com", "wrong")
		require.ErrorIs(t, err, auth.ErrInvalidCredentials, "attempt %d", i+1)
		c.t = c.t.Add(time.Minute)
	}

	_, _, err = svc.SignIn(ctx, "reader@example.com", "hunter22")
	assert.ErrorIs(t, err, auth.ErrTooManyAttempts, "correct password is refused while locked out")

	// Other accounts are unaffected.
	_, _, err = svc.SignIn(ctx, "other@example.com", "whatever")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	// The oldest failures age out of the window.
	c.t = c.t.Add(auth.FailureWindow - 4*time.Minute)
	_, _, err = svc.SignIn(ctx, "reader@example.com", "hunter22")
	assert.NoError(t, err)
}

func TestSuccessfulSignInResetsFailures(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, _, err := svc.SignUp(ctx, "reader@example.com", "hunter22", "Reader")
	require.NoError(t, err)

	for range auth.MaxFailedAttempts - 1 {
		_, _, _ = svc.SignIn(ctx, "reader@example.com", "wrong")
	}
	_, _, err = svc.SignIn(ctx, "reader@example.com", "hunter22")
	require.NoError(t, err)

	for range auth.MaxFailedAttempts - 1 {
		_, _, _ = svc.SignIn(ctx, "reader@example.com", "wrong")
	}
	_, _, err = svc.SignIn(ctx, "reader@example.com", "hunter22")
	assert.NoError(t, err)
}

func TestCurrentUserUnknownToken(t *testing.T) {
	svc, _ := newService(t)

	u, err := svc.CurrentUser(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, u)

	u, err = svc.CurrentUser(context.Background(), "bogus")
	require.NoError(t, err)
	assert.Nil(t, u)
}
