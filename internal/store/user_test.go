package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techblog/internal/auth"
	"techblog/internal/models"
)

func TestUserCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	email := "usertest@store.local"
	cleanUsers(t, db, email)
	t.Cleanup(func() { cleanUsers(t, db, email) })

	u := &models.User{
		Name:         "User Test",
		Email:        email,
		PasswordHash: "hash",
		Role:         models.RoleAuthor,
		SocialLinks:  models.SocialLinks{GitHub: "https://github.com/usertest"},
	}
	require.NoError(t, s.CreateUser(ctx, u))

	found, err := s.FindByEmail(ctx, "UserTest@Store.local")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, u.ID, found.ID)
	assert.Equal(t, models.RoleAuthor, found.Role)
	assert.Equal(t, "https://github.com/usertest", found.SocialLinks.GitHub)

	byID, err := s.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)

	err = s.CreateUser(ctx, &models.User{Name: "Dup", Email: "USERTEST@store.local", PasswordHash: "x", Role: models.RoleReader})
	assert.ErrorIs(t, err, auth.ErrEmailInUse)

	missing, err := s.FindByEmail(ctx, "nobody@store.local")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
