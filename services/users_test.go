package services

import (
	"context"
	"testing"

	"socialnet/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	us := NewUserService()

	user := models.User{Nickname: "alice_42", Password: "s3cret", Name: "Alice"}
	userID, err := us.Register(ctx, &user)
	require.NoError(t, err)
	require.NotZero(t, userID)

	// пароль хранится в виде соль$хеш
	stored, err := GetUser(ctx, userID)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", stored.Password)
	assert.Contains(t, stored.Password, "$")

	token, loggedID, err := us.Login(ctx, "alice_42", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, userID, loggedID)
	require.NotEmpty(t, token)

	resolvedID, err := us.ResolveToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, userID, resolvedID)

	_, _, err = us.Login(ctx, "alice_42", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = us.Login(ctx, "nobody", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, us.Logout(ctx, userID))
	_, err = us.ResolveToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicateNickname(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	us := NewUserService()

	_, err := us.Register(ctx, &models.User{Nickname: "bob", Password: "pw", Name: "Bob"})
	require.NoError(t, err)

	_, err = us.Register(ctx, &models.User{Nickname: "bob", Password: "pw2", Name: "Another Bob"})
	assert.ErrorIs(t, err, ErrNicknameTaken)
}

func TestSearchUsers(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	us := NewUserService()

	_, err := us.Register(ctx, &models.User{Nickname: "carol", Password: "pw", Name: "Carol", Location: "Berlin"})
	require.NoError(t, err)
	_, err = us.Register(ctx, &models.User{Nickname: "dave", Password: "pw", Name: "Dave", Location: "Bern"})
	require.NoError(t, err)

	page, err := NewPagination(1, 10)
	require.NoError(t, err)

	users, err := SearchUsers(ctx, "Berlin", page)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "carol", users[0].Nickname)

	users, err = SearchUsers(ctx, "Ber", page)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestUpdateProfile(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	us := NewUserService()

	userID, err := us.Register(ctx, &models.User{Nickname: "eve", Password: "pw", Name: "Eve"})
	require.NoError(t, err)

	bio := "hello there"
	require.NoError(t, us.UpdateProfile(ctx, userID, nil, &bio, nil, nil))

	user, err := GetUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "hello there", user.Bio)
	assert.Equal(t, "Eve", user.Name)

	assert.ErrorIs(t, us.UpdateProfile(ctx, 9999, nil, &bio, nil, nil), ErrUserNotFound)
}
