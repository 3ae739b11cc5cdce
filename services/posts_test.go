package services

import (
	"context"
	"testing"

	"socialnet/db"
	"socialnet/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// владелец 1, друг 2, незнакомец 3
func setupPostGraph(t *testing.T) {
	t.Helper()
	setupTestDB(t)
	createUsers(t, 3)
	require.NoError(t, InsertEdge(db.ORM, 1, 2))
}

func TestCreatePostValidation(t *testing.T) {
	setupPostGraph(t)
	ctx := context.Background()
	ps := NewPostService()

	_, err := ps.CreatePost(ctx, 1, "", "", "public")
	assert.ErrorIs(t, err, ErrEmptyPost)

	// медиа без текста допустимо
	post, err := ps.CreatePost(ctx, 1, "", "photo.jpg", "public")
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityPublic, post.Visibility)
}

func TestNormalizeVisibilityDefault(t *testing.T) {
	setupPostGraph(t)
	ctx := context.Background()
	ps := NewPostService()

	post, err := ps.CreatePost(ctx, 1, "hello", "", "banana")
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityFriends, post.Visibility)

	post, err = ps.CreatePost(ctx, 1, "hello", "", "")
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityFriends, post.Visibility)
}

func TestPostVisibility(t *testing.T) {
	setupPostGraph(t)
	ctx := context.Background()
	ps := NewPostService()

	public, err := ps.CreatePost(ctx, 1, "public post", "", "public")
	require.NoError(t, err)
	friends, err := ps.CreatePost(ctx, 1, "friends post", "", "friends")
	require.NoError(t, err)
	private, err := ps.CreatePost(ctx, 1, "private post", "", "private")
	require.NoError(t, err)

	cases := []struct {
		post   *models.Post
		viewer int64
		want   bool
	}{
		{public, 1, true}, {public, 2, true}, {public, 3, true},
		{friends, 1, true}, {friends, 2, true}, {friends, 3, false},
		{private, 1, true}, {private, 2, false}, {private, 3, false},
	}
	for _, tc := range cases {
		visible, err := ps.IsPostVisible(ctx, tc.post, tc.viewer)
		require.NoError(t, err)
		assert.Equal(t, tc.want, visible, "post %s viewer %d", tc.post.Visibility, tc.viewer)
	}
}

func TestGetPostDoesNotLeakExistence(t *testing.T) {
	setupPostGraph(t)
	ctx := context.Background()
	ps := NewPostService()

	private, err := ps.CreatePost(ctx, 1, "secret", "", "private")
	require.NoError(t, err)

	// скрытый и несуществующий пост неразличимы
	_, err = ps.GetPost(ctx, 3, private.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
	_, err = ps.GetPost(ctx, 3, 9999)
	assert.ErrorIs(t, err, ErrPostNotFound)

	got, err := ps.GetPost(ctx, 1, private.ID)
	require.NoError(t, err)
	assert.Equal(t, "secret", got.Content)
	assert.Equal(t, "user_1", got.UserNickname)
}

func TestListUserPostsFiltered(t *testing.T) {
	setupPostGraph(t)
	ctx := context.Background()
	ps := NewPostService()

	_, err := ps.CreatePost(ctx, 1, "public post", "", "public")
	require.NoError(t, err)
	_, err = ps.CreatePost(ctx, 1, "friends post", "", "friends")
	require.NoError(t, err)
	_, err = ps.CreatePost(ctx, 1, "private post", "", "private")
	require.NoError(t, err)

	page, err := NewPagination(1, 10)
	require.NoError(t, err)

	posts, err := ps.ListUserPosts(ctx, 1, 1, page)
	require.NoError(t, err)
	assert.Len(t, posts, 3)

	posts, err = ps.ListUserPosts(ctx, 2, 1, page)
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	posts, err = ps.ListUserPosts(ctx, 3, 1, page)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, models.VisibilityPublic, posts[0].Visibility)

	_, err = ps.ListUserPosts(ctx, 1, 99, page)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestFeedVisibility(t *testing.T) {
	setupPostGraph(t)
	ctx := context.Background()
	ps := NewPostService()

	_, err := ps.CreatePost(ctx, 1, "public post", "", "public")
	require.NoError(t, err)
	_, err = ps.CreatePost(ctx, 1, "friends post", "", "friends")
	require.NoError(t, err)
	_, err = ps.CreatePost(ctx, 1, "private post", "", "private")
	require.NoError(t, err)
	_, err = ps.CreatePost(ctx, 3, "stranger post", "", "public")
	require.NoError(t, err)

	page, err := NewPagination(1, 10)
	require.NoError(t, err)

	// друг видит public и friends владельца плюс все публичные
	feed, err := ps.GetFeed(ctx, 2, page)
	require.NoError(t, err)
	require.Len(t, feed.Posts, 3)
	assert.False(t, feed.HasMore)
	for _, p := range feed.Posts {
		assert.NotEqual(t, "private post", p.Content)
	}

	// незнакомец видит только публичные плюс свои
	feed, err = ps.GetFeed(ctx, 3, page)
	require.NoError(t, err)
	assert.Len(t, feed.Posts, 2)

	// владелец видит все свои
	feed, err = ps.GetFeed(ctx, 1, page)
	require.NoError(t, err)
	assert.Len(t, feed.Posts, 4)
}

func TestUpdatePostOwnership(t *testing.T) {
	setupPostGraph(t)
	ctx := context.Background()
	ps := NewPostService()

	post, err := ps.CreatePost(ctx, 1, "original", "", "public")
	require.NoError(t, err)

	content := "edited"
	_, err = ps.UpdatePost(ctx, 2, post.ID, &content, nil, nil)
	assert.ErrorIs(t, err, ErrNotPostOwner)

	visibility := "private"
	updated, err := ps.UpdatePost(ctx, 1, post.ID, &content, nil, &visibility)
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)
	assert.Equal(t, models.VisibilityPrivate, updated.Visibility)

	// после сужения видимости пост пропадает для чужих
	_, err = ps.GetPost(ctx, 2, post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)

	empty := ""
	_, err = ps.UpdatePost(ctx, 1, post.ID, &empty, nil, nil)
	assert.ErrorIs(t, err, ErrEmptyPost)
}

func TestDeletePost(t *testing.T) {
	setupPostGraph(t)
	ctx := context.Background()
	ps := NewPostService()

	post, err := ps.CreatePost(ctx, 1, "to delete", "", "public")
	require.NoError(t, err)

	assert.ErrorIs(t, ps.DeletePost(ctx, 2, post.ID), ErrNotPostOwner)
	require.NoError(t, ps.DeletePost(ctx, 1, post.ID))
	assert.ErrorIs(t, ps.DeletePost(ctx, 1, post.ID), ErrPostNotFound)

	_, err = ps.GetPost(ctx, 1, post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
}
