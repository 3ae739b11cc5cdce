package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"socialnet/db"
	"socialnet/models"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const (
	FEED_CACHE_TTL  = 24 * time.Hour // TTL для кеша ленты
	MAX_FEED_SIZE   = 1000           // Максимальное количество постов в ленте
	FEED_KEY_PREFIX = "user_feed:"   // Префикс для ключей ленты в Redis
	POST_KEY_PREFIX = "post:"        // Префикс для кеша постов
)

type PostService struct{}

func NewPostService() *PostService {
	return &PostService{}
}

const feedSelect = "p.id, p.user_id, u.name AS user_name, u.nickname AS user_nickname, " +
	"u.profile_image, p.content, p.media, p.visibility, p.created_at"

// visibilityScope ограничивает выборку постов тем, что доступно viewer-у:
// собственные посты, публичные, и посты друзей с видимостью friends.
// Приватные чужие посты отсекаются на стороне БД, без ошибок.
func visibilityScope(tx *gorm.DB, viewerID int64) *gorm.DB {
	return tx.Where(
		"p.user_id = ? OR p.visibility = ? OR (p.visibility = ? AND EXISTS ("+
			"SELECT 1 FROM friends f WHERE (f.user_id = ? AND f.friend_id = p.user_id) "+
			"OR (f.user_id = p.user_id AND f.friend_id = ?)))",
		viewerID, models.VisibilityPublic, models.VisibilityFriends, viewerID, viewerID,
	)
}

// CreatePost создает пост и асинхронно обновляет кеши лент друзей
func (ps *PostService) CreatePost(ctx context.Context, userID int64, content, media, visibility string) (*models.Post, error) {
	if content == "" && media == "" {
		return nil, ErrEmptyPost
	}

	post := &models.Post{
		UserID:     userID,
		Content:    content,
		Media:      media,
		Visibility: models.NormalizeVisibility(visibility),
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := db.GetWriteDB(ctx).Create(post).Error; err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	if QueueServiceInstance != nil && RedisClient != nil {
		go QueueServiceInstance.EnqueueFeedUpdate(context.Background(), userID, *post, "create")
	} else {
		// Fallback - обновляем ленты синхронно, если очередь не инициализирована
		go ps.fanOutPost(context.Background(), userID, post)
	}

	return post, nil
}

// IsPostVisible решает, виден ли пост viewer-у.
// Владелец видит всё, public виден всем, friends - только друзьям владельца.
func (ps *PostService) IsPostVisible(ctx context.Context, post *models.Post, viewerID int64) (bool, error) {
	if post.UserID == viewerID {
		return true, nil
	}
	switch post.Visibility {
	case models.VisibilityPublic:
		return true, nil
	case models.VisibilityPrivate:
		return false, nil
	}
	state, err := Resolve(ctx, viewerID, post.UserID)
	if err != nil {
		return false, err
	}
	return state == models.RelationFriend, nil
}

// GetPost возвращает пост с данными автора. Скрытый и несуществующий пост
// неразличимы для вызывающего - оба дают POST_NOT_FOUND.
func (ps *PostService) GetPost(ctx context.Context, viewerID, postID int64) (*models.FeedPost, error) {
	var post models.Post
	err := db.GetReadOnlyDB(ctx).First(&post, postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	visible, err := ps.IsPostVisible(ctx, &post, viewerID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, ErrPostNotFound
	}

	author, err := GetUser(ctx, post.UserID)
	if err != nil {
		return nil, err
	}

	return &models.FeedPost{
		ID:           post.ID,
		UserID:       post.UserID,
		UserName:     author.Name,
		UserNickname: author.Nickname,
		ProfileImage: author.ProfileImage,
		Content:      post.Content,
		Media:        post.Media,
		Visibility:   post.Visibility,
		CreatedAt:    post.CreatedAt,
	}, nil
}

// ListUserPosts возвращает посты владельца, видимые viewer-у, новые первыми
func (ps *PostService) ListUserPosts(ctx context.Context, viewerID, ownerID int64, page models.Pagination) ([]models.FeedPost, error) {
	exists, err := UserExists(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	var posts []models.FeedPost
	query := db.GetReadOnlyDB(ctx).
		Table("posts p").
		Select(feedSelect).
		Joins("JOIN users u ON p.user_id = u.id").
		Where("p.user_id = ?", ownerID)
	err = visibilityScope(query, viewerID).
		Order("p.created_at DESC, p.id DESC").
		Limit(page.Limit()).
		Offset(page.Offset()).
		Scan(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// GetFeed возвращает ленту viewer-а: публичные посты, свои и посты друзей
// с видимостью friends. Сначала пробуем кеш, иначе строим из БД.
func (ps *PostService) GetFeed(ctx context.Context, viewerID int64, page models.Pagination) (*models.FeedResponse, error) {
	feedKey := fmt.Sprintf("%s%d", FEED_KEY_PREFIX, viewerID)

	feedPosts, err := ps.getFeedFromCache(ctx, feedKey, page)
	if err == nil && len(feedPosts) == page.Limit() {
		return &models.FeedResponse{
			Posts:   feedPosts,
			HasMore: true,
		}, nil
	}

	feedPosts, err = ps.buildFeedFromDB(ctx, viewerID, page)
	if err != nil {
		return nil, err
	}

	go ps.warmFeedCache(context.Background(), viewerID)

	return &models.FeedResponse{
		Posts:   feedPosts,
		HasMore: len(feedPosts) == page.Limit(),
	}, nil
}

// buildFeedFromDB строит страницу ленты из базы данных
func (ps *PostService) buildFeedFromDB(ctx context.Context, viewerID int64, page models.Pagination) ([]models.FeedPost, error) {
	var feedPosts []models.FeedPost
	query := db.GetReadOnlyDB(ctx).
		Table("posts p").
		Select(feedSelect).
		Joins("JOIN users u ON p.user_id = u.id")
	err := visibilityScope(query, viewerID).
		Order("p.created_at DESC, p.id DESC").
		Limit(page.Limit()).
		Offset(page.Offset()).
		Scan(&feedPosts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get feed posts: %w", err)
	}
	return feedPosts, nil
}

// getFeedFromCache читает страницу ленты из Redis sorted set
func (ps *PostService) getFeedFromCache(ctx context.Context, feedKey string, page models.Pagination) ([]models.FeedPost, error) {
	if RedisClient == nil {
		return nil, fmt.Errorf("redis not available")
	}

	start := int64(page.Offset())
	stop := start + int64(page.Limit()) - 1
	postIDs, err := RedisClient.ZRevRange(ctx, feedKey, start, stop).Result()
	if err != nil {
		return nil, err
	}
	if len(postIDs) == 0 {
		return nil, fmt.Errorf("feed cache empty")
	}

	pipe := RedisClient.Pipeline()
	cmds := make([]*redis.StringCmd, len(postIDs))
	for i, postID := range postIDs {
		cmds[i] = pipe.Get(ctx, POST_KEY_PREFIX+postID)
	}
	if _, err = pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, err
	}

	var feedPosts []models.FeedPost
	for _, cmd := range cmds {
		val, err := cmd.Result()
		if err != nil {
			continue
		}
		var feedPost models.FeedPost
		if err := json.Unmarshal([]byte(val), &feedPost); err == nil {
			feedPosts = append(feedPosts, feedPost)
		}
	}
	return feedPosts, nil
}

// warmFeedCache перестраивает кеш ленты из первых MAX_FEED_SIZE постов
func (ps *PostService) warmFeedCache(ctx context.Context, viewerID int64) {
	if RedisClient == nil {
		return
	}

	feedPosts, err := ps.buildFeedFromDB(ctx, viewerID, models.Pagination{Page: 1, PerPage: MAX_FEED_SIZE})
	if err != nil {
		log.Printf("failed to rebuild feed for user %d: %v", viewerID, err)
		return
	}

	feedKey := fmt.Sprintf("%s%d", FEED_KEY_PREFIX, viewerID)
	pipe := RedisClient.Pipeline()
	pipe.Del(ctx, feedKey)
	for _, post := range feedPosts {
		pipe.ZAdd(ctx, feedKey, &redis.Z{
			Score:  float64(post.CreatedAt.UnixNano()),
			Member: strconv.FormatInt(post.ID, 10),
		})
		postData, err := json.Marshal(post)
		if err != nil {
			continue
		}
		pipe.Set(ctx, fmt.Sprintf("%s%d", POST_KEY_PREFIX, post.ID), postData, FEED_CACHE_TTL)
	}
	pipe.ZRemRangeByRank(ctx, feedKey, 0, -MAX_FEED_SIZE-1)
	pipe.Expire(ctx, feedKey, FEED_CACHE_TTL)
	pipe.Exec(ctx)
}

// fanOutPost инвалидирует кеши лент после нового поста и рассылает
// события получателям, которым пост виден
func (ps *PostService) fanOutPost(ctx context.Context, userID int64, post *models.Post) {
	recipients, err := ps.postRecipients(ctx, userID, post)
	if err != nil {
		log.Printf("failed to resolve recipients for post %d: %v", post.ID, err)
		return
	}

	for _, recipientID := range recipients {
		if err := ps.InvalidateUserFeed(ctx, recipientID); err != nil {
			log.Printf("failed to invalidate feed for user %d: %v", recipientID, err)
		}

		err := PublishFeedEvent(ctx, FeedEvent{
			UserID:    recipientID,
			PostID:    post.ID,
			AuthorID:  post.UserID,
			Content:   post.Content,
			CreatedAt: post.CreatedAt,
		})
		// Fallback: если RabbitMQ недоступен, шлем напрямую через WebSocket
		if err != nil {
			ps.sendDirectWSEvent(recipientID, post)
		}
	}
}

// postRecipients возвращает, чьи ленты задевает пост: автор всегда,
// друзья - если пост не приватный
func (ps *PostService) postRecipients(ctx context.Context, userID int64, post *models.Post) ([]int64, error) {
	recipients := []int64{userID}
	if post.Visibility == models.VisibilityPrivate {
		return recipients, nil
	}

	var friendIDs []int64
	err := db.GetReadOnlyDB(ctx).
		Model(&models.Friend{}).
		Where("user_id = ? OR friend_id = ?", userID, userID).
		Select("CASE WHEN user_id = ? THEN friend_id ELSE user_id END", userID).
		Scan(&friendIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get friends: %w", err)
	}
	return append(recipients, friendIDs...), nil
}

// sendDirectWSEvent отправляет WebSocket событие напрямую (fallback для RabbitMQ)
func (ps *PostService) sendDirectWSEvent(recipientID int64, post *models.Post) {
	pushMsg := struct {
		Event     string    `json:"event"`
		UserID    int64     `json:"user_id"`
		PostID    int64     `json:"post_id"`
		AuthorID  int64     `json:"author_id"`
		Content   string    `json:"content"`
		CreatedAt time.Time `json:"created_at"`
	}{
		Event:     "feed_posted",
		UserID:    recipientID,
		PostID:    post.ID,
		AuthorID:  post.UserID,
		Content:   post.Content,
		CreatedAt: post.CreatedAt,
	}

	if pushData, err := json.Marshal(pushMsg); err == nil {
		GlobalWSConnManager.Send(recipientID, pushData)
	}
}

// UpdatePost меняет контент, медиа или видимость поста. Только владелец.
func (ps *PostService) UpdatePost(ctx context.Context, userID, postID int64, content, media, visibility *string) (*models.Post, error) {
	var post models.Post
	err := db.GetWriteDB(ctx).First(&post, postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if post.UserID != userID {
		return nil, ErrNotPostOwner
	}

	if content != nil {
		post.Content = *content
	}
	if media != nil {
		post.Media = *media
	}
	if visibility != nil {
		post.Visibility = models.NormalizeVisibility(*visibility)
	}
	if post.Content == "" && post.Media == "" {
		return nil, ErrEmptyPost
	}
	post.UpdatedAt = time.Now()

	if err := db.GetWriteDB(ctx).Save(&post).Error; err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	// Сброс кешированной копии: видимость могла сузиться
	if RedisClient != nil {
		RedisClient.Del(ctx, fmt.Sprintf("%s%d", POST_KEY_PREFIX, post.ID))
		go ps.fanOutPost(context.Background(), userID, &post)
	}

	return &post, nil
}

// DeletePost удаляет пост владельца и убирает его из кешей лент
func (ps *PostService) DeletePost(ctx context.Context, userID, postID int64) error {
	var post models.Post
	err := db.GetWriteDB(ctx).First(&post, postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("failed to get post: %w", err)
	}
	if post.UserID != userID {
		return ErrNotPostOwner
	}

	if err := db.GetWriteDB(ctx).Delete(&post).Error; err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	if QueueServiceInstance != nil && RedisClient != nil {
		go QueueServiceInstance.EnqueueFeedUpdate(context.Background(), userID, post, "delete")
	} else {
		go ps.removePostFromFeeds(context.Background(), userID, &post)
	}
	return nil
}

// removePostFromFeeds убирает пост из кешей лент всех затронутых пользователей
func (ps *PostService) removePostFromFeeds(ctx context.Context, userID int64, post *models.Post) {
	if RedisClient == nil {
		return
	}

	recipients, err := ps.postRecipients(ctx, userID, post)
	if err != nil {
		log.Printf("failed to resolve recipients for post %d: %v", post.ID, err)
		return
	}

	member := strconv.FormatInt(post.ID, 10)
	pipe := RedisClient.Pipeline()
	for _, recipientID := range recipients {
		pipe.ZRem(ctx, fmt.Sprintf("%s%d", FEED_KEY_PREFIX, recipientID), member)
	}
	pipe.Del(ctx, fmt.Sprintf("%s%d", POST_KEY_PREFIX, post.ID))
	pipe.Exec(ctx)
}

// InvalidateUserFeed инвалидирует кеш ленты пользователя
func (ps *PostService) InvalidateUserFeed(ctx context.Context, userID int64) error {
	if RedisClient == nil {
		return fmt.Errorf("redis not available")
	}
	feedKey := fmt.Sprintf("%s%d", FEED_KEY_PREFIX, userID)
	return RedisClient.Del(ctx, feedKey).Err()
}
