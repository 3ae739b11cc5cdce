package services

import (
	"context"
	"fmt"
	"log"
	"socialnet/db"
	"socialnet/models"

	"gorm.io/gorm"
)

type FriendService struct{}

func NewFriendService() *FriendService {
	return &FriendService{}
}

// SendRequest создает заявку requester -> target.
// Предварительные проверки в InsertRequest - fail fast, но не единственный
// рубеж: гонку двух встречных заявок решает уникальный индекс пары.
func (fs *FriendService) SendRequest(ctx context.Context, requesterID, targetID int64) error {
	if requesterID == targetID {
		return ErrInvalidTarget
	}

	exists, err := UserExists(ctx, targetID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUserNotFound
	}

	err = db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		return InsertRequest(tx, targetID, requesterID)
	})
	if err != nil {
		return err
	}

	fs.notifyRelationEvent(ctx, targetID, requesterID, "friend_requested")
	return nil
}

// CancelRequest удаляет заявку между caller и other. Отмена своей заявки и
// отклонение чужой различаются только тем, кто вызывает: между парой
// существует максимум одна заявка.
func (fs *FriendService) CancelRequest(ctx context.Context, callerID, otherID int64) error {
	if callerID == otherID {
		return ErrInvalidTarget
	}

	return db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		return DeletePairRequest(tx, callerID, otherID)
	})
}

// AcceptRequest подтверждает заявку requester -> acceptor: удаление заявки
// и создание дружбы выполняются одной транзакцией. Гонка accept/cancel
// решается в пользу ровно одной стороны - проигравший видит REQUEST_NOT_FOUND.
func (fs *FriendService) AcceptRequest(ctx context.Context, acceptorID, requesterID int64) error {
	if acceptorID == requesterID {
		return ErrInvalidTarget
	}

	exists, err := UserExists(ctx, requesterID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUserNotFound
	}

	err = db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		friends, err := EdgeExists(tx, acceptorID, requesterID)
		if err != nil {
			return err
		}
		if friends {
			return ErrAlreadyFriends
		}

		if err := DeleteRequest(tx, acceptorID, requesterID); err != nil {
			return err
		}
		return InsertEdge(tx, acceptorID, requesterID)
	})
	if err != nil {
		return err
	}

	// Граф изменился - кеши лент обеих сторон больше не валидны
	fs.invalidateFeeds(ctx, acceptorID, requesterID)
	fs.notifyRelationEvent(ctx, requesterID, acceptorID, "friend_accepted")
	return nil
}

// Unfriend удаляет дружбу, направление не важно
func (fs *FriendService) Unfriend(ctx context.Context, userID, friendID int64) error {
	if userID == friendID {
		return ErrInvalidTarget
	}

	err := db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		return DeleteEdge(tx, userID, friendID)
	})
	if err != nil {
		return err
	}

	fs.invalidateFeeds(ctx, userID, friendID)
	return nil
}

// ListFriends возвращает друзей пользователя, стабильно упорядоченных по id
func (fs *FriendService) ListFriends(ctx context.Context, userID int64, page models.Pagination) ([]models.UserSummary, error) {
	var friends []models.UserSummary
	err := db.GetReadOnlyDB(ctx).
		Table("users u").
		Joins("JOIN friends f ON (f.user_id = u.id AND f.friend_id = ?) OR (f.friend_id = u.id AND f.user_id = ?)", userID, userID).
		Select("u.id, u.nickname, u.name, u.profile_image, u.location").
		Order("u.id ASC").
		Limit(page.Limit()).
		Offset(page.Offset()).
		Scan(&friends).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	return friends, nil
}

// ListIncomingRequests возвращает авторов входящих заявок, новые первыми
func (fs *FriendService) ListIncomingRequests(ctx context.Context, userID int64, page models.Pagination) ([]models.UserSummary, error) {
	var requesters []models.UserSummary
	err := db.GetReadOnlyDB(ctx).
		Table("users u").
		Joins("JOIN friend_requests r ON r.requester_id = u.id").
		Where("r.user_id = ?", userID).
		Select("u.id, u.nickname, u.name, u.profile_image, u.location").
		Order("r.created_at DESC, u.id ASC").
		Limit(page.Limit()).
		Offset(page.Offset()).
		Scan(&requesters).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list friend requests: %w", err)
	}
	return requesters, nil
}

// ExplorePeople возвращает кандидатов "возможно, вы знакомы": не сам
// пользователь, не друзья, без заявок в любом направлении. Ранжирование по
// числу общих друзей считается на стороне БД одним запросом; ничья рвется
// по id для детерминированной пагинации.
func (fs *FriendService) ExplorePeople(ctx context.Context, viewerID int64, page models.Pagination) ([]models.ExploreUser, error) {
	var people []models.ExploreUser
	err := db.GetReadOnlyDB(ctx).Raw(`
		SELECT
			u.id,
			u.nickname,
			u.name,
			u.profile_image,
			u.location,
			(
				SELECT COUNT(*)
				FROM friends f1
				JOIN friends f2 ON
					(CASE WHEN f1.user_id = u.id THEN f1.friend_id ELSE f1.user_id END) =
					(CASE WHEN f2.user_id = ? THEN f2.friend_id ELSE f2.user_id END)
				WHERE (f1.user_id = u.id OR f1.friend_id = u.id)
				  AND (f2.user_id = ? OR f2.friend_id = ?)
			) AS mutual_count
		FROM users u
		WHERE u.id <> ?
		  AND NOT EXISTS (
			SELECT 1 FROM friends f
			WHERE (f.user_id = ? AND f.friend_id = u.id) OR (f.user_id = u.id AND f.friend_id = ?)
		  )
		  AND NOT EXISTS (
			SELECT 1 FROM friend_requests r
			WHERE (r.user_id = ? AND r.requester_id = u.id) OR (r.user_id = u.id AND r.requester_id = ?)
		  )
		ORDER BY mutual_count DESC, u.id ASC
		LIMIT ? OFFSET ?`,
		viewerID, viewerID, viewerID,
		viewerID, viewerID, viewerID, viewerID, viewerID,
		page.Limit(), page.Offset(),
	).Scan(&people).Error
	if err != nil {
		return nil, fmt.Errorf("failed to explore people: %w", err)
	}
	return people, nil
}

// invalidateFeeds сбрасывает кеши лент обеих сторон после изменения графа
func (fs *FriendService) invalidateFeeds(ctx context.Context, a, b int64) {
	if RedisClient == nil {
		return
	}
	ps := NewPostService()
	for _, userID := range []int64{a, b} {
		if err := ps.InvalidateUserFeed(ctx, userID); err != nil {
			log.Printf("failed to invalidate feed cache for user %d: %v", userID, err)
		}
	}
}

// notifyRelationEvent публикует событие в RabbitMQ, с прямым WebSocket
// fallback-ом, если брокер недоступен
func (fs *FriendService) notifyRelationEvent(ctx context.Context, recipientID, actorID int64, event string) {
	err := PublishRelationEvent(ctx, RelationEvent{
		UserID:  recipientID,
		ActorID: actorID,
		Event:   event,
	})
	if err != nil {
		_ = SendWsNotify(recipientID, event, fmt.Sprintf("user %d: %s", actorID, event))
	}
}
