package services

import (
	"context"
	"errors"
	"fmt"
	"socialnet/db"
	"socialnet/models"
	"time"

	"gorm.io/gorm"
)

// Примитивы хранилища связей. Все принимают *gorm.DB, чтобы менеджер
// жизненного цикла мог собирать их в одну транзакцию.

// EdgeExists проверяет наличие дружбы между парой, направление не важно
func EdgeExists(tx *gorm.DB, u, v int64) (bool, error) {
	a, b := models.NormalizePair(u, v)
	var count int64
	err := tx.Model(&models.Friend{}).
		Where("user_id = ? AND friend_id = ?", a, b).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check friendship: %w", err)
	}
	return count > 0, nil
}

// RequestExists проверяет наличие заявки от requester к target
func RequestExists(tx *gorm.DB, targetID, requesterID int64) (bool, error) {
	var count int64
	err := tx.Model(&models.FriendRequest{}).
		Where("user_id = ? AND requester_id = ?", targetID, requesterID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check friend request: %w", err)
	}
	return count > 0, nil
}

// InsertEdge создает дружбу. Гонка на уникальном индексе пары
// равносильна "уже друзья" и мапится на ту же ошибку.
func InsertEdge(tx *gorm.DB, u, v int64) error {
	if u == v {
		return ErrInvalidTarget
	}
	exists, err := EdgeExists(tx, u, v)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyFriends
	}

	a, b := models.NormalizePair(u, v)
	edge := models.Friend{
		UserID:    a,
		FriendID:  b,
		CreatedAt: time.Now(),
	}
	if err := tx.Create(&edge).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyFriends
		}
		return fmt.Errorf("failed to create friendship: %w", err)
	}
	return nil
}

// DeleteEdge удаляет дружбу пары
func DeleteEdge(tx *gorm.DB, u, v int64) error {
	a, b := models.NormalizePair(u, v)
	result := tx.Where("user_id = ? AND friend_id = ?", a, b).Delete(&models.Friend{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete friendship: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrFriendshipNotFound
	}
	return nil
}

// InsertRequest создает заявку requester -> target. Заявка запрещена,
// если пара уже дружит или между ними висит заявка в любом направлении.
// Встречная заявка отклоняется, а не превращается в дружбу.
func InsertRequest(tx *gorm.DB, targetID, requesterID int64) error {
	if targetID == requesterID {
		return ErrInvalidTarget
	}

	friends, err := EdgeExists(tx, targetID, requesterID)
	if err != nil {
		return err
	}
	if friends {
		return ErrAlreadyFriends
	}

	var count int64
	err = tx.Model(&models.FriendRequest{}).
		Where("(user_id = ? AND requester_id = ?) OR (user_id = ? AND requester_id = ?)",
			targetID, requesterID, requesterID, targetID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check friend request: %w", err)
	}
	if count > 0 {
		return ErrDuplicateRequest
	}

	request := models.FriendRequest{
		UserID:      targetID,
		RequesterID: requesterID,
		CreatedAt:   time.Now(),
	}
	if err := tx.Create(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateRequest
		}
		return fmt.Errorf("failed to create friend request: %w", err)
	}
	return nil
}

// DeleteRequest удаляет заявку requester -> target
func DeleteRequest(tx *gorm.DB, targetID, requesterID int64) error {
	result := tx.Where("user_id = ? AND requester_id = ?", targetID, requesterID).
		Delete(&models.FriendRequest{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete friend request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRequestNotFound
	}
	return nil
}

// DeletePairRequest удаляет заявку между парой в любом направлении.
// Отмена и отклонение разделяют этот примитив: по инварианту хранилища
// между парой существует максимум одна заявка.
func DeletePairRequest(tx *gorm.DB, u, v int64) error {
	result := tx.Where("(user_id = ? AND requester_id = ?) OR (user_id = ? AND requester_id = ?)",
		u, v, v, u).
		Delete(&models.FriendRequest{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete friend request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRequestNotFound
	}
	return nil
}

// MutualFriendCount считает общих друзей пары одним агрегатным запросом.
// Сами участники пары из подсчета исключаются.
func MutualFriendCount(tx *gorm.DB, u, v int64) (int64, error) {
	var count int64
	err := tx.Raw(`
		SELECT COUNT(*) FROM (
			SELECT CASE WHEN user_id = ? THEN friend_id ELSE user_id END AS other
			FROM friends WHERE user_id = ? OR friend_id = ?
		) a JOIN (
			SELECT CASE WHEN user_id = ? THEN friend_id ELSE user_id END AS other
			FROM friends WHERE user_id = ? OR friend_id = ?
		) b ON a.other = b.other
		WHERE a.other NOT IN (?, ?)`,
		u, u, u, v, v, v, u, v,
	).Scan(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count mutual friends: %w", err)
	}
	return count, nil
}

// Resolve вычисляет состояние отношений viewer -> target.
// Порядок проверок - оптимизация: по инвариантам хранилища состояния
// взаимоисключающие, так что на корректность порядок не влияет.
func Resolve(ctx context.Context, viewerID, targetID int64) (models.RelationState, error) {
	if viewerID == targetID {
		return models.RelationSelf, nil
	}

	tx := db.GetReadOnlyDB(ctx)

	friends, err := EdgeExists(tx, viewerID, targetID)
	if err != nil {
		return "", err
	}
	if friends {
		return models.RelationFriend, nil
	}

	// target отправил заявку viewer-у
	incoming, err := RequestExists(tx, viewerID, targetID)
	if err != nil {
		return "", err
	}
	if incoming {
		return models.RelationRequester, nil
	}

	// viewer отправил заявку target-у
	outgoing, err := RequestExists(tx, targetID, viewerID)
	if err != nil {
		return "", err
	}
	if outgoing {
		return models.RelationRequesting, nil
	}

	return models.RelationStranger, nil
}
