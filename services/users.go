package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"socialnet/db"
	"socialnet/models"
	"strings"

	"golang.org/x/crypto/argon2"
	"gorm.io/gorm"
)

type UserService struct{}

func NewUserService() *UserService {
	return &UserService{}
}

func hashPassword(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	return hex.EncodeToString(salt) + "$" + hex.EncodeToString(hash), nil
}

func verifyPassword(stored, password string) bool {
	parts := strings.Split(stored, "$")
	if len(parts) != 2 {
		return false
	}
	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return false
	}
	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	return hex.EncodeToString(hash) == parts[1]
}

// Register создает пользователя с уникальным никнеймом
func (us *UserService) Register(ctx context.Context, user *models.User) (int64, error) {
	var alreadyExists int64
	err := db.GetReadOnlyDB(ctx).Model(&models.User{}).
		Where("nickname = ?", user.Nickname).
		Count(&alreadyExists).Error
	if err != nil {
		return 0, fmt.Errorf("failed to check nickname: %w", err)
	}
	if alreadyExists > 0 {
		return 0, ErrNicknameTaken
	}

	passwordHash, err := hashPassword(user.Password)
	if err != nil {
		return 0, err
	}
	user.Password = passwordHash

	if err := db.GetWriteDB(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, ErrNicknameTaken
		}
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return user.ID, nil
}

// Login проверяет пароль и выдает новый токен, отзывая старые
func (us *UserService) Login(ctx context.Context, nickname, password string) (string, int64, error) {
	var user models.User
	err := db.GetReadOnlyDB(ctx).Where("nickname = ?", nickname).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", 0, ErrInvalidCredentials
		}
		return "", 0, err
	}

	if !verifyPassword(user.Password, password) {
		return "", 0, ErrInvalidCredentials
	}

	_ = us.Logout(ctx, user.ID)

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", 0, err
	}
	token := hex.EncodeToString(tokenBytes)

	err = db.GetWriteDB(ctx).Create(&models.UserTokens{
		UserID: user.ID,
		Token:  token,
	}).Error
	if err != nil {
		return "", 0, fmt.Errorf("failed to store token: %w", err)
	}
	return token, user.ID, nil
}

// Logout отзывает все токены пользователя
func (us *UserService) Logout(ctx context.Context, userID int64) error {
	return db.GetWriteDB(ctx).Where("user_id = ?", userID).Delete(&models.UserTokens{}).Error
}

// ResolveToken возвращает владельца токена
func (us *UserService) ResolveToken(ctx context.Context, token string) (int64, error) {
	var userToken models.UserTokens
	err := db.GetReadOnlyDB(ctx).Where("token = ?", token).First(&userToken).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrInvalidCredentials
		}
		return 0, err
	}
	return userToken.UserID, nil
}

// GetUser возвращает пользователя по id
func GetUser(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	err := db.GetReadOnlyDB(ctx).First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByNickname возвращает пользователя по уникальному никнейму
func GetUserByNickname(ctx context.Context, nickname string) (*models.User, error) {
	var user models.User
	err := db.GetReadOnlyDB(ctx).Where("nickname = ?", nickname).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UserExists проверяет существование пользователя
func UserExists(ctx context.Context, userID int64) (bool, error) {
	var count int64
	err := db.GetReadOnlyDB(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return count > 0, nil
}

// SearchUsers ищет по имени, никнейму, био и локации
func SearchUsers(ctx context.Context, query string, page models.Pagination) ([]models.UserSummary, error) {
	pattern := "%" + query + "%"
	var users []models.UserSummary
	err := db.GetReadOnlyDB(ctx).
		Model(&models.User{}).
		Where("name LIKE ? OR nickname LIKE ? OR bio LIKE ? OR location LIKE ?",
			pattern, pattern, pattern, pattern).
		Select("id, nickname, name, profile_image, location").
		Order("id ASC").
		Limit(page.Limit()).
		Offset(page.Offset()).
		Scan(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return users, nil
}

// UpdateProfile обновляет редактируемые поля профиля
func (us *UserService) UpdateProfile(ctx context.Context, userID int64, name, bio, location, profileImage *string) error {
	updates := map[string]interface{}{}
	if name != nil {
		updates["name"] = *name
	}
	if bio != nil {
		updates["bio"] = *bio
	}
	if location != nil {
		updates["location"] = *location
	}
	if profileImage != nil {
		updates["profile_image"] = *profileImage
	}
	if len(updates) == 0 {
		return nil
	}
	result := db.GetWriteDB(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
