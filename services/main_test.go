package services

import (
	"fmt"
	"testing"

	"socialnet/db"
	"socialnet/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB инициализирует тестовую базу SQLite в памяти
func setupTestDB(t *testing.T) {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// одна in-memory база на все соединения пула
	sqlDB.SetMaxOpenConns(1)

	err = database.AutoMigrate(&models.User{}, &models.UserTokens{}, &models.Friend{}, &models.FriendRequest{}, &models.Post{})
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	db.ORM = database
}

// createUsers создает пользователей с идентификаторами 1..n
func createUsers(t *testing.T, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		user := models.User{
			ID:       int64(i),
			Nickname: fmt.Sprintf("user_%d", i),
			Name:     fmt.Sprintf("User %d", i),
			Password: "x",
		}
		if err := db.ORM.Create(&user).Error; err != nil {
			t.Fatalf("failed to create user %d: %v", i, err)
		}
	}
}
