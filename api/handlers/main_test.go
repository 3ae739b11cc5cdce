package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"socialnet/api/middleware"
	"socialnet/db"
	"socialnet/models"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

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
	sqlDB.SetMaxOpenConns(1)

	err = database.AutoMigrate(&models.User{}, &models.UserTokens{}, &models.Friend{}, &models.FriendRequest{}, &models.Post{})
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	db.ORM = database
}

func setupRouter(t *testing.T, userCount int) *gin.Engine {
	t.Helper()
	setupTestDB(t)
	for i := 1; i <= userCount; i++ {
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

	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1/")
	api.Use(middleware.AuthMiddleware())
	{
		api.GET("user/relation/:id", GetRelation)
		api.POST("friends/request", SendFriendRequest)
		api.POST("friends/cancel", CancelFriendRequest)
		api.POST("friends/accept", AcceptFriendRequest)
		api.POST("friends/delete", Unfriend)
		api.GET("friends/list", GetFriends)
		api.GET("friends/requests", GetPendingRequests)
		api.GET("friends/explore", ExplorePeople)
		api.POST("posts", CreatePost)
		api.GET("posts/:id", GetPost)
		api.GET("feed", GetFeed)
	}
	return r
}

// doJSON выполняет запрос от имени userID и возвращает статус с телом
func doJSON(r *gin.Engine, method, path string, userID int64, payload any) (int, map[string]any) {
	var body *bytes.Buffer
	if payload != nil {
		data, _ := json.Marshal(payload)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set("X-User-ID", fmt.Sprintf("%d", userID))
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var response map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &response)
	return w.Code, response
}
