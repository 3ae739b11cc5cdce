package handlers

import (
	"net/http"
	"socialnet/services"
	"strconv"

	"github.com/gin-gonic/gin"
)

var postService = services.NewPostService()

// CreatePost создает новый пост
func CreatePost(c *gin.Context) {
	viewerID, ok := callerID(c)
	if !ok {
		return
	}
	var req struct {
		Content    string `json:"content"`
		Media      string `json:"media"`
		Visibility string `json:"visibility"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_REQUEST"})
		return
	}

	post, err := postService.CreatePost(c.Request.Context(), viewerID, req.Content, req.Media, req.Visibility)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// GetPost возвращает один пост, если он виден вызывающему
func GetPost(c *gin.Context) {
	viewerID, ok := callerID(c)
	if !ok {
		return
	}
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_POST_ID"})
		return
	}

	post, err := postService.GetPost(c.Request.Context(), viewerID, postID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// GetUserPosts возвращает посты пользователя, видимые вызывающему
func GetUserPosts(c *gin.Context) {
	viewerID, ok := callerID(c)
	if !ok {
		return
	}
	ownerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_USER_ID"})
		return
	}
	page, err := parsePagination(c)
	if err != nil {
		respondError(c, err)
		return
	}

	posts, err := postService.ListUserPosts(c.Request.Context(), viewerID, ownerID, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// GetFeed получает ленту постов
func GetFeed(c *gin.Context) {
	viewerID, ok := callerID(c)
	if !ok {
		return
	}
	page, err := parsePagination(c)
	if err != nil {
		respondError(c, err)
		return
	}

	feed, err := postService.GetFeed(c.Request.Context(), viewerID, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

// UpdatePost редактирует пост владельца
func UpdatePost(c *gin.Context) {
	viewerID, ok := callerID(c)
	if !ok {
		return
	}
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_POST_ID"})
		return
	}
	var req struct {
		Content    *string `json:"content"`
		Media      *string `json:"media"`
		Visibility *string `json:"visibility"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_REQUEST"})
		return
	}

	post, err := postService.UpdatePost(c.Request.Context(), viewerID, postID, req.Content, req.Media, req.Visibility)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// DeletePost удаляет пост владельца
func DeletePost(c *gin.Context) {
	viewerID, ok := callerID(c)
	if !ok {
		return
	}
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_POST_ID"})
		return
	}

	if err := postService.DeletePost(c.Request.Context(), viewerID, postID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "post deleted"})
}
