package handlers

import (
	"net/http"
	"socialnet/api/middleware"
	"socialnet/services"
	"time"

	"github.com/gin-gonic/gin"
)

var friendService = services.NewFriendService()

type friendRequestBody struct {
	UserID int64 `json:"user_id" binding:"required"`
}

// SendFriendRequest - обработчик отправки заявки в друзья
func SendFriendRequest(c *gin.Context) {
	viewerID, ok := callerID(c)
	if !ok {
		return
	}
	var r friendRequestBody
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_REQUEST"})
		return
	}

	start := time.Now()
	err := friendService.SendRequest(c.Request.Context(), viewerID, r.UserID)
	middleware.RecordRelationOperation("send_request", statusLabel(err), serviceName, time.Since(start), err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "friend request sent"})
}

// CancelFriendRequest - обработчик отмены своей заявки или отклонения чужой
func CancelFriendRequest(c *gin.Context) {
	viewerID, ok := callerID(c)
	if !ok {
		return
	}
	var r friendRequestBody
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_REQUEST"})
		return
	}

	start := time.Now()
	err := friendService.CancelRequest(c.Request.Context(), viewerID, r.UserID)
	middleware.RecordRelationOperation("cancel_request", statusLabel(err), serviceName, time.Since(start), err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "friend request deleted"})
}

// AcceptFriendRequest - обработчик подтверждения входящей заявки
func AcceptFriendRequest(c *gin.Context) {
	viewerID, ok := callerID(c)
	if !ok {
		return
	}
	var r friendRequestBody
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_REQUEST"})
		return
	}

	start := time.Now()
	err := friendService.AcceptRequest(c.Request.Context(), viewerID, r.UserID)
	middleware.RecordRelationOperation("accept_request", statusLabel(err), serviceName, time.Since(start), err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "friend request accepted"})
}

// Unfriend - обработчик удаления из друзей
func Unfriend(c *gin.Context) {
	viewerID, ok := callerID(c)
	if !ok {
		return
	}
	var r friendRequestBody
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_REQUEST"})
		return
	}

	start := time.Now()
	err := friendService.Unfriend(c.Request.Context(), viewerID, r.UserID)
	middleware.RecordRelationOperation("unfriend", statusLabel(err), serviceName, time.Since(start), err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "friend deleted"})
}

// GetFriends - обработчик списка друзей
func GetFriends(c *gin.Context) {
	viewerID, ok := callerID(c)
	if !ok {
		return
	}
	page, err := parsePagination(c)
	if err != nil {
		respondError(c, err)
		return
	}

	friends, err := friendService.ListFriends(c.Request.Context(), viewerID, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"friends": friends})
}

// GetPendingRequests - обработчик входящих заявок в друзья
func GetPendingRequests(c *gin.Context) {
	viewerID, ok := callerID(c)
	if !ok {
		return
	}
	page, err := parsePagination(c)
	if err != nil {
		respondError(c, err)
		return
	}

	requests, err := friendService.ListIncomingRequests(c.Request.Context(), viewerID, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// ExplorePeople - обработчик подбора "возможно, вы знакомы"
func ExplorePeople(c *gin.Context) {
	viewerID, ok := callerID(c)
	if !ok {
		return
	}
	page, err := parsePagination(c)
	if err != nil {
		respondError(c, err)
		return
	}

	start := time.Now()
	people, err := friendService.ExplorePeople(c.Request.Context(), viewerID, page)
	middleware.RecordRelationOperation("explore", statusLabel(err), serviceName, time.Since(start), err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"people": people})
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
