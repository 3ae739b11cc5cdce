package handlers

import (
	"net/http"
	"socialnet/services"
	"strconv"

	"github.com/gin-gonic/gin"
)

var userService = services.NewUserService()

// UserSearch ищет пользователей по имени, никнейму, био и локации
func UserSearch(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "EMPTY_QUERY"})
		return
	}
	page, err := parsePagination(c)
	if err != nil {
		respondError(c, err)
		return
	}

	users, err := services.SearchUsers(c.Request.Context(), query, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// UserGet возвращает профиль и состояние отношений с вызывающим
func UserGet(c *gin.Context) {
	viewerID, ok := callerID(c)
	if !ok {
		return
	}
	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_USER_ID"})
		return
	}

	user, err := services.GetUser(c.Request.Context(), targetID)
	if err != nil {
		respondError(c, err)
		return
	}

	state, err := services.Resolve(c.Request.Context(), viewerID, targetID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":            user.ID,
			"nickname":      user.Nickname,
			"name":          user.Name,
			"bio":           user.Bio,
			"location":      user.Location,
			"profile_image": user.ProfileImage,
		},
		"relation": state,
	})
}

// GetRelation возвращает только состояние отношений viewer -> target
func GetRelation(c *gin.Context) {
	viewerID, ok := callerID(c)
	if !ok {
		return
	}
	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_USER_ID"})
		return
	}

	state, err := services.Resolve(c.Request.Context(), viewerID, targetID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"relation": state})
}

// UpdateProfile обновляет профиль вызывающего
func UpdateProfile(c *gin.Context) {
	viewerID, ok := callerID(c)
	if !ok {
		return
	}
	var req struct {
		Name         *string `json:"name"`
		Bio          *string `json:"bio"`
		Location     *string `json:"location"`
		ProfileImage *string `json:"profile_image"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_REQUEST"})
		return
	}

	err := userService.UpdateProfile(c.Request.Context(), viewerID, req.Name, req.Bio, req.Location, req.ProfileImage)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
}
