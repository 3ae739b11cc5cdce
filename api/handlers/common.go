package handlers

import (
	"errors"
	"net/http"
	"socialnet/models"
	"socialnet/services"
	"strconv"

	"github.com/gin-gonic/gin"
)

const serviceName = "socialnet"

// respondError отдает стабильный машинный код ошибки.
// Внутренности и stack trace клиенту не утекают.
func respondError(c *gin.Context, err error) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		c.JSON(svcErr.Status, gin.H{"error": svcErr.Code})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR"})
}

// parsePagination читает page/page_size из query. Дефолты подставляются
// только для отсутствующих параметров, явный ноль или минус - ошибка.
func parsePagination(c *gin.Context) (models.Pagination, error) {
	page := 1
	perPage := 5

	if v := c.Query("page"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return models.Pagination{}, services.ErrInvalidPagination
		}
		page = parsed
	}
	if v := c.Query("page_size"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return models.Pagination{}, services.ErrInvalidPagination
		}
		perPage = parsed
	}

	return services.NewPagination(page, perPage)
}

// callerID достает идентификатор аутентифицированного пользователя
func callerID(c *gin.Context) (int64, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHORIZED"})
		return 0, false
	}
	return userID.(int64), true
}
