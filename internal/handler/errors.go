package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/legalgames-api/internal/middleware"
	apperrors "github.com/yourusername/legalgames-api/internal/pkg/errors"
	"github.com/yourusername/legalgames-api/internal/service"
)

// handleGameError переводит ошибки сервисов в HTTP ответ.
// Неизвестные ошибки логируются и скрываются от клиента.
func handleGameError(c *gin.Context, component string, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotYourTurn):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "error_type": "not_your_turn"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrAlreadyFull):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "error_type": "room_full"})
	case errors.Is(err, apperrors.ErrDuplicateAnswer):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "error_type": "duplicate_answer"})
	case errors.Is(err, apperrors.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "error_type": "invalid_transition"})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrCodeSpaceExhausted):
		log.Printf("[%s] %v", component, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No free room codes, try again later"})
	default:
		log.Printf("[%s] Internal server error: %v", component, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// currentActor достаёт пользователя, выставленного RequireAuth
func currentActor(c *gin.Context) (service.Actor, bool) {
	raw, exists := c.Get(middleware.ContextUserID)
	if !exists {
		return service.Actor{}, false
	}
	userID, ok := raw.(uint)
	if !ok || userID == 0 {
		return service.Actor{}, false
	}
	return service.Actor{UserID: userID, Username: c.GetString(middleware.ContextUsername)}, true
}

// requireActor возвращает пользователя или отвечает 401
func requireActor(c *gin.Context, component string) (service.Actor, bool) {
	actor, ok := currentActor(c)
	if !ok {
		handleGameError(c, component, apperrors.ErrUnauthorized)
	}
	return actor, ok
}
