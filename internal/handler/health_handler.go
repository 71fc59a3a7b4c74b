package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// HealthHandler отвечает на проверки живости балансировщика
type HealthHandler struct {
	db    *gorm.DB
	redis redis.UniversalClient
}

// NewHealthHandler создает обработчик проверки состояния
func NewHealthHandler(db *gorm.DB, redisClient redis.UniversalClient) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

// Check проверяет доступность PostgreSQL и Redis
// GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := gin.H{"postgres": "ok", "redis": "ok"}
	code := http.StatusOK

	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		status["postgres"] = "unavailable"
		code = http.StatusServiceUnavailable
	}
	// Redis используется для кэша и присутствия, без него игры продолжают работать
	if err := h.redis.Ping(ctx).Err(); err != nil {
		status["redis"] = "degraded"
	}

	c.JSON(code, status)
}
