package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// PresenceRepo реализует repository.PresenceRepository на ключах с TTL.
// Ключ живёт window; пока игрок заходит в комнату, ключ продлевается.
type PresenceRepo struct {
	client redis.UniversalClient
	window time.Duration
}

// NewPresenceRepo создает репозиторий присутствия
func NewPresenceRepo(client redis.UniversalClient, window time.Duration) (*PresenceRepo, error) {
	if client == nil {
		return nil, fmt.Errorf("Redis client cannot be nil for PresenceRepo")
	}
	if window <= 0 {
		window = 30 * time.Second
	}
	return &PresenceRepo{client: client, window: window}, nil
}

func presenceKey(roomCode string, userID uint) string {
	return fmt.Sprintf("presence:room:%s:user:%d", roomCode, userID)
}

// Touch отмечает пользователя присутствующим в комнате
func (r *PresenceRepo) Touch(ctx context.Context, roomCode string, userID uint) error {
	return r.client.Set(ctx, presenceKey(roomCode, userID), time.Now().Unix(), r.window).Err()
}

// IsOnline проверяет, заходил ли пользователь в комнату в пределах окна
func (r *PresenceRepo) IsOnline(ctx context.Context, roomCode string, userID uint) (bool, error) {
	n, err := r.client.Exists(ctx, presenceKey(roomCode, userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
