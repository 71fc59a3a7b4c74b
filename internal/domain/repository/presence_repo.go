package repository

import (
	"context"
)

// PresenceRepository хранит отметки присутствия игроков в комнатах
type PresenceRepository interface {
	// Touch продлевает отметку присутствия пользователя в комнате
	Touch(ctx context.Context, roomCode string, userID uint) error
	IsOnline(ctx context.Context, roomCode string, userID uint) (bool, error)
}
