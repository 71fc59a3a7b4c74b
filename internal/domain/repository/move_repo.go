package repository

import (
	"context"

	"github.com/yourusername/legalgames-api/internal/domain/entity"
	"gorm.io/gorm"
)

// MoveRepository: журнал ходов, только добавление
type MoveRepository interface {
	Create(ctx context.Context, tx *gorm.DB, move *entity.Move) error
	// ListAfter возвращает до limit ходов комнаты с ID > afterID в порядке добавления
	ListAfter(ctx context.Context, roomID uint, afterID uint, limit int) ([]entity.Move, error)
}
