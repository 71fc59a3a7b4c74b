package repository

import (
	"context"

	"github.com/yourusername/legalgames-api/internal/domain/entity"
	"gorm.io/gorm"
)

// RoomRepository определяет методы для работы с комнатами.
// Методы с параметром tx работают внутри переданной транзакции.
type RoomRepository interface {
	// Create вставляет комнату; при занятом коде возвращает ErrCodeTaken
	Create(ctx context.Context, room *entity.Room) error
	CodeExists(ctx context.Context, code string) (bool, error)
	GetByCode(ctx context.Context, code string) (*entity.Room, error)
	// GetByCodeForUpdate блокирует строку комнаты до конца транзакции (SELECT ... FOR UPDATE)
	GetByCodeForUpdate(ctx context.Context, tx *gorm.DB, code string) (*entity.Room, error)
	Save(ctx context.Context, tx *gorm.DB, room *entity.Room) error
	// ListOpen возвращает комнаты в статусах waiting/ready, новые первыми
	ListOpen(ctx context.Context, limit int) ([]entity.Room, error)
	// ListByParticipant возвращает комнаты, где пользователь создатель или игрок
	ListByParticipant(ctx context.Context, userID uint, limit int) ([]entity.Room, error)
}
