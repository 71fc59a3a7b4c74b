package repository

import (
	"context"

	"github.com/yourusername/legalgames-api/internal/domain/entity"
	"gorm.io/gorm"
)

// GameRepository определяет методы для работы с одиночными играми
type GameRepository interface {
	Create(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id uint) (*entity.Game, error)
	// ListActive возвращает активные игры; пустой gameType означает все типы
	ListActive(ctx context.Context, gameType string) ([]entity.Game, error)
}

// SessionRepository определяет методы для работы с прохождениями игр
type SessionRepository interface {
	// Create сохраняет прохождение; второе открытое прохождение той же игры даёт apperrors.ErrConflict
	Create(ctx context.Context, tx *gorm.DB, session *entity.GameSession) error
	GetByID(ctx context.Context, id uint) (*entity.GameSession, error)
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*entity.GameSession, error)
	// FindOpen ищет незавершённое прохождение игры пользователем
	FindOpen(ctx context.Context, tx *gorm.DB, userID, gameID uint) (*entity.GameSession, error)
	Save(ctx context.Context, tx *gorm.DB, session *entity.GameSession) error

	// SaveAnswer сохраняет ответ; повтор вопроса возвращается как apperrors.ErrDuplicateAnswer
	SaveAnswer(ctx context.Context, tx *gorm.DB, answer *entity.SessionAnswer) error
	GetAnswers(ctx context.Context, tx *gorm.DB, sessionID uint) ([]entity.SessionAnswer, error)
}
