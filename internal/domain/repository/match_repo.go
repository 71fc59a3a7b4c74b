package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/yourusername/legalgames-api/internal/domain/entity"
	"gorm.io/gorm"
)

// MatchRepository определяет методы для работы с дуэлями и ответами в них
type MatchRepository interface {
	// LockMatchmaking сериализует шаг «найти или создать» между конкурентными Enqueue
	LockMatchmaking(ctx context.Context, tx *gorm.DB) error
	Create(ctx context.Context, tx *gorm.DB, match *entity.QuizMatch) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.QuizMatch, error)
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*entity.QuizMatch, error)
	// FindOpenByPlayer ищет незавершённый матч игрока (searching/matched/active)
	FindOpenByPlayer(ctx context.Context, tx *gorm.DB, userID uint) (*entity.QuizMatch, error)
	// ClaimSearching блокирует самый старый матч в поиске чужого игрока (FOR UPDATE SKIP LOCKED)
	ClaimSearching(ctx context.Context, tx *gorm.DB, excludeUserID uint) (*entity.QuizMatch, error)
	Save(ctx context.Context, tx *gorm.DB, match *entity.QuizMatch) error

	AnswerExists(ctx context.Context, tx *gorm.DB, matchID uuid.UUID, playerID, questionID uint) (bool, error)
	// SaveAnswer сохраняет ответ; нарушение уникальности возвращается как apperrors.ErrDuplicateAnswer
	SaveAnswer(ctx context.Context, tx *gorm.DB, answer *entity.MatchAnswer) error
	GetAnswers(ctx context.Context, matchID uuid.UUID) ([]entity.MatchAnswer, error)

	// AddServedQuestion фиксирует выданный вопрос; повтор вопроса в матче возвращается как apperrors.ErrConflict
	AddServedQuestion(ctx context.Context, tx *gorm.DB, served *entity.MatchQuestion) error
	ServedQuestionIDs(ctx context.Context, tx *gorm.DB, matchID uuid.UUID) ([]uint, error)
}
