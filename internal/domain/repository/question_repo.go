package repository

import (
	"context"

	"github.com/yourusername/legalgames-api/internal/domain/entity"
)

// QuestionRepository определяет методы для работы с банком вопросов
type QuestionRepository interface {
	// Create сохраняет вопрос вместе с вариантами ответа
	Create(ctx context.Context, question *entity.Question) error
	GetWithAnswers(ctx context.Context, id uint) (*entity.Question, error)
	// ListByGame возвращает вопросы игры с вариантами в порядке прохождения
	ListByGame(ctx context.Context, gameID uint) ([]entity.Question, error)
	// PickRandomActive возвращает случайный активный вопрос общего банка, не входящий в excludeIDs
	PickRandomActive(ctx context.Context, excludeIDs []uint) (*entity.Question, error)
}
