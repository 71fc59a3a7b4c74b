package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/legalgames-api/internal/domain/entity"
	apperrors "github.com/yourusername/legalgames-api/internal/pkg/errors"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// Create создает вопрос вместе с вариантами ответа
func (r *QuestionRepo) Create(ctx context.Context, question *entity.Question) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Устанавливаем кодировку UTF-8 внутри транзакции
		if err := tx.Exec("SET CLIENT_ENCODING TO 'UTF8'").Error; err != nil {
			return err
		}
		return tx.Create(question).Error
	})
}

// GetWithAnswers возвращает вопрос с вариантами ответа
func (r *QuestionRepo) GetWithAnswers(ctx context.Context, id uint) (*entity.Question, error) {
	var question entity.Question
	err := r.db.WithContext(ctx).
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// ListByGame возвращает активные вопросы игры по возрастанию sort_order
func (r *QuestionRepo) ListByGame(ctx context.Context, gameID uint) ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.WithContext(ctx).
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Where("game_id = ? AND is_active = ?", gameID, true).
		Order("sort_order ASC, id ASC").
		Find(&questions).Error
	return questions, err
}

// PickRandomActive выбирает случайный активный вопрос общего банка, исключая уже выданные в матче
func (r *QuestionRepo) PickRandomActive(ctx context.Context, excludeIDs []uint) (*entity.Question, error) {
	var question entity.Question
	query := r.db.WithContext(ctx).Where("is_active = ? AND game_id IS NULL", true)
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}
	err := query.Order("RANDOM()").First(&question).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}
