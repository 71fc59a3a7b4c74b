package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/legalgames-api/internal/domain/entity"
	apperrors "github.com/yourusername/legalgames-api/internal/pkg/errors"
)

// SessionRepo реализует repository.SessionRepository
type SessionRepo struct {
	db *gorm.DB
}

// NewSessionRepo создает новый репозиторий прохождений
func NewSessionRepo(db *gorm.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create сохраняет прохождение. Частичный уникальный индекс idx_game_sessions_open
// не даёт открыть второе прохождение той же игры.
func (r *SessionRepo) Create(ctx context.Context, tx *gorm.DB, session *entity.GameSession) error {
	if err := conn(ctx, r.db, tx).Create(session).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: open session for game %d already exists", apperrors.ErrConflict, session.GameID)
		}
		return err
	}
	return nil
}

// GetByID возвращает прохождение по ID
func (r *SessionRepo) GetByID(ctx context.Context, id uint) (*entity.GameSession, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

// GetByIDForUpdate читает прохождение с блокировкой строки
func (r *SessionRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*entity.GameSession, error) {
	return r.first(conn(ctx, r.db, tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id))
}

// FindOpen ищет незавершённое прохождение игры пользователем
func (r *SessionRepo) FindOpen(ctx context.Context, tx *gorm.DB, userID, gameID uint) (*entity.GameSession, error) {
	return r.first(conn(ctx, r.db, tx).
		Where("user_id = ? AND game_id = ? AND completed = ?", userID, gameID, false).
		Order("started_at DESC"))
}

// Save сохраняет все поля прохождения
func (r *SessionRepo) Save(ctx context.Context, tx *gorm.DB, session *entity.GameSession) error {
	return conn(ctx, r.db, tx).Save(session).Error
}

// SaveAnswer сохраняет ответ. Повтор ловится уникальным индексом idx_session_question.
func (r *SessionRepo) SaveAnswer(ctx context.Context, tx *gorm.DB, answer *entity.SessionAnswer) error {
	if err := conn(ctx, r.db, tx).Create(answer).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: question %d", apperrors.ErrDuplicateAnswer, answer.QuestionID)
		}
		return err
	}
	return nil
}

// GetAnswers возвращает ответы прохождения в порядке поступления
func (r *SessionRepo) GetAnswers(ctx context.Context, tx *gorm.DB, sessionID uint) ([]entity.SessionAnswer, error) {
	var answers []entity.SessionAnswer
	err := conn(ctx, r.db, tx).
		Where("session_id = ?", sessionID).
		Order("id ASC").
		Find(&answers).Error
	return answers, err
}

func (r *SessionRepo) first(q *gorm.DB) (*entity.GameSession, error) {
	var session entity.GameSession
	if err := q.First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}
