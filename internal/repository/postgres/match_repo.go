package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/legalgames-api/internal/domain/entity"
	apperrors "github.com/yourusername/legalgames-api/internal/pkg/errors"
)

// MatchRepo реализует repository.MatchRepository
type MatchRepo struct {
	db *gorm.DB
}

// NewMatchRepo создает новый репозиторий матчей
func NewMatchRepo(db *gorm.DB) *MatchRepo {
	return &MatchRepo{db: db}
}

// matchmakingLockKey: ключ advisory lock для подбора соперника
const matchmakingLockKey = 7305002

var openMatchStatuses = []string{
	entity.MatchStatusSearching,
	entity.MatchStatusMatched,
	entity.MatchStatusActive,
}

// LockMatchmaking берёт транзакционный advisory lock на время подбора.
// Без него два игрока, встающие в очередь одновременно, открывают два отдельных матча.
func (r *MatchRepo) LockMatchmaking(ctx context.Context, tx *gorm.DB) error {
	return conn(ctx, r.db, tx).Exec("SELECT pg_advisory_xact_lock(?)", matchmakingLockKey).Error
}

// Create сохраняет новый матч
func (r *MatchRepo) Create(ctx context.Context, tx *gorm.DB, match *entity.QuizMatch) error {
	return conn(ctx, r.db, tx).Create(match).Error
}

// GetByID возвращает матч по ID
func (r *MatchRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.QuizMatch, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

// GetByIDForUpdate читает матч с блокировкой строки
func (r *MatchRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*entity.QuizMatch, error) {
	return r.first(conn(ctx, r.db, tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id))
}

// FindOpenByPlayer ищет незавершённый матч, в котором участвует пользователь
func (r *MatchRepo) FindOpenByPlayer(ctx context.Context, tx *gorm.DB, userID uint) (*entity.QuizMatch, error) {
	return r.first(conn(ctx, r.db, tx).
		Where("status IN ?", openMatchStatuses).
		Where("player1_id = ? OR player2_id = ?", userID, userID).
		Order("created_at DESC"))
}

// ClaimSearching забирает самый старый ожидающий матч другого игрока.
// SKIP LOCKED не даёт двум конкурентным запросам забрать один и тот же матч.
func (r *MatchRepo) ClaimSearching(ctx context.Context, tx *gorm.DB, excludeUserID uint) (*entity.QuizMatch, error) {
	return r.first(conn(ctx, r.db, tx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status = ? AND player1_id <> ? AND player2_id IS NULL", entity.MatchStatusSearching, excludeUserID).
		Order("created_at ASC"))
}

// Save сохраняет все поля матча
func (r *MatchRepo) Save(ctx context.Context, tx *gorm.DB, match *entity.QuizMatch) error {
	return conn(ctx, r.db, tx).Save(match).Error
}

// AnswerExists проверяет, отвечал ли игрок на вопрос в матче
func (r *MatchRepo) AnswerExists(ctx context.Context, tx *gorm.DB, matchID uuid.UUID, playerID, questionID uint) (bool, error) {
	var count int64
	err := conn(ctx, r.db, tx).Model(&entity.MatchAnswer{}).
		Where("match_id = ? AND player_id = ? AND question_id = ?", matchID, playerID, questionID).
		Count(&count).Error
	return count > 0, err
}

// SaveAnswer сохраняет ответ. Повтор ловится уникальным индексом idx_match_player_question.
func (r *MatchRepo) SaveAnswer(ctx context.Context, tx *gorm.DB, answer *entity.MatchAnswer) error {
	if err := conn(ctx, r.db, tx).Create(answer).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: question %d", apperrors.ErrDuplicateAnswer, answer.QuestionID)
		}
		return err
	}
	return nil
}

// AddServedQuestion сохраняет отметку о выданном вопросе
func (r *MatchRepo) AddServedQuestion(ctx context.Context, tx *gorm.DB, served *entity.MatchQuestion) error {
	if err := conn(ctx, r.db, tx).Create(served).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: question %d already served in match %s", apperrors.ErrConflict, served.QuestionID, served.MatchID)
		}
		return err
	}
	return nil
}

// ServedQuestionIDs возвращает все вопросы, выданные в матче, в порядке выдачи
func (r *MatchRepo) ServedQuestionIDs(ctx context.Context, tx *gorm.DB, matchID uuid.UUID) ([]uint, error) {
	var ids []uint
	err := conn(ctx, r.db, tx).Model(&entity.MatchQuestion{}).
		Where("match_id = ?", matchID).
		Order("position ASC").
		Pluck("question_id", &ids).Error
	return ids, err
}

// GetAnswers возвращает все ответы матча в порядке поступления
func (r *MatchRepo) GetAnswers(ctx context.Context, matchID uuid.UUID) ([]entity.MatchAnswer, error) {
	var answers []entity.MatchAnswer
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("id ASC").
		Find(&answers).Error
	return answers, err
}

func (r *MatchRepo) first(q *gorm.DB) (*entity.QuizMatch, error) {
	var match entity.QuizMatch
	if err := q.First(&match).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &match, nil
}
