package postgres

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/legalgames-api/internal/domain/entity"
	apperrors "github.com/yourusername/legalgames-api/internal/pkg/errors"
)

// leaderboardLockKey: ключ advisory lock для пересчёта мест
const leaderboardLockKey = 7305001

// LeaderboardRepo реализует repository.LeaderboardRepository
type LeaderboardRepo struct {
	db *gorm.DB
}

// NewLeaderboardRepo создает новый репозиторий рейтинга
func NewLeaderboardRepo(db *gorm.DB) *LeaderboardRepo {
	return &LeaderboardRepo{db: db}
}

// AddResult атомарно создаёт или увеличивает запись пользователя (INSERT ... ON CONFLICT)
func (r *LeaderboardRepo) AddResult(ctx context.Context, tx *gorm.DB, userID uint, username string, points int64, at time.Time) error {
	entry := entity.LeaderboardEntry{
		UserID:         userID,
		Username:       username,
		TotalPoints:    points,
		GamesCompleted: 1,
		LastUpdated:    at,
	}
	assignments := map[string]interface{}{
		"total_points":    gorm.Expr("leaderboard_entries.total_points + ?", points),
		"games_completed": gorm.Expr("leaderboard_entries.games_completed + 1"),
		"last_updated":    at,
	}
	if username != "" {
		assignments["username"] = username
	}
	return conn(ctx, r.db, tx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(assignments),
	}).Create(&entry).Error
}

// LockForRanking берёт транзакционный advisory lock; параллельные пересчёты выстраиваются в очередь
func (r *LeaderboardRepo) LockForRanking(ctx context.Context, tx *gorm.DB) error {
	return conn(ctx, r.db, tx).Exec("SELECT pg_advisory_xact_lock(?)", leaderboardLockKey).Error
}

// ListForRanking возвращает все записи в порядке рейтинга
func (r *LeaderboardRepo) ListForRanking(ctx context.Context, tx *gorm.DB) ([]entity.LeaderboardEntry, error) {
	var entries []entity.LeaderboardEntry
	err := conn(ctx, r.db, tx).
		Order("total_points DESC, last_updated ASC, id ASC").
		Find(&entries).Error
	return entries, err
}

// UpdateRanks записывает места; строки с неизменным местом пропускаются БД
func (r *LeaderboardRepo) UpdateRanks(ctx context.Context, tx *gorm.DB, entries []entity.LeaderboardEntry) error {
	db := conn(ctx, r.db, tx)
	for _, e := range entries {
		if err := db.Model(&entity.LeaderboardEntry{}).
			Where("id = ? AND rank <> ?", e.ID, e.Rank).
			Update("rank", e.Rank).Error; err != nil {
			log.Printf("[LeaderboardRepo] Ошибка обновления места записи %d: %v", e.ID, err)
			return err
		}
	}
	return nil
}

// List возвращает страницу рейтинга и общее количество записей
func (r *LeaderboardRepo) List(ctx context.Context, limit, offset int) ([]entity.LeaderboardEntry, int64, error) {
	var entries []entity.LeaderboardEntry
	var total int64

	db := r.db.WithContext(ctx)
	if err := db.Model(&entity.LeaderboardEntry{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Order("rank ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// ListAll возвращает весь рейтинг для экспорта
func (r *LeaderboardRepo) ListAll(ctx context.Context) ([]entity.LeaderboardEntry, error) {
	var entries []entity.LeaderboardEntry
	err := r.db.WithContext(ctx).Order("rank ASC, id ASC").Find(&entries).Error
	return entries, err
}

// GetByUserID возвращает запись пользователя
func (r *LeaderboardRepo) GetByUserID(ctx context.Context, userID uint) (*entity.LeaderboardEntry, error) {
	var entry entity.LeaderboardEntry
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}
