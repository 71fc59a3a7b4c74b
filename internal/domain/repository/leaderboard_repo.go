package repository

import (
	"context"
	"time"

	"github.com/yourusername/legalgames-api/internal/domain/entity"
	"gorm.io/gorm"
)

// LeaderboardRepository определяет методы для работы с рейтингом
type LeaderboardRepository interface {
	// AddResult создаёт запись при первом событии и прибавляет очки и завершённую игру
	AddResult(ctx context.Context, tx *gorm.DB, userID uint, username string, points int64, at time.Time) error
	// LockForRanking сериализует пересчёт мест (advisory lock до конца транзакции)
	LockForRanking(ctx context.Context, tx *gorm.DB) error
	ListForRanking(ctx context.Context, tx *gorm.DB) ([]entity.LeaderboardEntry, error)
	UpdateRanks(ctx context.Context, tx *gorm.DB, entries []entity.LeaderboardEntry) error

	List(ctx context.Context, limit, offset int) ([]entity.LeaderboardEntry, int64, error)
	ListAll(ctx context.Context) ([]entity.LeaderboardEntry, error)
	GetByUserID(ctx context.Context, userID uint) (*entity.LeaderboardEntry, error)
}
