package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/legalgames-api/internal/domain/entity"
	apperrors "github.com/yourusername/legalgames-api/internal/pkg/errors"
)

// GameRepo реализует repository.GameRepository
type GameRepo struct {
	db *gorm.DB
}

// NewGameRepo создает новый репозиторий игр
func NewGameRepo(db *gorm.DB) *GameRepo {
	return &GameRepo{db: db}
}

// Create сохраняет новую игру
func (r *GameRepo) Create(ctx context.Context, game *entity.Game) error {
	return r.db.WithContext(ctx).Create(game).Error
}

// GetByID возвращает игру по ID
func (r *GameRepo) GetByID(ctx context.Context, id uint) (*entity.Game, error) {
	var game entity.Game
	if err := r.db.WithContext(ctx).First(&game, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &game, nil
}

// ListActive возвращает активные игры, сгруппированные по типу
func (r *GameRepo) ListActive(ctx context.Context, gameType string) ([]entity.Game, error) {
	var games []entity.Game
	query := r.db.WithContext(ctx).Where("is_active = ?", true)
	if gameType != "" {
		query = query.Where("game_type = ?", gameType)
	}
	err := query.Order("game_type ASC, created_at DESC").Find(&games).Error
	return games, err
}
