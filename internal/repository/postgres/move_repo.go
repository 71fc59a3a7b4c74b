package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/yourusername/legalgames-api/internal/domain/entity"
)

// MoveRepo реализует repository.MoveRepository
type MoveRepo struct {
	db *gorm.DB
}

// NewMoveRepo создает новый репозиторий ходов
func NewMoveRepo(db *gorm.DB) *MoveRepo {
	return &MoveRepo{db: db}
}

// Create добавляет ход в журнал
func (r *MoveRepo) Create(ctx context.Context, tx *gorm.DB, move *entity.Move) error {
	return conn(ctx, r.db, tx).Create(move).Error
}

// ListAfter возвращает страницу журнала после курсора afterID.
// ID монотонно растёт, поэтому порядок по ID совпадает с порядком добавления.
func (r *MoveRepo) ListAfter(ctx context.Context, roomID uint, afterID uint, limit int) ([]entity.Move, error) {
	var moves []entity.Move
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND id > ?", roomID, afterID).
		Order("id ASC").
		Limit(limit).
		Find(&moves).Error
	return moves, err
}
