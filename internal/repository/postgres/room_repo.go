package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/legalgames-api/internal/domain/entity"
	"github.com/yourusername/legalgames-api/internal/domain/repository"
	apperrors "github.com/yourusername/legalgames-api/internal/pkg/errors"
)

// RoomRepo реализует repository.RoomRepository
type RoomRepo struct {
	db *gorm.DB
}

// NewRoomRepo создает новый репозиторий комнат
func NewRoomRepo(db *gorm.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// Create вставляет комнату. Гонка за код ловится уникальным индексом.
func (r *RoomRepo) Create(ctx context.Context, room *entity.Room) error {
	if err := r.db.WithContext(ctx).Create(room).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", repository.ErrCodeTaken, room.Code)
		}
		return err
	}
	return nil
}

// CodeExists проверяет, занят ли код
func (r *RoomRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Room{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

// GetByCode возвращает комнату по коду
func (r *RoomRepo) GetByCode(ctx context.Context, code string) (*entity.Room, error) {
	var room entity.Room
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &room, nil
}

// GetByCodeForUpdate читает комнату с блокировкой строки до конца транзакции
func (r *RoomRepo) GetByCodeForUpdate(ctx context.Context, tx *gorm.DB, code string) (*entity.Room, error) {
	var room entity.Room
	err := conn(ctx, r.db, tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("code = ?", code).
		First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &room, nil
}

// Save сохраняет все поля комнаты
func (r *RoomRepo) Save(ctx context.Context, tx *gorm.DB, room *entity.Room) error {
	return conn(ctx, r.db, tx).Omit(clause.Associations).Save(room).Error
}

// ListOpen возвращает комнаты, к которым можно присоединиться
func (r *RoomRepo) ListOpen(ctx context.Context, limit int) ([]entity.Room, error) {
	var rooms []entity.Room
	err := r.db.WithContext(ctx).
		Where("status IN ?", []string{entity.RoomStatusWaiting, entity.RoomStatusReady}).
		Order("created_at DESC").
		Limit(limit).
		Find(&rooms).Error
	return rooms, err
}

// ListByParticipant возвращает комнаты пользователя: созданные им или где он игрок
func (r *RoomRepo) ListByParticipant(ctx context.Context, userID uint, limit int) ([]entity.Room, error) {
	var rooms []entity.Room
	err := r.db.WithContext(ctx).
		Where("created_by_id = ? OR player1_id = ? OR player2_id = ?", userID, userID, userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rooms).Error
	return rooms, err
}
