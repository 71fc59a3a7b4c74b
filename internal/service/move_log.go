package service

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"log"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yourusername/legalgames-api/internal/domain/entity"
	"github.com/yourusername/legalgames-api/internal/domain/repository"
	apperrors "github.com/yourusername/legalgames-api/internal/pkg/errors"
)

const (
	maxMoveTypeLength    = 50
	defaultMoveBatchSize = 100
)

// MoveLog ведёт журнал ходов комнаты: только добавление и чтение вперёд от курсора
type MoveLog struct {
	roomRepo     repository.RoomRepository
	moveRepo     repository.MoveRepository
	presenceRepo repository.PresenceRepository
	txManager    repository.TxManager
	batchSize    int
}

// NewMoveLog создает журнал ходов
func NewMoveLog(
	roomRepo repository.RoomRepository,
	moveRepo repository.MoveRepository,
	presenceRepo repository.PresenceRepository,
	txManager repository.TxManager,
) *MoveLog {
	return &MoveLog{
		roomRepo:     roomRepo,
		moveRepo:     moveRepo,
		presenceRepo: presenceRepo,
		txManager:    txManager,
		batchSize:    defaultMoveBatchSize,
	}
}

// RecordMove добавляет ход сидящего игрока в активной комнате
func (l *MoveLog) RecordMove(ctx context.Context, code string, playerID uint, moveType string, payload json.RawMessage) (*entity.Move, error) {
	code = NormalizeRoomCode(code)
	moveType, data, err := validateMove(moveType, payload)
	if err != nil {
		return nil, err
	}
	var move *entity.Move
	err = l.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		room, err := l.roomRepo.GetByCodeForUpdate(ctx, tx, code)
		if err != nil {
			return err
		}
		move, err = l.appendMove(ctx, tx, room, playerID, moveType, data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return move, nil
}

// appendMove проверяет право на ход и пишет его в переданной транзакции
func (l *MoveLog) appendMove(ctx context.Context, tx *gorm.DB, room *entity.Room, playerID uint, moveType string, payload datatypes.JSON) (*entity.Move, error) {
	if !room.IsSeated(playerID) {
		return nil, fmt.Errorf("%w: not seated in room %s", apperrors.ErrForbidden, room.Code)
	}
	if !room.IsActive() {
		return nil, fmt.Errorf("%w: room %s is %s", apperrors.ErrInvalidTransition, room.Code, room.Status)
	}
	move := &entity.Move{
		RoomID:   room.ID,
		PlayerID: playerID,
		MoveType: moveType,
		Payload:  payload,
	}
	if err := l.moveRepo.Create(ctx, tx, move); err != nil {
		return nil, fmt.Errorf("append move: %w", err)
	}
	log.Printf("[MoveLog] Ход %d (%s) игрока %d в комнате %s", move.ID, moveType, playerID, room.Code)
	return move, nil
}

// MovesSince возвращает ленивую последовательность ходов после курсора (ID последнего увиденного хода).
// Последовательность конечна: она заканчивается на последнем записанном ходе.
func (l *MoveLog) MovesSince(ctx context.Context, code string, userID uint, cursor uint) (iter.Seq2[entity.Move, error], error) {
	code = NormalizeRoomCode(code)
	room, err := l.roomRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !room.IsParticipant(userID) {
		return nil, fmt.Errorf("%w: not a participant of room %s", apperrors.ErrForbidden, code)
	}
	if l.presenceRepo != nil && room.IsSeated(userID) {
		if err := l.presenceRepo.Touch(ctx, code, userID); err != nil {
			log.Printf("[MoveLog] Ошибка записи присутствия %d в комнате %s: %v", userID, code, err)
		}
	}

	roomID := room.ID
	return func(yield func(entity.Move, error) bool) {
		after := cursor
		for {
			batch, err := l.moveRepo.ListAfter(ctx, roomID, after, l.batchSize)
			if err != nil {
				yield(entity.Move{}, err)
				return
			}
			for _, m := range batch {
				if !yield(m, nil) {
					return
				}
				after = m.ID
			}
			if len(batch) < l.batchSize {
				return
			}
		}
	}, nil
}

// validateMove чистит тип хода и проверяет, что полезная нагрузка является JSON
func validateMove(moveType string, payload json.RawMessage) (string, datatypes.JSON, error) {
	moveType = sanitizeText(moveType)
	if moveType == "" {
		return "", nil, fmt.Errorf("%w: move type is required", apperrors.ErrValidation)
	}
	if len([]rune(moveType)) > maxMoveTypeLength {
		return "", nil, fmt.Errorf("%w: move type is longer than %d characters", apperrors.ErrValidation, maxMoveTypeLength)
	}
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}
	if !json.Valid(payload) {
		return "", nil, fmt.Errorf("%w: payload is not valid JSON", apperrors.ErrValidation)
	}
	return moveType, datatypes.JSON(payload), nil
}
