package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/yourusername/legalgames-api/internal/domain/entity"
	"github.com/yourusername/legalgames-api/internal/domain/repository"
	apperrors "github.com/yourusername/legalgames-api/internal/pkg/errors"
)

// TurnCoordinator передаёт ход между двумя игроками комнаты
type TurnCoordinator struct {
	roomRepo  repository.RoomRepository
	moveLog   *MoveLog
	txManager repository.TxManager
}

// NewTurnCoordinator создает координатор ходов
func NewTurnCoordinator(roomRepo repository.RoomRepository, moveLog *MoveLog, txManager repository.TxManager) *TurnCoordinator {
	return &TurnCoordinator{
		roomRepo:  roomRepo,
		moveLog:   moveLog,
		txManager: txManager,
	}
}

// AdvanceTurn передаёт ход сопернику. Передать может только текущий держатель хода.
func (c *TurnCoordinator) AdvanceTurn(ctx context.Context, code string, actorID uint) (*entity.Room, error) {
	code = NormalizeRoomCode(code)
	var updated *entity.Room
	err := c.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		room, err := c.roomRepo.GetByCodeForUpdate(ctx, tx, code)
		if err != nil {
			return err
		}
		if err := c.passTurn(ctx, tx, room, actorID); err != nil {
			return err
		}
		updated = room
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// PlayTurn записывает ход и передаёт очередь в одной транзакции
func (c *TurnCoordinator) PlayTurn(ctx context.Context, code string, actorID uint, moveType string, payload json.RawMessage) (*entity.Move, *entity.Room, error) {
	code = NormalizeRoomCode(code)
	moveType, data, err := validateMove(moveType, payload)
	if err != nil {
		return nil, nil, err
	}
	var (
		move    *entity.Move
		updated *entity.Room
	)
	err = c.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		room, err := c.roomRepo.GetByCodeForUpdate(ctx, tx, code)
		if err != nil {
			return err
		}
		if err := checkTurnHolder(room, actorID); err != nil {
			return err
		}
		move, err = c.moveLog.appendMove(ctx, tx, room, actorID, moveType, data)
		if err != nil {
			return err
		}
		if err := c.passTurn(ctx, tx, room, actorID); err != nil {
			return err
		}
		updated = room
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return move, updated, nil
}

// checkTurnHolder: комната активна, актор сидит и держит ход
func checkTurnHolder(room *entity.Room, actorID uint) error {
	if !room.IsActive() {
		return fmt.Errorf("%w: room %s is %s", apperrors.ErrInvalidTransition, room.Code, room.Status)
	}
	if !room.IsSeated(actorID) {
		return fmt.Errorf("%w: not seated in room %s", apperrors.ErrForbidden, room.Code)
	}
	if room.SeatedCount() < 2 {
		return nil
	}
	holder := room.CurrentTurnID
	if holder == nil {
		holder = room.Player1ID
	}
	if *holder != actorID {
		return apperrors.ErrNotYourTurn
	}
	return nil
}

func (c *TurnCoordinator) passTurn(ctx context.Context, tx *gorm.DB, room *entity.Room, actorID uint) error {
	if err := checkTurnHolder(room, actorID); err != nil {
		return err
	}
	next := room.OtherPlayer(actorID)
	if next == nil {
		// Одно место: передавать некому
		return nil
	}
	nextID := *next
	room.CurrentTurnID = &nextID
	if err := c.roomRepo.Save(ctx, tx, room); err != nil {
		return err
	}
	log.Printf("[TurnCoordinator] Комната %s: ход передан от %d к %d", room.Code, actorID, nextID)
	return nil
}
