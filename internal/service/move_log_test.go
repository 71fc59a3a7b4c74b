package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/legalgames-api/internal/domain/entity"
	apperrors "github.com/yourusername/legalgames-api/internal/pkg/errors"
)

func activeRoom(code string) *entity.Room {
	return &entity.Room{
		ID:            10,
		Code:          code,
		Status:        entity.RoomStatusActive,
		CreatedByID:   1,
		Player1ID:     uintPtr(1),
		Player2ID:     uintPtr(2),
		CurrentTurnID: uintPtr(1),
	}
}

func TestMoveLog_RecordMove_Success(t *testing.T) {
	// Arrange
	roomRepo := new(MockRoomRepository)
	moveRepo := new(MockMoveRepository)
	roomRepo.On("GetByCodeForUpdate", mock.Anything, mock.Anything, "ROOM01").Return(activeRoom("ROOM01"), nil)
	moveRepo.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("*entity.Move")).
		Run(func(args mock.Arguments) {
			args.Get(2).(*entity.Move).ID = 101
		}).Return(nil)
	log := NewMoveLog(roomRepo, moveRepo, nil, &passThroughTx{})

	// Act
	move, err := log.RecordMove(context.Background(), "room01", 2, "objection", json.RawMessage(`{"reason":"hearsay"}`))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(101), move.ID)
	assert.Equal(t, uint(10), move.RoomID)
	assert.Equal(t, uint(2), move.PlayerID)
	assert.Equal(t, "objection", move.MoveType)
	assert.JSONEq(t, `{"reason":"hearsay"}`, string(move.Payload))
	moveRepo.AssertExpectations(t)
}

func TestMoveLog_RecordMove_EmptyPayloadBecomesObject(t *testing.T) {
	roomRepo := new(MockRoomRepository)
	moveRepo := new(MockMoveRepository)
	roomRepo.On("GetByCodeForUpdate", mock.Anything, mock.Anything, "ROOM01").Return(activeRoom("ROOM01"), nil)
	moveRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	log := NewMoveLog(roomRepo, moveRepo, nil, &passThroughTx{})

	move, err := log.RecordMove(context.Background(), "ROOM01", 1, "rest", nil)

	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(move.Payload))
}

func TestMoveLog_RecordMove_Errors(t *testing.T) {
	waiting := activeRoom("ROOM02")
	waiting.Status = entity.RoomStatusReady

	tests := []struct {
		name     string
		room     *entity.Room
		player   uint
		moveType string
		payload  string
		wantErr  error
	}{
		{name: "Не игрок комнаты", room: activeRoom("ROOM01"), player: 99, moveType: "argue", payload: `{}`, wantErr: apperrors.ErrForbidden},
		{name: "Комната не активна", room: waiting, player: 1, moveType: "argue", payload: `{}`, wantErr: apperrors.ErrInvalidTransition},
		{name: "Пустой тип хода", room: activeRoom("ROOM01"), player: 1, moveType: "  ", payload: `{}`, wantErr: apperrors.ErrValidation},
		{name: "Невалидный JSON", room: activeRoom("ROOM01"), player: 1, moveType: "argue", payload: `{oops`, wantErr: apperrors.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roomRepo := new(MockRoomRepository)
			moveRepo := new(MockMoveRepository)
			roomRepo.On("GetByCodeForUpdate", mock.Anything, mock.Anything, tt.room.Code).Return(tt.room, nil)
			log := NewMoveLog(roomRepo, moveRepo, nil, &passThroughTx{})

			move, err := log.RecordMove(context.Background(), tt.room.Code, tt.player, tt.moveType, json.RawMessage(tt.payload))

			assert.Nil(t, move)
			assert.ErrorIs(t, err, tt.wantErr)
			moveRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestMoveLog_MovesSince_BatchesAndStops(t *testing.T) {
	// Arrange: размер пачки 2, в журнале 3 хода после курсора 5
	roomRepo := new(MockRoomRepository)
	moveRepo := new(MockMoveRepository)
	presence := new(MockPresenceRepository)
	roomRepo.On("GetByCode", mock.Anything, "ROOM01").Return(activeRoom("ROOM01"), nil)
	presence.On("Touch", mock.Anything, "ROOM01", uint(1)).Return(nil)
	moveRepo.On("ListAfter", mock.Anything, uint(10), uint(5), 2).Return([]entity.Move{{ID: 6}, {ID: 7}}, nil).Once()
	moveRepo.On("ListAfter", mock.Anything, uint(10), uint(7), 2).Return([]entity.Move{{ID: 9}}, nil).Once()
	log := NewMoveLog(roomRepo, moveRepo, presence, &passThroughTx{})
	log.batchSize = 2

	// Act
	seq, err := log.MovesSince(context.Background(), "ROOM01", 1, 5)
	require.NoError(t, err)
	var ids []uint
	for m, err := range seq {
		require.NoError(t, err)
		ids = append(ids, m.ID)
	}

	// Assert
	assert.Equal(t, []uint{6, 7, 9}, ids)
	moveRepo.AssertExpectations(t)
	presence.AssertExpectations(t)
}

func TestMoveLog_MovesSince_EarlyBreakSkipsFetch(t *testing.T) {
	roomRepo := new(MockRoomRepository)
	moveRepo := new(MockMoveRepository)
	roomRepo.On("GetByCode", mock.Anything, "ROOM01").Return(activeRoom("ROOM01"), nil)
	moveRepo.On("ListAfter", mock.Anything, uint(10), uint(0), 2).Return([]entity.Move{{ID: 1}, {ID: 2}}, nil).Once()
	log := NewMoveLog(roomRepo, moveRepo, nil, &passThroughTx{})
	log.batchSize = 2

	seq, err := log.MovesSince(context.Background(), "ROOM01", 2, 0)
	require.NoError(t, err)
	for m := range seq {
		assert.Equal(t, uint(1), m.ID)
		break
	}

	moveRepo.AssertNumberOfCalls(t, "ListAfter", 1)
}

func TestMoveLog_MovesSince_PropagatesStoreError(t *testing.T) {
	roomRepo := new(MockRoomRepository)
	moveRepo := new(MockMoveRepository)
	roomRepo.On("GetByCode", mock.Anything, "ROOM01").Return(activeRoom("ROOM01"), nil)
	moveRepo.On("ListAfter", mock.Anything, uint(10), uint(0), defaultMoveBatchSize).Return(nil, errors.New("db down"))
	log := NewMoveLog(roomRepo, moveRepo, nil, &passThroughTx{})

	seq, err := log.MovesSince(context.Background(), "ROOM01", 1, 0)
	require.NoError(t, err)
	var gotErr error
	for _, err := range seq {
		gotErr = err
	}
	assert.EqualError(t, gotErr, "db down")
}

func TestMoveLog_MovesSince_NonParticipant(t *testing.T) {
	roomRepo := new(MockRoomRepository)
	roomRepo.On("GetByCode", mock.Anything, "ROOM01").Return(activeRoom("ROOM01"), nil)
	log := NewMoveLog(roomRepo, new(MockMoveRepository), nil, &passThroughTx{})

	seq, err := log.MovesSince(context.Background(), "ROOM01", 42, 0)

	assert.Nil(t, seq)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
