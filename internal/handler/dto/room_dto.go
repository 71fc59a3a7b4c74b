package dto

import (
	"encoding/json"
	"time"

	"github.com/yourusername/legalgames-api/internal/domain/entity"
)

// RoomResponse представляет комнату в формате для ответа клиенту
type RoomResponse struct {
	Code          string     `json:"code"`
	Title         string     `json:"title"`
	Scenario      string     `json:"scenario"`
	Status        string     `json:"status"`
	CreatedByID   uint       `json:"created_by_id"`
	Player1ID     *uint      `json:"player1_id"`
	Player1Role   string     `json:"player1_role,omitempty"`
	Player2ID     *uint      `json:"player2_id"`
	Player2Role   string     `json:"player2_role,omitempty"`
	CurrentTurnID *uint      `json:"current_turn_id"`
	Player1Score  int        `json:"player1_score"`
	Player2Score  int        `json:"player2_score"`
	WinnerID      *uint      `json:"winner_id"`
	CreatedAt     time.Time  `json:"created_at"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// RoomViewResponse: комната глазами игрока
type RoomViewResponse struct {
	Room           *RoomResponse  `json:"room"`
	Seat           int            `json:"seat"`
	Role           string         `json:"role,omitempty"`
	IsMyTurn       bool           `json:"is_my_turn"`
	OpponentOnline bool           `json:"opponent_online"`
	Moves          []MoveResponse `json:"moves"`
	NextCursor     uint           `json:"next_cursor"`
}

// LobbyResponse: открытые комнаты и комнаты пользователя
type LobbyResponse struct {
	Open []*RoomResponse `json:"open"`
	Mine []*RoomResponse `json:"mine"`
}

// MoveResponse представляет ход
type MoveResponse struct {
	ID        uint            `json:"id"`
	PlayerID  uint            `json:"player_id"`
	MoveType  string          `json:"move_type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// MovePageResponse: страница журнала ходов с курсором для следующего запроса
type MovePageResponse struct {
	Moves      []MoveResponse `json:"moves"`
	NextCursor uint           `json:"next_cursor"`
	HasMore    bool           `json:"has_more"`
}

// PlayTurnResponse: записанный ход и состояние комнаты после передачи хода
type PlayTurnResponse struct {
	Move *MoveResponse `json:"move"`
	Room *RoomResponse `json:"room"`
}

// NewRoomResponse создает DTO комнаты
func NewRoomResponse(room *entity.Room) *RoomResponse {
	if room == nil {
		return nil
	}
	return &RoomResponse{
		Code:          room.Code,
		Title:         room.Title,
		Scenario:      room.Scenario,
		Status:        room.Status,
		CreatedByID:   room.CreatedByID,
		Player1ID:     room.Player1ID,
		Player1Role:   room.Player1Role,
		Player2ID:     room.Player2ID,
		Player2Role:   room.Player2Role,
		CurrentTurnID: room.CurrentTurnID,
		Player1Score:  room.Player1Score,
		Player2Score:  room.Player2Score,
		WinnerID:      room.WinnerID,
		CreatedAt:     room.CreatedAt,
		StartedAt:     room.StartedAt,
		CompletedAt:   room.CompletedAt,
	}
}

// NewRoomListResponse создает список DTO комнат
func NewRoomListResponse(rooms []entity.Room) []*RoomResponse {
	out := make([]*RoomResponse, 0, len(rooms))
	for i := range rooms {
		out = append(out, NewRoomResponse(&rooms[i]))
	}
	return out
}

// NewMoveResponse создает DTO хода
func NewMoveResponse(move *entity.Move) MoveResponse {
	payload := json.RawMessage(move.Payload)
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}
	return MoveResponse{
		ID:        move.ID,
		PlayerID:  move.PlayerID,
		MoveType:  move.MoveType,
		Payload:   payload,
		CreatedAt: move.CreatedAt,
	}
}
