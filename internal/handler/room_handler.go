package handler

import (
	"context"
	"encoding/json"
	"iter"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/legalgames-api/internal/domain/entity"
	"github.com/yourusername/legalgames-api/internal/handler/dto"
	"github.com/yourusername/legalgames-api/internal/service"
)

const (
	defaultMovePageLimit = 50
	maxMovePageLimit     = 200
)

// RoomService: операции над комнатами, нужные обработчику
type RoomService interface {
	CreateRoom(ctx context.Context, creatorID uint, title, scenario string) (*entity.Room, error)
	JoinRoom(ctx context.Context, code string, userID uint) (*entity.Room, error)
	EnterRoom(ctx context.Context, code string, userID uint) (*service.RoomView, error)
	AssignRole(ctx context.Context, code string, userID uint, role string) (*entity.Room, error)
	CompleteRoom(ctx context.Context, code string, actor service.Actor, player1Score, player2Score int) (*entity.Room, error)
	ListLobby(ctx context.Context, userID uint) (*service.Lobby, error)
}

// MoveJournal: журнал ходов
type MoveJournal interface {
	RecordMove(ctx context.Context, code string, playerID uint, moveType string, payload json.RawMessage) (*entity.Move, error)
	MovesSince(ctx context.Context, code string, userID uint, cursor uint) (iter.Seq2[entity.Move, error], error)
}

// TurnService: передача хода
type TurnService interface {
	AdvanceTurn(ctx context.Context, code string, actorID uint) (*entity.Room, error)
	PlayTurn(ctx context.Context, code string, actorID uint, moveType string, payload json.RawMessage) (*entity.Move, *entity.Room, error)
}

// RoomHandler обрабатывает запросы к игровым комнатам
type RoomHandler struct {
	rooms    RoomService
	moves    MoveJournal
	turns    TurnService
	pageSize int
}

// NewRoomHandler создает обработчик комнат. pageSize: число ходов в ответе по умолчанию.
func NewRoomHandler(rooms RoomService, moves MoveJournal, turns TurnService, pageSize int) *RoomHandler {
	if pageSize < 1 || pageSize > maxMovePageLimit {
		pageSize = defaultMovePageLimit
	}
	return &RoomHandler{rooms: rooms, moves: moves, turns: turns, pageSize: pageSize}
}

// CreateRoomRequest: запрос на создание комнаты
type CreateRoomRequest struct {
	Title    string `json:"title" binding:"omitempty,max=200"`
	Scenario string `json:"scenario" binding:"omitempty,max=5000"`
}

// JoinRoomRequest: вход по коду приглашения
type JoinRoomRequest struct {
	Code string `json:"code" binding:"required,min=4,max=8"`
}

// AssignRoleRequest: выбор роли
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// RecordMoveRequest: новый ход
type RecordMoveRequest struct {
	MoveType string          `json:"move_type" binding:"required,max=50"`
	Payload  json.RawMessage `json:"payload"`
}

// CompleteRoomRequest: итоговый счёт игры
type CompleteRoomRequest struct {
	Player1Score int `json:"player1_score" binding:"min=0"`
	Player2Score int `json:"player2_score" binding:"min=0"`
}

// CreateRoom создаёт комнату
// POST /api/rooms
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	actor, ok := requireActor(c, "RoomHandler")
	if !ok {
		return
	}

	var req CreateRoomRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	room, err := h.rooms.CreateRoom(c.Request.Context(), actor.UserID, req.Title, req.Scenario)
	if err != nil {
		handleGameError(c, "RoomHandler", err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewRoomResponse(room))
}

// JoinRoom присоединяет пользователя к комнате по коду
// POST /api/rooms/join
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	actor, ok := requireActor(c, "RoomHandler")
	if !ok {
		return
	}

	var req JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.rooms.JoinRoom(c.Request.Context(), req.Code, actor.UserID)
	if err != nil {
		handleGameError(c, "RoomHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewRoomResponse(room))
}

// ListRooms возвращает лобби: открытые комнаты и комнаты пользователя
// GET /api/rooms
func (h *RoomHandler) ListRooms(c *gin.Context) {
	actor, ok := requireActor(c, "RoomHandler")
	if !ok {
		return
	}

	lobby, err := h.rooms.ListLobby(c.Request.Context(), actor.UserID)
	if err != nil {
		handleGameError(c, "RoomHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.LobbyResponse{
		Open: dto.NewRoomListResponse(lobby.Open),
		Mine: dto.NewRoomListResponse(lobby.Mine),
	})
}

// GetRoom открывает комнату для участника вместе с первой страницей журнала ходов
// GET /api/rooms/:code
func (h *RoomHandler) GetRoom(c *gin.Context) {
	actor, ok := requireActor(c, "RoomHandler")
	if !ok {
		return
	}
	code := c.MustGet("roomCode").(string)

	view, err := h.rooms.EnterRoom(c.Request.Context(), code, actor.UserID)
	if err != nil {
		handleGameError(c, "RoomHandler", err)
		return
	}

	page, err := h.collectMoves(c, code, actor.UserID, 0, h.pageSize)
	if err != nil {
		handleGameError(c, "RoomHandler", err)
		return
	}

	c.JSON(http.StatusOK, dto.RoomViewResponse{
		Room:           dto.NewRoomResponse(view.Room),
		Seat:           view.Seat,
		Role:           view.Role,
		IsMyTurn:       view.Room.IsTurnOf(actor.UserID),
		OpponentOnline: view.OpponentOnline,
		Moves:          page.Moves,
		NextCursor:     page.NextCursor,
	})
}

// AssignRole выбирает роль игрока
// PUT /api/rooms/:code/role
func (h *RoomHandler) AssignRole(c *gin.Context) {
	actor, ok := requireActor(c, "RoomHandler")
	if !ok {
		return
	}
	code := c.MustGet("roomCode").(string)

	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.rooms.AssignRole(c.Request.Context(), code, actor.UserID, req.Role)
	if err != nil {
		handleGameError(c, "RoomHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewRoomResponse(room))
}

// RecordMove записывает ход без передачи очереди
// POST /api/rooms/:code/moves
func (h *RoomHandler) RecordMove(c *gin.Context) {
	actor, ok := requireActor(c, "RoomHandler")
	if !ok {
		return
	}
	code := c.MustGet("roomCode").(string)

	var req RecordMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	move, err := h.moves.RecordMove(c.Request.Context(), code, actor.UserID, req.MoveType, req.Payload)
	if err != nil {
		handleGameError(c, "RoomHandler", err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewMoveResponse(move))
}

// ListMoves возвращает ходы после курсора ?after= (не более ?limit=)
// GET /api/rooms/:code/moves
func (h *RoomHandler) ListMoves(c *gin.Context) {
	actor, ok := requireActor(c, "RoomHandler")
	if !ok {
		return
	}
	code := c.MustGet("roomCode").(string)

	after, err := strconv.ParseUint(c.DefaultQuery("after", "0"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid after"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.pageSize)))
	if err != nil || limit < 1 || limit > maxMovePageLimit {
		limit = h.pageSize
	}

	page, err := h.collectMoves(c, code, actor.UserID, uint(after), limit)
	if err != nil {
		handleGameError(c, "RoomHandler", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// AdvanceTurn передаёт ход сопернику
// POST /api/rooms/:code/turn
func (h *RoomHandler) AdvanceTurn(c *gin.Context) {
	actor, ok := requireActor(c, "RoomHandler")
	if !ok {
		return
	}
	code := c.MustGet("roomCode").(string)

	room, err := h.turns.AdvanceTurn(c.Request.Context(), code, actor.UserID)
	if err != nil {
		handleGameError(c, "RoomHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewRoomResponse(room))
}

// PlayTurn записывает ход и сразу передаёт очередь
// POST /api/rooms/:code/play
func (h *RoomHandler) PlayTurn(c *gin.Context) {
	actor, ok := requireActor(c, "RoomHandler")
	if !ok {
		return
	}
	code := c.MustGet("roomCode").(string)

	var req RecordMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	move, room, err := h.turns.PlayTurn(c.Request.Context(), code, actor.UserID, req.MoveType, req.Payload)
	if err != nil {
		handleGameError(c, "RoomHandler", err)
		return
	}
	resp := dto.NewMoveResponse(move)
	c.JSON(http.StatusCreated, dto.PlayTurnResponse{Move: &resp, Room: dto.NewRoomResponse(room)})
}

// CompleteRoom завершает игру с итоговым счётом
// POST /api/rooms/:code/complete
func (h *RoomHandler) CompleteRoom(c *gin.Context) {
	actor, ok := requireActor(c, "RoomHandler")
	if !ok {
		return
	}
	code := c.MustGet("roomCode").(string)

	var req CompleteRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.rooms.CompleteRoom(c.Request.Context(), code, actor, req.Player1Score, req.Player2Score)
	if err != nil {
		handleGameError(c, "RoomHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewRoomResponse(room))
}

// collectMoves читает из последовательности не более limit ходов
func (h *RoomHandler) collectMoves(c *gin.Context, code string, userID, after uint, limit int) (*dto.MovePageResponse, error) {
	seq, err := h.moves.MovesSince(c.Request.Context(), code, userID, after)
	if err != nil {
		return nil, err
	}

	page := &dto.MovePageResponse{Moves: make([]dto.MoveResponse, 0), NextCursor: after}
	for move, err := range seq {
		if err != nil {
			return nil, err
		}
		if len(page.Moves) == limit {
			page.HasMore = true
			break
		}
		page.Moves = append(page.Moves, dto.NewMoveResponse(&move))
		page.NextCursor = move.ID
	}
	return page, nil
}
