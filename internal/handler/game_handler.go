package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/legalgames-api/internal/domain/entity"
	"github.com/yourusername/legalgames-api/internal/handler/dto"
	"github.com/yourusername/legalgames-api/internal/service"
)

// GameService: каталог одиночных игр и их прохождение
type GameService interface {
	CreateGame(ctx context.Context, input service.GameInput) (*entity.Game, error)
	ListGames(ctx context.Context, gameType string) ([]entity.Game, error)
	GetGame(ctx context.Context, gameID uint) (*service.GameDetails, error)
	StartSession(ctx context.Context, userID, gameID uint) (*service.SessionView, error)
	GetSession(ctx context.Context, sessionID, userID uint) (*service.SessionView, error)
	AnswerQuestion(ctx context.Context, sessionID uint, actor service.Actor, questionID, answerID uint) (*service.SessionAnswerResult, error)
}

// GameHandler обрабатывает запросы одиночных игр
type GameHandler struct {
	games GameService
}

// NewGameHandler создает обработчик одиночных игр
func NewGameHandler(games GameService) *GameHandler {
	return &GameHandler{games: games}
}

// CreateGameRequest: новая игра каталога
type CreateGameRequest struct {
	GameType          string `json:"game_type" binding:"required,oneof=courtroom criminal_case quiz scenario"`
	Title             string `json:"title" binding:"required,max=200"`
	Description       string `json:"description" binding:"omitempty,max=2000"`
	Scenario          string `json:"scenario" binding:"omitempty,max=10000"`
	PointsPerQuestion int    `json:"points_per_question" binding:"omitempty,min=1,max=1000"`
}

// SessionAnswerRequest: ответ на текущий вопрос прохождения
type SessionAnswerRequest struct {
	QuestionID uint `json:"question_id" binding:"required"`
	AnswerID   uint `json:"answer_id" binding:"required"`
}

// ListGames возвращает активные игры
// GET /api/games?type=quiz
func (h *GameHandler) ListGames(c *gin.Context) {
	games, err := h.games.ListGames(c.Request.Context(), c.Query("type"))
	if err != nil {
		handleGameError(c, "GameHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewGameListResponse(games))
}

// GetGame возвращает игру со сценарием
// GET /api/games/:id
func (h *GameHandler) GetGame(c *gin.Context) {
	gameID := c.MustGet("gameID").(uint)

	details, err := h.games.GetGame(c.Request.Context(), gameID)
	if err != nil {
		handleGameError(c, "GameHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewGameDetailResponse(details))
}

// CreateGame добавляет игру в каталог
// POST /api/games
func (h *GameHandler) CreateGame(c *gin.Context) {
	var req CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game, err := h.games.CreateGame(c.Request.Context(), service.GameInput{
		GameType:          req.GameType,
		Title:             req.Title,
		Description:       req.Description,
		Scenario:          req.Scenario,
		PointsPerQuestion: req.PointsPerQuestion,
	})
	if err != nil {
		handleGameError(c, "GameHandler", err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewGameResponse(game))
}

// StartSession начинает или продолжает прохождение игры
// POST /api/games/:id/sessions
func (h *GameHandler) StartSession(c *gin.Context) {
	actor, ok := requireActor(c, "GameHandler")
	if !ok {
		return
	}
	gameID := c.MustGet("gameID").(uint)

	view, err := h.games.StartSession(c.Request.Context(), actor.UserID, gameID)
	if err != nil {
		handleGameError(c, "GameHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSessionResponse(view))
}

// GetSession возвращает прохождение с текущим вопросом и разбором
// GET /api/sessions/:id
func (h *GameHandler) GetSession(c *gin.Context) {
	actor, ok := requireActor(c, "GameHandler")
	if !ok {
		return
	}
	sessionID := c.MustGet("sessionID").(uint)

	view, err := h.games.GetSession(c.Request.Context(), sessionID, actor.UserID)
	if err != nil {
		handleGameError(c, "GameHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSessionResponse(view))
}

// AnswerQuestion принимает ответ на текущий вопрос
// POST /api/sessions/:id/answers
func (h *GameHandler) AnswerQuestion(c *gin.Context) {
	actor, ok := requireActor(c, "GameHandler")
	if !ok {
		return
	}
	sessionID := c.MustGet("sessionID").(uint)

	var req SessionAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.games.AnswerQuestion(c.Request.Context(), sessionID, actor, req.QuestionID, req.AnswerID)
	if err != nil {
		handleGameError(c, "GameHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSessionAnswerResponse(result))
}
