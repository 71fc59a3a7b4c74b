package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yourusername/legalgames-api/internal/domain/entity"
	"github.com/yourusername/legalgames-api/internal/handler/dto"
	"github.com/yourusername/legalgames-api/internal/service"
)

// MatchService: операции над дуэлями, нужные обработчику
type MatchService interface {
	Enqueue(ctx context.Context, playerID uint) (*entity.QuizMatch, error)
	GetMatch(ctx context.Context, matchID uuid.UUID, playerID uint) (*service.MatchView, error)
	SubmitAnswer(ctx context.Context, matchID uuid.UUID, playerID, questionID, answerID uint, timeTaken time.Duration) (*service.AnswerResult, error)
	AdvanceQuestion(ctx context.Context, matchID uuid.UUID, actor service.Actor, nextQuestionID *uint) (*entity.QuizMatch, error)
	CancelSearch(ctx context.Context, matchID uuid.UUID, playerID uint) (*entity.QuizMatch, error)
}

// MatchHandler обрабатывает запросы дуэлей
type MatchHandler struct {
	matches MatchService
}

// NewMatchHandler создает обработчик дуэлей
func NewMatchHandler(matches MatchService) *MatchHandler {
	return &MatchHandler{matches: matches}
}

// SubmitAnswerRequest: ответ на текущий вопрос
type SubmitAnswerRequest struct {
	QuestionID  uint  `json:"question_id" binding:"required"`
	AnswerID    uint  `json:"answer_id" binding:"required"`
	TimeTakenMs int64 `json:"time_taken_ms" binding:"min=0"`
}

// AdvanceQuestionRequest: переход к следующему вопросу; без ID вопрос выбирается случайно
type AdvanceQuestionRequest struct {
	NextQuestionID *uint `json:"next_question_id"`
}

// Enqueue ставит игрока в очередь подбора
// POST /api/matches/queue
func (h *MatchHandler) Enqueue(c *gin.Context) {
	actor, ok := requireActor(c, "MatchHandler")
	if !ok {
		return
	}

	match, err := h.matches.Enqueue(c.Request.Context(), actor.UserID)
	if err != nil {
		handleGameError(c, "MatchHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewMatchResponse(match, nil))
}

// GetMatch возвращает состояние дуэли с текущим вопросом
// GET /api/matches/:id
func (h *MatchHandler) GetMatch(c *gin.Context) {
	actor, ok := requireActor(c, "MatchHandler")
	if !ok {
		return
	}
	matchID := c.MustGet("matchID").(uuid.UUID)

	h.respondWithView(c, matchID, actor.UserID)
}

// SubmitAnswer принимает ответ игрока
// POST /api/matches/:id/answers
func (h *MatchHandler) SubmitAnswer(c *gin.Context) {
	actor, ok := requireActor(c, "MatchHandler")
	if !ok {
		return
	}
	matchID := c.MustGet("matchID").(uuid.UUID)

	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	timeTaken := time.Duration(req.TimeTakenMs) * time.Millisecond
	result, err := h.matches.SubmitAnswer(c.Request.Context(), matchID, actor.UserID, req.QuestionID, req.AnswerID, timeTaken)
	if err != nil {
		handleGameError(c, "MatchHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.AnswerResultResponse{
		IsCorrect:    result.IsCorrect,
		PointsEarned: result.PointsEarned,
		PlayerScore:  result.PlayerScore,
		TimeExceeded: result.TimeExceeded,
		Explanation:  result.Explanation,
	})
}

// AdvanceQuestion начинает дуэль или переходит к следующему вопросу
// POST /api/matches/:id/advance
func (h *MatchHandler) AdvanceQuestion(c *gin.Context) {
	actor, ok := requireActor(c, "MatchHandler")
	if !ok {
		return
	}
	matchID := c.MustGet("matchID").(uuid.UUID)

	var req AdvanceQuestionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if _, err := h.matches.AdvanceQuestion(c.Request.Context(), matchID, actor, req.NextQuestionID); err != nil {
		handleGameError(c, "MatchHandler", err)
		return
	}
	h.respondWithView(c, matchID, actor.UserID)
}

// CancelSearch отменяет поиск соперника
// POST /api/matches/:id/cancel
func (h *MatchHandler) CancelSearch(c *gin.Context) {
	actor, ok := requireActor(c, "MatchHandler")
	if !ok {
		return
	}
	matchID := c.MustGet("matchID").(uuid.UUID)

	match, err := h.matches.CancelSearch(c.Request.Context(), matchID, actor.UserID)
	if err != nil {
		handleGameError(c, "MatchHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewMatchResponse(match, nil))
}

func (h *MatchHandler) respondWithView(c *gin.Context, matchID uuid.UUID, userID uint) {
	view, err := h.matches.GetMatch(c.Request.Context(), matchID, userID)
	if err != nil {
		handleGameError(c, "MatchHandler", err)
		return
	}
	resp := dto.NewMatchResponse(view.Match, view.CurrentQuestion)
	resp.AnsweredCurrent = view.AnsweredCurrent
	resp.MyAnswers = dto.NewMyAnswersResponse(view.MyAnswers)
	c.JSON(http.StatusOK, resp)
}
