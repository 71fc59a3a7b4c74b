package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/legalgames-api/internal/domain/entity"
	"github.com/yourusername/legalgames-api/internal/service"
)

// QuestionCreator: пополнение банка вопросов
type QuestionCreator interface {
	CreateQuestion(ctx context.Context, input service.QuestionInput) (*entity.Question, error)
}

// QuestionHandler обрабатывает запросы к банку вопросов (только для сотрудников)
type QuestionHandler struct {
	questions QuestionCreator
}

// NewQuestionHandler создает обработчик банка вопросов
func NewQuestionHandler(questions QuestionCreator) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

// CreateQuestionRequest: новый вопрос с вариантами ответа
type CreateQuestionRequest struct {
	Text         string `json:"text" binding:"required,min=3,max=1000"`
	PointValue   int    `json:"point_value" binding:"omitempty,min=1,max=1000"`
	TimeLimitSec int    `json:"time_limit_sec" binding:"omitempty,min=1,max=600"`
	GameID       *uint  `json:"game_id" binding:"omitempty,min=1"`
	SortOrder    int    `json:"sort_order" binding:"omitempty,min=0"`
	Answers      []struct {
		Text        string `json:"text" binding:"required,max=500"`
		IsCorrect   bool   `json:"is_correct"`
		Explanation string `json:"explanation" binding:"omitempty,max=1000"`
	} `json:"answers" binding:"required,min=2,max=6,dive"`
}

// CreateQuestion добавляет вопрос в банк
// POST /api/questions
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := service.QuestionInput{
		Text:         req.Text,
		PointValue:   req.PointValue,
		TimeLimitSec: req.TimeLimitSec,
		GameID:       req.GameID,
		SortOrder:    req.SortOrder,
		Answers:      make([]service.AnswerInput, 0, len(req.Answers)),
	}
	for _, a := range req.Answers {
		input.Answers = append(input.Answers, service.AnswerInput{
			Text:        a.Text,
			IsCorrect:   a.IsCorrect,
			Explanation: a.Explanation,
		})
	}

	question, err := h.questions.CreateQuestion(c.Request.Context(), input)
	if err != nil {
		handleGameError(c, "QuestionHandler", err)
		return
	}

	// Сотрудник видит вопрос целиком, включая отметку верного ответа
	answers := make([]gin.H, 0, len(question.Answers))
	for _, a := range question.Answers {
		answers = append(answers, gin.H{"id": a.ID, "text": a.Text, "is_correct": a.IsCorrect, "explanation": a.Explanation})
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":             question.ID,
		"text":           question.Text,
		"point_value":    question.PointValue,
		"time_limit_sec": question.TimeLimitSec,
		"game_id":        question.GameID,
		"sort_order":     question.SortOrder,
		"answers":        answers,
	})
}
