package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/legalgames-api/internal/domain/entity"
	"github.com/yourusername/legalgames-api/internal/handler/helper"
)

// QuestionResponse: вопрос дуэли без отметок о верных ответах
type QuestionResponse struct {
	ID           uint                    `json:"id"`
	Text         string                  `json:"text"`
	Options      []helper.QuestionOption `json:"options"`
	TimeLimitSec int                     `json:"time_limit_sec"`
	PointValue   int                     `json:"point_value"`
}

// MatchResponse представляет дуэль в формате для ответа клиенту
type MatchResponse struct {
	ID              uuid.UUID          `json:"id"`
	Status          string             `json:"status"`
	Player1ID       uint               `json:"player1_id"`
	Player2ID       *uint              `json:"player2_id"`
	QuestionNumber  int                `json:"question_number"`
	TotalQuestions  int                `json:"total_questions"`
	Player1Score    int                `json:"player1_score"`
	Player2Score    int                `json:"player2_score"`
	WinnerID        *uint              `json:"winner_id"`
	CurrentQuestion *QuestionResponse  `json:"current_question,omitempty"`
	AnsweredCurrent bool               `json:"answered_current"`
	MyAnswers       []MyAnswerResponse `json:"my_answers,omitempty"`
	StartedAt       *time.Time         `json:"started_at,omitempty"`
	CompletedAt     *time.Time         `json:"completed_at,omitempty"`
}

// MyAnswerResponse: принятый ответ игрока
type MyAnswerResponse struct {
	QuestionID   uint `json:"question_id"`
	AnswerID     uint `json:"answer_id"`
	IsCorrect    bool `json:"is_correct"`
	PointsEarned int  `json:"points_earned"`
}

// AnswerResultResponse: итог ответа игрока
type AnswerResultResponse struct {
	IsCorrect    bool   `json:"is_correct"`
	PointsEarned int    `json:"points_earned"`
	PlayerScore  int    `json:"player_score"`
	TimeExceeded bool   `json:"time_exceeded"`
	Explanation  string `json:"explanation,omitempty"`
}

// NewQuestionResponse создает DTO вопроса
func NewQuestionResponse(q *entity.Question) *QuestionResponse {
	if q == nil {
		return nil
	}
	return &QuestionResponse{
		ID:           q.ID,
		Text:         q.Text,
		Options:      helper.ConvertAnswersToOptions(q.Answers),
		TimeLimitSec: q.TimeLimitSec,
		PointValue:   q.PointValue,
	}
}

// NewMatchResponse создает DTO дуэли; question может быть nil
func NewMatchResponse(m *entity.QuizMatch, question *entity.Question) *MatchResponse {
	return &MatchResponse{
		ID:              m.ID,
		Status:          m.Status,
		Player1ID:       m.Player1ID,
		Player2ID:       m.Player2ID,
		QuestionNumber:  m.QuestionNumber,
		TotalQuestions:  m.TotalQuestions,
		Player1Score:    m.Player1Score,
		Player2Score:    m.Player2Score,
		WinnerID:        m.WinnerID,
		CurrentQuestion: NewQuestionResponse(question),
		StartedAt:       m.StartedAt,
		CompletedAt:     m.CompletedAt,
	}
}

// NewMyAnswersResponse создает список принятых ответов игрока
func NewMyAnswersResponse(answers []entity.MatchAnswer) []MyAnswerResponse {
	out := make([]MyAnswerResponse, 0, len(answers))
	for _, a := range answers {
		out = append(out, MyAnswerResponse{
			QuestionID:   a.QuestionID,
			AnswerID:     a.AnswerID,
			IsCorrect:    a.IsCorrect,
			PointsEarned: a.PointsEarned,
		})
	}
	return out
}
