package dto

import (
	"time"

	"github.com/yourusername/legalgames-api/internal/domain/entity"
	"github.com/yourusername/legalgames-api/internal/service"
)

// GameResponse: карточка игры в каталоге
type GameResponse struct {
	ID                uint   `json:"id"`
	GameType          string `json:"game_type"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	PointsPerQuestion int    `json:"points_per_question"`
}

// GameDetailResponse: игра со сценарием и размером набора вопросов
type GameDetailResponse struct {
	GameResponse
	Scenario      string `json:"scenario"`
	QuestionCount int    `json:"question_count"`
}

// ReviewItemResponse: разбор отвеченного вопроса
type ReviewItemResponse struct {
	QuestionID   uint   `json:"question_id"`
	QuestionText string `json:"question_text"`
	AnswerID     uint   `json:"answer_id"`
	AnswerText   string `json:"answer_text"`
	IsCorrect    bool   `json:"is_correct"`
	PointsEarned int    `json:"points_earned"`
	Explanation  string `json:"explanation,omitempty"`
}

// SessionResponse: прохождение игры глазами игрока
type SessionResponse struct {
	ID              uint                 `json:"id"`
	Game            *GameResponse        `json:"game,omitempty"`
	Score           int                  `json:"score"`
	TotalPoints     int                  `json:"total_points"`
	Completed       bool                 `json:"completed"`
	Progress        int                  `json:"progress"`
	Answered        int                  `json:"answered"`
	TotalQuestions  int                  `json:"total_questions"`
	CurrentQuestion *QuestionResponse    `json:"current_question,omitempty"`
	Review          []ReviewItemResponse `json:"review"`
	StartedAt       time.Time            `json:"started_at"`
	CompletedAt     *time.Time           `json:"completed_at,omitempty"`
}

// SessionAnswerResponse: итог ответа в одиночной игре
type SessionAnswerResponse struct {
	IsCorrect      bool   `json:"is_correct"`
	PointsEarned   int    `json:"points_earned"`
	Score          int    `json:"score"`
	Explanation    string `json:"explanation,omitempty"`
	Completed      bool   `json:"completed"`
	NextQuestionID *uint  `json:"next_question_id"`
}

// NewGameResponse создает DTO игры
func NewGameResponse(g *entity.Game) *GameResponse {
	if g == nil {
		return nil
	}
	return &GameResponse{
		ID:                g.ID,
		GameType:          g.GameType,
		Title:             g.Title,
		Description:       g.Description,
		PointsPerQuestion: g.PointsPerQuestion,
	}
}

// NewGameListResponse создает список карточек игр
func NewGameListResponse(games []entity.Game) []GameResponse {
	out := make([]GameResponse, 0, len(games))
	for i := range games {
		out = append(out, *NewGameResponse(&games[i]))
	}
	return out
}

// NewGameDetailResponse создает DTO игры с числом вопросов
func NewGameDetailResponse(d *service.GameDetails) *GameDetailResponse {
	return &GameDetailResponse{
		GameResponse:  *NewGameResponse(d.Game),
		Scenario:      d.Game.Scenario,
		QuestionCount: d.QuestionCount,
	}
}

// NewSessionResponse создает DTO прохождения
func NewSessionResponse(v *service.SessionView) *SessionResponse {
	resp := &SessionResponse{
		ID:              v.Session.ID,
		Game:            NewGameResponse(v.Game),
		Score:           v.Session.Score,
		TotalPoints:     v.Session.TotalPoints,
		Completed:       v.Session.Completed,
		Progress:        v.Progress(),
		Answered:        v.Answered,
		TotalQuestions:  v.TotalQuestions,
		CurrentQuestion: NewQuestionResponse(v.CurrentQuestion),
		Review:          make([]ReviewItemResponse, 0, len(v.Review)),
		StartedAt:       v.Session.StartedAt,
		CompletedAt:     v.Session.CompletedAt,
	}
	for _, item := range v.Review {
		resp.Review = append(resp.Review, ReviewItemResponse(item))
	}
	return resp
}

// NewSessionAnswerResponse создает DTO итога ответа
func NewSessionAnswerResponse(r *service.SessionAnswerResult) *SessionAnswerResponse {
	return &SessionAnswerResponse{
		IsCorrect:      r.IsCorrect,
		PointsEarned:   r.PointsEarned,
		Score:          r.Score,
		Explanation:    r.Explanation,
		Completed:      r.Completed,
		NextQuestionID: r.NextQuestionID,
	}
}
