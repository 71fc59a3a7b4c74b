package entity

import (
	"time"
)

// GameSession: прохождение одиночной игры пользователем
type GameSession struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index:idx_game_sessions_user_game,priority:1" json:"user_id"`
	GameID      uint       `gorm:"not null;index:idx_game_sessions_user_game,priority:2" json:"game_id"`
	Score       int        `gorm:"not null;default:0" json:"score"`
	TotalPoints int        `gorm:"not null;default:0" json:"total_points"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	StartedAt   time.Time  `gorm:"not null" json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// TableName определяет имя таблицы для GORM
func (GameSession) TableName() string {
	return "game_sessions"
}

// SessionAnswer: ответ на вопрос в рамках прохождения, по одному на вопрос
type SessionAnswer struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SessionID    uint      `gorm:"not null;uniqueIndex:idx_session_question,priority:1" json:"session_id"`
	QuestionID   uint      `gorm:"not null;uniqueIndex:idx_session_question,priority:2" json:"question_id"`
	AnswerID     uint      `gorm:"not null" json:"answer_id"`
	IsCorrect    bool      `gorm:"not null" json:"is_correct"`
	PointsEarned int       `gorm:"not null;default:0" json:"points_earned"`
	AnsweredAt   time.Time `gorm:"not null" json:"answered_at"`
}

// TableName определяет имя таблицы для GORM
func (SessionAnswer) TableName() string {
	return "game_session_answers"
}

// NextUnanswered возвращает первый по порядку вопрос без ответа или nil, если отвечены все
func NextUnanswered(questions []Question, answers []SessionAnswer) *Question {
	answered := make(map[uint]struct{}, len(answers))
	for _, a := range answers {
		answered[a.QuestionID] = struct{}{}
	}
	for i := range questions {
		if _, ok := answered[questions[i].ID]; !ok {
			return &questions[i]
		}
	}
	return nil
}

// TotalPointValue суммирует стоимость вопросов: максимум очков за прохождение
func TotalPointValue(questions []Question) int {
	total := 0
	for _, q := range questions {
		total += q.PointValue
	}
	return total
}
