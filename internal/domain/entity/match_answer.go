package entity

import (
	"time"

	"github.com/google/uuid"
)

// MatchAnswer представляет ответ игрока на вопрос в рамках матча.
// Уникальность (match, player, question) гарантирует индекс idx_match_player_question.
type MatchAnswer struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	MatchID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_match_player_question,priority:1" json:"match_id"`
	PlayerID     uint      `gorm:"not null;uniqueIndex:idx_match_player_question,priority:2" json:"player_id"`
	QuestionID   uint      `gorm:"not null;uniqueIndex:idx_match_player_question,priority:3" json:"question_id"`
	AnswerID     uint      `gorm:"not null" json:"answer_id"`
	IsCorrect    bool      `gorm:"not null" json:"is_correct"`
	PointsEarned int       `gorm:"not null;default:0" json:"points_earned"`
	TimeTakenMs  int64     `gorm:"not null;default:0" json:"time_taken_ms"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (MatchAnswer) TableName() string {
	return "match_answers"
}
