package entity

import (
	"time"

	"github.com/google/uuid"
)

// MatchQuestion отмечает вопрос, выданный в матче. Вопрос выдаётся в матче не более одного раза.
type MatchQuestion struct {
	MatchID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"match_id"`
	QuestionID uint      `gorm:"primaryKey" json:"question_id"`
	Position   int       `gorm:"not null" json:"position"`
	ServedAt   time.Time `gorm:"not null" json:"served_at"`
}

// TableName определяет имя таблицы для GORM
func (MatchQuestion) TableName() string {
	return "match_questions"
}
