package entity

import (
	"time"
)

// Question представляет вопрос. Вопросы без GameID образуют общий банк дуэлей,
// вопросы игры проходятся по возрастанию SortOrder.
type Question struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	GameID       *uint     `gorm:"index:idx_questions_game_order,priority:1" json:"game_id,omitempty"`
	SortOrder    int       `gorm:"not null;default:0;index:idx_questions_game_order,priority:2" json:"sort_order"`
	Text         string    `gorm:"type:text;not null" json:"text"`
	PointValue   int       `gorm:"not null;default:10" json:"point_value"`
	TimeLimitSec int       `gorm:"not null;default:30" json:"time_limit_sec"`
	IsActive     bool      `gorm:"not null;default:true;index" json:"is_active"`
	Answers      []Answer  `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"answers,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// Answer: вариант ответа на вопрос. Флаг IsCorrect скрыт от клиента.
type Answer struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	QuestionID  uint   `gorm:"not null;index" json:"question_id"`
	Text        string `gorm:"type:text;not null" json:"text"`
	IsCorrect   bool   `gorm:"not null;default:false" json:"-"`
	Explanation string `gorm:"type:text;not null;default:''" json:"-"`
	SortOrder   int    `gorm:"not null;default:0" json:"sort_order"`
}

// TableName определяет имя таблицы для GORM
func (Answer) TableName() string {
	return "answers"
}

// FindAnswer возвращает вариант ответа по ID, если он принадлежит вопросу
func (q *Question) FindAnswer(answerID uint) (*Answer, bool) {
	for i := range q.Answers {
		if q.Answers[i].ID == answerID {
			return &q.Answers[i], true
		}
	}
	return nil, false
}

// CalculatePoints рассчитывает очки за ответ: стоимость вопроса за верный ответ, иначе 0
func (q *Question) CalculatePoints(isCorrect bool) int {
	if !isCorrect {
		return 0
	}
	return q.PointValue
}

// CorrectCount возвращает количество вариантов, помеченных верными
func (q *Question) CorrectCount() int {
	n := 0
	for _, a := range q.Answers {
		if a.IsCorrect {
			n++
		}
	}
	return n
}

// IsTimeExceeded проверяет время ответа против лимита вопроса.
// Лимит 0 означает отсутствие ограничения.
func (q *Question) IsTimeExceeded(timeTaken time.Duration) bool {
	if q.TimeLimitSec <= 0 {
		return false
	}
	return timeTaken > time.Duration(q.TimeLimitSec)*time.Second
}
