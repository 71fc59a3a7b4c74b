package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Константы статусов матча
const (
	MatchStatusSearching = "searching"
	MatchStatusMatched   = "matched"
	MatchStatusActive    = "active"
	MatchStatusCompleted = "completed"
	MatchStatusCancelled = "cancelled"
)

// DefaultMatchQuestions: количество вопросов в матче по умолчанию
const DefaultMatchQuestions = 10

// QuizMatch представляет дуэль двух игроков на вопросах викторины
type QuizMatch struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Player1ID         uint       `gorm:"not null;index" json:"player1_id"`
	Player2ID         *uint      `gorm:"index" json:"player2_id,omitempty"`
	Status            string     `gorm:"size:20;not null;default:'searching';index" json:"status"`
	CurrentQuestionID *uint      `json:"current_question_id,omitempty"`
	QuestionNumber    int        `gorm:"not null;default:0" json:"question_number"`
	TotalQuestions    int        `gorm:"not null;default:10" json:"total_questions"`
	Player1Score      int        `gorm:"not null;default:0" json:"player1_score"`
	Player2Score      int        `gorm:"not null;default:0" json:"player2_score"`
	WinnerID          *uint      `json:"winner_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	StartedAt         *time.Time `json:"started_at,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}

// TableName определяет имя таблицы для GORM
func (QuizMatch) TableName() string {
	return "quiz_matches"
}

// BeforeCreate выдаёт UUID, если он не был задан заранее
func (m *QuizMatch) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// SeatOf возвращает номер места игрока в матче или SeatNone
func (m *QuizMatch) SeatOf(userID uint) int {
	if m.Player1ID == userID {
		return SeatOne
	}
	if m.Player2ID != nil && *m.Player2ID == userID {
		return SeatTwo
	}
	return SeatNone
}

// IsPlayer проверяет участие пользователя в матче
func (m *QuizMatch) IsPlayer(userID uint) bool {
	return m.SeatOf(userID) != SeatNone
}

// IsOpen: матч ещё не достиг терминального статуса
func (m *QuizMatch) IsOpen() bool {
	switch m.Status {
	case MatchStatusSearching, MatchStatusMatched, MatchStatusActive:
		return true
	}
	return false
}

// AddPoints начисляет очки игроку на его месте
func (m *QuizMatch) AddPoints(userID uint, points int) {
	switch m.SeatOf(userID) {
	case SeatOne:
		m.Player1Score += points
	case SeatTwo:
		m.Player2Score += points
	}
}

// ScoreOf возвращает счёт игрока
func (m *QuizMatch) ScoreOf(userID uint) int {
	switch m.SeatOf(userID) {
	case SeatOne:
		return m.Player1Score
	case SeatTwo:
		return m.Player2Score
	}
	return 0
}

// DecideWinner: больший суммарный счёт побеждает, при равенстве победителя нет
func (m *QuizMatch) DecideWinner() *uint {
	switch {
	case m.Player1Score > m.Player2Score:
		id := m.Player1ID
		return &id
	case m.Player2Score > m.Player1Score:
		return m.Player2ID
	}
	return nil
}

// Players возвращает ID занятых мест в порядке мест
func (m *QuizMatch) Players() []uint {
	ids := []uint{m.Player1ID}
	if m.Player2ID != nil {
		ids = append(ids, *m.Player2ID)
	}
	return ids
}
