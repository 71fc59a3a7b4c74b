package entity

import (
	"time"
)

// Типы одиночных игр
const (
	GameTypeCourtroom    = "courtroom"
	GameTypeCriminalCase = "criminal_case"
	GameTypeQuiz         = "quiz"
	GameTypeScenario     = "scenario"
)

// DefaultPointsPerQuestion: стоимость вопроса игры по умолчанию
const DefaultPointsPerQuestion = 10

// IsValidGameType проверяет, что тип игры известен
func IsValidGameType(gameType string) bool {
	switch gameType {
	case GameTypeCourtroom, GameTypeCriminalCase, GameTypeQuiz, GameTypeScenario:
		return true
	}
	return false
}

// Game представляет одиночную игру с упорядоченным набором вопросов
type Game struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	GameType          string     `gorm:"size:20;not null;index:idx_games_type_active,priority:1" json:"game_type"`
	Title             string     `gorm:"size:200;not null" json:"title"`
	Description       string     `gorm:"type:text;not null;default:''" json:"description"`
	Scenario          string     `gorm:"type:text;not null;default:''" json:"scenario"`
	PointsPerQuestion int        `gorm:"not null;default:10" json:"points_per_question"`
	IsActive          bool       `gorm:"not null;default:true;index:idx_games_type_active,priority:2" json:"is_active"`
	Questions         []Question `gorm:"foreignKey:GameID" json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Game) TableName() string {
	return "games"
}
