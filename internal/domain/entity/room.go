package entity

import (
	"time"
)

// Константы статусов комнаты
const (
	RoomStatusWaiting   = "waiting"
	RoomStatusReady     = "ready"
	RoomStatusActive    = "active"
	RoomStatusCompleted = "completed"
)

// Роли игроков в судебной симуляции
const (
	RoleJudge        = "judge"
	RoleProsecutor   = "prosecutor"
	RoleDefense      = "defense"
	RoleInvestigator = "investigator"
)

// Номера мест в комнате
const (
	SeatNone = 0
	SeatOne  = 1
	SeatTwo  = 2
)

// roomStatusOrder задаёт монотонный порядок статусов: переход возможен только вперёд на один шаг
var roomStatusOrder = map[string]int{
	RoomStatusWaiting:   0,
	RoomStatusReady:     1,
	RoomStatusActive:    2,
	RoomStatusCompleted: 3,
}

// Room представляет двухместную комнату пошаговой игры
type Room struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Code          string     `gorm:"size:8;not null;uniqueIndex" json:"code"`
	Title         string     `gorm:"size:200;not null" json:"title"`
	Scenario      string     `gorm:"type:text;not null;default:''" json:"scenario"`
	Status        string     `gorm:"size:20;not null;default:'waiting';index" json:"status"`
	CreatedByID   uint       `gorm:"not null;index" json:"created_by_id"`
	Player1ID     *uint      `gorm:"index" json:"player1_id,omitempty"`
	Player1Role   string     `gorm:"size:20;not null;default:''" json:"player1_role"`
	Player2ID     *uint      `gorm:"index" json:"player2_id,omitempty"`
	Player2Role   string     `gorm:"size:20;not null;default:''" json:"player2_role"`
	CurrentTurnID *uint      `json:"current_turn_id,omitempty"`
	Player1Score  int        `gorm:"not null;default:0" json:"player1_score"`
	Player2Score  int        `gorm:"not null;default:0" json:"player2_score"`
	WinnerID      *uint      `json:"winner_id,omitempty"`
	Moves         []Move     `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// TableName определяет имя таблицы для GORM
func (Room) TableName() string {
	return "rooms"
}

// IsValidRole проверяет, что роль входит в список допустимых
func IsValidRole(role string) bool {
	switch role {
	case RoleJudge, RoleProsecutor, RoleDefense, RoleInvestigator:
		return true
	}
	return false
}

// SeatOf возвращает номер места пользователя или SeatNone
func (r *Room) SeatOf(userID uint) int {
	if r.Player1ID != nil && *r.Player1ID == userID {
		return SeatOne
	}
	if r.Player2ID != nil && *r.Player2ID == userID {
		return SeatTwo
	}
	return SeatNone
}

// IsSeated проверяет, занимает ли пользователь одно из мест
func (r *Room) IsSeated(userID uint) bool {
	return r.SeatOf(userID) != SeatNone
}

// IsParticipant: создатель комнаты или один из игроков
func (r *Room) IsParticipant(userID uint) bool {
	return r.CreatedByID == userID || r.IsSeated(userID)
}

// SeatedCount возвращает количество занятых мест
func (r *Room) SeatedCount() int {
	n := 0
	if r.Player1ID != nil {
		n++
	}
	if r.Player2ID != nil {
		n++
	}
	return n
}

// IsFull проверяет, заняты ли оба места
func (r *Room) IsFull() bool {
	return r.SeatedCount() == 2
}

// OtherPlayer возвращает ID соперника для занятого места или nil
func (r *Room) OtherPlayer(userID uint) *uint {
	switch r.SeatOf(userID) {
	case SeatOne:
		return r.Player2ID
	case SeatTwo:
		return r.Player1ID
	}
	return nil
}

// RoleOf возвращает роль игрока на месте
func (r *Room) RoleOf(userID uint) string {
	switch r.SeatOf(userID) {
	case SeatOne:
		return r.Player1Role
	case SeatTwo:
		return r.Player2Role
	}
	return ""
}

// IsTurnOf проверяет, принадлежит ли текущий ход пользователю
func (r *Room) IsTurnOf(userID uint) bool {
	return r.CurrentTurnID != nil && *r.CurrentTurnID == userID
}

// IsJoinable: присоединиться можно только к комнате, которая ещё не началась
func (r *Room) IsJoinable() bool {
	return r.Status == RoomStatusWaiting || r.Status == RoomStatusReady
}

// IsActive проверяет, идёт ли игра
func (r *Room) IsActive() bool {
	return r.Status == RoomStatusActive
}

// IsCompleted проверяет, завершена ли игра
func (r *Room) IsCompleted() bool {
	return r.Status == RoomStatusCompleted
}

// CanTransitionTo разрешает только переход на следующий статус.
// Из completed выхода нет.
func (r *Room) CanTransitionTo(status string) bool {
	from, ok := roomStatusOrder[r.Status]
	if !ok {
		return false
	}
	to, ok := roomStatusOrder[status]
	if !ok {
		return false
	}
	return to == from+1
}

// DecideWinner возвращает ID игрока с большим счётом; при равенстве победителя нет
func (r *Room) DecideWinner() *uint {
	switch {
	case r.Player1Score > r.Player2Score:
		return r.Player1ID
	case r.Player2Score > r.Player1Score:
		return r.Player2ID
	}
	return nil
}
