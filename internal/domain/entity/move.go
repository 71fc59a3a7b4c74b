package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Move: одно действие игрока в комнате. После создания не изменяется.
type Move struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	RoomID    uint           `gorm:"not null;index:idx_moves_room_order,priority:1" json:"room_id"`
	PlayerID  uint           `gorm:"not null;index" json:"player_id"`
	MoveType  string         `gorm:"size:50;not null" json:"move_type"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null" json:"payload"`
	CreatedAt time.Time      `gorm:"not null;index:idx_moves_room_order,priority:2" json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Move) TableName() string {
	return "room_moves"
}
