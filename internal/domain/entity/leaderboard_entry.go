package entity

import (
	"sort"
	"time"
)

// LeaderboardEntry: накопительный счёт и место пользователя в общем рейтинге
type LeaderboardEntry struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	Username       string    `gorm:"size:150;not null;default:''" json:"username"`
	TotalPoints    int64     `gorm:"not null;default:0;index:idx_leaderboard_order,priority:1,sort:desc" json:"total_points"`
	GamesCompleted int       `gorm:"not null;default:0" json:"games_completed"`
	Rank           int       `gorm:"not null;default:0;index" json:"rank"`
	LastUpdated    time.Time `gorm:"not null;index:idx_leaderboard_order,priority:2" json:"last_updated"`
}

// TableName определяет имя таблицы для GORM
func (LeaderboardEntry) TableName() string {
	return "leaderboard_entries"
}

// RankOrderLess задаёт порядок рейтинга: очки по убыванию, затем раньше обновлённые выше.
// ID разрешает оставшиеся равенства детерминированно.
func RankOrderLess(a, b *LeaderboardEntry) bool {
	if a.TotalPoints != b.TotalPoints {
		return a.TotalPoints > b.TotalPoints
	}
	if !a.LastUpdated.Equal(b.LastUpdated) {
		return a.LastUpdated.Before(b.LastUpdated)
	}
	return a.ID < b.ID
}

// AssignRanks сортирует записи по порядку рейтинга и проставляет места 1..N
func AssignRanks(entries []LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return RankOrderLess(&entries[i], &entries[j])
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
}
