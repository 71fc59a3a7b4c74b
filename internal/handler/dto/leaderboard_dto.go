package dto

import (
	"time"

	"github.com/yourusername/legalgames-api/internal/domain/entity"
)

// LeaderboardEntryResponse: строка общего рейтинга
type LeaderboardEntryResponse struct {
	Rank           int       `json:"rank"`
	UserID         uint      `json:"user_id"`
	Username       string    `json:"username"`
	TotalPoints    int64     `json:"total_points"`
	GamesCompleted int       `json:"games_completed"`
	LastUpdated    time.Time `json:"last_updated"`
}

// PaginatedLeaderboardResponse: страница рейтинга
type PaginatedLeaderboardResponse struct {
	Entries []*LeaderboardEntryResponse `json:"entries"`
	Total   int64                       `json:"total"`
	Page    int                         `json:"page"`
	PerPage int                         `json:"per_page"`
}

// NewLeaderboardEntryResponse создает DTO записи рейтинга
func NewLeaderboardEntryResponse(e *entity.LeaderboardEntry) *LeaderboardEntryResponse {
	return &LeaderboardEntryResponse{
		Rank:           e.Rank,
		UserID:         e.UserID,
		Username:       e.Username,
		TotalPoints:    e.TotalPoints,
		GamesCompleted: e.GamesCompleted,
		LastUpdated:    e.LastUpdated,
	}
}

// NewPaginatedLeaderboardResponse создает DTO страницы рейтинга
func NewPaginatedLeaderboardResponse(entries []entity.LeaderboardEntry, total int64, page, perPage int) *PaginatedLeaderboardResponse {
	out := make([]*LeaderboardEntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, NewLeaderboardEntryResponse(&entries[i]))
	}
	return &PaginatedLeaderboardResponse{Entries: out, Total: total, Page: page, PerPage: perPage}
}
