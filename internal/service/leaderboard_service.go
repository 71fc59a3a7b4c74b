package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/legalgames-api/internal/domain/entity"
	"github.com/yourusername/legalgames-api/internal/domain/repository"
	apperrors "github.com/yourusername/legalgames-api/internal/pkg/errors"
)

const (
	leaderboardVersionKey = "leaderboard:version"
	maxLeaderboardPage    = 100
)

// PlayerResult: очки игрока за одну завершённую игру
type PlayerResult struct {
	UserID   uint
	Username string
	Points   int64
}

// LeaderboardPage: страница общего рейтинга
type LeaderboardPage struct {
	Entries  []entity.LeaderboardEntry `json:"entries"`
	Total    int64                     `json:"total"`
	Page     int                       `json:"page"`
	PageSize int                       `json:"page_size"`
}

// LeaderboardService накапливает очки и пересчитывает места
type LeaderboardService struct {
	leaderboardRepo repository.LeaderboardRepository
	cacheRepo       repository.CacheRepository
	txManager       repository.TxManager
	cacheTTL        time.Duration
	now             func() time.Time
}

// NewLeaderboardService создает сервис рейтинга
func NewLeaderboardService(
	leaderboardRepo repository.LeaderboardRepository,
	cacheRepo repository.CacheRepository,
	txManager repository.TxManager,
	cacheTTL time.Duration,
) *LeaderboardService {
	return &LeaderboardService{
		leaderboardRepo: leaderboardRepo,
		cacheRepo:       cacheRepo,
		txManager:       txManager,
		cacheTTL:        cacheTTL,
		now:             time.Now,
	}
}

// RecordResult добавляет очки одной игры пользователю и пересчитывает места
func (s *LeaderboardService) RecordResult(ctx context.Context, userID uint, username string, points int64) error {
	err := s.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		return s.AddResults(ctx, tx, PlayerResult{UserID: userID, Username: username, Points: points})
	})
	if err != nil {
		return err
	}
	return s.Recompute(ctx)
}

// AddResults записывает результаты в переданную транзакцию без пересчёта мест
func (s *LeaderboardService) AddResults(ctx context.Context, tx *gorm.DB, results ...PlayerResult) error {
	now := s.now()
	for _, r := range results {
		if r.Points < 0 {
			return fmt.Errorf("%w: negative points for user %d", apperrors.ErrValidation, r.UserID)
		}
		if err := s.leaderboardRepo.AddResult(ctx, tx, r.UserID, r.Username, r.Points, now); err != nil {
			return fmt.Errorf("add result for user %d: %w", r.UserID, err)
		}
	}
	return nil
}

// Recompute заново присваивает места 1..N всем записям.
// Пересчёты сериализуются блокировкой, так что места всегда образуют перестановку.
func (s *LeaderboardService) Recompute(ctx context.Context) error {
	var count int
	err := s.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.leaderboardRepo.LockForRanking(ctx, tx); err != nil {
			return err
		}
		entries, err := s.leaderboardRepo.ListForRanking(ctx, tx)
		if err != nil {
			return err
		}
		entity.AssignRanks(entries)
		count = len(entries)
		return s.leaderboardRepo.UpdateRanks(ctx, tx, entries)
	})
	if err != nil {
		log.Printf("[LeaderboardService] Ошибка пересчёта мест: %v", err)
		return fmt.Errorf("recompute leaderboard: %w", err)
	}
	s.invalidateCache(ctx)
	log.Printf("[LeaderboardService] Места пересчитаны для %d записей", count)
	return nil
}

// GetLeaderboard возвращает страницу рейтинга, по возможности из кеша
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, page, pageSize int) (*LeaderboardPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > maxLeaderboardPage {
		pageSize = 20
	}

	cacheKey := s.pageCacheKey(ctx, page, pageSize)
	if cacheKey != "" {
		var cached LeaderboardPage
		if err := s.cacheRepo.GetJSON(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[LeaderboardService] Ошибка чтения кеша %s: %v", cacheKey, err)
		}
	}

	entries, total, err := s.leaderboardRepo.List(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("list leaderboard: %w", err)
	}
	result := &LeaderboardPage{Entries: entries, Total: total, Page: page, PageSize: pageSize}

	if cacheKey != "" {
		if err := s.cacheRepo.SetJSON(ctx, cacheKey, result, s.cacheTTL); err != nil {
			log.Printf("[LeaderboardService] Ошибка записи кеша %s: %v", cacheKey, err)
		}
	}
	return result, nil
}

// GetEntry возвращает запись пользователя
func (s *LeaderboardService) GetEntry(ctx context.Context, userID uint) (*entity.LeaderboardEntry, error) {
	return s.leaderboardRepo.GetByUserID(ctx, userID)
}

// ExportEntries возвращает весь рейтинг в порядке мест
func (s *LeaderboardService) ExportEntries(ctx context.Context) ([]entity.LeaderboardEntry, error) {
	return s.leaderboardRepo.ListAll(ctx)
}

// pageCacheKey строит ключ страницы для текущей версии рейтинга.
// Пустой ключ означает работу без кеша.
func (s *LeaderboardService) pageCacheKey(ctx context.Context, page, pageSize int) string {
	if s.cacheRepo == nil {
		return ""
	}
	version := int64(0)
	raw, err := s.cacheRepo.Get(ctx, leaderboardVersionKey)
	switch {
	case err == nil:
		version, _ = strconv.ParseInt(raw, 10, 64)
	case errors.Is(err, apperrors.ErrNotFound):
	default:
		log.Printf("[LeaderboardService] Кеш недоступен: %v", err)
		return ""
	}
	return fmt.Sprintf("leaderboard:v%d:page:%d:size:%d", version, page, pageSize)
}

// invalidateCache сдвигает версию; старые страницы истекут по TTL
func (s *LeaderboardService) invalidateCache(ctx context.Context) {
	if s.cacheRepo == nil {
		return
	}
	if _, err := s.cacheRepo.Increment(ctx, leaderboardVersionKey); err != nil {
		log.Printf("[LeaderboardService] Ошибка инвалидации кеша: %v", err)
	}
}
