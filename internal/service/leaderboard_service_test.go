package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/legalgames-api/internal/domain/entity"
	"github.com/yourusername/legalgames-api/internal/domain/repository"
	apperrors "github.com/yourusername/legalgames-api/internal/pkg/errors"
)

func newTestLeaderboardService(repo *MockLeaderboardRepository, cache *MockCacheRepository) *LeaderboardService {
	var cacheRepo repository.CacheRepository
	if cache != nil {
		cacheRepo = cache
	}
	return NewLeaderboardService(repo, cacheRepo, &passThroughTx{}, time.Minute)
}

func TestLeaderboardService_Recompute_AssignsPermutation(t *testing.T) {
	// Arrange: записи приходят в произвольном порядке
	repo := new(MockLeaderboardRepository)
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	entries := []entity.LeaderboardEntry{
		{ID: 1, UserID: 10, TotalPoints: 50, LastUpdated: base},
		{ID: 2, UserID: 20, TotalPoints: 90, LastUpdated: base},
		{ID: 3, UserID: 30, TotalPoints: 50, LastUpdated: base.Add(-time.Hour)},
		{ID: 4, UserID: 40, TotalPoints: 0, LastUpdated: base},
	}
	var written []entity.LeaderboardEntry
	repo.On("LockForRanking", mock.Anything, mock.Anything).Return(nil)
	repo.On("ListForRanking", mock.Anything, mock.Anything).Return(entries, nil)
	repo.On("UpdateRanks", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			written = args.Get(2).([]entity.LeaderboardEntry)
		}).Return(nil)
	svc := newTestLeaderboardService(repo, nil)

	// Act
	err := svc.Recompute(context.Background())

	// Assert
	require.NoError(t, err)
	require.Len(t, written, 4)
	ranks := map[uint]int{}
	seen := map[int]bool{}
	for _, e := range written {
		ranks[e.UserID] = e.Rank
		assert.False(t, seen[e.Rank], "Место %d выдано дважды", e.Rank)
		seen[e.Rank] = true
	}
	assert.Equal(t, 1, ranks[20])
	assert.Equal(t, 2, ranks[30], "При равных очках выше тот, кто обновился раньше")
	assert.Equal(t, 3, ranks[10])
	assert.Equal(t, 4, ranks[40])
	repo.AssertExpectations(t)
}

func TestLeaderboardService_Recompute_InvalidatesCache(t *testing.T) {
	repo := new(MockLeaderboardRepository)
	cache := new(MockCacheRepository)
	repo.On("LockForRanking", mock.Anything, mock.Anything).Return(nil)
	repo.On("ListForRanking", mock.Anything, mock.Anything).Return([]entity.LeaderboardEntry{}, nil)
	repo.On("UpdateRanks", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	cache.On("Increment", mock.Anything, leaderboardVersionKey).Return(int64(2), nil)
	svc := newTestLeaderboardService(repo, cache)

	require.NoError(t, svc.Recompute(context.Background()))
	cache.AssertExpectations(t)
}

func TestLeaderboardService_Recompute_LockFailure(t *testing.T) {
	repo := new(MockLeaderboardRepository)
	cache := new(MockCacheRepository)
	repo.On("LockForRanking", mock.Anything, mock.Anything).Return(errors.New("lock timeout"))
	svc := newTestLeaderboardService(repo, cache)

	err := svc.Recompute(context.Background())

	assert.Error(t, err)
	repo.AssertNotCalled(t, "UpdateRanks", mock.Anything, mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "Increment", mock.Anything, mock.Anything)
}

func TestLeaderboardService_RecordResult(t *testing.T) {
	repo := new(MockLeaderboardRepository)
	repo.On("AddResult", mock.Anything, mock.Anything, uint(5), "carol", int64(30), mock.AnythingOfType("time.Time")).Return(nil)
	repo.On("LockForRanking", mock.Anything, mock.Anything).Return(nil)
	repo.On("ListForRanking", mock.Anything, mock.Anything).Return([]entity.LeaderboardEntry{{ID: 1, UserID: 5, TotalPoints: 30}}, nil)
	repo.On("UpdateRanks", mock.Anything, mock.Anything, []entity.LeaderboardEntry{{ID: 1, UserID: 5, TotalPoints: 30, Rank: 1}}).Return(nil)
	svc := newTestLeaderboardService(repo, nil)

	err := svc.RecordResult(context.Background(), 5, "carol", 30)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestLeaderboardService_AddResults_RejectsNegative(t *testing.T) {
	repo := new(MockLeaderboardRepository)
	svc := newTestLeaderboardService(repo, nil)

	err := svc.AddResults(context.Background(), nil, PlayerResult{UserID: 1, Points: -5})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	repo.AssertNotCalled(t, "AddResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLeaderboardService_GetLeaderboard_CacheMiss(t *testing.T) {
	// Arrange
	repo := new(MockLeaderboardRepository)
	cache := new(MockCacheRepository)
	entries := []entity.LeaderboardEntry{{ID: 1, UserID: 1, Rank: 1}}
	key := "leaderboard:v3:page:2:size:10"
	cache.On("Get", mock.Anything, leaderboardVersionKey).Return("3", nil)
	cache.On("GetJSON", mock.Anything, key, mock.Anything).Return(apperrors.ErrNotFound)
	repo.On("List", mock.Anything, 10, 10).Return(entries, int64(11), nil)
	cache.On("SetJSON", mock.Anything, key, mock.AnythingOfType("*service.LeaderboardPage"), time.Minute).Return(nil)
	svc := newTestLeaderboardService(repo, cache)

	// Act
	page, err := svc.GetLeaderboard(context.Background(), 2, 10)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(11), page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Len(t, page.Entries, 1)
	cache.AssertExpectations(t)
}

func TestLeaderboardService_GetLeaderboard_CacheHit(t *testing.T) {
	repo := new(MockLeaderboardRepository)
	cache := new(MockCacheRepository)
	cache.On("Get", mock.Anything, leaderboardVersionKey).Return("", apperrors.ErrNotFound)
	cache.On("GetJSON", mock.Anything, "leaderboard:v0:page:1:size:20", mock.Anything).
		Run(func(args mock.Arguments) {
			dest := args.Get(2).(*LeaderboardPage)
			dest.Total = 42
			dest.Page = 1
			dest.PageSize = 20
		}).Return(nil)
	svc := newTestLeaderboardService(repo, cache)

	// Некорректные параметры приводятся к умолчаниям
	page, err := svc.GetLeaderboard(context.Background(), 0, 1000)

	require.NoError(t, err)
	assert.Equal(t, int64(42), page.Total)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}

func TestLeaderboardService_GetLeaderboard_CacheDown(t *testing.T) {
	repo := new(MockLeaderboardRepository)
	cache := new(MockCacheRepository)
	cache.On("Get", mock.Anything, leaderboardVersionKey).Return("", errors.New("connection refused"))
	repo.On("List", mock.Anything, 20, 0).Return([]entity.LeaderboardEntry{}, int64(0), nil)
	svc := newTestLeaderboardService(repo, cache)

	page, err := svc.GetLeaderboard(context.Background(), 1, 20)

	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)
	cache.AssertNotCalled(t, "SetJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
