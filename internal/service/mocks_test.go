package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/yourusername/legalgames-api/internal/domain/entity"
)

// ============================================================================
// Общие моки репозиториев для тестов сервисов
// ============================================================================

// passThroughTx выполняет функцию без реальной транзакции
type passThroughTx struct {
	calls int
}

func (p *passThroughTx) WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	p.calls++
	return fn(nil)
}

type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) Create(ctx context.Context, room *entity.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *MockRoomRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockRoomRepository) GetByCode(ctx context.Context, code string) (*entity.Room, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Room), args.Error(1)
}

func (m *MockRoomRepository) GetByCodeForUpdate(ctx context.Context, tx *gorm.DB, code string) (*entity.Room, error) {
	args := m.Called(ctx, tx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Room), args.Error(1)
}

func (m *MockRoomRepository) Save(ctx context.Context, tx *gorm.DB, room *entity.Room) error {
	args := m.Called(ctx, tx, room)
	return args.Error(0)
}

func (m *MockRoomRepository) ListOpen(ctx context.Context, limit int) ([]entity.Room, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Room), args.Error(1)
}

func (m *MockRoomRepository) ListByParticipant(ctx context.Context, userID uint, limit int) ([]entity.Room, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Room), args.Error(1)
}

type MockMoveRepository struct {
	mock.Mock
}

func (m *MockMoveRepository) Create(ctx context.Context, tx *gorm.DB, move *entity.Move) error {
	args := m.Called(ctx, tx, move)
	return args.Error(0)
}

func (m *MockMoveRepository) ListAfter(ctx context.Context, roomID uint, afterID uint, limit int) ([]entity.Move, error) {
	args := m.Called(ctx, roomID, afterID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Move), args.Error(1)
}

type MockPresenceRepository struct {
	mock.Mock
}

func (m *MockPresenceRepository) Touch(ctx context.Context, roomCode string, userID uint) error {
	args := m.Called(ctx, roomCode, userID)
	return args.Error(0)
}

func (m *MockPresenceRepository) IsOnline(ctx context.Context, roomCode string, userID uint) (bool, error) {
	args := m.Called(ctx, roomCode, userID)
	return args.Bool(0), args.Error(1)
}

type MockMatchRepository struct {
	mock.Mock
}

func (m *MockMatchRepository) LockMatchmaking(ctx context.Context, tx *gorm.DB) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockMatchRepository) Create(ctx context.Context, tx *gorm.DB, match *entity.QuizMatch) error {
	args := m.Called(ctx, tx, match)
	return args.Error(0)
}

func (m *MockMatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.QuizMatch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.QuizMatch), args.Error(1)
}

func (m *MockMatchRepository) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*entity.QuizMatch, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.QuizMatch), args.Error(1)
}

func (m *MockMatchRepository) FindOpenByPlayer(ctx context.Context, tx *gorm.DB, userID uint) (*entity.QuizMatch, error) {
	args := m.Called(ctx, tx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.QuizMatch), args.Error(1)
}

func (m *MockMatchRepository) ClaimSearching(ctx context.Context, tx *gorm.DB, excludeUserID uint) (*entity.QuizMatch, error) {
	args := m.Called(ctx, tx, excludeUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.QuizMatch), args.Error(1)
}

func (m *MockMatchRepository) Save(ctx context.Context, tx *gorm.DB, match *entity.QuizMatch) error {
	args := m.Called(ctx, tx, match)
	return args.Error(0)
}

func (m *MockMatchRepository) AnswerExists(ctx context.Context, tx *gorm.DB, matchID uuid.UUID, playerID, questionID uint) (bool, error) {
	args := m.Called(ctx, tx, matchID, playerID, questionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMatchRepository) SaveAnswer(ctx context.Context, tx *gorm.DB, answer *entity.MatchAnswer) error {
	args := m.Called(ctx, tx, answer)
	return args.Error(0)
}

func (m *MockMatchRepository) AddServedQuestion(ctx context.Context, tx *gorm.DB, served *entity.MatchQuestion) error {
	args := m.Called(ctx, tx, served)
	return args.Error(0)
}

func (m *MockMatchRepository) ServedQuestionIDs(ctx context.Context, tx *gorm.DB, matchID uuid.UUID) ([]uint, error) {
	args := m.Called(ctx, tx, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockMatchRepository) GetAnswers(ctx context.Context, matchID uuid.UUID) ([]entity.MatchAnswer, error) {
	args := m.Called(ctx, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.MatchAnswer), args.Error(1)
}

type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(ctx context.Context, question *entity.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetWithAnswers(ctx context.Context, id uint) (*entity.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) ListByGame(ctx context.Context, gameID uint) ([]entity.Question, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) PickRandomActive(ctx context.Context, excludeIDs []uint) (*entity.Question, error) {
	args := m.Called(ctx, excludeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

type MockGameRepository struct {
	mock.Mock
}

func (m *MockGameRepository) Create(ctx context.Context, game *entity.Game) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *MockGameRepository) GetByID(ctx context.Context, id uint) (*entity.Game, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Game), args.Error(1)
}

func (m *MockGameRepository) ListActive(ctx context.Context, gameType string) ([]entity.Game, error) {
	args := m.Called(ctx, gameType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Game), args.Error(1)
}

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, tx *gorm.DB, session *entity.GameSession) error {
	args := m.Called(ctx, tx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) GetByID(ctx context.Context, id uint) (*entity.GameSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.GameSession), args.Error(1)
}

func (m *MockSessionRepository) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*entity.GameSession, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.GameSession), args.Error(1)
}

func (m *MockSessionRepository) FindOpen(ctx context.Context, tx *gorm.DB, userID, gameID uint) (*entity.GameSession, error) {
	args := m.Called(ctx, tx, userID, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.GameSession), args.Error(1)
}

func (m *MockSessionRepository) Save(ctx context.Context, tx *gorm.DB, session *entity.GameSession) error {
	args := m.Called(ctx, tx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) SaveAnswer(ctx context.Context, tx *gorm.DB, answer *entity.SessionAnswer) error {
	args := m.Called(ctx, tx, answer)
	return args.Error(0)
}

func (m *MockSessionRepository) GetAnswers(ctx context.Context, tx *gorm.DB, sessionID uint) ([]entity.SessionAnswer, error) {
	args := m.Called(ctx, tx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.SessionAnswer), args.Error(1)
}

type MockLeaderboardRepository struct {
	mock.Mock
}

func (m *MockLeaderboardRepository) AddResult(ctx context.Context, tx *gorm.DB, userID uint, username string, points int64, at time.Time) error {
	args := m.Called(ctx, tx, userID, username, points, at)
	return args.Error(0)
}

func (m *MockLeaderboardRepository) LockForRanking(ctx context.Context, tx *gorm.DB) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockLeaderboardRepository) ListForRanking(ctx context.Context, tx *gorm.DB) ([]entity.LeaderboardEntry, error) {
	args := m.Called(ctx, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.LeaderboardEntry), args.Error(1)
}

func (m *MockLeaderboardRepository) UpdateRanks(ctx context.Context, tx *gorm.DB, entries []entity.LeaderboardEntry) error {
	args := m.Called(ctx, tx, entries)
	return args.Error(0)
}

func (m *MockLeaderboardRepository) List(ctx context.Context, limit, offset int) ([]entity.LeaderboardEntry, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.LeaderboardEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockLeaderboardRepository) ListAll(ctx context.Context) ([]entity.LeaderboardEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.LeaderboardEntry), args.Error(1)
}

func (m *MockLeaderboardRepository) GetByUserID(ctx context.Context, userID uint) (*entity.LeaderboardEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LeaderboardEntry), args.Error(1)
}

type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepository) Increment(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCacheRepository) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepository) GetJSON(ctx context.Context, key string, dest interface{}) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}

// MockResultRecorder перехватывает передачу очков в рейтинг
type MockResultRecorder struct {
	mock.Mock
}

func (m *MockResultRecorder) AddResults(ctx context.Context, tx *gorm.DB, results ...PlayerResult) error {
	args := m.Called(ctx, tx, results)
	return args.Error(0)
}

func (m *MockResultRecorder) Recompute(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func uintPtr(v uint) *uint {
	return &v
}
