package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"iter"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/legalgames-api/internal/domain/entity"
	"github.com/yourusername/legalgames-api/internal/middleware"
	"github.com/yourusername/legalgames-api/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestGinContext создает *gin.Context для тестов с JSON body
func newTestGinContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()

	var req *http.Request
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, path, bytes.NewReader(bodyBytes))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

// withUser выставляет в контекст пользователя так же, как RequireAuth
func withUser(c *gin.Context, userID uint, username string) {
	c.Set(middleware.ContextUserID, userID)
	c.Set(middleware.ContextUsername, username)
}

// parseJSONResponse парсит JSON ответ из *httptest.ResponseRecorder
func parseJSONResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err, "Response body should be valid JSON: %s", w.Body.String())
	return resp
}

func uintPtr(v uint) *uint { return &v }

// ============================================================================
// Моки сервисов
// ============================================================================

type mockRoomService struct{ mock.Mock }

func (m *mockRoomService) CreateRoom(ctx context.Context, creatorID uint, title, scenario string) (*entity.Room, error) {
	args := m.Called(ctx, creatorID, title, scenario)
	room, _ := args.Get(0).(*entity.Room)
	return room, args.Error(1)
}

func (m *mockRoomService) JoinRoom(ctx context.Context, code string, userID uint) (*entity.Room, error) {
	args := m.Called(ctx, code, userID)
	room, _ := args.Get(0).(*entity.Room)
	return room, args.Error(1)
}

func (m *mockRoomService) EnterRoom(ctx context.Context, code string, userID uint) (*service.RoomView, error) {
	args := m.Called(ctx, code, userID)
	view, _ := args.Get(0).(*service.RoomView)
	return view, args.Error(1)
}

func (m *mockRoomService) AssignRole(ctx context.Context, code string, userID uint, role string) (*entity.Room, error) {
	args := m.Called(ctx, code, userID, role)
	room, _ := args.Get(0).(*entity.Room)
	return room, args.Error(1)
}

func (m *mockRoomService) CompleteRoom(ctx context.Context, code string, actor service.Actor, p1, p2 int) (*entity.Room, error) {
	args := m.Called(ctx, code, actor, p1, p2)
	room, _ := args.Get(0).(*entity.Room)
	return room, args.Error(1)
}

func (m *mockRoomService) ListLobby(ctx context.Context, userID uint) (*service.Lobby, error) {
	args := m.Called(ctx, userID)
	lobby, _ := args.Get(0).(*service.Lobby)
	return lobby, args.Error(1)
}

// sliceJournal отдаёт заранее заданные ходы после курсора
type sliceJournal struct {
	mock.Mock
	moves []entity.Move
}

func (j *sliceJournal) RecordMove(ctx context.Context, code string, playerID uint, moveType string, payload json.RawMessage) (*entity.Move, error) {
	args := j.Called(ctx, code, playerID, moveType, payload)
	move, _ := args.Get(0).(*entity.Move)
	return move, args.Error(1)
}

func (j *sliceJournal) MovesSince(ctx context.Context, code string, userID uint, cursor uint) (iter.Seq2[entity.Move, error], error) {
	args := j.Called(ctx, code, userID, cursor)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return func(yield func(entity.Move, error) bool) {
		for _, m := range j.moves {
			if m.ID <= cursor {
				continue
			}
			if !yield(m, nil) {
				return
			}
		}
	}, nil
}

type mockTurnService struct{ mock.Mock }

func (m *mockTurnService) AdvanceTurn(ctx context.Context, code string, actorID uint) (*entity.Room, error) {
	args := m.Called(ctx, code, actorID)
	room, _ := args.Get(0).(*entity.Room)
	return room, args.Error(1)
}

func (m *mockTurnService) PlayTurn(ctx context.Context, code string, actorID uint, moveType string, payload json.RawMessage) (*entity.Move, *entity.Room, error) {
	args := m.Called(ctx, code, actorID, moveType, payload)
	move, _ := args.Get(0).(*entity.Move)
	room, _ := args.Get(1).(*entity.Room)
	return move, room, args.Error(2)
}

type mockMatchService struct{ mock.Mock }

func (m *mockMatchService) Enqueue(ctx context.Context, playerID uint) (*entity.QuizMatch, error) {
	args := m.Called(ctx, playerID)
	match, _ := args.Get(0).(*entity.QuizMatch)
	return match, args.Error(1)
}

func (m *mockMatchService) GetMatch(ctx context.Context, matchID uuid.UUID, playerID uint) (*service.MatchView, error) {
	args := m.Called(ctx, matchID, playerID)
	view, _ := args.Get(0).(*service.MatchView)
	return view, args.Error(1)
}

func (m *mockMatchService) SubmitAnswer(ctx context.Context, matchID uuid.UUID, playerID, questionID, answerID uint, timeTaken time.Duration) (*service.AnswerResult, error) {
	args := m.Called(ctx, matchID, playerID, questionID, answerID, timeTaken)
	result, _ := args.Get(0).(*service.AnswerResult)
	return result, args.Error(1)
}

func (m *mockMatchService) AdvanceQuestion(ctx context.Context, matchID uuid.UUID, actor service.Actor, next *uint) (*entity.QuizMatch, error) {
	args := m.Called(ctx, matchID, actor, next)
	match, _ := args.Get(0).(*entity.QuizMatch)
	return match, args.Error(1)
}

func (m *mockMatchService) CancelSearch(ctx context.Context, matchID uuid.UUID, playerID uint) (*entity.QuizMatch, error) {
	args := m.Called(ctx, matchID, playerID)
	match, _ := args.Get(0).(*entity.QuizMatch)
	return match, args.Error(1)
}

type mockLeaderboard struct{ mock.Mock }

func (m *mockLeaderboard) GetLeaderboard(ctx context.Context, page, pageSize int) (*service.LeaderboardPage, error) {
	args := m.Called(ctx, page, pageSize)
	p, _ := args.Get(0).(*service.LeaderboardPage)
	return p, args.Error(1)
}

func (m *mockLeaderboard) GetEntry(ctx context.Context, userID uint) (*entity.LeaderboardEntry, error) {
	args := m.Called(ctx, userID)
	e, _ := args.Get(0).(*entity.LeaderboardEntry)
	return e, args.Error(1)
}

func (m *mockLeaderboard) Recompute(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockLeaderboard) ExportEntries(ctx context.Context) ([]entity.LeaderboardEntry, error) {
	args := m.Called(ctx)
	entries, _ := args.Get(0).([]entity.LeaderboardEntry)
	return entries, args.Error(1)
}

type mockQuestionCreator struct{ mock.Mock }

func (m *mockQuestionCreator) CreateQuestion(ctx context.Context, input service.QuestionInput) (*entity.Question, error) {
	args := m.Called(ctx, input)
	q, _ := args.Get(0).(*entity.Question)
	return q, args.Error(1)
}

type mockGameService struct{ mock.Mock }

func (m *mockGameService) CreateGame(ctx context.Context, input service.GameInput) (*entity.Game, error) {
	args := m.Called(ctx, input)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (m *mockGameService) ListGames(ctx context.Context, gameType string) ([]entity.Game, error) {
	args := m.Called(ctx, gameType)
	games, _ := args.Get(0).([]entity.Game)
	return games, args.Error(1)
}

func (m *mockGameService) GetGame(ctx context.Context, gameID uint) (*service.GameDetails, error) {
	args := m.Called(ctx, gameID)
	d, _ := args.Get(0).(*service.GameDetails)
	return d, args.Error(1)
}

func (m *mockGameService) StartSession(ctx context.Context, userID, gameID uint) (*service.SessionView, error) {
	args := m.Called(ctx, userID, gameID)
	view, _ := args.Get(0).(*service.SessionView)
	return view, args.Error(1)
}

func (m *mockGameService) GetSession(ctx context.Context, sessionID, userID uint) (*service.SessionView, error) {
	args := m.Called(ctx, sessionID, userID)
	view, _ := args.Get(0).(*service.SessionView)
	return view, args.Error(1)
}

func (m *mockGameService) AnswerQuestion(ctx context.Context, sessionID uint, actor service.Actor, questionID, answerID uint) (*service.SessionAnswerResult, error) {
	args := m.Called(ctx, sessionID, actor, questionID, answerID)
	r, _ := args.Get(0).(*service.SessionAnswerResult)
	return r, args.Error(1)
}
