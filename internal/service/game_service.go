package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/legalgames-api/internal/domain/entity"
	"github.com/yourusername/legalgames-api/internal/domain/repository"
	apperrors "github.com/yourusername/legalgames-api/internal/pkg/errors"
)

const maxGameTitleLength = 200

// GameInput: данные новой одиночной игры
type GameInput struct {
	GameType          string
	Title             string
	Description       string
	Scenario          string
	PointsPerQuestion int
}

// GameDetails: игра с числом вопросов в её наборе
type GameDetails struct {
	Game          *entity.Game
	QuestionCount int
}

// ReviewItem: разбор отвеченного вопроса с пояснением к выбранному варианту
type ReviewItem struct {
	QuestionID   uint
	QuestionText string
	AnswerID     uint
	AnswerText   string
	IsCorrect    bool
	PointsEarned int
	Explanation  string
}

// SessionView: прохождение с текущим вопросом и разбором уже отвеченных
type SessionView struct {
	Session         *entity.GameSession
	Game            *entity.Game
	CurrentQuestion *entity.Question
	Answered        int
	TotalQuestions  int
	Review          []ReviewItem
}

// Progress возвращает долю отвеченных вопросов в процентах
func (v *SessionView) Progress() int {
	if v.TotalQuestions == 0 {
		return 0
	}
	return v.Answered * 100 / v.TotalQuestions
}

// SessionAnswerResult: итог ответа в одиночной игре
type SessionAnswerResult struct {
	IsCorrect      bool
	PointsEarned   int
	Score          int
	Explanation    string
	Completed      bool
	NextQuestionID *uint
}

// GameService ведёт одиночные игры: каталог, прохождения, начисление очков в рейтинг
type GameService struct {
	gameRepo     repository.GameRepository
	questionRepo repository.QuestionRepository
	sessionRepo  repository.SessionRepository
	txManager    repository.TxManager
	results      ResultRecorder
	now          func() time.Time
}

// NewGameService создает сервис одиночных игр
func NewGameService(
	gameRepo repository.GameRepository,
	questionRepo repository.QuestionRepository,
	sessionRepo repository.SessionRepository,
	txManager repository.TxManager,
	results ResultRecorder,
) *GameService {
	return &GameService{
		gameRepo:     gameRepo,
		questionRepo: questionRepo,
		sessionRepo:  sessionRepo,
		txManager:    txManager,
		results:      results,
		now:          time.Now,
	}
}

// CreateGame проверяет и сохраняет новую игру
func (s *GameService) CreateGame(ctx context.Context, input GameInput) (*entity.Game, error) {
	if !entity.IsValidGameType(input.GameType) {
		return nil, fmt.Errorf("%w: unknown game type %q", apperrors.ErrValidation, input.GameType)
	}
	game := &entity.Game{
		GameType:          input.GameType,
		Title:             sanitizeText(input.Title),
		Description:       sanitizeText(input.Description),
		Scenario:          sanitizeText(input.Scenario),
		PointsPerQuestion: input.PointsPerQuestion,
		IsActive:          true,
	}
	if game.Title == "" {
		return nil, fmt.Errorf("%w: game title is required", apperrors.ErrValidation)
	}
	if len([]rune(game.Title)) > maxGameTitleLength {
		return nil, fmt.Errorf("%w: title is longer than %d characters", apperrors.ErrValidation, maxGameTitleLength)
	}
	if game.PointsPerQuestion == 0 {
		game.PointsPerQuestion = entity.DefaultPointsPerQuestion
	}
	if game.PointsPerQuestion < 0 {
		return nil, fmt.Errorf("%w: points per question must be positive", apperrors.ErrValidation)
	}

	if err := s.gameRepo.Create(ctx, game); err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	log.Printf("[GameService] Игра %d создана (%s)", game.ID, game.GameType)
	return game, nil
}

// ListGames возвращает активные игры; пустой gameType означает все типы
func (s *GameService) ListGames(ctx context.Context, gameType string) ([]entity.Game, error) {
	if gameType != "" && !entity.IsValidGameType(gameType) {
		return nil, fmt.Errorf("%w: unknown game type %q", apperrors.ErrValidation, gameType)
	}
	return s.gameRepo.ListActive(ctx, gameType)
}

// GetGame возвращает активную игру и размер её набора вопросов
func (s *GameService) GetGame(ctx context.Context, gameID uint) (*GameDetails, error) {
	game, err := s.activeGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	questions, err := s.questionRepo.ListByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("load game questions: %w", err)
	}
	return &GameDetails{Game: game, QuestionCount: len(questions)}, nil
}

// StartSession начинает прохождение игры. Незавершённое прохождение той же игры
// возвращается как есть, новое не создаётся.
func (s *GameService) StartSession(ctx context.Context, userID, gameID uint) (*SessionView, error) {
	game, err := s.activeGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	questions, err := s.questionRepo.ListByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("load game questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: game %d has no questions", apperrors.ErrValidation, gameID)
	}

	var session *entity.GameSession
	err = s.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		existing, err := s.sessionRepo.FindOpen(ctx, tx, userID, gameID)
		if err == nil {
			session = existing
			return nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		session = &entity.GameSession{
			UserID:      userID,
			GameID:      gameID,
			TotalPoints: entity.TotalPointValue(questions),
			StartedAt:   s.now(),
		}
		if err := s.sessionRepo.Create(ctx, tx, session); err != nil {
			return err
		}
		log.Printf("[GameService] Пользователь %d начал игру %d, прохождение %d", userID, gameID, session.ID)
		return nil
	})
	if errors.Is(err, apperrors.ErrConflict) {
		// Параллельный запрос успел открыть прохождение первым
		session, err = s.sessionRepo.FindOpen(ctx, nil, userID, gameID)
	}
	if err != nil {
		return nil, err
	}

	answers, err := s.sessionRepo.GetAnswers(ctx, nil, session.ID)
	if err != nil {
		return nil, fmt.Errorf("load session answers: %w", err)
	}
	return buildSessionView(session, game, questions, answers), nil
}

// GetSession возвращает прохождение его владельцу вместе с разбором ответов
func (s *GameService) GetSession(ctx context.Context, sessionID, userID uint) (*SessionView, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, fmt.Errorf("%w: session %d belongs to another user", apperrors.ErrForbidden, sessionID)
	}
	game, err := s.gameRepo.GetByID(ctx, session.GameID)
	if err != nil {
		return nil, err
	}
	questions, err := s.questionRepo.ListByGame(ctx, session.GameID)
	if err != nil {
		return nil, fmt.Errorf("load game questions: %w", err)
	}
	answers, err := s.sessionRepo.GetAnswers(ctx, nil, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session answers: %w", err)
	}
	return buildSessionView(session, game, questions, answers), nil
}

// AnswerQuestion принимает ответ на текущий вопрос прохождения. Вопросы идут строго по порядку;
// ответ на последний вопрос завершает прохождение и переносит счёт в рейтинг.
func (s *GameService) AnswerQuestion(ctx context.Context, sessionID uint, actor Actor, questionID, answerID uint) (*SessionAnswerResult, error) {
	var (
		result  *SessionAnswerResult
		session *entity.GameSession
	)
	err := s.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		session, err = s.sessionRepo.GetByIDForUpdate(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		if session.UserID != actor.UserID {
			return fmt.Errorf("%w: session %d belongs to another user", apperrors.ErrForbidden, sessionID)
		}
		if session.Completed {
			return fmt.Errorf("%w: session %d is completed", apperrors.ErrInvalidTransition, sessionID)
		}

		questions, err := s.questionRepo.ListByGame(ctx, session.GameID)
		if err != nil {
			return fmt.Errorf("load game questions: %w", err)
		}
		answers, err := s.sessionRepo.GetAnswers(ctx, tx, sessionID)
		if err != nil {
			return fmt.Errorf("load session answers: %w", err)
		}
		for _, a := range answers {
			if a.QuestionID == questionID {
				return fmt.Errorf("%w: question %d", apperrors.ErrDuplicateAnswer, questionID)
			}
		}
		current := entity.NextUnanswered(questions, answers)
		if current == nil || current.ID != questionID {
			return fmt.Errorf("%w: question %d is not the current one", apperrors.ErrInvalidTransition, questionID)
		}
		answer, ok := current.FindAnswer(answerID)
		if !ok {
			return fmt.Errorf("%w: answer %d does not belong to question %d", apperrors.ErrValidation, answerID, questionID)
		}

		record := &entity.SessionAnswer{
			SessionID:    sessionID,
			QuestionID:   questionID,
			AnswerID:     answerID,
			IsCorrect:    answer.IsCorrect,
			PointsEarned: current.CalculatePoints(answer.IsCorrect),
			AnsweredAt:   s.now(),
		}
		if err := s.sessionRepo.SaveAnswer(ctx, tx, record); err != nil {
			return err
		}
		session.Score += record.PointsEarned

		result = &SessionAnswerResult{
			IsCorrect:    record.IsCorrect,
			PointsEarned: record.PointsEarned,
			Explanation:  answer.Explanation,
		}
		if next := entity.NextUnanswered(questions, append(answers, *record)); next != nil {
			id := next.ID
			result.NextQuestionID = &id
		} else {
			now := s.now()
			session.Completed = true
			session.CompletedAt = &now
			result.Completed = true
		}
		result.Score = session.Score

		if err := s.sessionRepo.Save(ctx, tx, session); err != nil {
			return err
		}
		if session.Completed && s.results != nil {
			err := s.results.AddResults(ctx, tx, PlayerResult{
				UserID:   actor.UserID,
				Username: actor.Username,
				Points:   int64(session.Score),
			})
			if err != nil {
				return fmt.Errorf("record session result: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Completed {
		log.Printf("[GameService] Прохождение %d завершено: %d из %d очков", sessionID, session.Score, session.TotalPoints)
		if s.results != nil {
			if err := s.results.Recompute(ctx); err != nil {
				log.Printf("[GameService] Ошибка пересчёта рейтинга после прохождения %d: %v", sessionID, err)
			}
		}
	}
	return result, nil
}

func (s *GameService) activeGame(ctx context.Context, gameID uint) (*entity.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if !game.IsActive {
		return nil, fmt.Errorf("%w: game %d is not active", apperrors.ErrNotFound, gameID)
	}
	return game, nil
}

func buildSessionView(session *entity.GameSession, game *entity.Game, questions []entity.Question, answers []entity.SessionAnswer) *SessionView {
	view := &SessionView{
		Session:        session,
		Game:           game,
		Answered:       len(answers),
		TotalQuestions: len(questions),
	}
	if !session.Completed {
		view.CurrentQuestion = entity.NextUnanswered(questions, answers)
	}

	byID := make(map[uint]*entity.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}
	for _, a := range answers {
		item := ReviewItem{
			QuestionID:   a.QuestionID,
			AnswerID:     a.AnswerID,
			IsCorrect:    a.IsCorrect,
			PointsEarned: a.PointsEarned,
		}
		// Вопрос могли снять с публикации после ответа: разбор остаётся без текста
		if q, ok := byID[a.QuestionID]; ok {
			item.QuestionText = q.Text
			if chosen, ok := q.FindAnswer(a.AnswerID); ok {
				item.AnswerText = chosen.Text
				item.Explanation = chosen.Explanation
			}
		}
		view.Review = append(view.Review, item)
	}
	return view
}
