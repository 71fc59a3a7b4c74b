package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yourusername/legalgames-api/internal/config"
	"github.com/yourusername/legalgames-api/internal/domain/entity"
	"github.com/yourusername/legalgames-api/internal/domain/repository"
	apperrors "github.com/yourusername/legalgames-api/internal/pkg/errors"
)

// MatchView: матч с текущим вопросом (без отметок о верных ответах)
// и уже принятыми ответами запросившего игрока
type MatchView struct {
	Match           *entity.QuizMatch
	CurrentQuestion *entity.Question
	MyAnswers       []entity.MatchAnswer
	AnsweredCurrent bool
}

// AnswerResult: итог принятого ответа
type AnswerResult struct {
	IsCorrect    bool
	PointsEarned int
	PlayerScore  int
	TimeExceeded bool
	// Explanation: пояснение к выбранному варианту, показывается после ответа
	Explanation string
}

// MatchService ведёт дуэли: подбор соперника, ответы, смена вопросов, завершение
type MatchService struct {
	matchRepo    repository.MatchRepository
	questionRepo repository.QuestionRepository
	txManager    repository.TxManager
	results      ResultRecorder
	cfg          config.GameConfig
	now          func() time.Time
}

// NewMatchService создает сервис дуэлей
func NewMatchService(
	matchRepo repository.MatchRepository,
	questionRepo repository.QuestionRepository,
	txManager repository.TxManager,
	results ResultRecorder,
	cfg config.GameConfig,
) *MatchService {
	return &MatchService{
		matchRepo:    matchRepo,
		questionRepo: questionRepo,
		txManager:    txManager,
		results:      results,
		cfg:          cfg,
		now:          time.Now,
	}
}

// Enqueue ставит игрока в очередь. Открытый матч игрока возвращается как есть,
// иначе игрок занимает самый старый ожидающий матч или открывает новый.
func (s *MatchService) Enqueue(ctx context.Context, playerID uint) (*entity.QuizMatch, error) {
	var result *entity.QuizMatch
	err := s.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.matchRepo.LockMatchmaking(ctx, tx); err != nil {
			return fmt.Errorf("lock matchmaking: %w", err)
		}
		existing, err := s.matchRepo.FindOpenByPlayer(ctx, tx, playerID)
		if err == nil {
			result = existing
			return nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		waiting, err := s.matchRepo.ClaimSearching(ctx, tx, playerID)
		switch {
		case err == nil:
			seat := playerID
			waiting.Player2ID = &seat
			waiting.Status = entity.MatchStatusMatched
			if err := s.matchRepo.Save(ctx, tx, waiting); err != nil {
				return err
			}
			log.Printf("[MatchService] Игрок %d подобран в матч %s к игроку %d", playerID, waiting.ID, waiting.Player1ID)
			result = waiting
			return nil
		case !errors.Is(err, apperrors.ErrNotFound):
			return err
		}

		match := &entity.QuizMatch{
			ID:             uuid.New(),
			Player1ID:      playerID,
			Status:         entity.MatchStatusSearching,
			TotalQuestions: s.totalQuestions(),
		}
		if err := s.matchRepo.Create(ctx, tx, match); err != nil {
			return err
		}
		log.Printf("[MatchService] Игрок %d открыл поиск, матч %s", playerID, match.ID)
		result = match
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetMatch возвращает матч участнику вместе с текущим вопросом
func (s *MatchService) GetMatch(ctx context.Context, matchID uuid.UUID, playerID uint) (*MatchView, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.IsPlayer(playerID) {
		return nil, fmt.Errorf("%w: not a player of match %s", apperrors.ErrForbidden, matchID)
	}
	view := &MatchView{Match: match}
	if match.CurrentQuestionID != nil {
		question, err := s.questionRepo.GetWithAnswers(ctx, *match.CurrentQuestionID)
		if err != nil {
			return nil, err
		}
		view.CurrentQuestion = question
	}

	answers, err := s.matchRepo.GetAnswers(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("load match answers: %w", err)
	}
	for _, a := range answers {
		if a.PlayerID != playerID {
			continue
		}
		view.MyAnswers = append(view.MyAnswers, a)
		if match.CurrentQuestionID != nil && a.QuestionID == *match.CurrentQuestionID {
			view.AnsweredCurrent = true
		}
	}
	return view, nil
}

// SubmitAnswer принимает ответ на текущий вопрос. Каждый игрок отвечает на вопрос один раз.
func (s *MatchService) SubmitAnswer(ctx context.Context, matchID uuid.UUID, playerID, questionID, answerID uint, timeTaken time.Duration) (*AnswerResult, error) {
	var result *AnswerResult
	err := s.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		match, err := s.matchRepo.GetByIDForUpdate(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if !match.IsPlayer(playerID) {
			return fmt.Errorf("%w: not a player of match %s", apperrors.ErrForbidden, matchID)
		}
		if match.Status != entity.MatchStatusActive {
			return fmt.Errorf("%w: match %s is %s", apperrors.ErrInvalidTransition, matchID, match.Status)
		}
		if match.CurrentQuestionID == nil || *match.CurrentQuestionID != questionID {
			return fmt.Errorf("%w: question %d is not the current one", apperrors.ErrInvalidTransition, questionID)
		}

		answered, err := s.matchRepo.AnswerExists(ctx, tx, matchID, playerID, questionID)
		if err != nil {
			return err
		}
		if answered {
			return fmt.Errorf("%w: question %d", apperrors.ErrDuplicateAnswer, questionID)
		}

		question, err := s.questionRepo.GetWithAnswers(ctx, questionID)
		if err != nil {
			return err
		}
		answer, ok := question.FindAnswer(answerID)
		if !ok {
			return fmt.Errorf("%w: answer %d does not belong to question %d", apperrors.ErrValidation, answerID, questionID)
		}

		points := question.CalculatePoints(answer.IsCorrect)
		record := &entity.MatchAnswer{
			MatchID:      matchID,
			PlayerID:     playerID,
			QuestionID:   questionID,
			AnswerID:     answerID,
			IsCorrect:    answer.IsCorrect,
			PointsEarned: points,
			TimeTakenMs:  timeTaken.Milliseconds(),
		}
		if err := s.matchRepo.SaveAnswer(ctx, tx, record); err != nil {
			return err
		}
		match.AddPoints(playerID, points)
		if err := s.matchRepo.Save(ctx, tx, match); err != nil {
			return err
		}

		result = &AnswerResult{
			IsCorrect:    answer.IsCorrect,
			PointsEarned: points,
			PlayerScore:  match.ScoreOf(playerID),
			TimeExceeded: question.IsTimeExceeded(timeTaken),
			Explanation:  answer.Explanation,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AdvanceQuestion двигает матч вперёд. Первый вызов запускает подобранный матч,
// последующие закрывают текущий вопрос; после последнего матч завершается.
// nextQuestionID задаёт следующий вопрос явно, иначе берётся случайный неиспользованный.
func (s *MatchService) AdvanceQuestion(ctx context.Context, matchID uuid.UUID, actor Actor, nextQuestionID *uint) (*entity.QuizMatch, error) {
	var (
		updated  *entity.QuizMatch
		finished bool
	)
	err := s.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		match, err := s.matchRepo.GetByIDForUpdate(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if !match.IsPlayer(actor.UserID) {
			return fmt.Errorf("%w: not a player of match %s", apperrors.ErrForbidden, matchID)
		}

		switch match.Status {
		case entity.MatchStatusMatched:
			question, err := s.serveQuestion(ctx, tx, match, nextQuestionID)
			if err != nil {
				return err
			}
			now := s.now()
			match.Status = entity.MatchStatusActive
			match.StartedAt = &now
			match.QuestionNumber = 0
			match.CurrentQuestionID = &question.ID
			log.Printf("[MatchService] Матч %s начат, первый вопрос %d", matchID, question.ID)

		case entity.MatchStatusActive:
			match.QuestionNumber++
			if match.QuestionNumber >= match.TotalQuestions {
				s.complete(match)
				finished = true
				break
			}
			question, err := s.serveQuestion(ctx, tx, match, nextQuestionID)
			if errors.Is(err, apperrors.ErrNotFound) && nextQuestionID == nil {
				// Банк вопросов исчерпан: завершаем с текущим счётом
				log.Printf("[MatchService] Матч %s: вопросы закончились на %d из %d", matchID, match.QuestionNumber, match.TotalQuestions)
				s.complete(match)
				finished = true
				break
			}
			if err != nil {
				return err
			}
			match.CurrentQuestionID = &question.ID

		default:
			return fmt.Errorf("%w: match %s is %s", apperrors.ErrInvalidTransition, matchID, match.Status)
		}

		if err := s.matchRepo.Save(ctx, tx, match); err != nil {
			return err
		}
		if finished && s.results != nil {
			if err := s.results.AddResults(ctx, tx, matchResults(match, actor)...); err != nil {
				return fmt.Errorf("record match results: %w", err)
			}
		}
		updated = match
		return nil
	})
	if err != nil {
		return nil, err
	}

	if finished {
		log.Printf("[MatchService] Матч %s завершён %d:%d", matchID, updated.Player1Score, updated.Player2Score)
		if s.results != nil {
			if err := s.results.Recompute(ctx); err != nil {
				log.Printf("[MatchService] Ошибка пересчёта рейтинга после матча %s: %v", matchID, err)
			}
		}
	}
	return updated, nil
}

// CancelSearch отменяет поиск соперника; доступно создателю матча, пока соперник не найден
func (s *MatchService) CancelSearch(ctx context.Context, matchID uuid.UUID, playerID uint) (*entity.QuizMatch, error) {
	var cancelled *entity.QuizMatch
	err := s.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		match, err := s.matchRepo.GetByIDForUpdate(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if match.Player1ID != playerID {
			return fmt.Errorf("%w: only the searching player can cancel match %s", apperrors.ErrForbidden, matchID)
		}
		if match.Status != entity.MatchStatusSearching {
			return fmt.Errorf("%w: match %s is %s", apperrors.ErrInvalidTransition, matchID, match.Status)
		}
		now := s.now()
		match.Status = entity.MatchStatusCancelled
		match.CompletedAt = &now
		if err := s.matchRepo.Save(ctx, tx, match); err != nil {
			return err
		}
		cancelled = match
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[MatchService] Поиск %s отменён игроком %d", matchID, playerID)
	return cancelled, nil
}

func (s *MatchService) complete(match *entity.QuizMatch) {
	now := s.now()
	match.Status = entity.MatchStatusCompleted
	match.CurrentQuestionID = nil
	match.CompletedAt = &now
	match.WinnerID = match.DecideWinner()
}

// serveQuestion выбирает следующий вопрос матча и отмечает его выданным.
// Явно указанный вопрос должен быть активным и ещё не выданным в матче,
// иначе берётся случайный активный вопрос вне уже выданных.
func (s *MatchService) serveQuestion(ctx context.Context, tx *gorm.DB, match *entity.QuizMatch, requested *uint) (*entity.Question, error) {
	served, err := s.matchRepo.ServedQuestionIDs(ctx, tx, match.ID)
	if err != nil {
		return nil, fmt.Errorf("load served questions: %w", err)
	}
	if match.CurrentQuestionID != nil && !slices.Contains(served, *match.CurrentQuestionID) {
		served = append(served, *match.CurrentQuestionID)
	}

	var question *entity.Question
	if requested != nil {
		if slices.Contains(served, *requested) {
			return nil, fmt.Errorf("%w: question %d was already used in match %s", apperrors.ErrConflict, *requested, match.ID)
		}
		question, err = s.questionRepo.GetWithAnswers(ctx, *requested)
		if err != nil {
			return nil, err
		}
		if !question.IsActive {
			return nil, fmt.Errorf("%w: question %d is inactive", apperrors.ErrValidation, question.ID)
		}
	} else {
		question, err = s.questionRepo.PickRandomActive(ctx, served)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: no unused active questions", apperrors.ErrNotFound)
			}
			return nil, err
		}
	}

	record := &entity.MatchQuestion{
		MatchID:    match.ID,
		QuestionID: question.ID,
		Position:   len(served) + 1,
		ServedAt:   s.now(),
	}
	if err := s.matchRepo.AddServedQuestion(ctx, tx, record); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *MatchService) totalQuestions() int {
	if s.cfg.MatchQuestions > 0 {
		return s.cfg.MatchQuestions
	}
	return entity.DefaultMatchQuestions
}

func matchResults(match *entity.QuizMatch, actor Actor) []PlayerResult {
	results := make([]PlayerResult, 0, 2)
	for _, id := range match.Players() {
		r := PlayerResult{UserID: id, Points: int64(match.ScoreOf(id))}
		if id == actor.UserID {
			r.Username = actor.Username
		}
		results = append(results, r)
	}
	return results
}
