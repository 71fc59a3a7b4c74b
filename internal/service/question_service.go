package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/yourusername/legalgames-api/internal/domain/entity"
	"github.com/yourusername/legalgames-api/internal/domain/repository"
	apperrors "github.com/yourusername/legalgames-api/internal/pkg/errors"
)

// AnswerInput: вариант ответа при создании вопроса
type AnswerInput struct {
	Text        string
	IsCorrect   bool
	Explanation string
}

// QuestionInput: данные нового вопроса. Без GameID вопрос попадает в общий банк дуэлей.
type QuestionInput struct {
	GameID       *uint
	SortOrder    int
	Text         string
	PointValue   int
	TimeLimitSec int
	Answers      []AnswerInput
}

// QuestionService ведёт банк вопросов дуэлей и наборы вопросов одиночных игр
type QuestionService struct {
	questionRepo repository.QuestionRepository
	gameRepo     repository.GameRepository
}

// NewQuestionService создает сервис вопросов
func NewQuestionService(questionRepo repository.QuestionRepository, gameRepo repository.GameRepository) *QuestionService {
	return &QuestionService{questionRepo: questionRepo, gameRepo: gameRepo}
}

// CreateQuestion проверяет и сохраняет вопрос: минимум два варианта, ровно один верный
func (s *QuestionService) CreateQuestion(ctx context.Context, input QuestionInput) (*entity.Question, error) {
	question := &entity.Question{
		GameID:       input.GameID,
		SortOrder:    input.SortOrder,
		Text:         sanitizeText(input.Text),
		PointValue:   input.PointValue,
		TimeLimitSec: input.TimeLimitSec,
		IsActive:     true,
	}
	if question.Text == "" {
		return nil, fmt.Errorf("%w: question text is required", apperrors.ErrValidation)
	}
	defaultPoints := entity.DefaultPointsPerQuestion
	if input.GameID != nil {
		game, err := s.gameRepo.GetByID(ctx, *input.GameID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: game %d does not exist", apperrors.ErrValidation, *input.GameID)
			}
			return nil, err
		}
		// Вопрос игры по умолчанию стоит столько, сколько задано в игре
		defaultPoints = game.PointsPerQuestion
	}
	if question.PointValue == 0 {
		question.PointValue = defaultPoints
	}
	if question.TimeLimitSec == 0 {
		question.TimeLimitSec = 30
	}
	if question.PointValue < 0 || question.TimeLimitSec < 0 || question.SortOrder < 0 {
		return nil, fmt.Errorf("%w: point value, time limit and sort order must not be negative", apperrors.ErrValidation)
	}
	if len(input.Answers) < 2 {
		return nil, fmt.Errorf("%w: at least two answers are required", apperrors.ErrValidation)
	}

	for i, a := range input.Answers {
		text := sanitizeText(a.Text)
		if text == "" {
			return nil, fmt.Errorf("%w: answer %d has no text", apperrors.ErrValidation, i+1)
		}
		question.Answers = append(question.Answers, entity.Answer{
			Text:        text,
			IsCorrect:   a.IsCorrect,
			Explanation: sanitizeText(a.Explanation),
			SortOrder:   i,
		})
	}
	if question.CorrectCount() != 1 {
		return nil, fmt.Errorf("%w: exactly one answer must be correct", apperrors.ErrValidation)
	}

	if err := s.questionRepo.Create(ctx, question); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	log.Printf("[QuestionService] Вопрос %d создан (%d вариантов)", question.ID, len(question.Answers))
	return question, nil
}
