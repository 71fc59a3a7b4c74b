package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/legalgames-api/internal/config"
	"github.com/yourusername/legalgames-api/internal/domain/entity"
	"github.com/yourusername/legalgames-api/internal/domain/repository"
	apperrors "github.com/yourusername/legalgames-api/internal/pkg/errors"
)

const (
	defaultRoomTitle    = "Courtroom Simulation"
	defaultRoomScenario = "A civil dispute is brought before the court. Each side presents arguments and evidence in turn."
	maxRoomTitleLength  = 200
)

// ResultRecorder принимает очки завершённых игр для общего рейтинга.
// AddResults пишет в переданную транзакцию, Recompute вызывается после её фиксации.
type ResultRecorder interface {
	AddResults(ctx context.Context, tx *gorm.DB, results ...PlayerResult) error
	Recompute(ctx context.Context) error
}

// RoomView: комната глазами конкретного пользователя
type RoomView struct {
	Room           *entity.Room
	Seat           int
	Role           string
	OpponentOnline bool
}

// Lobby: открытые комнаты и комнаты пользователя
type Lobby struct {
	Open []entity.Room
	Mine []entity.Room
}

// RoomService управляет жизненным циклом комнат: создание, вход, роли, завершение
type RoomService struct {
	roomRepo     repository.RoomRepository
	presenceRepo repository.PresenceRepository
	txManager    repository.TxManager
	results      ResultRecorder
	codeGen      CodeGenerator
	cfg          config.GameConfig
	now          func() time.Time
}

// NewRoomService создает сервис комнат
func NewRoomService(
	roomRepo repository.RoomRepository,
	presenceRepo repository.PresenceRepository,
	txManager repository.TxManager,
	results ResultRecorder,
	codeGen CodeGenerator,
	cfg config.GameConfig,
) *RoomService {
	if codeGen == nil {
		codeGen = NewRandomCodeGenerator(cfg.RoomCodeLength)
	}
	return &RoomService{
		roomRepo:     roomRepo,
		presenceRepo: presenceRepo,
		txManager:    txManager,
		results:      results,
		codeGen:      codeGen,
		cfg:          cfg,
		now:          time.Now,
	}
}

// CreateRoom создаёт комнату в статусе waiting; создатель занимает первое место без роли
func (s *RoomService) CreateRoom(ctx context.Context, creatorID uint, title, scenario string) (*entity.Room, error) {
	title = sanitizeText(title)
	if title == "" {
		title = defaultRoomTitle
	}
	if len([]rune(title)) > maxRoomTitleLength {
		return nil, fmt.Errorf("%w: title is longer than %d characters", apperrors.ErrValidation, maxRoomTitleLength)
	}
	scenario = sanitizeText(scenario)
	if scenario == "" {
		scenario = defaultRoomScenario
	}

	for attempt := 1; attempt <= s.cfg.RoomCodeMaxAttempts; attempt++ {
		code, err := s.codeGen()
		if err != nil {
			return nil, err
		}
		exists, err := s.roomRepo.CodeExists(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("check room code: %w", err)
		}
		if exists {
			continue
		}

		creator := creatorID
		room := &entity.Room{
			Code:        code,
			Title:       title,
			Scenario:    scenario,
			Status:      entity.RoomStatusWaiting,
			CreatedByID: creatorID,
			Player1ID:   &creator,
		}
		err = s.roomRepo.Create(ctx, room)
		if errors.Is(err, repository.ErrCodeTaken) {
			// Код успели занять между проверкой и вставкой
			log.Printf("[RoomService] Коллизия кода %s при вставке, попытка %d", code, attempt)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create room: %w", err)
		}
		log.Printf("[RoomService] Комната %s создана пользователем %d", room.Code, creatorID)
		return room, nil
	}

	log.Printf("[RoomService] Не удалось подобрать свободный код за %d попыток", s.cfg.RoomCodeMaxAttempts)
	return nil, fmt.Errorf("%w: no free room code after %d attempts", apperrors.ErrCodeSpaceExhausted, s.cfg.RoomCodeMaxAttempts)
}

// JoinRoom сажает пользователя на первое свободное место.
// Повторный вход уже сидящего игрока ничего не меняет.
func (s *RoomService) JoinRoom(ctx context.Context, code string, userID uint) (*entity.Room, error) {
	code = NormalizeRoomCode(code)
	var joined *entity.Room
	err := s.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		room, err := s.roomRepo.GetByCodeForUpdate(ctx, tx, code)
		if err != nil {
			return err
		}
		if room.IsSeated(userID) {
			joined = room
			return nil
		}
		if room.IsFull() {
			return fmt.Errorf("%w: room %s", apperrors.ErrAlreadyFull, code)
		}
		if !room.IsJoinable() {
			return fmt.Errorf("%w: room %s is %s", apperrors.ErrInvalidTransition, code, room.Status)
		}

		seat := userID
		if room.Player1ID == nil {
			room.Player1ID = &seat
		} else {
			room.Player2ID = &seat
		}
		if room.IsFull() && room.CanTransitionTo(entity.RoomStatusReady) {
			room.Status = entity.RoomStatusReady
		}
		if err := s.roomRepo.Save(ctx, tx, room); err != nil {
			return err
		}
		log.Printf("[RoomService] Пользователь %d присоединился к комнате %s (статус %s)", userID, code, room.Status)
		joined = room
		return nil
	})
	if err != nil {
		return nil, err
	}
	return joined, nil
}

// EnterRoom открывает комнату участнику. Заполненная комната в статусе ready
// при первом входе становится active, первый ход у первого места.
func (s *RoomService) EnterRoom(ctx context.Context, code string, userID uint) (*RoomView, error) {
	code = NormalizeRoomCode(code)
	room, err := s.roomRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !room.IsParticipant(userID) {
		return nil, fmt.Errorf("%w: not a participant of room %s", apperrors.ErrForbidden, code)
	}

	if room.Status == entity.RoomStatusReady && room.IsFull() {
		room, err = s.activate(ctx, code)
		if err != nil {
			return nil, err
		}
	}

	s.touchPresence(ctx, code, userID)
	view := &RoomView{
		Room: room,
		Seat: room.SeatOf(userID),
		Role: room.RoleOf(userID),
	}
	if opponent := room.OtherPlayer(userID); opponent != nil && s.presenceRepo != nil {
		online, err := s.presenceRepo.IsOnline(ctx, code, *opponent)
		if err != nil {
			log.Printf("[RoomService] Ошибка проверки присутствия в комнате %s: %v", code, err)
		}
		view.OpponentOnline = online
	}
	return view, nil
}

// activate переводит ready → active под блокировкой строки.
// Конкурентный вход второго игрока увидит уже активную комнату.
func (s *RoomService) activate(ctx context.Context, code string) (*entity.Room, error) {
	var activated *entity.Room
	err := s.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		room, err := s.roomRepo.GetByCodeForUpdate(ctx, tx, code)
		if err != nil {
			return err
		}
		activated = room
		if room.Status != entity.RoomStatusReady || !room.IsFull() {
			return nil
		}
		now := s.now()
		room.Status = entity.RoomStatusActive
		room.StartedAt = &now
		first := *room.Player1ID
		room.CurrentTurnID = &first
		if err := s.roomRepo.Save(ctx, tx, room); err != nil {
			return err
		}
		log.Printf("[RoomService] Комната %s запущена, первый ход у %d", code, first)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return activated, nil
}

// AssignRole назначает роль сидящему игроку до начала игры
func (s *RoomService) AssignRole(ctx context.Context, code string, userID uint, role string) (*entity.Room, error) {
	code = NormalizeRoomCode(code)
	if !entity.IsValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, role)
	}
	var updated *entity.Room
	err := s.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		room, err := s.roomRepo.GetByCodeForUpdate(ctx, tx, code)
		if err != nil {
			return err
		}
		seat := room.SeatOf(userID)
		if seat == entity.SeatNone {
			return fmt.Errorf("%w: not seated in room %s", apperrors.ErrForbidden, code)
		}
		if !room.IsJoinable() {
			return fmt.Errorf("%w: roles are fixed once room %s is %s", apperrors.ErrInvalidTransition, code, room.Status)
		}
		if opponent := room.OtherPlayer(userID); opponent != nil && room.RoleOf(*opponent) == role {
			return fmt.Errorf("%w: role %s is taken", apperrors.ErrConflict, role)
		}
		if seat == entity.SeatOne {
			room.Player1Role = role
		} else {
			room.Player2Role = role
		}
		if err := s.roomRepo.Save(ctx, tx, room); err != nil {
			return err
		}
		updated = room
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CompleteRoom завершает активную игру с итоговым счётом и передаёт очки в рейтинг
func (s *RoomService) CompleteRoom(ctx context.Context, code string, actor Actor, player1Score, player2Score int) (*entity.Room, error) {
	code = NormalizeRoomCode(code)
	if player1Score < 0 || player2Score < 0 {
		return nil, fmt.Errorf("%w: scores must not be negative", apperrors.ErrValidation)
	}
	var completed *entity.Room
	err := s.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		room, err := s.roomRepo.GetByCodeForUpdate(ctx, tx, code)
		if err != nil {
			return err
		}
		if !room.IsSeated(actor.UserID) {
			return fmt.Errorf("%w: not seated in room %s", apperrors.ErrForbidden, code)
		}
		if !room.CanTransitionTo(entity.RoomStatusCompleted) {
			return fmt.Errorf("%w: room %s is %s", apperrors.ErrInvalidTransition, code, room.Status)
		}

		now := s.now()
		room.Player1Score = player1Score
		room.Player2Score = player2Score
		room.WinnerID = room.DecideWinner()
		room.Status = entity.RoomStatusCompleted
		room.CompletedAt = &now
		room.CurrentTurnID = nil
		if err := s.roomRepo.Save(ctx, tx, room); err != nil {
			return err
		}

		if s.results != nil {
			if err := s.results.AddResults(ctx, tx, roomResults(room, actor)...); err != nil {
				return fmt.Errorf("record room results: %w", err)
			}
		}
		completed = room
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[RoomService] Комната %s завершена: %d:%d", code, player1Score, player2Score)

	if s.results != nil {
		if err := s.results.Recompute(ctx); err != nil {
			// Очки уже записаны, места догонят при следующем пересчёте
			log.Printf("[RoomService] Ошибка пересчёта рейтинга после комнаты %s: %v", code, err)
		}
	}
	return completed, nil
}

func roomResults(room *entity.Room, actor Actor) []PlayerResult {
	var results []PlayerResult
	add := func(id *uint, score int) {
		if id == nil {
			return
		}
		r := PlayerResult{UserID: *id, Points: int64(score)}
		if *id == actor.UserID {
			r.Username = actor.Username
		}
		results = append(results, r)
	}
	add(room.Player1ID, room.Player1Score)
	add(room.Player2ID, room.Player2Score)
	return results
}

// ListLobby возвращает открытые комнаты и комнаты пользователя
func (s *RoomService) ListLobby(ctx context.Context, userID uint) (*Lobby, error) {
	open, err := s.roomRepo.ListOpen(ctx, s.cfg.LobbyOpenLimit)
	if err != nil {
		return nil, fmt.Errorf("list open rooms: %w", err)
	}
	mine, err := s.roomRepo.ListByParticipant(ctx, userID, s.cfg.LobbyMineLimit)
	if err != nil {
		return nil, fmt.Errorf("list user rooms: %w", err)
	}
	return &Lobby{Open: open, Mine: mine}, nil
}

// touchPresence продлевает присутствие; сбой Redis не мешает игре
func (s *RoomService) touchPresence(ctx context.Context, code string, userID uint) {
	if s.presenceRepo == nil {
		return
	}
	if err := s.presenceRepo.Touch(ctx, code, userID); err != nil {
		log.Printf("[RoomService] Ошибка записи присутствия %d в комнате %s: %v", userID, code, err)
	}
}
