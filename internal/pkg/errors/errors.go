package errors

import (
	"errors"
	"fmt"
)

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда комната, матч или запись не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок аутентификации (нет токена, неверный токен).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда пользователь не является участником комнаты/матча.
	ErrForbidden = errors.New("forbidden")

	// ErrAlreadyFull используется, когда оба места в комнате заняты другими игроками.
	ErrAlreadyFull = errors.New("room is full")

	// ErrDuplicateAnswer используется при повторном ответе на тот же вопрос в том же матче.
	ErrDuplicateAnswer = errors.New("question already answered")

	// ErrInvalidTransition используется, когда операция не допустима в текущем статусе комнаты/матча.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для конфликтов состояния (например, роль уже занята соперником).
	ErrConflict = errors.New("resource state conflict")

	// ErrCodeSpaceExhausted: не удалось подобрать свободный код комнаты за отведённое число попыток.
	ErrCodeSpaceExhausted = errors.New("room code space exhausted")
)

// ErrNotYourTurn: частный случай ErrForbidden: ход принадлежит сопернику.
var ErrNotYourTurn = fmt.Errorf("%w: not your turn", ErrForbidden)
