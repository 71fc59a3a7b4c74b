package repository

import "errors"

var (
	// ErrCodeTaken означает, что код комнаты уже занят (нарушение уникального индекса при вставке).
	ErrCodeTaken = errors.New("room code already taken")
)
