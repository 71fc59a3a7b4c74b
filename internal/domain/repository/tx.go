package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxManager выполняет функцию в транзакции БД.
// Транзакция откатывается, если fn вернула ошибку или запаниковала.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}
