package repository

import (
	"time"

	"github.com/bellezapp/backend/internal/domain/entity"
)

// RefundTransactionRepository puerto de persistencia para reembolsos (DIP).
type RefundTransactionRepository interface {
	Create(rt *entity.RefundTransaction) error
	GetByReturnRequest(returnRequestID string) (*entity.RefundTransaction, error)
	ListByStore(storeID string, from, to *time.Time) ([]*entity.RefundTransaction, error)
}
