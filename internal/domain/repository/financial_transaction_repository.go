package repository

import (
	"time"

	"github.com/bellezapp/backend/internal/domain/entity"
)

// FinancialTransactionRepository puerto de persistencia del ledger contable (DIP).
type FinancialTransactionRepository interface {
	Create(t *entity.FinancialTransaction) error
	List(storeID string, from, to *time.Time) ([]*entity.FinancialTransaction, error)
	// HasExpenseForReturn indica si existe un egreso enlazado por FK a la devolución.
	HasExpenseForReturn(returnRequestID string) (bool, error)
}
