package returns

import (
	"context"

	"github.com/bellezapp/backend/internal/domain/repository"
)

// TxRepos son los repositorios atados a una transacción en curso. Todo lo que
// se escriba a través de ellos se confirma o revierte junto.
type TxRepos struct {
	Returns       repository.ReturnRequestRepository
	ProductStores repository.ProductStoreRepository
	Refunds       repository.RefundTransactionRepository
	CashMovements repository.CashMovementRepository
	Financial     repository.FinancialTransactionRepository
	Audit         repository.AuditLogRepository
}

// TxRunner ejecuta fn dentro de una transacción de base de datos.
// Si fn devuelve error se hace rollback; si no, commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}
