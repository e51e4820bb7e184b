package cash

import (
	"context"

	"github.com/bellezapp/backend/internal/domain/repository"
)

// TxRepos repositorios de caja atados a una transacción en curso.
type TxRepos struct {
	Registers repository.CashRegisterRepository
	Movements repository.CashMovementRepository
	Audit     repository.AuditLogRepository
}

// TxRunner ejecuta fn dentro de una transacción de base de datos.
type TxRunner interface {
	RunCash(ctx context.Context, fn func(r TxRepos) error) error
}
