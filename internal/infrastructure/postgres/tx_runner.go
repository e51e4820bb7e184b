package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bellezapp/backend/internal/application/cash"
	"github.com/bellezapp/backend/internal/application/returns"
)

// Ensure TxRunner implements returns.TxRunner and cash.TxRunner.
var _ returns.TxRunner = (*TxRunner)(nil)
var _ cash.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con los repos del flujo de
// devoluciones atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(tr returns.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := returns.TxRepos{
		Returns:       NewReturnRequestRepository(tx),
		ProductStores: NewProductStoreRepository(tx),
		Refunds:       NewRefundTransactionRepository(tx),
		CashMovements: NewCashMovementRepository(tx),
		Financial:     NewFinancialTransactionRepository(tx),
		Audit:         NewAuditLogRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunCash inicia una transacción con los repos de caja (apertura/cierre).
func (r *TxRunner) RunCash(ctx context.Context, fn func(tr cash.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := cash.TxRepos{
		Registers: NewCashRegisterRepository(tx),
		Movements: NewCashMovementRepository(tx),
		Audit:     NewAuditLogRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
