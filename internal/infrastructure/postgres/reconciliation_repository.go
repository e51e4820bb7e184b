package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bellezapp/backend/internal/domain/entity"
	"github.com/bellezapp/backend/internal/domain/repository"
)

var _ repository.ReconciliationRepository = (*ReconciliationRepo)(nil)

// ReconciliationRepo consultas de solo lectura para reconciliación contable.
// Cada ledger se agrega en una sola pasada SQL.
type ReconciliationRepo struct {
	pool *pgxpool.Pool
}

// NewReconciliationRepository construye el adaptador de reconciliación.
func NewReconciliationRepository(pool *pgxpool.Pool) *ReconciliationRepo {
	return &ReconciliationRepo{pool: pool}
}

// SumCashMovements agrupa income|sale como ingresos y expense|refund como
// egresos; apertura, cierre y ajustes no cuentan.
func (r *ReconciliationRepo) SumCashMovements(ctx context.Context, storeID string, from, to *time.Time) (repository.LedgerTotals, error) {
	query := `
		SELECT
		    COALESCE(SUM(amount) FILTER (WHERE type IN ('income', 'sale')), 0)    AS income,
		    COALESCE(SUM(amount) FILTER (WHERE type IN ('expense', 'refund')), 0) AS expenses
		FROM cash_movements
		WHERE store_id = $1`
	query, args := rangeArgs(query, "date", []any{storeID}, from, to)

	var t repository.LedgerTotals
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&t.Income, &t.Expenses); err != nil {
		return t, fmt.Errorf("sum cash movements: %w", err)
	}
	return t, nil
}

// SumFinancialTransactions agrega el ledger contable por tipo.
func (r *ReconciliationRepo) SumFinancialTransactions(ctx context.Context, storeID string, from, to *time.Time) (repository.LedgerTotals, error) {
	query := `
		SELECT
		    COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0)  AS income,
		    COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0) AS expenses
		FROM financial_transactions
		WHERE store_id = $1`
	query, args := rangeArgs(query, "date", []any{storeID}, from, to)

	var t repository.LedgerTotals
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&t.Income, &t.Expenses); err != nil {
		return t, fmt.Errorf("sum financial transactions: %w", err)
	}
	return t, nil
}

// SumProcessedRefunds total y conteo de reembolsos procesados del período.
func (r *ReconciliationRepo) SumProcessedRefunds(ctx context.Context, storeID string, from, to *time.Time) (repository.AmountCount, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0), COUNT(*)
		FROM refund_transactions
		WHERE store_id = $1 AND status = '` + entity.RefundStatusProcessed + `'`
	query, args := rangeArgs(query, "created_at", []any{storeID}, from, to)

	var ac repository.AmountCount
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&ac.Total, &ac.Count); err != nil {
		return ac, fmt.Errorf("sum processed refunds: %w", err)
	}
	return ac, nil
}

// SumCompletedReturns total y conteo de devoluciones completadas del período.
func (r *ReconciliationRepo) SumCompletedReturns(ctx context.Context, storeID string, from, to *time.Time) (repository.AmountCount, error) {
	query := `
		SELECT COALESCE(SUM(total_refund_amount), 0), COUNT(*)
		FROM return_requests
		WHERE store_id = $1 AND status = '` + entity.ReturnStatusCompleted + `'`
	query, args := rangeArgs(query, "processed_at", []any{storeID}, from, to)

	var ac repository.AmountCount
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&ac.Total, &ac.Count); err != nil {
		return ac, fmt.Errorf("sum completed returns: %w", err)
	}
	return ac, nil
}

// HasRefundCashMovement indica si la devolución tiene su movimiento de caja
// tipo refund. Se enlaza por devolución y no por orden: una orden puede tener
// varias devoluciones completadas y cada una necesita su contraparte.
func (r *ReconciliationRepo) HasRefundCashMovement(ctx context.Context, returnRequestID string) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM cash_movements WHERE source_return_request_id = $1 AND type = 'refund')`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, returnRequestID).Scan(&exists); err != nil {
		return false, fmt.Errorf("has refund cash movement: %w", err)
	}
	return exists, nil
}

// rangeArgs agrega las condiciones de rango sobre la columna dada.
func rangeArgs(query, column string, args []any, from, to *time.Time) (string, []any) {
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND %s >= $%d", column, len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND %s <= $%d", column, len(args))
	}
	return query, args
}
