package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// LedgerTotals ingresos/egresos agregados de un ledger en un período.
type LedgerTotals struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
}

// Net devuelve income - expenses.
func (t LedgerTotals) Net() decimal.Decimal {
	return t.Income.Sub(t.Expenses)
}

// AmountCount total y número de filas de una agregación.
type AmountCount struct {
	Total decimal.Decimal
	Count int
}

// ReconciliationRepository consultas de solo lectura para reconciliación
// contable (agregación en SQL, una pasada por ledger).
type ReconciliationRepository interface {
	// SumCashMovements agrupa income|sale como ingresos y expense|refund como egresos.
	SumCashMovements(ctx context.Context, storeID string, from, to *time.Time) (LedgerTotals, error)
	SumFinancialTransactions(ctx context.Context, storeID string, from, to *time.Time) (LedgerTotals, error)
	SumProcessedRefunds(ctx context.Context, storeID string, from, to *time.Time) (AmountCount, error)
	SumCompletedReturns(ctx context.Context, storeID string, from, to *time.Time) (AmountCount, error)
	// HasRefundCashMovement indica si la devolución tiene su movimiento de
	// caja tipo refund, enlazado por source_return_request_id.
	HasRefundCashMovement(ctx context.Context, returnRequestID string) (bool, error)
}
