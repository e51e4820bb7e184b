package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bellezapp/backend/internal/domain/entity"
	"github.com/bellezapp/backend/internal/domain/repository"
)

var _ repository.FinancialTransactionRepository = (*FinancialTransactionRepo)(nil)

// FinancialTransactionRepo implementación del ledger contable (usable con pool o tx).
type FinancialTransactionRepo struct {
	q Querier
}

// NewFinancialTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFinancialTransactionRepository(q Querier) *FinancialTransactionRepo {
	return &FinancialTransactionRepo{q: q}
}

// Create persiste una transacción financiera.
func (r *FinancialTransactionRepo) Create(t *entity.FinancialTransaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	query := `
		INSERT INTO financial_transactions
			(id, date, type, amount, description, category, store_id, source_return_request_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		t.ID, t.Date, t.Type, t.Amount, nullIfEmpty(t.Description),
		nullIfEmpty(t.Category), t.StoreID, nullIfEmpty(t.SourceReturnRequestID), t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert financial transaction: %w", err)
	}
	return nil
}

// List lista transacciones de una tienda en un rango de fechas.
func (r *FinancialTransactionRepo) List(storeID string, from, to *time.Time) ([]*entity.FinancialTransaction, error) {
	query := `
		SELECT id, date, type, amount, description, category, store_id, source_return_request_id, created_at
		FROM financial_transactions WHERE store_id = $1`
	args := []any{storeID}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	query += " ORDER BY date DESC"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list financial transactions: %w", err)
	}
	defer rows.Close()

	var result []*entity.FinancialTransaction
	for rows.Next() {
		var (
			t                               entity.FinancialTransaction
			description, category, srcReturn *string
		)
		err := rows.Scan(
			&t.ID, &t.Date, &t.Type, &t.Amount, &description,
			&category, &t.StoreID, &srcReturn, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan financial transaction: %w", err)
		}
		if description != nil {
			t.Description = *description
		}
		if category != nil {
			t.Category = *category
		}
		if srcReturn != nil {
			t.SourceReturnRequestID = *srcReturn
		}
		result = append(result, &t)
	}
	return result, rows.Err()
}

// HasExpenseForReturn indica si existe un egreso enlazado por FK a la devolución.
func (r *FinancialTransactionRepo) HasExpenseForReturn(returnRequestID string) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM financial_transactions
		WHERE source_return_request_id = $1 AND type = $2)`
	var exists bool
	err := r.q.QueryRow(context.Background(), query, returnRequestID, entity.FinancialTypeExpense).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("has expense for return: %w", err)
	}
	return exists, nil
}
