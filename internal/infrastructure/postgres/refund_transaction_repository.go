package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/bellezapp/backend/internal/domain/entity"
	"github.com/bellezapp/backend/internal/domain/repository"
)

var _ repository.RefundTransactionRepository = (*RefundTransactionRepo)(nil)

// RefundTransactionRepo implementación de RefundTransactionRepository (usable con pool o tx).
type RefundTransactionRepo struct {
	q Querier
}

// NewRefundTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRefundTransactionRepository(q Querier) *RefundTransactionRepo {
	return &RefundTransactionRepo{q: q}
}

const refundColumns = `
	id, return_request_id, order_id, amount, currency, type, refund_method,
	method_details, customer_id, customer_name, customer_email, customer_phone,
	store_id, status, processed_at, initiated_by, initiated_at, processed_by,
	external_reference_id, notes, reversed_by, reversed_at, reversal_reason,
	reversal_refund_transaction_id, created_at, updated_at`

// Create persiste la transacción de reembolso.
func (r *RefundTransactionRepo) Create(rt *entity.RefundTransaction) error {
	if rt.ID == "" {
		rt.ID = uuid.New().String()
	}
	details, err := toJSONB(rt.MethodDetails)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO refund_transactions (` + refundColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`
	_, err = r.q.Exec(context.Background(), query,
		rt.ID, rt.ReturnRequestID, rt.OrderID, rt.Amount, rt.Currency, rt.Type, rt.RefundMethod,
		details, nullIfEmpty(rt.CustomerID), nullIfEmpty(rt.CustomerName),
		nullIfEmpty(rt.CustomerEmail), nullIfEmpty(rt.CustomerPhone),
		rt.StoreID, rt.Status, rt.ProcessedAt, rt.InitiatedBy, rt.InitiatedAt, nullIfEmpty(rt.ProcessedBy),
		nullIfEmpty(rt.ExternalReferenceID), nullIfEmpty(rt.Notes),
		nullIfEmpty(rt.ReversedBy), rt.ReversedAt, nullIfEmpty(rt.ReversalReason),
		nullIfEmpty(rt.ReversalRefundTransactionID), rt.CreatedAt, rt.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("la devolución ya tiene un reembolso: %w", err)
		}
		return fmt.Errorf("insert refund transaction: %w", err)
	}
	return nil
}

// GetByReturnRequest obtiene el reembolso de una devolución; nil si no existe.
func (r *RefundTransactionRepo) GetByReturnRequest(returnRequestID string) (*entity.RefundTransaction, error) {
	query := `SELECT ` + refundColumns + `
		FROM refund_transactions WHERE return_request_id = $1
		ORDER BY created_at DESC LIMIT 1`
	rt, err := scanRefundTransaction(r.q.QueryRow(context.Background(), query, returnRequestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get refund by return request: %w", err)
	}
	return rt, nil
}

// ListByStore lista reembolsos de una tienda en un rango de fechas.
func (r *RefundTransactionRepo) ListByStore(storeID string, from, to *time.Time) ([]*entity.RefundTransaction, error) {
	query := `SELECT ` + refundColumns + ` FROM refund_transactions WHERE store_id = $1`
	args := []any{storeID}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list refunds: %w", err)
	}
	defer rows.Close()

	var result []*entity.RefundTransaction
	for rows.Next() {
		rt, err := scanRefundTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan refund transaction: %w", err)
		}
		result = append(result, rt)
	}
	return result, rows.Err()
}

func scanRefundTransaction(row pgx.Row) (*entity.RefundTransaction, error) {
	var (
		rt                                                 entity.RefundTransaction
		detailsRaw                                         []byte
		customerID, customerName, custEmail, custPhone     *string
		processedBy, extRef, notes                         *string
		reversedBy, reversalReason, reversalTransactionID  *string
	)
	err := row.Scan(
		&rt.ID, &rt.ReturnRequestID, &rt.OrderID, &rt.Amount, &rt.Currency, &rt.Type, &rt.RefundMethod,
		&detailsRaw, &customerID, &customerName, &custEmail, &custPhone,
		&rt.StoreID, &rt.Status, &rt.ProcessedAt, &rt.InitiatedBy, &rt.InitiatedAt, &processedBy,
		&extRef, &notes, &reversedBy, &rt.ReversedAt, &reversalReason,
		&reversalTransactionID, &rt.CreatedAt, &rt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if customerID != nil {
		rt.CustomerID = *customerID
	}
	if customerName != nil {
		rt.CustomerName = *customerName
	}
	if custEmail != nil {
		rt.CustomerEmail = *custEmail
	}
	if custPhone != nil {
		rt.CustomerPhone = *custPhone
	}
	if processedBy != nil {
		rt.ProcessedBy = *processedBy
	}
	if extRef != nil {
		rt.ExternalReferenceID = *extRef
	}
	if notes != nil {
		rt.Notes = *notes
	}
	if reversedBy != nil {
		rt.ReversedBy = *reversedBy
	}
	if reversalReason != nil {
		rt.ReversalReason = *reversalReason
	}
	if reversalTransactionID != nil {
		rt.ReversalRefundTransactionID = *reversalTransactionID
	}
	if err := fromJSONB(detailsRaw, &rt.MethodDetails); err != nil {
		return nil, err
	}
	return &rt, nil
}
