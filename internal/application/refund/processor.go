// Package refund crea los registros financieros de una devolución aprobada:
// la transacción de reembolso, el movimiento de caja y el egreso contable.
package refund

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bellezapp/backend/internal/domain"
	"github.com/bellezapp/backend/internal/domain/entity"
	"github.com/bellezapp/backend/internal/domain/repository"
	"github.com/bellezapp/backend/internal/domain/returns"
)

// Processor crea los tres registros financieros de un reembolso. No abre
// transacciones: el caller pasa repositorios atados a la suya, de modo que el
// reembolso, la caja y el ledger quedan atómicos con el cambio de estado.
type Processor struct {
	currency string
}

// NewProcessor construye el procesador con la moneda configurada de la tienda.
func NewProcessor(currency string) *Processor {
	return &Processor{currency: currency}
}

// ProcessInTx registra el reembolso de una devolución aprobada. Devuelve la
// transacción de reembolso creada (estado processed). Los repos recibidos
// deben estar atados a la transacción del caller.
func (p *Processor) ProcessInTx(
	rr *entity.ReturnRequest,
	processedBy string,
	notes string,
	now time.Time,
	refundRepo repository.RefundTransactionRepository,
	cashRepo repository.CashMovementRepository,
	finRepo repository.FinancialTransactionRepository,
) (*entity.RefundTransaction, error) {
	if rr == nil || processedBy == "" {
		return nil, domain.ErrInvalidInput
	}
	if rr.TotalRefundAmount.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	currency := rr.Currency
	if currency == "" {
		currency = p.currency
	}

	tx := &entity.RefundTransaction{
		ID:              uuid.New().String(),
		ReturnRequestID: rr.ID,
		OrderID:         rr.OrderID,
		Amount:          rr.TotalRefundAmount,
		Currency:        currency,
		Type:            returns.RefundScope(rr.Type),
		RefundMethod:    rr.RefundMethod,
		CustomerID:      rr.CustomerID,
		CustomerName:    rr.CustomerName,
		StoreID:         rr.StoreID,
		Status:          entity.RefundStatusProcessed,
		ProcessedAt:     &now,
		InitiatedBy:     rr.RequestedBy,
		InitiatedAt:     rr.RequestedAt,
		ProcessedBy:     processedBy,
		Notes:           notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := refundRepo.Create(tx); err != nil {
		return nil, fmt.Errorf("creando transacción de reembolso: %w", err)
	}

	mov := &entity.CashMovement{
		ID:                    uuid.New().String(),
		Date:                  now,
		Type:                  entity.CashMovementRefund,
		Amount:                rr.TotalRefundAmount,
		Description:           fmt.Sprintf("Reembolso de devolución %s (orden %s)", rr.ID, rr.OrderNumber),
		OrderID:               rr.OrderID,
		SourceReturnRequestID: rr.ID,
		UserID:                processedBy,
		StoreID:               rr.StoreID,
		CreatedAt:             now,
	}
	if err := cashRepo.Create(mov); err != nil {
		return nil, fmt.Errorf("creando movimiento de caja: %w", err)
	}

	fin := &entity.FinancialTransaction{
		ID:                    uuid.New().String(),
		Date:                  now,
		Type:                  entity.FinancialTypeExpense,
		Amount:                rr.TotalRefundAmount,
		Description:           fmt.Sprintf("Reembolso orden %s", rr.OrderNumber),
		Category:              "reembolsos",
		StoreID:               rr.StoreID,
		SourceReturnRequestID: rr.ID,
		CreatedAt:             now,
	}
	if err := finRepo.Create(fin); err != nil {
		return nil, fmt.Errorf("creando egreso contable: %w", err)
	}

	return tx, nil
}
