// Package returns contiene la lógica pura del flujo de devoluciones:
// máquina de estados, validación de ítems y cálculo del reembolso.
// Sin dependencias de infraestructura.
package returns

import (
	"github.com/shopspring/decimal"

	"github.com/bellezapp/backend/internal/domain"
	"github.com/bellezapp/backend/internal/domain/entity"
)

// CanTransition indica si la máquina de estados permite pasar de from a to.
//
//	pending  → approved | rejected
//	approved → completed | rejected | cancelled
//	rejected, completed, cancelled → (terminal)
func CanTransition(from, to string) bool {
	switch from {
	case entity.ReturnStatusPending:
		return to == entity.ReturnStatusApproved || to == entity.ReturnStatusRejected
	case entity.ReturnStatusApproved:
		return to == entity.ReturnStatusCompleted || to == entity.ReturnStatusRejected || to == entity.ReturnStatusCancelled
	case entity.ReturnStatusRejected, entity.ReturnStatusCompleted,
		entity.ReturnStatusPartiallyCompleted, entity.ReturnStatusCancelled:
		return false
	}
	return false
}

// ValidateTransition devuelve el error de dominio correspondiente cuando la
// transición no está permitida.
func ValidateTransition(from, to string) error {
	if !CanTransition(from, to) {
		if from == entity.ReturnStatusPending || from == entity.ReturnStatusApproved {
			return domain.ErrInvalidTransition
		}
		return domain.ErrAlreadyProcessed
	}
	return nil
}

// ComputeRefundTotal calcula Σ(returnQuantity × unitPrice) sobre los ítems.
func ComputeRefundTotal(items []entity.ReturnItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.ReturnQuantity))))
	}
	return total
}

// ValidateItems verifica los invariantes por ítem:
// returnQuantity ≥ 1, returnQuantity ≤ originalQuantity, unitPrice ≥ 0.
func ValidateItems(items []entity.ReturnItem) error {
	if len(items) == 0 {
		return domain.ErrInvalidInput
	}
	for _, it := range items {
		if it.ProductID == "" || it.ReturnReason == "" {
			return domain.ErrInvalidInput
		}
		if it.ReturnQuantity < 1 || it.OriginalQuantity < 1 {
			return domain.ErrInvalidInput
		}
		if it.ReturnQuantity > it.OriginalQuantity {
			return domain.ErrInvalidInput
		}
		if it.UnitPrice.IsNegative() {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

// RefundScope mapea el tipo de devolución al alcance de la transacción de
// reembolso (full|partial).
func RefundScope(returnType string) string {
	if returnType == entity.ReturnTypePartialRefund {
		return entity.RefundTypePartial
	}
	return entity.RefundTypeFull
}

// ValidType valida el tipo de devolución en el borde de la API.
func ValidType(t string) bool {
	switch t {
	case entity.ReturnTypeReturn, entity.ReturnTypeExchange,
		entity.ReturnTypePartialRefund, entity.ReturnTypeFullRefund:
		return true
	}
	return false
}

// ValidStatus valida un estado de devolución (para filtros de listado).
func ValidStatus(s string) bool {
	switch s {
	case entity.ReturnStatusPending, entity.ReturnStatusApproved,
		entity.ReturnStatusRejected, entity.ReturnStatusCompleted,
		entity.ReturnStatusPartiallyCompleted, entity.ReturnStatusCancelled:
		return true
	}
	return false
}

// ValidRefundMethod valida el método de reembolso.
func ValidRefundMethod(m string) bool {
	switch m {
	case entity.RefundMethodEfectivo, entity.RefundMethodTarjeta,
		entity.RefundMethodTransferencia, entity.RefundMethodCuenta:
		return true
	}
	return false
}

// ValidReasonCategory valida la categoría de razón.
func ValidReasonCategory(c string) bool {
	switch c {
	case entity.ReasonDefective, entity.ReasonNotAsDescribed,
		entity.ReasonCustomerChangeMind, entity.ReasonWrongItem,
		entity.ReasonDamaged, entity.ReasonOther:
		return true
	}
	return false
}
