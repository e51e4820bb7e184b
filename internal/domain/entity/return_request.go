package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una solicitud de devolución.
const (
	ReturnStatusPending            = "pending"             // solicitada, esperando aprobación
	ReturnStatusApproved           = "approved"            // aprobada, pendiente de procesar
	ReturnStatusRejected           = "rejected"            // rechazada (terminal)
	ReturnStatusCompleted          = "completed"           // procesada y reembolsada (terminal)
	ReturnStatusPartiallyCompleted = "partially_completed" // completada parcialmente
	ReturnStatusCancelled          = "cancelled"           // cancelada (terminal)
)

// Tipos de devolución.
const (
	ReturnTypeReturn        = "return"         // devolución con reembolso
	ReturnTypeExchange      = "exchange"       // cambio por otro producto
	ReturnTypePartialRefund = "partial_refund" // reembolso parcial
	ReturnTypeFullRefund    = "full_refund"    // reembolso total
)

// Métodos de reembolso.
const (
	RefundMethodEfectivo      = "efectivo"
	RefundMethodTarjeta       = "tarjeta"
	RefundMethodTransferencia = "transferencia"
	RefundMethodCuenta        = "cuenta" // crédito a cuenta interna del cliente
)

// Categorías de razón de devolución.
const (
	ReasonDefective          = "defective"
	ReasonNotAsDescribed     = "not_as_described"
	ReasonCustomerChangeMind = "customer_change_mind"
	ReasonWrongItem          = "wrong_item"
	ReasonDamaged            = "damaged"
	ReasonOther              = "other"
)

// ReturnItem es una línea de la solicitud: qué producto se devuelve y cuánto.
type ReturnItem struct {
	ProductID        string          `json:"product_id"`
	OriginalQuantity int             `json:"original_quantity"`
	ReturnQuantity   int             `json:"return_quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	ReturnReason     string          `json:"return_reason"`
	Notes            string          `json:"notes,omitempty"`
}

// InventoryImpact registra el efecto del restock sobre una fila de product_stores.
// Se calcula una sola vez, al crear la solicitud; el procesamiento no vuelve a aplicarlo.
type InventoryImpact struct {
	ProductID     string `json:"product_id"`
	QuantityAdded int    `json:"quantity_added"`
	NewStock      int    `json:"new_stock"`
}

// ReturnRequest es una solicitud de devolución/cambio sobre una orden existente.
// La orden original nunca se muta; su efecto neto es una vista derivada.
type ReturnRequest struct {
	ID          string
	OrderID     string
	OrderNumber string // denormalizado para reportes

	Type   string
	Status string

	Items []ReturnItem

	TotalRefundAmount decimal.Decimal
	Currency          string
	RefundMethod      string

	CustomerID   string
	CustomerName string

	StoreID string

	ReasonCategory string
	ReasonDetails  string

	RequestedBy string
	RequestedAt time.Time
	ApprovedBy  string
	ApprovedAt  *time.Time
	ProcessedBy string
	ProcessedAt *time.Time

	AttachmentURLs []string

	ImpactOnInventory []InventoryImpact

	Notes         []string
	InternalNotes string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal indica si el estado no admite más transiciones.
func (r *ReturnRequest) IsTerminal() bool {
	switch r.Status {
	case ReturnStatusRejected, ReturnStatusCompleted, ReturnStatusCancelled:
		return true
	}
	return false
}
