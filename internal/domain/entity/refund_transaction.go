package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una transacción de reembolso.
const (
	RefundStatusPending   = "pending"
	RefundStatusProcessed = "processed"
	RefundStatusCancelled = "cancelled"
	RefundStatusFailed    = "failed"
)

// Alcance del reembolso respecto a la orden.
const (
	RefundTypeFull    = "full"
	RefundTypePartial = "partial"
)

// RefundMethodDetails datos específicos del método de reembolso.
type RefundMethodDetails struct {
	Last4Digits   string `json:"last4_digits,omitempty"`   // tarjeta
	CardNetwork   string `json:"card_network,omitempty"`   // tarjeta
	BankName      string `json:"bank_name,omitempty"`      // transferencia
	AccountNumber string `json:"account_number,omitempty"` // transferencia
	AccountID     string `json:"account_id,omitempty"`     // cuenta interna
}

// RefundTransaction es el registro financiero del dinero devuelto a un cliente.
// Se crea en estado processed dentro de la misma transacción que completa la
// devolución; una vez procesada solo se tocan los campos de reversión.
type RefundTransaction struct {
	ID              string
	ReturnRequestID string
	OrderID         string

	Amount   decimal.Decimal
	Currency string
	Type     string // full | partial

	RefundMethod  string
	MethodDetails *RefundMethodDetails

	CustomerID    string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	StoreID string

	Status      string
	ProcessedAt *time.Time

	InitiatedBy string
	InitiatedAt time.Time
	ProcessedBy string

	ExternalReferenceID string

	Notes string

	ReversedBy                  string
	ReversedAt                  *time.Time
	ReversalReason              string
	ReversalRefundTransactionID string

	CreatedAt time.Time
	UpdatedAt time.Time
}
