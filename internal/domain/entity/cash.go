package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una sesión de caja.
const (
	RegisterStatusOpen   = "open"
	RegisterStatusClosed = "closed"
)

// Tipos de movimiento de caja.
const (
	CashMovementIncome     = "income"
	CashMovementExpense    = "expense"
	CashMovementSale       = "sale"
	CashMovementRefund     = "refund"
	CashMovementOpening    = "opening"
	CashMovementClosing    = "closing"
	CashMovementAdjustment = "adjustment"
)

// CashRegister es una sesión de caja (apertura → cierre) de una tienda.
// Solo puede haber una abierta por tienda a la vez.
type CashRegister struct {
	ID             string
	Date           time.Time
	OpeningAmount  decimal.Decimal
	ClosingAmount  decimal.Decimal
	ExpectedAmount decimal.Decimal
	Difference     decimal.Decimal
	Status         string
	OpeningTime    time.Time
	ClosingTime    *time.Time
	UserID         string
	StoreID        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CashMovement es una entrada del ledger de caja: dinero físico/electrónico
// que entra o sale del registro de una tienda.
type CashMovement struct {
	ID          string
	Date        time.Time
	Type        string
	Amount      decimal.Decimal
	Description string
	OrderID     string
	// SourceReturnRequestID enlaza el movimiento con la devolución que lo
	// originó cuando el tipo es refund. Una orden puede tener varias
	// devoluciones; el enlace por orden no alcanza para conciliar.
	SourceReturnRequestID string
	UserID                string
	StoreID               string
	CreatedAt             time.Time
}
