package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción financiera.
const (
	FinancialTypeIncome  = "income"
	FinancialTypeExpense = "expense"
)

// FinancialTransaction es una entrada del ledger contable de la tienda
// (ingreso/egreso) usada para reportes financieros.
// SourceReturnRequestID enlaza explícitamente los egresos generados por una
// devolución, en lugar de depender de la descripción libre.
type FinancialTransaction struct {
	ID                    string
	Date                  time.Time
	Type                  string
	Amount                decimal.Decimal
	Description           string
	Category              string
	StoreID               string
	SourceReturnRequestID string
	CreatedAt             time.Time
}
