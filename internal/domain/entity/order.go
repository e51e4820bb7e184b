package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden.
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// OrderItem línea de venta de una orden.
type OrderItem struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Order es una venta registrada. Las filas son inmutables: una devolución no
// modifica la orden original; el efecto neto se obtiene como vista derivada
// (OrderNetView) restando las cantidades devueltas.
type Order struct {
	ID            string
	OrderDate     time.Time
	Total         decimal.Decimal
	PaymentMethod string
	CustomerID    string
	StoreID       string
	Items         []OrderItem
	UserID        string
	ReceiptNumber string
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderNetView es la orden menos sus devoluciones no rechazadas/canceladas:
// cantidades netas por ítem (los que llegan a 0 se omiten) y total recalculado.
type OrderNetView struct {
	OrderID       string          `json:"order_id"`
	Items         []OrderItem     `json:"items"`
	NetTotal      decimal.Decimal `json:"net_total"`
	ReturnedTotal decimal.Decimal `json:"returned_total"`
}
