package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductStore es el stock y precio de un producto en una tienda concreta
// (entidad de cruce Product×Store; única por par producto/tienda).
// Stock nunca puede quedar negativo.
type ProductStore struct {
	ID            string
	ProductID     string
	StoreID       string
	LocationID    string
	Stock         int
	SalePrice     decimal.Decimal
	PurchasePrice decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
