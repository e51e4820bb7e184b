package repository

import "github.com/bellezapp/backend/internal/domain/entity"

// ProductStoreRepository puerto de persistencia para stock/precio por tienda (DIP).
type ProductStoreRepository interface {
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) antes de mutar stock.
	GetForUpdate(productID, storeID string) (*entity.ProductStore, error)
	UpdateStock(productID, storeID string, stock int) error
}
