package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bellezapp/backend/internal/domain/entity"
	"github.com/bellezapp/backend/internal/domain/repository"
)

var _ repository.ProductStoreRepository = (*ProductStoreRepo)(nil)

// ProductStoreRepo implementación de ProductStoreRepository (usable con pool o tx).
type ProductStoreRepo struct {
	q Querier
}

// NewProductStoreRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductStoreRepository(q Querier) *ProductStoreRepo {
	return &ProductStoreRepo{q: q}
}

const productStoreColumns = `
	id, product_id, store_id, location_id, stock, sale_price, purchase_price,
	created_at, updated_at`

// GetForUpdate obtiene el inventario y bloquea la fila (SELECT FOR UPDATE).
func (r *ProductStoreRepo) GetForUpdate(productID, storeID string) (*entity.ProductStore, error) {
	query := `SELECT ` + productStoreColumns + `
		FROM product_stores WHERE product_id = $1 AND store_id = $2 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, productID, storeID))
}

// UpdateStock fija el stock de un producto en una tienda.
func (r *ProductStoreRepo) UpdateStock(productID, storeID string, stock int) error {
	if stock < 0 {
		return fmt.Errorf("stock negativo para producto %s", productID)
	}
	query := `
		UPDATE product_stores
		SET stock = $3, updated_at = now()
		WHERE product_id = $1 AND store_id = $2`
	tag, err := r.q.Exec(context.Background(), query, productID, storeID, stock)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("producto %s sin inventario en la tienda %s", productID, storeID)
	}
	return nil
}

func (r *ProductStoreRepo) scanOne(row pgx.Row) (*entity.ProductStore, error) {
	var (
		ps         entity.ProductStore
		locationID *string
	)
	err := row.Scan(
		&ps.ID, &ps.ProductID, &ps.StoreID, &locationID, &ps.Stock,
		&ps.SalePrice, &ps.PurchasePrice, &ps.CreatedAt, &ps.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product store: %w", err)
	}
	if locationID != nil {
		ps.LocationID = *locationID
	}
	return &ps, nil
}
