package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bellezapp/backend/internal/domain/entity"
	"github.com/bellezapp/backend/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo lectura de órdenes. El flujo de devoluciones nunca las muta.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// GetByID obtiene una orden con sus líneas; nil si no existe.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	query := `
		SELECT id, order_date, total, payment_method, customer_id, store_id,
		       items, user_id, receipt_number, status, created_at, updated_at
		FROM orders WHERE id = $1`
	var (
		o          entity.Order
		customerID *string
		itemsRaw   []byte
	)
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&o.ID, &o.OrderDate, &o.Total, &o.PaymentMethod, &customerID, &o.StoreID,
		&itemsRaw, &o.UserID, &o.ReceiptNumber, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if customerID != nil {
		o.CustomerID = *customerID
	}
	if err := fromJSONB(itemsRaw, &o.Items); err != nil {
		return nil, err
	}
	return &o, nil
}
