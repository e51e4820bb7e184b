package repository

import "github.com/bellezapp/backend/internal/domain/entity"

// OrderRepository puerto de lectura de órdenes. Las órdenes son inmutables
// para el flujo de devoluciones: no hay Update aquí.
type OrderRepository interface {
	GetByID(id string) (*entity.Order, error)
}
