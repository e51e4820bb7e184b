package repository

import (
	"time"

	"github.com/bellezapp/backend/internal/domain/entity"
)

// CashMovementFilters filtros para el ledger de caja.
type CashMovementFilters struct {
	StoreID string
	Type    string
	From    *time.Time
	To      *time.Time
}

// CashRegisterRepository puerto de persistencia para sesiones de caja (DIP).
type CashRegisterRepository interface {
	Create(cr *entity.CashRegister) error
	GetByID(id string) (*entity.CashRegister, error)
	// GetForUpdate bloquea la fila de la sesión (SELECT FOR UPDATE) antes de
	// verificar el estado y cerrarla.
	GetForUpdate(id string) (*entity.CashRegister, error)
	// GetOpenByStore devuelve la sesión abierta de la tienda, o nil si no hay.
	GetOpenByStore(storeID string) (*entity.CashRegister, error)
	Update(cr *entity.CashRegister) error
}

// CashMovementRepository puerto de persistencia para movimientos de caja (DIP).
type CashMovementRepository interface {
	Create(m *entity.CashMovement) error
	List(f CashMovementFilters) ([]*entity.CashMovement, error)
	// ListSince devuelve los movimientos de una tienda desde un instante
	// (cálculo del monto esperado al cerrar caja).
	ListSince(storeID string, since time.Time) ([]*entity.CashMovement, error)
}
