package repository

import (
	"time"

	"github.com/bellezapp/backend/internal/domain/entity"
)

// ReturnFilters filtros del listado de devoluciones. StoreID es obligatorio
// (aislamiento por tienda); el resto es opcional.
type ReturnFilters struct {
	StoreID      string
	Status       string
	Type         string
	CustomerID   string
	RefundMethod string
	From         *time.Time
	To           *time.Time
}

// ReturnRequestRepository puerto de persistencia para solicitudes de devolución (DIP).
type ReturnRequestRepository interface {
	Create(rr *entity.ReturnRequest) error
	GetByID(id string) (*entity.ReturnRequest, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para chequear y mutar
	// el estado sin carreras entre peticiones concurrentes.
	GetForUpdate(id string) (*entity.ReturnRequest, error)
	Update(rr *entity.ReturnRequest) error
	ListByOrder(orderID string) ([]*entity.ReturnRequest, error)
	ListWithFilters(f ReturnFilters) ([]*entity.ReturnRequest, error)
	// ListProcessedInRange devuelve solicitudes con processedAt dentro del rango.
	ListProcessedInRange(storeID string, from, to *time.Time) ([]*entity.ReturnRequest, error)
	ListCompletedByStore(storeID string) ([]*entity.ReturnRequest, error)
}
