package repository

import (
	"time"

	"github.com/bellezapp/backend/internal/domain/entity"
)

// AuditFilters filtros del listado de auditoría. StoreID obligatorio.
type AuditFilters struct {
	StoreID    string
	ActionType string
	EntityType string
	EntityID   string
	UserID     string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// AuditLogRepository puerto de persistencia para la bitácora (append-only).
// No expone Update ni Delete: una fila solo se marca reversed vía MarkReversed.
type AuditLogRepository interface {
	Create(l *entity.AuditLog) error
	List(f AuditFilters) ([]*entity.AuditLog, error)
	Count(f AuditFilters) (int, error)
	// ListByEntity devuelve el historial de una entidad, ascendente por timestamp.
	ListByEntity(entityType, entityID, storeID string) ([]*entity.AuditLog, error)
	ListByEntityID(entityID, storeID string) ([]*entity.AuditLog, error)
	// HasEntityAction indica si existe una fila para (entityID, actionType).
	HasEntityAction(entityID, actionType string) (bool, error)
	MarkReversed(id, reversedBy, reason, reversalID string) error
}
