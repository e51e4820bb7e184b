// Package audit implementa la bitácora de acciones: escritura dentro de la
// transacción del cambio que describe, consulta de historial y validación
// heurística de integridad del trail.
package audit

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bellezapp/backend/internal/application/dto"
	"github.com/bellezapp/backend/internal/domain"
	"github.com/bellezapp/backend/internal/domain/entity"
	"github.com/bellezapp/backend/internal/domain/repository"
)

// Entry datos de una acción a auditar.
type Entry struct {
	ActionType      string
	Description     string
	EntityType      string
	EntityID        string
	UserID          string
	StoreID         string
	Changes         []entity.AuditChange
	FinancialImpact *entity.FinancialImpact
	RelatedEntities []entity.RelatedEntity
}

// Logger caso de uso de auditoría. Las escrituras van siempre dentro de la
// misma transacción que el cambio de negocio (se recibe el repo atado a la tx);
// las lecturas usan el repo atado al pool.
type Logger struct {
	auditRepo repository.AuditLogRepository // lecturas (pool)
	userRepo  repository.UserRepository
}

// NewLogger construye el caso de uso.
func NewLogger(auditRepo repository.AuditLogRepository, userRepo repository.UserRepository) *Logger {
	return &Logger{auditRepo: auditRepo, userRepo: userRepo}
}

// Record escribe una fila de auditoría usando el repositorio recibido
// (atado a la transacción del caller). Denormaliza el nombre del usuario.
// Si la escritura falla, el caller debe dejar que la transacción haga rollback:
// el trail nunca muestra una acción que no ocurrió, ni al revés.
func (l *Logger) Record(auditRepo repository.AuditLogRepository, e Entry) error {
	if e.ActionType == "" || e.EntityType == "" || e.EntityID == "" || e.StoreID == "" {
		return domain.ErrInvalidInput
	}
	userName := ""
	if e.UserID != "" {
		if u, err := l.userRepo.GetByID(e.UserID); err == nil && u != nil {
			userName = u.Name
		}
	}
	now := time.Now()
	row := &entity.AuditLog{
		ID:              uuid.New().String(),
		ActionType:      e.ActionType,
		Description:     e.Description,
		EntityType:      e.EntityType,
		EntityID:        e.EntityID,
		UserID:          e.UserID,
		UserName:        userName,
		StoreID:         e.StoreID,
		Changes:         e.Changes,
		FinancialImpact: e.FinancialImpact,
		RelatedEntities: e.RelatedEntities,
		Status:          entity.AuditStatusSuccess,
		Timestamp:       now,
		CreatedAt:       now,
	}
	return auditRepo.Create(row)
}

// ReverseEntry marca un registro de auditoría como revertido y escribe la fila
// espejo que documenta la reversión. La fila original nunca se borra ni se
// edita: el trail solo crece.
func (l *Logger) ReverseEntry(id, userID, storeID, reason string) (*entity.AuditLog, error) {
	if id == "" || userID == "" || storeID == "" || reason == "" {
		return nil, domain.ErrInvalidInput
	}
	userName := ""
	if u, err := l.userRepo.GetByID(userID); err == nil && u != nil {
		userName = u.Name
	}
	now := time.Now()
	mirror := &entity.AuditLog{
		ID:          uuid.New().String(),
		ActionType:  entity.ActionDiscrepancyResolved,
		Description: "Reversión del registro " + id + ": " + reason,
		EntityType:  "audit_log",
		EntityID:    id,
		UserID:      userID,
		UserName:    userName,
		StoreID:     storeID,
		Status:      entity.AuditStatusSuccess,
		Timestamp:   now,
		CreatedAt:   now,
	}
	if err := l.auditRepo.Create(mirror); err != nil {
		return nil, err
	}
	if err := l.auditRepo.MarkReversed(id, userID, reason, mirror.ID); err != nil {
		return nil, err
	}
	return mirror, nil
}

// GetAuditLogs devuelve la bitácora filtrada y paginada.
func (l *Logger) GetAuditLogs(q dto.AuditLogsQuery, from, to *time.Time) (*dto.AuditLogsResponse, error) {
	if q.StoreID == "" {
		return nil, domain.ErrInvalidInput
	}
	q.DefaultPage()
	f := repository.AuditFilters{
		StoreID:    q.StoreID,
		ActionType: q.ActionType,
		EntityType: q.EntityType,
		EntityID:   q.EntityID,
		UserID:     q.UserID,
		From:       from,
		To:         to,
		Limit:      q.Limit,
		Offset:     (q.Page - 1) * q.Limit,
	}
	logs, err := l.auditRepo.List(f)
	if err != nil {
		return nil, err
	}
	total, err := l.auditRepo.Count(f)
	if err != nil {
		return nil, err
	}
	pages := (total + q.Limit - 1) / q.Limit
	return &dto.AuditLogsResponse{
		Logs: logs,
		Pagination: dto.PageResponse{
			Page: q.Page, Limit: q.Limit, Total: total, Pages: pages,
		},
	}, nil
}

// GetEntityHistory devuelve el historial de cambios de una entidad,
// ordenado por timestamp ascendente.
func (l *Logger) GetEntityHistory(entityType, entityID, storeID string) ([]*entity.AuditLog, error) {
	if entityType == "" || entityID == "" || storeID == "" {
		return nil, domain.ErrInvalidInput
	}
	return l.auditRepo.ListByEntity(entityType, entityID, storeID)
}

// ValidateAuditTrail aplica las verificaciones heurísticas de integridad:
// gaps de más de 24h entre filas consecutivas y filas failed sin mensaje.
func (l *Logger) ValidateAuditTrail(entityID, storeID string) (*dto.TrailValidation, error) {
	if entityID == "" || storeID == "" {
		return nil, domain.ErrInvalidInput
	}
	logs, err := l.auditRepo.ListByEntityID(entityID, storeID)
	if err != nil {
		return nil, err
	}

	issues := []string{}
	for i := 1; i < len(logs); i++ {
		if logs[i].Timestamp.Sub(logs[i-1].Timestamp) > 24*time.Hour {
			issues = append(issues, gapIssue(i-1, i))
		}
	}
	for _, row := range logs {
		if row.Status == entity.AuditStatusFailed && row.ErrorMessage == "" {
			issues = append(issues, "registro de fallo sin mensaje de error: "+row.ID)
		}
	}

	return &dto.TrailValidation{IsValid: len(issues) == 0, Issues: issues}, nil
}

func gapIssue(prev, cur int) string {
	return fmt.Sprintf("gap de más de 24 horas entre registros %d y %d", prev, cur)
}
