package dto

import "github.com/bellezapp/backend/internal/domain/entity"

// AuditLogsQuery filtros de GET /api/audit/logs.
type AuditLogsQuery struct {
	StoreID    string `query:"storeId"`
	ActionType string `query:"actionType"`
	EntityType string `query:"entityType"`
	EntityID   string `query:"entityId"`
	UserID     string `query:"userId"`
	StartDate  string `query:"startDate"`
	EndDate    string `query:"endDate"`
	PageRequest
}

// AuditLogsResponse listado paginado de la bitácora.
type AuditLogsResponse struct {
	Logs       []*entity.AuditLog `json:"logs"`
	Pagination PageResponse       `json:"pagination"`
}

// ReverseAuditRequest cuerpo de PATCH /api/audit/logs/:id/reverse.
type ReverseAuditRequest struct {
	Reason string `json:"reason"`
}

// TrailValidation resultado de la validación heurística del trail.
type TrailValidation struct {
	IsValid bool     `json:"is_valid"`
	Issues  []string `json:"issues"`
}
