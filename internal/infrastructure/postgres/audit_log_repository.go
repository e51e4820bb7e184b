package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/bellezapp/backend/internal/domain/entity"
	"github.com/bellezapp/backend/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo implementación de AuditLogRepository (usable con pool o tx).
// La tabla es append-only: no hay UPDATE salvo marcar una fila como revertida.
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

const auditColumns = `
	id, action_type, description, entity_type, entity_id, user_id, user_name,
	store_id, changes, financial_impact, related_entities, status,
	error_message, reversed_by, reversed_at, reversal_reason, reversal_id,
	timestamp, created_at`

// Create persiste una fila de la bitácora.
func (r *AuditLogRepo) Create(l *entity.AuditLog) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	changes, err := toJSONB(l.Changes)
	if err != nil {
		return err
	}
	impact, err := toJSONB(l.FinancialImpact)
	if err != nil {
		return err
	}
	related, err := toJSONB(l.RelatedEntities)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO audit_logs (` + auditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err = r.q.Exec(context.Background(), query,
		l.ID, l.ActionType, l.Description, l.EntityType, l.EntityID,
		nullIfEmpty(l.UserID), nullIfEmpty(l.UserName), l.StoreID,
		changes, impact, related, l.Status,
		nullIfEmpty(l.ErrorMessage), nullIfEmpty(l.ReversedBy), l.ReversedAt,
		nullIfEmpty(l.ReversalReason), nullIfEmpty(l.ReversalID), l.Timestamp, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// List lista la bitácora filtrada, más reciente primero.
func (r *AuditLogRepo) List(f repository.AuditFilters) ([]*entity.AuditLog, error) {
	query, args := buildAuditQuery(`SELECT `+auditColumns+` FROM audit_logs`, f)
	query += " ORDER BY timestamp DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return scanAuditLogs(rows)
}

// Count cuenta las filas que matchean los filtros (paginación).
func (r *AuditLogRepo) Count(f repository.AuditFilters) (int, error) {
	query, args := buildAuditQuery(`SELECT COUNT(*) FROM audit_logs`, f)
	var n int
	if err := r.q.QueryRow(context.Background(), query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count audit logs: %w", err)
	}
	return n, nil
}

func buildAuditQuery(base string, f repository.AuditFilters) (string, []any) {
	query := base + ` WHERE store_id = $1`
	args := []any{f.StoreID}

	if f.ActionType != "" {
		args = append(args, f.ActionType)
		query += fmt.Sprintf(" AND action_type = $%d", len(args))
	}
	if f.EntityType != "" {
		args = append(args, f.EntityType)
		query += fmt.Sprintf(" AND entity_type = $%d", len(args))
	}
	if f.EntityID != "" {
		args = append(args, f.EntityID)
		query += fmt.Sprintf(" AND entity_id = $%d", len(args))
	}
	if f.UserID != "" {
		args = append(args, f.UserID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if f.From != nil {
		args = append(args, *f.From)
		query += fmt.Sprintf(" AND timestamp >= $%d", len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		query += fmt.Sprintf(" AND timestamp <= $%d", len(args))
	}
	return query, args
}

// ListByEntity historial de una entidad, ascendente por timestamp.
func (r *AuditLogRepo) ListByEntity(entityType, entityID, storeID string) ([]*entity.AuditLog, error) {
	query := `SELECT ` + auditColumns + `
		FROM audit_logs
		WHERE entity_type = $1 AND entity_id = $2 AND store_id = $3
		ORDER BY timestamp ASC`
	rows, err := r.q.Query(context.Background(), query, entityType, entityID, storeID)
	if err != nil {
		return nil, fmt.Errorf("list entity history: %w", err)
	}
	return scanAuditLogs(rows)
}

// ListByEntityID historial por id de entidad sin importar el tipo, ascendente.
func (r *AuditLogRepo) ListByEntityID(entityID, storeID string) ([]*entity.AuditLog, error) {
	query := `SELECT ` + auditColumns + `
		FROM audit_logs
		WHERE entity_id = $1 AND store_id = $2
		ORDER BY timestamp ASC`
	rows, err := r.q.Query(context.Background(), query, entityID, storeID)
	if err != nil {
		return nil, fmt.Errorf("list entity logs: %w", err)
	}
	return scanAuditLogs(rows)
}

// HasEntityAction indica si existe una fila para (entityID, actionType).
func (r *AuditLogRepo) HasEntityAction(entityID, actionType string) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM audit_logs WHERE entity_id = $1 AND action_type = $2)`
	var exists bool
	if err := r.q.QueryRow(context.Background(), query, entityID, actionType).Scan(&exists); err != nil {
		return false, fmt.Errorf("has entity action: %w", err)
	}
	return exists, nil
}

// MarkReversed marca una fila como revertida y enlaza la fila de reversión.
// Única mutación permitida sobre la bitácora.
func (r *AuditLogRepo) MarkReversed(id, reversedBy, reason, reversalID string) error {
	query := `
		UPDATE audit_logs
		SET status = $2, reversed_by = $3, reversed_at = $4,
		    reversal_reason = $5, reversal_id = $6
		WHERE id = $1 AND status != $2`
	_, err := r.q.Exec(context.Background(), query,
		id, entity.AuditStatusReversed, reversedBy, time.Now(), reason, nullIfEmpty(reversalID))
	if err != nil {
		return fmt.Errorf("mark audit log reversed: %w", err)
	}
	return nil
}

func scanAuditLogs(rows pgx.Rows) ([]*entity.AuditLog, error) {
	defer rows.Close()
	var result []*entity.AuditLog
	for rows.Next() {
		l, err := scanAuditLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

func scanAuditLog(row pgx.Row) (*entity.AuditLog, error) {
	var (
		l                                            entity.AuditLog
		userID, userName, errMsg                     *string
		reversedBy, reversalReason, reversalLogID    *string
		changesRaw, impactRaw, relatedRaw            []byte
	)
	err := row.Scan(
		&l.ID, &l.ActionType, &l.Description, &l.EntityType, &l.EntityID,
		&userID, &userName, &l.StoreID,
		&changesRaw, &impactRaw, &relatedRaw, &l.Status,
		&errMsg, &reversedBy, &l.ReversedAt, &reversalReason, &reversalLogID,
		&l.Timestamp, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if userID != nil {
		l.UserID = *userID
	}
	if userName != nil {
		l.UserName = *userName
	}
	if errMsg != nil {
		l.ErrorMessage = *errMsg
	}
	if reversedBy != nil {
		l.ReversedBy = *reversedBy
	}
	if reversalReason != nil {
		l.ReversalReason = *reversalReason
	}
	if reversalLogID != nil {
		l.ReversalID = *reversalLogID
	}
	if err := fromJSONB(changesRaw, &l.Changes); err != nil {
		return nil, err
	}
	if err := fromJSONB(impactRaw, &l.FinancialImpact); err != nil {
		return nil, err
	}
	if err := fromJSONB(relatedRaw, &l.RelatedEntities); err != nil {
		return nil, err
	}
	return &l, nil
}
