package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/bellezapp/backend/internal/domain/entity"
	"github.com/bellezapp/backend/internal/domain/repository"
)

var _ repository.ReturnRequestRepository = (*ReturnRequestRepo)(nil)

// ReturnRequestRepo implementación de ReturnRequestRepository (usable con pool o tx).
// Las colecciones embebidas (items, impacto, notas, adjuntos) viven en JSONB.
type ReturnRequestRepo struct {
	q Querier
}

// NewReturnRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReturnRequestRepository(q Querier) *ReturnRequestRepo {
	return &ReturnRequestRepo{q: q}
}

const returnRequestColumns = `
	id, order_id, order_number, type, status, items, total_refund_amount,
	currency, refund_method, customer_id, customer_name, store_id,
	reason_category, reason_details, requested_by, requested_at,
	approved_by, approved_at, processed_by, processed_at,
	attachment_urls, impact_on_inventory, notes, internal_notes,
	created_at, updated_at`

// Create persiste la solicitud con sus colecciones embebidas.
func (r *ReturnRequestRepo) Create(rr *entity.ReturnRequest) error {
	if rr.ID == "" {
		rr.ID = uuid.New().String()
	}
	items, err := toJSONB(rr.Items)
	if err != nil {
		return err
	}
	impact, err := toJSONB(rr.ImpactOnInventory)
	if err != nil {
		return err
	}
	attachments, err := toJSONB(rr.AttachmentURLs)
	if err != nil {
		return err
	}
	notes, err := toJSONB(rr.Notes)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO return_requests (` + returnRequestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`
	_, err = r.q.Exec(context.Background(), query,
		rr.ID, rr.OrderID, rr.OrderNumber, rr.Type, rr.Status, items, rr.TotalRefundAmount,
		rr.Currency, rr.RefundMethod, nullIfEmpty(rr.CustomerID), nullIfEmpty(rr.CustomerName), rr.StoreID,
		rr.ReasonCategory, nullIfEmpty(rr.ReasonDetails), rr.RequestedBy, rr.RequestedAt,
		nullIfEmpty(rr.ApprovedBy), rr.ApprovedAt, nullIfEmpty(rr.ProcessedBy), rr.ProcessedAt,
		attachments, impact, notes, nullIfEmpty(rr.InternalNotes),
		rr.CreatedAt, rr.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert return request: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud; nil si no existe.
func (r *ReturnRequestRepo) GetByID(id string) (*entity.ReturnRequest, error) {
	query := `SELECT ` + returnRequestColumns + ` FROM return_requests WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene la solicitud y bloquea la fila (SELECT FOR UPDATE).
// Solo tiene sentido dentro de una transacción.
func (r *ReturnRequestRepo) GetForUpdate(id string) (*entity.ReturnRequest, error) {
	query := `SELECT ` + returnRequestColumns + ` FROM return_requests WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// Update actualiza los campos mutables de la solicitud.
func (r *ReturnRequestRepo) Update(rr *entity.ReturnRequest) error {
	notes, err := toJSONB(rr.Notes)
	if err != nil {
		return err
	}
	impact, err := toJSONB(rr.ImpactOnInventory)
	if err != nil {
		return err
	}
	query := `
		UPDATE return_requests
		SET status              = $2,
		    approved_by         = $3,
		    approved_at         = $4,
		    processed_by        = $5,
		    processed_at        = $6,
		    impact_on_inventory = $7,
		    notes               = $8,
		    internal_notes      = $9,
		    updated_at          = $10
		WHERE id = $1`
	_, err = r.q.Exec(context.Background(), query,
		rr.ID, rr.Status,
		nullIfEmpty(rr.ApprovedBy), rr.ApprovedAt,
		nullIfEmpty(rr.ProcessedBy), rr.ProcessedAt,
		impact, notes, nullIfEmpty(rr.InternalNotes), rr.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update return request: %w", err)
	}
	return nil
}

// ListByOrder devuelve las solicitudes de una orden, más reciente primero.
func (r *ReturnRequestRepo) ListByOrder(orderID string) ([]*entity.ReturnRequest, error) {
	query := `SELECT ` + returnRequestColumns + `
		FROM return_requests WHERE order_id = $1 ORDER BY requested_at DESC`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list returns by order: %w", err)
	}
	return r.scanAll(rows)
}

// ListWithFilters lista por tienda con filtros opcionales.
func (r *ReturnRequestRepo) ListWithFilters(f repository.ReturnFilters) ([]*entity.ReturnRequest, error) {
	query := `SELECT ` + returnRequestColumns + ` FROM return_requests WHERE store_id = $1`
	args := []any{f.StoreID}

	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if f.CustomerID != "" {
		args = append(args, f.CustomerID)
		query += fmt.Sprintf(" AND customer_id = $%d", len(args))
	}
	if f.RefundMethod != "" {
		args = append(args, f.RefundMethod)
		query += fmt.Sprintf(" AND refund_method = $%d", len(args))
	}
	if f.From != nil {
		args = append(args, *f.From)
		query += fmt.Sprintf(" AND requested_at >= $%d", len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		query += fmt.Sprintf(" AND requested_at <= $%d", len(args))
	}
	query += " ORDER BY requested_at DESC"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list returns: %w", err)
	}
	return r.scanAll(rows)
}

// ListProcessedInRange devuelve las completadas con processed_at en el rango.
func (r *ReturnRequestRepo) ListProcessedInRange(storeID string, from, to *time.Time) ([]*entity.ReturnRequest, error) {
	query := `SELECT ` + returnRequestColumns + `
		FROM return_requests
		WHERE store_id = $1 AND status = $2 AND processed_at IS NOT NULL`
	args := []any{storeID, entity.ReturnStatusCompleted}

	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND processed_at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND processed_at <= $%d", len(args))
	}
	query += " ORDER BY processed_at DESC"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list processed returns: %w", err)
	}
	return r.scanAll(rows)
}

// ListCompletedByStore devuelve todas las completadas de la tienda.
func (r *ReturnRequestRepo) ListCompletedByStore(storeID string) ([]*entity.ReturnRequest, error) {
	query := `SELECT ` + returnRequestColumns + `
		FROM return_requests WHERE store_id = $1 AND status = $2 ORDER BY processed_at DESC`
	rows, err := r.q.Query(context.Background(), query, storeID, entity.ReturnStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("list completed returns: %w", err)
	}
	return r.scanAll(rows)
}

func (r *ReturnRequestRepo) scanOne(row pgx.Row) (*entity.ReturnRequest, error) {
	rr, err := scanReturnRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get return request: %w", err)
	}
	return rr, nil
}

func (r *ReturnRequestRepo) scanAll(rows pgx.Rows) ([]*entity.ReturnRequest, error) {
	defer rows.Close()
	var result []*entity.ReturnRequest
	for rows.Next() {
		rr, err := scanReturnRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan return request: %w", err)
		}
		result = append(result, rr)
	}
	return result, rows.Err()
}

func scanReturnRequest(row pgx.Row) (*entity.ReturnRequest, error) {
	var (
		rr                                        entity.ReturnRequest
		customerID, customerName, reasonDetails   *string
		approvedBy, processedBy, internalNotes    *string
		itemsRaw, impactRaw, attachRaw, notesRaw  []byte
	)
	err := row.Scan(
		&rr.ID, &rr.OrderID, &rr.OrderNumber, &rr.Type, &rr.Status, &itemsRaw, &rr.TotalRefundAmount,
		&rr.Currency, &rr.RefundMethod, &customerID, &customerName, &rr.StoreID,
		&rr.ReasonCategory, &reasonDetails, &rr.RequestedBy, &rr.RequestedAt,
		&approvedBy, &rr.ApprovedAt, &processedBy, &rr.ProcessedAt,
		&attachRaw, &impactRaw, &notesRaw, &internalNotes,
		&rr.CreatedAt, &rr.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if customerID != nil {
		rr.CustomerID = *customerID
	}
	if customerName != nil {
		rr.CustomerName = *customerName
	}
	if reasonDetails != nil {
		rr.ReasonDetails = *reasonDetails
	}
	if approvedBy != nil {
		rr.ApprovedBy = *approvedBy
	}
	if processedBy != nil {
		rr.ProcessedBy = *processedBy
	}
	if internalNotes != nil {
		rr.InternalNotes = *internalNotes
	}
	if err := fromJSONB(itemsRaw, &rr.Items); err != nil {
		return nil, err
	}
	if err := fromJSONB(impactRaw, &rr.ImpactOnInventory); err != nil {
		return nil, err
	}
	if err := fromJSONB(attachRaw, &rr.AttachmentURLs); err != nil {
		return nil, err
	}
	if err := fromJSONB(notesRaw, &rr.Notes); err != nil {
		return nil, err
	}
	return &rr, nil
}
