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

var _ repository.CashRegisterRepository = (*CashRegisterRepo)(nil)
var _ repository.CashMovementRepository = (*CashMovementRepo)(nil)

// CashRegisterRepo implementación de CashRegisterRepository (usable con pool o tx).
type CashRegisterRepo struct {
	q Querier
}

// NewCashRegisterRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashRegisterRepository(q Querier) *CashRegisterRepo {
	return &CashRegisterRepo{q: q}
}

const cashRegisterColumns = `
	id, date, opening_amount, closing_amount, expected_amount, difference,
	status, opening_time, closing_time, user_id, store_id, created_at, updated_at`

// Create persiste la sesión de caja.
func (r *CashRegisterRepo) Create(cr *entity.CashRegister) error {
	if cr.ID == "" {
		cr.ID = uuid.New().String()
	}
	query := `
		INSERT INTO cash_registers (` + cashRegisterColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		cr.ID, cr.Date, cr.OpeningAmount, cr.ClosingAmount, cr.ExpectedAmount, cr.Difference,
		cr.Status, cr.OpeningTime, cr.ClosingTime, cr.UserID, cr.StoreID, cr.CreatedAt, cr.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("la tienda ya tiene una caja abierta: %w", err)
		}
		return fmt.Errorf("insert cash register: %w", err)
	}
	return nil
}

// GetByID obtiene una sesión; nil si no existe.
func (r *CashRegisterRepo) GetByID(id string) (*entity.CashRegister, error) {
	query := `SELECT ` + cashRegisterColumns + ` FROM cash_registers WHERE id = $1`
	return scanCashRegister(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene la sesión y bloquea la fila (SELECT FOR UPDATE).
// Solo tiene sentido dentro de una transacción.
func (r *CashRegisterRepo) GetForUpdate(id string) (*entity.CashRegister, error) {
	query := `SELECT ` + cashRegisterColumns + ` FROM cash_registers WHERE id = $1 FOR UPDATE`
	return scanCashRegister(r.q.QueryRow(context.Background(), query, id))
}

// GetOpenByStore devuelve la sesión abierta más reciente de la tienda, o nil.
func (r *CashRegisterRepo) GetOpenByStore(storeID string) (*entity.CashRegister, error) {
	query := `SELECT ` + cashRegisterColumns + `
		FROM cash_registers WHERE store_id = $1 AND status = $2
		ORDER BY opening_time DESC LIMIT 1`
	return scanCashRegister(r.q.QueryRow(context.Background(), query, storeID, entity.RegisterStatusOpen))
}

// Update actualiza los campos de cierre de la sesión.
func (r *CashRegisterRepo) Update(cr *entity.CashRegister) error {
	query := `
		UPDATE cash_registers
		SET closing_amount = $2, expected_amount = $3, difference = $4,
		    status = $5, closing_time = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		cr.ID, cr.ClosingAmount, cr.ExpectedAmount, cr.Difference,
		cr.Status, cr.ClosingTime, cr.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update cash register: %w", err)
	}
	return nil
}

func scanCashRegister(row pgx.Row) (*entity.CashRegister, error) {
	var cr entity.CashRegister
	err := row.Scan(
		&cr.ID, &cr.Date, &cr.OpeningAmount, &cr.ClosingAmount, &cr.ExpectedAmount, &cr.Difference,
		&cr.Status, &cr.OpeningTime, &cr.ClosingTime, &cr.UserID, &cr.StoreID, &cr.CreatedAt, &cr.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cash register: %w", err)
	}
	return &cr, nil
}

// CashMovementRepo implementación de CashMovementRepository (usable con pool o tx).
type CashMovementRepo struct {
	q Querier
}

// NewCashMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashMovementRepository(q Querier) *CashMovementRepo {
	return &CashMovementRepo{q: q}
}

const cashMovementColumns = `
	id, date, type, amount, description, order_id, source_return_request_id,
	user_id, store_id, created_at`

// Create persiste un movimiento de caja.
func (r *CashMovementRepo) Create(m *entity.CashMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO cash_movements (` + cashMovementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.Date, m.Type, m.Amount, nullIfEmpty(m.Description),
		nullIfEmpty(m.OrderID), nullIfEmpty(m.SourceReturnRequestID),
		m.UserID, m.StoreID, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert cash movement: %w", err)
	}
	return nil
}

// List lista movimientos con filtros, más reciente primero.
func (r *CashMovementRepo) List(f repository.CashMovementFilters) ([]*entity.CashMovement, error) {
	query := `SELECT ` + cashMovementColumns + ` FROM cash_movements WHERE store_id = $1`
	args := []any{f.StoreID}

	if f.Type != "" {
		args = append(args, f.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if f.From != nil {
		args = append(args, *f.From)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	query += " ORDER BY date DESC"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cash movements: %w", err)
	}
	return scanCashMovements(rows)
}

// ListSince devuelve los movimientos de la tienda desde un instante, ascendente.
func (r *CashMovementRepo) ListSince(storeID string, since time.Time) ([]*entity.CashMovement, error) {
	query := `SELECT ` + cashMovementColumns + `
		FROM cash_movements WHERE store_id = $1 AND date >= $2 ORDER BY date ASC`
	rows, err := r.q.Query(context.Background(), query, storeID, since)
	if err != nil {
		return nil, fmt.Errorf("list cash movements since: %w", err)
	}
	return scanCashMovements(rows)
}

func scanCashMovements(rows pgx.Rows) ([]*entity.CashMovement, error) {
	defer rows.Close()
	var result []*entity.CashMovement
	for rows.Next() {
		var (
			m                              entity.CashMovement
			description, orderID, retReqID *string
		)
		err := rows.Scan(
			&m.ID, &m.Date, &m.Type, &m.Amount, &description,
			&orderID, &retReqID, &m.UserID, &m.StoreID, &m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan cash movement: %w", err)
		}
		if description != nil {
			m.Description = *description
		}
		if orderID != nil {
			m.OrderID = *orderID
		}
		if retReqID != nil {
			m.SourceReturnRequestID = *retReqID
		}
		result = append(result, &m)
	}
	return result, rows.Err()
}
