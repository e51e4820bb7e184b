// Package cash gestiona las sesiones de caja por tienda: apertura, cierre con
// arqueo y movimientos del ledger de caja.
package cash

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bellezapp/backend/internal/application/audit"
	"github.com/bellezapp/backend/internal/application/dto"
	"github.com/bellezapp/backend/internal/domain"
	"github.com/bellezapp/backend/internal/domain/entity"
	"github.com/bellezapp/backend/internal/domain/repository"
	"github.com/bellezapp/backend/pkg/logger"
)

// UseCase caso de uso de caja.
type UseCase struct {
	tx        TxRunner
	registers repository.CashRegisterRepository // lecturas (pool)
	movements repository.CashMovementRepository
	auditor   *audit.Logger
	log       *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	tx TxRunner,
	registers repository.CashRegisterRepository,
	movements repository.CashMovementRepository,
	auditor *audit.Logger,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		tx:        tx,
		registers: registers,
		movements: movements,
		auditor:   auditor,
		log:       log,
	}
}

// OpenRegister abre una sesión de caja para la tienda. Falla si ya hay una
// abierta. Registra el movimiento de apertura y la fila de auditoría en la
// misma transacción.
func (uc *UseCase) OpenRegister(ctx context.Context, userID string, req dto.OpenRegisterRequest) (*entity.CashRegister, error) {
	if req.StoreID == "" || userID == "" {
		return nil, domain.ErrInvalidInput
	}
	if req.OpeningAmount.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: monto de apertura negativo", domain.ErrInvalidInput)
	}

	var cr *entity.CashRegister
	err := uc.tx.RunCash(ctx, func(r TxRepos) error {
		open, err := r.Registers.GetOpenByStore(req.StoreID)
		if err != nil {
			return err
		}
		if open != nil {
			return domain.ErrRegisterAlreadyOpen
		}

		now := time.Now()
		cr = &entity.CashRegister{
			ID:            uuid.New().String(),
			Date:          now,
			OpeningAmount: req.OpeningAmount,
			Status:        entity.RegisterStatusOpen,
			OpeningTime:   now,
			UserID:        userID,
			StoreID:       req.StoreID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := r.Registers.Create(cr); err != nil {
			return err
		}

		mov := &entity.CashMovement{
			ID:          uuid.New().String(),
			Date:        now,
			Type:        entity.CashMovementOpening,
			Amount:      req.OpeningAmount,
			Description: "Apertura de caja",
			UserID:      userID,
			StoreID:     req.StoreID,
			CreatedAt:   now,
		}
		if err := r.Movements.Create(mov); err != nil {
			return err
		}

		return uc.auditor.Record(r.Audit, audit.Entry{
			ActionType:  entity.ActionCashOpening,
			Description: fmt.Sprintf("Apertura de caja con %s", req.OpeningAmount.String()),
			EntityType:  "cash_register",
			EntityID:    cr.ID,
			UserID:      userID,
			StoreID:     req.StoreID,
			FinancialImpact: &entity.FinancialImpact{
				Amount: req.OpeningAmount,
				Type:   entity.ImpactCredit,
				Reason: "apertura de caja",
			},
		})
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("cash_register_id", cr.ID).Str("store_id", cr.StoreID).Msg("caja abierta")
	return cr, nil
}

// CloseRegister cierra la sesión: calcula el monto esperado a partir de los
// movimientos desde la apertura, registra la diferencia contra el conteo
// físico y escribe el movimiento de cierre.
func (uc *UseCase) CloseRegister(ctx context.Context, id, userID string, req dto.CloseRegisterRequest) (*entity.CashRegister, error) {
	if id == "" || userID == "" {
		return nil, domain.ErrInvalidInput
	}

	var cr *entity.CashRegister
	err := uc.tx.RunCash(ctx, func(r TxRepos) error {
		// Bloquear la fila antes de verificar el estado: dos cierres
		// concurrentes no deben pasar ambos el chequeo de "abierta".
		var err error
		cr, err = r.Registers.GetForUpdate(id)
		if err != nil {
			return err
		}
		if cr == nil {
			return fmt.Errorf("%w: caja %s", domain.ErrNotFound, id)
		}
		if cr.Status == entity.RegisterStatusClosed {
			return domain.ErrRegisterClosed
		}

		movements, err := r.Movements.ListSince(cr.StoreID, cr.OpeningTime)
		if err != nil {
			return err
		}
		expected := ExpectedAmount(cr.OpeningAmount, movements)

		now := time.Now()
		cr.ClosingAmount = req.ClosingAmount
		cr.ExpectedAmount = expected
		cr.Difference = req.ClosingAmount.Sub(expected)
		cr.Status = entity.RegisterStatusClosed
		cr.ClosingTime = &now
		cr.UpdatedAt = now
		if err := r.Registers.Update(cr); err != nil {
			return err
		}

		mov := &entity.CashMovement{
			ID:          uuid.New().String(),
			Date:        now,
			Type:        entity.CashMovementClosing,
			Amount:      req.ClosingAmount,
			Description: "Cierre de caja",
			UserID:      userID,
			StoreID:     cr.StoreID,
			CreatedAt:   now,
		}
		if err := r.Movements.Create(mov); err != nil {
			return err
		}

		return uc.auditor.Record(r.Audit, audit.Entry{
			ActionType: entity.ActionCashClosing,
			Description: fmt.Sprintf("Cierre de caja: contado %s, esperado %s",
				req.ClosingAmount.String(), expected.String()),
			EntityType: "cash_register",
			EntityID:   cr.ID,
			UserID:     userID,
			StoreID:    cr.StoreID,
			Changes: []entity.AuditChange{
				{Field: "status", OldValue: entity.RegisterStatusOpen, NewValue: entity.RegisterStatusClosed},
				{Field: "difference", OldValue: nil, NewValue: cr.Difference.String()},
			},
		})
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("cash_register_id", cr.ID).
		Str("difference", cr.Difference.String()).
		Msg("caja cerrada")
	return cr, nil
}

// ExpectedAmount calcula el monto esperado de cierre: apertura más ingresos y
// ventas, menos egresos y reembolsos. Apertura/cierre/ajustes no suman.
func ExpectedAmount(opening decimal.Decimal, movements []*entity.CashMovement) decimal.Decimal {
	expected := opening
	for _, m := range movements {
		switch m.Type {
		case entity.CashMovementIncome, entity.CashMovementSale:
			expected = expected.Add(m.Amount)
		case entity.CashMovementExpense, entity.CashMovementRefund:
			expected = expected.Sub(m.Amount)
		}
	}
	return expected
}

// AddMovement registra un movimiento manual de caja.
func (uc *UseCase) AddMovement(ctx context.Context, userID string, req dto.AddCashMovementRequest) (*entity.CashMovement, error) {
	if req.StoreID == "" || userID == "" {
		return nil, domain.ErrInvalidInput
	}
	switch req.Type {
	case entity.CashMovementIncome, entity.CashMovementExpense,
		entity.CashMovementSale, entity.CashMovementAdjustment:
	default:
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, req.Type)
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: el monto debe ser positivo", domain.ErrInvalidInput)
	}

	now := time.Now()
	mov := &entity.CashMovement{
		ID:          uuid.New().String(),
		Date:        now,
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
		OrderID:     req.OrderID,
		UserID:      userID,
		StoreID:     req.StoreID,
		CreatedAt:   now,
	}
	err := uc.tx.RunCash(ctx, func(r TxRepos) error {
		if err := r.Movements.Create(mov); err != nil {
			return err
		}
		if req.Type != entity.CashMovementAdjustment {
			return nil
		}
		return uc.auditor.Record(r.Audit, audit.Entry{
			ActionType:  entity.ActionCashAdjustment,
			Description: "Ajuste manual de caja: " + req.Description,
			EntityType:  "cash_movement",
			EntityID:    mov.ID,
			UserID:      userID,
			StoreID:     req.StoreID,
		})
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// ListMovements lista el ledger de caja con filtros.
func (uc *UseCase) ListMovements(storeID, movType string, rng dto.DateRange) ([]*entity.CashMovement, error) {
	if storeID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.movements.List(repository.CashMovementFilters{
		StoreID: storeID,
		Type:    movType,
		From:    rng.From,
		To:      rng.To,
	})
}

// GetStatus devuelve la sesión abierta de la tienda, o nil si no hay.
func (uc *UseCase) GetStatus(storeID string) (*entity.CashRegister, error) {
	if storeID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.registers.GetOpenByStore(storeID)
}
