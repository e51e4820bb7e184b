// Package returns orquesta el ciclo de vida de las devoluciones:
// solicitud, aprobación, procesamiento con reembolso y rechazo.
package returns

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bellezapp/backend/internal/application/audit"
	"github.com/bellezapp/backend/internal/application/dto"
	"github.com/bellezapp/backend/internal/application/refund"
	"github.com/bellezapp/backend/internal/domain"
	"github.com/bellezapp/backend/internal/domain/entity"
	"github.com/bellezapp/backend/internal/domain/repository"
	domreturns "github.com/bellezapp/backend/internal/domain/returns"
	"github.com/bellezapp/backend/pkg/logger"
)

// UseCase caso de uso de devoluciones. Las validaciones de entrada y las
// lecturas previas van fuera de la transacción; toda mutación va dentro.
type UseCase struct {
	tx        TxRunner
	orders    repository.OrderRepository
	returns   repository.ReturnRequestRepository // lecturas (pool)
	processor *refund.Processor
	auditor   *audit.Logger
	log       *logger.Logger
	currency  string
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	tx TxRunner,
	orders repository.OrderRepository,
	returnsRepo repository.ReturnRequestRepository,
	processor *refund.Processor,
	auditor *audit.Logger,
	log *logger.Logger,
	currency string,
) *UseCase {
	return &UseCase{
		tx:        tx,
		orders:    orders,
		returns:   returnsRepo,
		processor: processor,
		auditor:   auditor,
		log:       log,
		currency:  currency,
	}
}

// CreateReturnRequest registra una nueva solicitud en estado pending.
// El stock se acredita aquí, una sola vez; el procesamiento posterior solo
// mueve dinero.
func (uc *UseCase) CreateReturnRequest(ctx context.Context, userID string, req dto.CreateReturnRequest) (*entity.ReturnRequest, error) {
	if req.OrderID == "" || req.StoreID == "" || userID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !domreturns.ValidType(req.Type) {
		return nil, fmt.Errorf("%w: tipo de devolución %q", domain.ErrInvalidInput, req.Type)
	}
	if !domreturns.ValidRefundMethod(req.RefundMethod) {
		return nil, fmt.Errorf("%w: método de reembolso %q", domain.ErrInvalidInput, req.RefundMethod)
	}
	if !domreturns.ValidReasonCategory(req.ReasonCategory) {
		return nil, fmt.Errorf("%w: categoría de razón %q", domain.ErrInvalidInput, req.ReasonCategory)
	}

	items := make([]entity.ReturnItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, entity.ReturnItem{
			ProductID:        it.ProductID,
			OriginalQuantity: it.OriginalQuantity,
			ReturnQuantity:   it.ReturnQuantity,
			UnitPrice:        it.UnitPrice,
			ReturnReason:     it.ReturnReason,
			Notes:            it.Notes,
		})
	}
	if err := domreturns.ValidateItems(items); err != nil {
		return nil, err
	}

	order, err := uc.orders.GetByID(req.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: orden %s", domain.ErrNotFound, req.OrderID)
	}
	if order.StoreID != req.StoreID {
		return nil, domain.ErrStoreMismatch
	}
	prev, err := uc.returns.ListByOrder(order.ID)
	if err != nil {
		return nil, err
	}
	if err := validateAgainstOrder(order, prev, items); err != nil {
		return nil, err
	}

	now := time.Now()
	rr := &entity.ReturnRequest{
		ID:                uuid.New().String(),
		OrderID:           order.ID,
		OrderNumber:       order.ReceiptNumber,
		Type:              req.Type,
		Status:            entity.ReturnStatusPending,
		Items:             items,
		TotalRefundAmount: domreturns.ComputeRefundTotal(items),
		Currency:          uc.currency,
		RefundMethod:      req.RefundMethod,
		CustomerID:        order.CustomerID,
		CustomerName:      req.CustomerName,
		StoreID:           req.StoreID,
		ReasonCategory:    req.ReasonCategory,
		ReasonDetails:     req.ReasonDetails,
		RequestedBy:       userID,
		RequestedAt:       now,
		AttachmentURLs:    req.AttachmentURLs,
		Notes:             req.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err = uc.tx.Run(ctx, func(r TxRepos) error {
		// Repetir el chequeo acumulado ya dentro de la transacción: entre la
		// lectura del pool y este punto pudo crearse otra solicitud sobre la
		// misma orden.
		latest, err := r.Returns.ListByOrder(order.ID)
		if err != nil {
			return err
		}
		if err := validateAgainstOrder(order, latest, items); err != nil {
			return err
		}

		// Acreditar stock producto por producto, con la fila bloqueada,
		// y capturar el snapshot del impacto.
		impacts := make([]entity.InventoryImpact, 0, len(items))
		for _, it := range items {
			ps, err := r.ProductStores.GetForUpdate(it.ProductID, req.StoreID)
			if err != nil {
				return err
			}
			if ps == nil {
				return fmt.Errorf("%w: producto %s sin inventario en la tienda %s",
					domain.ErrNotFound, it.ProductID, req.StoreID)
			}
			newStock := ps.Stock + it.ReturnQuantity
			if err := r.ProductStores.UpdateStock(it.ProductID, req.StoreID, newStock); err != nil {
				return err
			}
			impacts = append(impacts, entity.InventoryImpact{
				ProductID:     it.ProductID,
				QuantityAdded: it.ReturnQuantity,
				NewStock:      newStock,
			})
		}
		rr.ImpactOnInventory = impacts

		if err := r.Returns.Create(rr); err != nil {
			return err
		}

		return uc.auditor.Record(r.Audit, audit.Entry{
			ActionType:  entity.ActionReturnRequested,
			Description: fmt.Sprintf("Solicitud de devolución para la orden %s", rr.OrderNumber),
			EntityType:  "return_request",
			EntityID:    rr.ID,
			UserID:      userID,
			StoreID:     rr.StoreID,
			FinancialImpact: &entity.FinancialImpact{
				Amount:   rr.TotalRefundAmount,
				Currency: rr.Currency,
				Type:     entity.ImpactDebit,
				Reason:   "devolución solicitada",
			},
			RelatedEntities: []entity.RelatedEntity{{Type: "order", ID: rr.OrderID}},
		})
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("return_request_id", rr.ID).
		Str("order_id", rr.OrderID).
		Str("store_id", rr.StoreID).
		Str("total", rr.TotalRefundAmount.String()).
		Msg("solicitud de devolución creada")
	return rr, nil
}

// validateAgainstOrder verifica que cada ítem exista en la orden y que la
// cantidad acumulada devuelta (solicitudes previas no rechazadas ni canceladas
// más esta) no supere lo vendido.
func validateAgainstOrder(order *entity.Order, prev []*entity.ReturnRequest, items []entity.ReturnItem) error {
	sold := make(map[string]int, len(order.Items))
	for _, oi := range order.Items {
		sold[oi.ProductID] += oi.Quantity
	}

	returned := make(map[string]int)
	for _, p := range prev {
		if p.Status == entity.ReturnStatusRejected || p.Status == entity.ReturnStatusCancelled {
			continue
		}
		for _, it := range p.Items {
			returned[it.ProductID] += it.ReturnQuantity
		}
	}

	for _, it := range items {
		qty, ok := sold[it.ProductID]
		if !ok {
			return fmt.Errorf("%w: el producto %s no pertenece a la orden %s",
				domain.ErrInvalidInput, it.ProductID, order.ID)
		}
		if returned[it.ProductID]+it.ReturnQuantity > qty {
			return fmt.Errorf("%w: producto %s, cantidad a devolver supera lo vendido",
				domain.ErrInvalidInput, it.ProductID)
		}
	}
	return nil
}

// ApproveReturnRequest transiciona pending → approved.
func (uc *UseCase) ApproveReturnRequest(ctx context.Context, id, userID, notes string) (*entity.ReturnRequest, error) {
	if id == "" || userID == "" {
		return nil, domain.ErrInvalidInput
	}
	var rr *entity.ReturnRequest
	err := uc.tx.Run(ctx, func(r TxRepos) error {
		var err error
		rr, err = r.Returns.GetForUpdate(id)
		if err != nil {
			return err
		}
		if rr == nil {
			return fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, id)
		}
		if err := domreturns.ValidateTransition(rr.Status, entity.ReturnStatusApproved); err != nil {
			return err
		}

		now := time.Now()
		rr.Status = entity.ReturnStatusApproved
		rr.ApprovedBy = userID
		rr.ApprovedAt = &now
		rr.UpdatedAt = now
		if notes != "" {
			rr.Notes = append(rr.Notes, notes)
		}
		if err := r.Returns.Update(rr); err != nil {
			return err
		}

		return uc.auditor.Record(r.Audit, audit.Entry{
			ActionType:  entity.ActionReturnApproved,
			Description: fmt.Sprintf("Devolución %s aprobada", rr.ID),
			EntityType:  "return_request",
			EntityID:    rr.ID,
			UserID:      userID,
			StoreID:     rr.StoreID,
			Changes: []entity.AuditChange{
				{Field: "status", OldValue: entity.ReturnStatusPending, NewValue: entity.ReturnStatusApproved},
			},
			FinancialImpact: &entity.FinancialImpact{
				Amount:   rr.TotalRefundAmount,
				Currency: rr.Currency,
				Type:     entity.ImpactDebit,
				Reason:   "devolución aprobada",
			},
		})
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("return_request_id", rr.ID).Msg("devolución aprobada")
	return rr, nil
}

// ProcessReturnAndRefund transiciona approved → completed: crea el reembolso,
// el movimiento de caja y el egreso contable, todo en una transacción. El
// inventario no se toca aquí; ya fue acreditado al crear la solicitud.
func (uc *UseCase) ProcessReturnAndRefund(ctx context.Context, id, userID, notes string) (*entity.ReturnRequest, *entity.RefundTransaction, error) {
	if id == "" || userID == "" {
		return nil, nil, domain.ErrInvalidInput
	}
	var (
		rr *entity.ReturnRequest
		rt *entity.RefundTransaction
	)
	err := uc.tx.Run(ctx, func(r TxRepos) error {
		var err error
		rr, err = r.Returns.GetForUpdate(id)
		if err != nil {
			return err
		}
		if rr == nil {
			return fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, id)
		}
		if err := domreturns.ValidateTransition(rr.Status, entity.ReturnStatusCompleted); err != nil {
			return err
		}

		now := time.Now()
		rt, err = uc.processor.ProcessInTx(rr, userID, notes, now, r.Refunds, r.CashMovements, r.Financial)
		if err != nil {
			return err
		}

		rr.Status = entity.ReturnStatusCompleted
		rr.ProcessedBy = userID
		rr.ProcessedAt = &now
		rr.UpdatedAt = now
		if notes != "" {
			rr.Notes = append(rr.Notes, notes)
		}
		if err := r.Returns.Update(rr); err != nil {
			return err
		}

		related := []entity.RelatedEntity{
			{Type: "order", ID: rr.OrderID},
			{Type: "refund_transaction", ID: rt.ID},
		}
		if err := uc.auditor.Record(r.Audit, audit.Entry{
			ActionType:  entity.ActionReturnCompleted,
			Description: fmt.Sprintf("Devolución %s completada", rr.ID),
			EntityType:  "return_request",
			EntityID:    rr.ID,
			UserID:      userID,
			StoreID:     rr.StoreID,
			Changes: []entity.AuditChange{
				{Field: "status", OldValue: entity.ReturnStatusApproved, NewValue: entity.ReturnStatusCompleted},
			},
			RelatedEntities: related,
		}); err != nil {
			return err
		}
		return uc.auditor.Record(r.Audit, audit.Entry{
			ActionType:  entity.ActionRefundProcessed,
			Description: fmt.Sprintf("Reembolso de %s %s por la devolución %s", rt.Amount.String(), rt.Currency, rr.ID),
			EntityType:  "refund_transaction",
			EntityID:    rt.ID,
			UserID:      userID,
			StoreID:     rr.StoreID,
			FinancialImpact: &entity.FinancialImpact{
				Amount:   rt.Amount,
				Currency: rt.Currency,
				Type:     entity.ImpactDebit,
				Reason:   "reembolso procesado",
			},
			RelatedEntities: related,
		})
	})
	if err != nil {
		return nil, nil, err
	}
	uc.log.Info().
		Str("return_request_id", rr.ID).
		Str("refund_transaction_id", rt.ID).
		Str("amount", rt.Amount.String()).
		Msg("devolución procesada y reembolsada")
	return rr, rt, nil
}

// RejectReturnRequest transiciona pending|approved → rejected y revierte el
// crédito de stock hecho al crear la solicitud. No mueve dinero.
func (uc *UseCase) RejectReturnRequest(ctx context.Context, id, userID, reason, internalNotes string) (*entity.ReturnRequest, error) {
	if id == "" || userID == "" || reason == "" {
		return nil, domain.ErrInvalidInput
	}
	var rr *entity.ReturnRequest
	err := uc.tx.Run(ctx, func(r TxRepos) error {
		var err error
		rr, err = r.Returns.GetForUpdate(id)
		if err != nil {
			return err
		}
		if rr == nil {
			return fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, id)
		}
		prevStatus := rr.Status
		if err := domreturns.ValidateTransition(prevStatus, entity.ReturnStatusRejected); err != nil {
			return err
		}

		// Revertir el restock del momento de la creación; el stock no puede
		// quedar negativo aunque haya habido ventas en el medio.
		changes := []entity.AuditChange{
			{Field: "status", OldValue: prevStatus, NewValue: entity.ReturnStatusRejected},
		}
		for _, imp := range rr.ImpactOnInventory {
			ps, err := r.ProductStores.GetForUpdate(imp.ProductID, rr.StoreID)
			if err != nil {
				return err
			}
			if ps == nil {
				continue
			}
			newStock := ps.Stock - imp.QuantityAdded
			if newStock < 0 {
				newStock = 0
			}
			if err := r.ProductStores.UpdateStock(imp.ProductID, rr.StoreID, newStock); err != nil {
				return err
			}
			changes = append(changes, entity.AuditChange{
				Field:    "stock:" + imp.ProductID,
				OldValue: ps.Stock,
				NewValue: newStock,
			})
		}

		now := time.Now()
		rr.Status = entity.ReturnStatusRejected
		rr.InternalNotes = internalNotes
		rr.Notes = append(rr.Notes, "Rechazada: "+reason)
		rr.UpdatedAt = now
		if err := r.Returns.Update(rr); err != nil {
			return err
		}

		// Sin bloque de impacto financiero: no se movió dinero.
		return uc.auditor.Record(r.Audit, audit.Entry{
			ActionType:  entity.ActionReturnRejected,
			Description: fmt.Sprintf("Devolución %s rechazada: %s", rr.ID, reason),
			EntityType:  "return_request",
			EntityID:    rr.ID,
			UserID:      userID,
			StoreID:     rr.StoreID,
			Changes:     changes,
		})
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("return_request_id", rr.ID).Msg("devolución rechazada")
	return rr, nil
}

// GetReturnRequest devuelve una solicitud por id, verificando la tienda.
func (uc *UseCase) GetReturnRequest(id, storeID string) (*entity.ReturnRequest, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	rr, err := uc.returns.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rr == nil {
		return nil, fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, id)
	}
	if storeID != "" && rr.StoreID != storeID {
		return nil, domain.ErrStoreMismatch
	}
	return rr, nil
}

// GetReturnsWithFilters lista devoluciones con filtros y agregados.
func (uc *UseCase) GetReturnsWithFilters(q dto.ReturnsListQuery, rng dto.DateRange) (*dto.ReturnsListResponse, error) {
	if q.StoreID == "" {
		return nil, domain.ErrInvalidInput
	}
	if q.Status != "" && !domreturns.ValidStatus(q.Status) {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, q.Status)
	}
	if q.Type != "" && !domreturns.ValidType(q.Type) {
		return nil, fmt.Errorf("%w: tipo %q", domain.ErrInvalidInput, q.Type)
	}
	if q.RefundMethod != "" && !domreturns.ValidRefundMethod(q.RefundMethod) {
		return nil, fmt.Errorf("%w: método %q", domain.ErrInvalidInput, q.RefundMethod)
	}

	list, err := uc.returns.ListWithFilters(repository.ReturnFilters{
		StoreID:      q.StoreID,
		Status:       q.Status,
		Type:         q.Type,
		CustomerID:   q.CustomerID,
		RefundMethod: q.RefundMethod,
		From:         rng.From,
		To:           rng.To,
	})
	if err != nil {
		return nil, err
	}

	summary := dto.ReturnsSummary{
		Total:             len(list),
		TotalRefundAmount: decimal.Zero,
		ByStatus:          map[string]int{},
		ByType:            map[string]int{},
	}
	for _, rr := range list {
		summary.TotalRefundAmount = summary.TotalRefundAmount.Add(rr.TotalRefundAmount)
		summary.ByStatus[rr.Status]++
		summary.ByType[rr.Type]++
	}
	return &dto.ReturnsListResponse{Returns: list, Summary: summary}, nil
}

// GetOrderNetView devuelve la orden con sus devoluciones descontadas.
func (uc *UseCase) GetOrderNetView(orderID, storeID string) (*entity.OrderNetView, error) {
	if orderID == "" {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: orden %s", domain.ErrNotFound, orderID)
	}
	if storeID != "" && order.StoreID != storeID {
		return nil, domain.ErrStoreMismatch
	}
	prev, err := uc.returns.ListByOrder(orderID)
	if err != nil {
		return nil, err
	}
	view := domreturns.NetView(order, prev)
	return &view, nil
}
