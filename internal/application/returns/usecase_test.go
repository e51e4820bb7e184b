package returns_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bellezapp/backend/internal/application/audit"
	"github.com/bellezapp/backend/internal/application/dto"
	"github.com/bellezapp/backend/internal/application/refund"
	"github.com/bellezapp/backend/internal/application/returns"
	"github.com/bellezapp/backend/internal/domain"
	"github.com/bellezapp/backend/internal/domain/entity"
	"github.com/bellezapp/backend/internal/domain/repository"
	"github.com/bellezapp/backend/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. El TxRunner fake ejecuta fn directamente sobre los mismos
// fakes; la atomicidad real se prueba contra PostgreSQL, aquí interesa la
// lógica de negocio.
// ──────────────────────────────────────────────────────────────────────────────

type store struct {
	orders    map[string]*entity.Order
	returns   map[string]*entity.ReturnRequest
	stock     map[string]*entity.ProductStore // key productID|storeID
	refunds   []*entity.RefundTransaction
	movements []*entity.CashMovement
	fin       []*entity.FinancialTransaction
	audits    []*entity.AuditLog
}

func newStore() *store {
	return &store{
		orders:  map[string]*entity.Order{},
		returns: map[string]*entity.ReturnRequest{},
		stock:   map[string]*entity.ProductStore{},
	}
}

// clone copia el estado para simular una transacción: las mutaciones de fn
// ocurren sobre la copia y solo se vuelcan al original si fn no falla.
func (s *store) clone() *store {
	c := newStore()
	for id, o := range s.orders {
		c.orders[id] = o
	}
	for id, rr := range s.returns {
		cp := *rr
		c.returns[id] = &cp
	}
	for k, ps := range s.stock {
		cp := *ps
		c.stock[k] = &cp
	}
	c.refunds = append(c.refunds, s.refunds...)
	c.movements = append(c.movements, s.movements...)
	c.fin = append(c.fin, s.fin...)
	c.audits = append(c.audits, s.audits...)
	return c
}

func (s *store) auditedActions() []string {
	actions := make([]string, 0, len(s.audits))
	for _, a := range s.audits {
		actions = append(actions, a.ActionType)
	}
	return actions
}

type fakeOrderRepo struct{ s *store }

func (f *fakeOrderRepo) GetByID(id string) (*entity.Order, error) {
	return f.s.orders[id], nil
}

type fakeReturnRepo struct{ s *store }

func (f *fakeReturnRepo) Create(rr *entity.ReturnRequest) error {
	f.s.returns[rr.ID] = rr
	return nil
}

func (f *fakeReturnRepo) GetByID(id string) (*entity.ReturnRequest, error) {
	return f.s.returns[id], nil
}

func (f *fakeReturnRepo) GetForUpdate(id string) (*entity.ReturnRequest, error) {
	return f.s.returns[id], nil
}

func (f *fakeReturnRepo) Update(rr *entity.ReturnRequest) error {
	f.s.returns[rr.ID] = rr
	return nil
}

func (f *fakeReturnRepo) ListByOrder(orderID string) ([]*entity.ReturnRequest, error) {
	var out []*entity.ReturnRequest
	for _, rr := range f.s.returns {
		if rr.OrderID == orderID {
			out = append(out, rr)
		}
	}
	return out, nil
}

func (f *fakeReturnRepo) ListWithFilters(flt repository.ReturnFilters) ([]*entity.ReturnRequest, error) {
	var out []*entity.ReturnRequest
	for _, rr := range f.s.returns {
		if rr.StoreID != flt.StoreID {
			continue
		}
		if flt.Status != "" && rr.Status != flt.Status {
			continue
		}
		if flt.Type != "" && rr.Type != flt.Type {
			continue
		}
		out = append(out, rr)
	}
	return out, nil
}

func (f *fakeReturnRepo) ListProcessedInRange(storeID string, from, to *time.Time) ([]*entity.ReturnRequest, error) {
	return nil, nil
}

func (f *fakeReturnRepo) ListCompletedByStore(storeID string) ([]*entity.ReturnRequest, error) {
	return nil, nil
}

type fakeProductStoreRepo struct{ s *store }

func (f *fakeProductStoreRepo) GetForUpdate(productID, storeID string) (*entity.ProductStore, error) {
	return f.s.stock[productID+"|"+storeID], nil
}

func (f *fakeProductStoreRepo) UpdateStock(productID, storeID string, stock int) error {
	ps, ok := f.s.stock[productID+"|"+storeID]
	if !ok {
		return domain.ErrNotFound
	}
	ps.Stock = stock
	return nil
}

type fakeRefundRepo struct{ s *store }

func (f *fakeRefundRepo) Create(rt *entity.RefundTransaction) error {
	f.s.refunds = append(f.s.refunds, rt)
	return nil
}

func (f *fakeRefundRepo) GetByReturnRequest(id string) (*entity.RefundTransaction, error) {
	for _, rt := range f.s.refunds {
		if rt.ReturnRequestID == id {
			return rt, nil
		}
	}
	return nil, nil
}

func (f *fakeRefundRepo) ListByStore(storeID string, from, to *time.Time) ([]*entity.RefundTransaction, error) {
	return f.s.refunds, nil
}

type fakeMovementRepo struct{ s *store }

func (f *fakeMovementRepo) Create(m *entity.CashMovement) error {
	f.s.movements = append(f.s.movements, m)
	return nil
}

func (f *fakeMovementRepo) List(repository.CashMovementFilters) ([]*entity.CashMovement, error) {
	return f.s.movements, nil
}

func (f *fakeMovementRepo) ListSince(storeID string, since time.Time) ([]*entity.CashMovement, error) {
	return f.s.movements, nil
}

type fakeFinRepo struct{ s *store }

func (f *fakeFinRepo) Create(t *entity.FinancialTransaction) error {
	f.s.fin = append(f.s.fin, t)
	return nil
}

func (f *fakeFinRepo) List(storeID string, from, to *time.Time) ([]*entity.FinancialTransaction, error) {
	return f.s.fin, nil
}

func (f *fakeFinRepo) HasExpenseForReturn(id string) (bool, error) {
	for _, t := range f.s.fin {
		if t.SourceReturnRequestID == id && t.Type == entity.FinancialTypeExpense {
			return true, nil
		}
	}
	return false, nil
}

type fakeAuditRepo struct{ s *store }

func (f *fakeAuditRepo) Create(l *entity.AuditLog) error {
	f.s.audits = append(f.s.audits, l)
	return nil
}

func (f *fakeAuditRepo) List(repository.AuditFilters) ([]*entity.AuditLog, error) {
	return f.s.audits, nil
}

func (f *fakeAuditRepo) Count(repository.AuditFilters) (int, error) {
	return len(f.s.audits), nil
}

func (f *fakeAuditRepo) ListByEntity(entityType, entityID, storeID string) ([]*entity.AuditLog, error) {
	return f.s.audits, nil
}

func (f *fakeAuditRepo) ListByEntityID(entityID, storeID string) ([]*entity.AuditLog, error) {
	return f.s.audits, nil
}

func (f *fakeAuditRepo) HasEntityAction(entityID, actionType string) (bool, error) {
	for _, a := range f.s.audits {
		if a.EntityID == entityID && a.ActionType == actionType {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAuditRepo) MarkReversed(id, reversedBy, reason, reversalID string) error {
	return nil
}

type fakeUsers struct{}

func (fakeUsers) GetByID(id string) (*entity.User, error) {
	return &entity.User{ID: id, Name: "Cajera de Prueba"}, nil
}

func (fakeUsers) GetByEmail(email string) (*entity.User, error) {
	return nil, domain.ErrNotFound
}

type fakeTxRunner struct{ s *store }

func (f *fakeTxRunner) Run(ctx context.Context, fn func(r returns.TxRepos) error) error {
	return fn(txRepos(f.s))
}

func txRepos(s *store) returns.TxRepos {
	return returns.TxRepos{
		Returns:       &fakeReturnRepo{s},
		ProductStores: &fakeProductStoreRepo{s},
		Refunds:       &fakeRefundRepo{s},
		CashMovements: &fakeMovementRepo{s},
		Financial:     &fakeFinRepo{s},
		Audit:         &fakeAuditRepo{s},
	}
}

type failingAuditRepo struct {
	fakeAuditRepo
	err error
}

func (f *failingAuditRepo) Create(*entity.AuditLog) error { return f.err }

type failingFinRepo struct {
	fakeFinRepo
	err error
}

func (f *failingFinRepo) Create(*entity.FinancialTransaction) error { return f.err }

// rollbackTxRunner ejecuta fn sobre una copia del estado y solo la confirma si
// fn termina sin error, igual que una transacción real hace commit o rollback.
// failAudit y failFin inyectan fallos en los repos correspondientes.
type rollbackTxRunner struct {
	s         *store
	failAudit error
	failFin   error
}

func (f *rollbackTxRunner) Run(ctx context.Context, fn func(r returns.TxRepos) error) error {
	scratch := f.s.clone()
	repos := txRepos(scratch)
	if f.failAudit != nil {
		repos.Audit = &failingAuditRepo{fakeAuditRepo{scratch}, f.failAudit}
	}
	if f.failFin != nil {
		repos.Financial = &failingFinRepo{fakeFinRepo{scratch}, f.failFin}
	}
	if err := fn(repos); err != nil {
		return err
	}
	*f.s = *scratch
	return nil
}

// racingTxRunner inserta una solicitud competidora justo antes de abrir la
// transacción, como si otro cajero hubiera ganado la carrera.
type racingTxRunner struct {
	s      *store
	inject *entity.ReturnRequest
}

func (f *racingTxRunner) Run(ctx context.Context, fn func(r returns.TxRepos) error) error {
	if f.inject != nil {
		f.s.returns[f.inject.ID] = f.inject
		f.inject = nil
	}
	return fn(txRepos(f.s))
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	testStoreID = "store-1"
	testUserID  = "user-1"
	testOrderID = "order-1"
)

func newUseCase(s *store) *returns.UseCase {
	return newUseCaseWithTx(s, &fakeTxRunner{s})
}

func newUseCaseWithTx(s *store, tx returns.TxRunner) *returns.UseCase {
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	auditor := audit.NewLogger(&fakeAuditRepo{s}, fakeUsers{})
	processor := refund.NewProcessor("USD")
	return returns.NewUseCase(
		tx,
		&fakeOrderRepo{s},
		&fakeReturnRepo{s},
		processor,
		auditor,
		log,
		"USD",
	)
}

func seedOrder(s *store) {
	s.orders[testOrderID] = &entity.Order{
		ID:            testOrderID,
		StoreID:       testStoreID,
		ReceiptNumber: "REC-001",
		CustomerID:    "cust-1",
		Status:        entity.OrderStatusCompleted,
		Items: []entity.OrderItem{
			{ProductID: "p1", Quantity: 3, Price: decimal.NewFromInt(10)},
			{ProductID: "p2", Quantity: 1, Price: decimal.NewFromInt(20)},
		},
		Total: decimal.NewFromInt(50),
	}
	s.stock["p1|"+testStoreID] = &entity.ProductStore{ProductID: "p1", StoreID: testStoreID, Stock: 5}
	s.stock["p2|"+testStoreID] = &entity.ProductStore{ProductID: "p2", StoreID: testStoreID, Stock: 0}
}

func createRequest() dto.CreateReturnRequest {
	return dto.CreateReturnRequest{
		OrderID:        testOrderID,
		StoreID:        testStoreID,
		Type:           entity.ReturnTypeReturn,
		RefundMethod:   entity.RefundMethodEfectivo,
		ReasonCategory: entity.ReasonDefective,
		ReasonDetails:  "llegó roto",
		Items: []dto.ReturnItemRequest{
			{ProductID: "p1", OriginalQuantity: 3, ReturnQuantity: 2, UnitPrice: decimal.NewFromInt(10), ReturnReason: "defectuoso"},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateReturnRequest
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_AcreditaStockYAudita(t *testing.T) {
	s := newStore()
	seedOrder(s)
	uc := newUseCase(s)

	rr, err := uc.CreateReturnRequest(context.Background(), testUserID, createRequest())
	require.NoError(t, err)

	assert.Equal(t, entity.ReturnStatusPending, rr.Status)
	assert.Equal(t, "REC-001", rr.OrderNumber, "el número de recibo se copia de la orden")
	assert.Equal(t, "USD", rr.Currency)
	assert.True(t, rr.TotalRefundAmount.Equal(decimal.NewFromInt(20)), "2×10")

	// El stock se acredita una sola vez, al crear.
	assert.Equal(t, 7, s.stock["p1|"+testStoreID].Stock, "5 + 2 devueltas")
	require.Len(t, rr.ImpactOnInventory, 1)
	assert.Equal(t, 2, rr.ImpactOnInventory[0].QuantityAdded)
	assert.Equal(t, 7, rr.ImpactOnInventory[0].NewStock)

	// Fila de auditoría con impacto financiero (débito potencial).
	require.Len(t, s.audits, 1)
	row := s.audits[0]
	assert.Equal(t, entity.ActionReturnRequested, row.ActionType)
	assert.Equal(t, "Cajera de Prueba", row.UserName)
	require.NotNil(t, row.FinancialImpact)
	assert.Equal(t, entity.ImpactDebit, row.FinancialImpact.Type)
	assert.True(t, row.FinancialImpact.Amount.Equal(decimal.NewFromInt(20)))
}

func TestCreate_RechazaCantidadAcumuladaSuperiorALaVendida(t *testing.T) {
	s := newStore()
	seedOrder(s)
	uc := newUseCase(s)

	// Primera devolución de 2 unidades de p1: ok.
	_, err := uc.CreateReturnRequest(context.Background(), testUserID, createRequest())
	require.NoError(t, err)

	// Segunda de 2 más: acumularía 4 > 3 vendidas.
	_, err = uc.CreateReturnRequest(context.Background(), testUserID, createRequest())
	assert.ErrorIs(t, err, domain.ErrInvalidInput,
		"la suma de devoluciones activas no puede superar lo vendido")
}

func TestCreate_RevalidaLoAcumuladoDentroDeLaTransaccion(t *testing.T) {
	s := newStore()
	seedOrder(s)

	// Otro cajero crea una devolución de 2 unidades de p1 entre la validación
	// previa (pool) y la apertura de la transacción.
	competing := &entity.ReturnRequest{
		ID:      "rr-competidora",
		OrderID: testOrderID,
		StoreID: testStoreID,
		Status:  entity.ReturnStatusPending,
		Items:   []entity.ReturnItem{{ProductID: "p1", OriginalQuantity: 3, ReturnQuantity: 2}},
	}
	uc := newUseCaseWithTx(s, &racingTxRunner{s: s, inject: competing})

	// 2 de esta solicitud + 2 de la competidora > 3 vendidas.
	_, err := uc.CreateReturnRequest(context.Background(), testUserID, createRequest())
	assert.ErrorIs(t, err, domain.ErrInvalidInput,
		"el chequeo acumulado debe repetirse dentro de la transacción")
	assert.Equal(t, 5, s.stock["p1|"+testStoreID].Stock, "no se acredita stock")
}

func TestCreate_ProductoFueraDeLaOrden(t *testing.T) {
	s := newStore()
	seedOrder(s)
	uc := newUseCase(s)

	req := createRequest()
	req.Items[0].ProductID = "p9"
	_, err := uc.CreateReturnRequest(context.Background(), testUserID, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_TiendaNoCoincide(t *testing.T) {
	s := newStore()
	seedOrder(s)
	uc := newUseCase(s)

	req := createRequest()
	req.StoreID = "store-2"
	_, err := uc.CreateReturnRequest(context.Background(), testUserID, req)
	assert.ErrorIs(t, err, domain.ErrStoreMismatch)
}

func TestCreate_OrdenInexistente(t *testing.T) {
	s := newStore()
	seedOrder(s)
	uc := newUseCase(s)

	req := createRequest()
	req.OrderID = "order-fantasma"
	_, err := uc.CreateReturnRequest(context.Background(), testUserID, req)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_EnumInvalido(t *testing.T) {
	s := newStore()
	seedOrder(s)
	uc := newUseCase(s)

	req := createRequest()
	req.RefundMethod = "cheque"
	_, err := uc.CreateReturnRequest(context.Background(), testUserID, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Approve / Process / Reject
// ──────────────────────────────────────────────────────────────────────────────

func createPending(t *testing.T, uc *returns.UseCase) *entity.ReturnRequest {
	t.Helper()
	rr, err := uc.CreateReturnRequest(context.Background(), testUserID, createRequest())
	require.NoError(t, err)
	return rr
}

func TestApprove_TransicionaYAudita(t *testing.T) {
	s := newStore()
	seedOrder(s)
	uc := newUseCase(s)
	rr := createPending(t, uc)

	got, err := uc.ApproveReturnRequest(context.Background(), rr.ID, "manager-1", "revisado en tienda")
	require.NoError(t, err)

	assert.Equal(t, entity.ReturnStatusApproved, got.Status)
	assert.Equal(t, "manager-1", got.ApprovedBy)
	require.NotNil(t, got.ApprovedAt)
	assert.Contains(t, got.Notes, "revisado en tienda")
	assert.Contains(t, s.auditedActions(), entity.ActionReturnApproved)
}

func TestApprove_SolicitudCompletadaFalla(t *testing.T) {
	s := newStore()
	seedOrder(s)
	uc := newUseCase(s)
	rr := createPending(t, uc)
	rr.Status = entity.ReturnStatusCompleted

	_, err := uc.ApproveReturnRequest(context.Background(), rr.ID, "manager-1", "")
	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
}

func TestProcess_CreaReembolsoCajaYEgreso(t *testing.T) {
	s := newStore()
	seedOrder(s)
	uc := newUseCase(s)
	rr := createPending(t, uc)
	_, err := uc.ApproveReturnRequest(context.Background(), rr.ID, "manager-1", "")
	require.NoError(t, err)

	got, rt, err := uc.ProcessReturnAndRefund(context.Background(), rr.ID, "manager-1", "pagado en efectivo")
	require.NoError(t, err)

	assert.Equal(t, entity.ReturnStatusCompleted, got.Status)
	assert.Equal(t, "manager-1", got.ProcessedBy)

	// Transacción de reembolso en estado processed.
	require.NotNil(t, rt)
	assert.Equal(t, entity.RefundStatusProcessed, rt.Status)
	assert.Equal(t, entity.RefundTypeFull, rt.Type)
	assert.True(t, rt.Amount.Equal(decimal.NewFromInt(20)))

	// Movimiento de caja tipo refund por el mismo monto.
	require.Len(t, s.movements, 1)
	assert.Equal(t, entity.CashMovementRefund, s.movements[0].Type)
	assert.True(t, s.movements[0].Amount.Equal(rt.Amount))

	// Movimiento y egreso enlazados a la devolución por FK, no solo por orden.
	assert.Equal(t, rr.ID, s.movements[0].SourceReturnRequestID)

	// Egreso contable enlazado a la devolución.
	require.Len(t, s.fin, 1)
	assert.Equal(t, entity.FinancialTypeExpense, s.fin[0].Type)
	assert.Equal(t, rr.ID, s.fin[0].SourceReturnRequestID)

	// Doble fila de auditoría: completada + reembolso procesado.
	actions := s.auditedActions()
	assert.Contains(t, actions, entity.ActionReturnCompleted)
	assert.Contains(t, actions, entity.ActionRefundProcessed)

	// El stock no se toca al procesar: ya fue acreditado al crear.
	assert.Equal(t, 7, s.stock["p1|"+testStoreID].Stock)
}

func TestProcess_FalloAlAuditarRevierteTodaLaTransaccion(t *testing.T) {
	s := newStore()
	seedOrder(s)
	uc := newUseCase(s)
	rr := createPending(t, uc)
	_, err := uc.ApproveReturnRequest(context.Background(), rr.ID, "manager-1", "")
	require.NoError(t, err)

	// La bitácora falla después de que el reembolso, el movimiento de caja y
	// el egreso ya fueron creados dentro de la transacción.
	tx := &rollbackTxRunner{s: s, failAudit: errors.New("bitácora caída")}
	uc = newUseCaseWithTx(s, tx)

	_, _, err = uc.ProcessReturnAndRefund(context.Background(), rr.ID, "manager-1", "")
	require.Error(t, err)

	// Rollback completo: ni dinero, ni cambio de estado, ni filas de auditoría.
	assert.Empty(t, s.refunds, "el reembolso no sobrevive al rollback")
	assert.Empty(t, s.movements, "el movimiento de caja no sobrevive al rollback")
	assert.Empty(t, s.fin, "el egreso contable no sobrevive al rollback")
	assert.Equal(t, entity.ReturnStatusApproved, s.returns[rr.ID].Status,
		"la solicitud sigue aprobada")
	actions := s.auditedActions()
	assert.NotContains(t, actions, entity.ActionReturnCompleted)
	assert.NotContains(t, actions, entity.ActionRefundProcessed)
}

func TestProcess_FalloEnElEgresoRevierteReembolsoYCaja(t *testing.T) {
	s := newStore()
	seedOrder(s)
	uc := newUseCase(s)
	rr := createPending(t, uc)
	_, err := uc.ApproveReturnRequest(context.Background(), rr.ID, "manager-1", "")
	require.NoError(t, err)

	// El egreso contable falla cuando el reembolso y la caja ya se escribieron.
	tx := &rollbackTxRunner{s: s, failFin: errors.New("ledger contable caído")}
	uc = newUseCaseWithTx(s, tx)

	_, _, err = uc.ProcessReturnAndRefund(context.Background(), rr.ID, "manager-1", "")
	require.Error(t, err)

	assert.Empty(t, s.refunds)
	assert.Empty(t, s.movements)
	assert.Equal(t, entity.ReturnStatusApproved, s.returns[rr.ID].Status)
}

func TestProcess_PendienteSinAprobarFalla(t *testing.T) {
	s := newStore()
	seedOrder(s)
	uc := newUseCase(s)
	rr := createPending(t, uc)

	_, _, err := uc.ProcessReturnAndRefund(context.Background(), rr.ID, "manager-1", "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Empty(t, s.refunds, "no debe crearse reembolso si la transición es inválida")
}

func TestReject_RevierteStockSinImpactoFinanciero(t *testing.T) {
	s := newStore()
	seedOrder(s)
	uc := newUseCase(s)
	rr := createPending(t, uc)
	require.Equal(t, 7, s.stock["p1|"+testStoreID].Stock)

	got, err := uc.RejectReturnRequest(context.Background(), rr.ID, "manager-1", "producto en buen estado", "cliente reincidente")
	require.NoError(t, err)

	assert.Equal(t, entity.ReturnStatusRejected, got.Status)
	assert.Equal(t, "cliente reincidente", got.InternalNotes)
	assert.Contains(t, got.Notes, "Rechazada: producto en buen estado")

	// El crédito de stock del momento de la creación se revierte.
	assert.Equal(t, 5, s.stock["p1|"+testStoreID].Stock)

	// La fila de auditoría del rechazo no lleva impacto financiero:
	// nunca se movió dinero.
	var rejected *entity.AuditLog
	for _, a := range s.audits {
		if a.ActionType == entity.ActionReturnRejected {
			rejected = a
		}
	}
	require.NotNil(t, rejected)
	assert.Nil(t, rejected.FinancialImpact)
	assert.NotEmpty(t, rejected.Changes, "los cambios de stock quedan registrados")

	// Sin dinero ni reembolsos.
	assert.Empty(t, s.refunds)
	assert.Empty(t, s.movements)
	assert.Empty(t, s.fin)
}

func TestReject_StockNuncaQuedaNegativo(t *testing.T) {
	s := newStore()
	seedOrder(s)
	uc := newUseCase(s)
	rr := createPending(t, uc)

	// Se vendieron unidades entre la creación y el rechazo.
	s.stock["p1|"+testStoreID].Stock = 1

	_, err := uc.RejectReturnRequest(context.Background(), rr.ID, "manager-1", "fuera de plazo", "")
	require.NoError(t, err)
	assert.Equal(t, 0, s.stock["p1|"+testStoreID].Stock, "la reversión se recorta en cero")
}

func TestReject_SinRazonFalla(t *testing.T) {
	s := newStore()
	seedOrder(s)
	uc := newUseCase(s)
	rr := createPending(t, uc)

	_, err := uc.RejectReturnRequest(context.Background(), rr.ID, "manager-1", "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestGetReturnRequest_VerificaTienda(t *testing.T) {
	s := newStore()
	seedOrder(s)
	uc := newUseCase(s)
	rr := createPending(t, uc)

	got, err := uc.GetReturnRequest(rr.ID, testStoreID)
	require.NoError(t, err)
	assert.Equal(t, rr.ID, got.ID)

	_, err = uc.GetReturnRequest(rr.ID, "store-2")
	assert.ErrorIs(t, err, domain.ErrStoreMismatch)
}

func TestGetReturnsWithFilters_Resumen(t *testing.T) {
	s := newStore()
	seedOrder(s)
	uc := newUseCase(s)
	rr := createPending(t, uc)
	_, err := uc.ApproveReturnRequest(context.Background(), rr.ID, "manager-1", "")
	require.NoError(t, err)

	resp, err := uc.GetReturnsWithFilters(dto.ReturnsListQuery{StoreID: testStoreID}, dto.DateRange{})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Summary.Total)
	assert.Equal(t, 1, resp.Summary.ByStatus[entity.ReturnStatusApproved])
	assert.True(t, resp.Summary.TotalRefundAmount.Equal(decimal.NewFromInt(20)))
}

func TestGetOrderNetView_DescuentaDevoluciones(t *testing.T) {
	s := newStore()
	seedOrder(s)
	uc := newUseCase(s)
	createPending(t, uc)

	view, err := uc.GetOrderNetView(testOrderID, testStoreID)
	require.NoError(t, err)

	assert.True(t, view.ReturnedTotal.Equal(decimal.NewFromInt(20)))
	assert.True(t, view.NetTotal.Equal(decimal.NewFromInt(30)), "50 vendidos - 20 devueltos")
}
