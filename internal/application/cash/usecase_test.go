package cash_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bellezapp/backend/internal/application/audit"
	"github.com/bellezapp/backend/internal/application/cash"
	"github.com/bellezapp/backend/internal/application/dto"
	"github.com/bellezapp/backend/internal/domain"
	"github.com/bellezapp/backend/internal/domain/entity"
	"github.com/bellezapp/backend/internal/domain/repository"
	"github.com/bellezapp/backend/pkg/logger"
)

func mov(movType string, amount float64) *entity.CashMovement {
	return &entity.CashMovement{Type: movType, Amount: decimal.NewFromFloat(amount)}
}

// ──────────────────────────────────────────────────────────────────────────────
// Arqueo de caja: esperado = apertura + ingresos + ventas − egresos − reembolsos.
// Los movimientos de apertura, cierre y ajuste no suman ni restan.
// ──────────────────────────────────────────────────────────────────────────────

func TestExpectedAmount(t *testing.T) {
	cases := []struct {
		name      string
		opening   float64
		movements []*entity.CashMovement
		want      float64
	}{
		{
			name:    "sin movimientos queda la apertura",
			opening: 100,
			want:    100,
		},
		{
			name:    "ventas e ingresos suman",
			opening: 100,
			movements: []*entity.CashMovement{
				mov(entity.CashMovementSale, 50),
				mov(entity.CashMovementIncome, 25.50),
			},
			want: 175.50,
		},
		{
			name:    "egresos y reembolsos restan",
			opening: 200,
			movements: []*entity.CashMovement{
				mov(entity.CashMovementExpense, 30),
				mov(entity.CashMovementRefund, 45.25),
			},
			want: 124.75,
		},
		{
			name:    "apertura cierre y ajuste se ignoran",
			opening: 100,
			movements: []*entity.CashMovement{
				mov(entity.CashMovementOpening, 100),
				mov(entity.CashMovementClosing, 500),
				mov(entity.CashMovementAdjustment, 10),
			},
			want: 100,
		},
		{
			name:    "jornada mixta",
			opening: 150,
			movements: []*entity.CashMovement{
				mov(entity.CashMovementSale, 80),
				mov(entity.CashMovementSale, 20),
				mov(entity.CashMovementIncome, 10),
				mov(entity.CashMovementRefund, 35),
				mov(entity.CashMovementExpense, 15),
				mov(entity.CashMovementAdjustment, 99),
			},
			want: 210,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := cash.ExpectedAmount(decimal.NewFromFloat(tc.opening), tc.movements)
			assert.True(t, got.Equal(decimal.NewFromFloat(tc.want)),
				"esperado %v, fue %s", tc.want, got)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para el flujo abrir/cerrar/mover
// ──────────────────────────────────────────────────────────────────────────────

type store struct {
	registers   map[string]*entity.CashRegister
	movements   []*entity.CashMovement
	audits      []*entity.AuditLog
	lockedReads int // lecturas de sesión hechas con bloqueo de fila
}

func newStore() *store {
	return &store{registers: map[string]*entity.CashRegister{}}
}

type fakeRegisters struct{ s *store }

func (f *fakeRegisters) Create(cr *entity.CashRegister) error {
	f.s.registers[cr.ID] = cr
	return nil
}

func (f *fakeRegisters) GetByID(id string) (*entity.CashRegister, error) {
	return f.s.registers[id], nil
}

func (f *fakeRegisters) GetForUpdate(id string) (*entity.CashRegister, error) {
	f.s.lockedReads++
	return f.s.registers[id], nil
}

func (f *fakeRegisters) GetOpenByStore(storeID string) (*entity.CashRegister, error) {
	for _, cr := range f.s.registers {
		if cr.StoreID == storeID && cr.Status == entity.RegisterStatusOpen {
			return cr, nil
		}
	}
	return nil, nil
}

func (f *fakeRegisters) Update(cr *entity.CashRegister) error {
	f.s.registers[cr.ID] = cr
	return nil
}

type fakeMovements struct{ s *store }

func (f *fakeMovements) Create(m *entity.CashMovement) error {
	f.s.movements = append(f.s.movements, m)
	return nil
}

func (f *fakeMovements) List(flt repository.CashMovementFilters) ([]*entity.CashMovement, error) {
	return f.s.movements, nil
}

func (f *fakeMovements) ListSince(storeID string, since time.Time) ([]*entity.CashMovement, error) {
	return f.s.movements, nil
}

type fakeAudits struct{ s *store }

func (f *fakeAudits) Create(l *entity.AuditLog) error {
	f.s.audits = append(f.s.audits, l)
	return nil
}

func (f *fakeAudits) List(repository.AuditFilters) ([]*entity.AuditLog, error) { return nil, nil }
func (f *fakeAudits) Count(repository.AuditFilters) (int, error) { return 0, nil }

func (f *fakeAudits) ListByEntity(_, _, _ string) ([]*entity.AuditLog, error) { return nil, nil }
func (f *fakeAudits) ListByEntityID(_, _ string) ([]*entity.AuditLog, error) { return nil, nil }
func (f *fakeAudits) HasEntityAction(_, _ string) (bool, error) { return false, nil }
func (f *fakeAudits) MarkReversed(_, _, _, _ string) error { return nil }

type fakeUsers struct{}

func (fakeUsers) GetByID(id string) (*entity.User, error) {
	return &entity.User{ID: id, Name: "Cajera de Prueba"}, nil
}

func (fakeUsers) GetByEmail(string) (*entity.User, error) { return nil, domain.ErrNotFound }

type fakeTxRunner struct{ s *store }

func (f *fakeTxRunner) RunCash(ctx context.Context, fn func(r cash.TxRepos) error) error {
	return fn(cash.TxRepos{
		Registers: &fakeRegisters{f.s},
		Movements: &fakeMovements{f.s},
		Audit:     &fakeAudits{f.s},
	})
}

func newUseCase(s *store) *cash.UseCase {
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	auditor := audit.NewLogger(&fakeAudits{s}, fakeUsers{})
	return cash.NewUseCase(&fakeTxRunner{s}, &fakeRegisters{s}, &fakeMovements{s}, auditor, log)
}

func (s *store) auditedActions() []string {
	actions := make([]string, 0, len(s.audits))
	for _, a := range s.audits {
		actions = append(actions, a.ActionType)
	}
	return actions
}

// ──────────────────────────────────────────────────────────────────────────────
// Apertura
// ──────────────────────────────────────────────────────────────────────────────

func TestOpenRegister_CreaSesionMovimientoYAuditoria(t *testing.T) {
	s := newStore()
	uc := newUseCase(s)

	cr, err := uc.OpenRegister(context.Background(), "user-1", dto.OpenRegisterRequest{
		StoreID:       "store-1",
		OpeningAmount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	assert.Equal(t, entity.RegisterStatusOpen, cr.Status)
	assert.True(t, cr.OpeningAmount.Equal(decimal.NewFromInt(100)))

	require.Len(t, s.movements, 1)
	assert.Equal(t, entity.CashMovementOpening, s.movements[0].Type)

	assert.Contains(t, s.auditedActions(), entity.ActionCashOpening)
}

func TestOpenRegister_SegundaAperturaFalla(t *testing.T) {
	s := newStore()
	uc := newUseCase(s)

	_, err := uc.OpenRegister(context.Background(), "user-1", dto.OpenRegisterRequest{
		StoreID: "store-1", OpeningAmount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	_, err = uc.OpenRegister(context.Background(), "user-1", dto.OpenRegisterRequest{
		StoreID: "store-1", OpeningAmount: decimal.NewFromInt(50),
	})
	assert.ErrorIs(t, err, domain.ErrRegisterAlreadyOpen)
}

func TestOpenRegister_MontoNegativoFalla(t *testing.T) {
	uc := newUseCase(newStore())

	_, err := uc.OpenRegister(context.Background(), "user-1", dto.OpenRegisterRequest{
		StoreID: "store-1", OpeningAmount: decimal.NewFromInt(-10),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cierre
// ──────────────────────────────────────────────────────────────────────────────

func openSession(t *testing.T, uc *cash.UseCase, opening float64) *entity.CashRegister {
	t.Helper()
	cr, err := uc.OpenRegister(context.Background(), "user-1", dto.OpenRegisterRequest{
		StoreID: "store-1", OpeningAmount: decimal.NewFromFloat(opening),
	})
	require.NoError(t, err)
	return cr
}

func TestCloseRegister_CalculaEsperadoYDiferencia(t *testing.T) {
	s := newStore()
	uc := newUseCase(s)
	cr := openSession(t, uc, 100)

	// Una venta de 50 y un reembolso de 20: esperado = 100 + 50 - 20 = 130.
	_, err := uc.AddMovement(context.Background(), "user-1", dto.AddCashMovementRequest{
		StoreID: "store-1", Type: entity.CashMovementSale, Amount: decimal.NewFromInt(50),
	})
	require.NoError(t, err)
	s.movements = append(s.movements, mov(entity.CashMovementRefund, 20))

	closed, err := uc.CloseRegister(context.Background(), cr.ID, "user-1", dto.CloseRegisterRequest{
		ClosingAmount: decimal.NewFromInt(125),
	})
	require.NoError(t, err)

	assert.Equal(t, entity.RegisterStatusClosed, closed.Status)
	assert.True(t, closed.ExpectedAmount.Equal(decimal.NewFromInt(130)))
	assert.True(t, closed.Difference.Equal(decimal.NewFromInt(-5)), "faltan 5 en el conteo físico")
	require.NotNil(t, closed.ClosingTime)

	assert.Contains(t, s.auditedActions(), entity.ActionCashClosing)
}

func TestCloseRegister_LeeLaSesionConBloqueoDeFila(t *testing.T) {
	s := newStore()
	uc := newUseCase(s)
	cr := openSession(t, uc, 100)

	_, err := uc.CloseRegister(context.Background(), cr.ID, "user-1", dto.CloseRegisterRequest{
		ClosingAmount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	// El chequeo de estado y la escritura del cierre ocurren con la fila
	// bloqueada; un segundo cierre concurrente espera y ve "closed".
	assert.Equal(t, 1, s.lockedReads,
		"el cierre debe leer la sesión con SELECT FOR UPDATE")
}

func TestCloseRegister_CajaYaCerradaFalla(t *testing.T) {
	s := newStore()
	uc := newUseCase(s)
	cr := openSession(t, uc, 100)

	_, err := uc.CloseRegister(context.Background(), cr.ID, "user-1", dto.CloseRegisterRequest{
		ClosingAmount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	_, err = uc.CloseRegister(context.Background(), cr.ID, "user-1", dto.CloseRegisterRequest{
		ClosingAmount: decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, domain.ErrRegisterClosed)
}

func TestCloseRegister_CajaInexistente(t *testing.T) {
	uc := newUseCase(newStore())

	_, err := uc.CloseRegister(context.Background(), "no-existe", "user-1", dto.CloseRegisterRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos manuales
// ──────────────────────────────────────────────────────────────────────────────

func TestAddMovement_SoloAjusteGeneraAuditoria(t *testing.T) {
	s := newStore()
	uc := newUseCase(s)

	_, err := uc.AddMovement(context.Background(), "user-1", dto.AddCashMovementRequest{
		StoreID: "store-1", Type: entity.CashMovementIncome, Amount: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.Empty(t, s.audits, "un ingreso normal no audita")

	_, err = uc.AddMovement(context.Background(), "user-1", dto.AddCashMovementRequest{
		StoreID: "store-1", Type: entity.CashMovementAdjustment, Amount: decimal.NewFromInt(3),
		Description: "billete falso retirado",
	})
	require.NoError(t, err)
	assert.Contains(t, s.auditedActions(), entity.ActionCashAdjustment)
}

func TestAddMovement_TiposReservadosRechazados(t *testing.T) {
	uc := newUseCase(newStore())

	for _, movType := range []string{
		entity.CashMovementRefund, entity.CashMovementOpening, entity.CashMovementClosing, "propina",
	} {
		_, err := uc.AddMovement(context.Background(), "user-1", dto.AddCashMovementRequest{
			StoreID: "store-1", Type: movType, Amount: decimal.NewFromInt(5),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "tipo %q debe rechazarse", movType)
	}
}

func TestAddMovement_MontoNoPositivo(t *testing.T) {
	uc := newUseCase(newStore())

	_, err := uc.AddMovement(context.Background(), "user-1", dto.AddCashMovementRequest{
		StoreID: "store-1", Type: entity.CashMovementIncome, Amount: decimal.Zero,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
