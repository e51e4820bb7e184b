package audit_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bellezapp/backend/internal/application/audit"
	"github.com/bellezapp/backend/internal/domain"
	"github.com/bellezapp/backend/internal/domain/entity"
	"github.com/bellezapp/backend/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type reversedCall struct {
	id, reversedBy, reason, reversalID string
}

type fakeAuditRepo struct {
	created  []*entity.AuditLog
	rows     []*entity.AuditLog
	reversed []reversedCall
}

func (f *fakeAuditRepo) Create(l *entity.AuditLog) error {
	f.created = append(f.created, l)
	return nil
}

func (f *fakeAuditRepo) List(repository.AuditFilters) ([]*entity.AuditLog, error) {
	return f.rows, nil
}

func (f *fakeAuditRepo) Count(repository.AuditFilters) (int, error) {
	return len(f.rows), nil
}

func (f *fakeAuditRepo) ListByEntity(entityType, entityID, storeID string) ([]*entity.AuditLog, error) {
	return f.rows, nil
}

func (f *fakeAuditRepo) ListByEntityID(entityID, storeID string) ([]*entity.AuditLog, error) {
	return f.rows, nil
}

func (f *fakeAuditRepo) HasEntityAction(entityID, actionType string) (bool, error) {
	for _, r := range f.rows {
		if r.EntityID == entityID && r.ActionType == actionType {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAuditRepo) MarkReversed(id, reversedBy, reason, reversalID string) error {
	f.reversed = append(f.reversed, reversedCall{id, reversedBy, reason, reversalID})
	return nil
}

type fakeUserRepo struct {
	users map[string]*entity.User
}

func (f *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	return nil, domain.ErrNotFound
}

func newLogger(rows ...*entity.AuditLog) (*audit.Logger, *fakeAuditRepo) {
	repo := &fakeAuditRepo{rows: rows}
	users := &fakeUserRepo{users: map[string]*entity.User{
		"user-1": {ID: "user-1", Name: "Ana Gómez"},
	}}
	return audit.NewLogger(repo, users), repo
}

func row(id string, ts time.Time) *entity.AuditLog {
	return &entity.AuditLog{
		ID:         id,
		ActionType: entity.ActionReturnRequested,
		EntityType: "ReturnRequest",
		EntityID:   "rr-1",
		StoreID:    "store-1",
		Status:     entity.AuditStatusSuccess,
		Timestamp:  ts,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Record
// ──────────────────────────────────────────────────────────────────────────────

func TestRecord_EscribeFilaConNombreDenormalizado(t *testing.T) {
	logger, repo := newLogger()

	err := logger.Record(repo, audit.Entry{
		ActionType:  entity.ActionReturnRequested,
		Description: "Solicitud de devolución creada",
		EntityType:  "ReturnRequest",
		EntityID:    "rr-1",
		UserID:      "user-1",
		StoreID:     "store-1",
	})
	require.NoError(t, err)
	require.Len(t, repo.created, 1)

	got := repo.created[0]
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "Ana Gómez", got.UserName, "el nombre del usuario se denormaliza al escribir")
	assert.Equal(t, entity.AuditStatusSuccess, got.Status)
	assert.False(t, got.Timestamp.IsZero())
}

func TestRecord_UsuarioDesconocidoNoFalla(t *testing.T) {
	logger, repo := newLogger()

	err := logger.Record(repo, audit.Entry{
		ActionType: entity.ActionCashOpening,
		EntityType: "CashRegister",
		EntityID:   "cr-1",
		UserID:     "fantasma",
		StoreID:    "store-1",
	})
	require.NoError(t, err)
	assert.Empty(t, repo.created[0].UserName)
}

func TestRecord_CamposObligatorios(t *testing.T) {
	logger, repo := newLogger()

	err := logger.Record(repo, audit.Entry{
		ActionType: entity.ActionReturnApproved,
		EntityType: "ReturnRequest",
		// EntityID y StoreID vacíos
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, repo.created)
}

// ──────────────────────────────────────────────────────────────────────────────
// ReverseEntry
// ──────────────────────────────────────────────────────────────────────────────

func TestReverseEntry_MarcaLaFilaYEscribeElEspejo(t *testing.T) {
	logger, repo := newLogger()

	mirror, err := logger.ReverseEntry("log-1", "user-1", "store-1", "monto duplicado")
	require.NoError(t, err)

	// La fila espejo documenta la reversión sin tocar la original.
	require.Len(t, repo.created, 1)
	assert.Equal(t, mirror, repo.created[0])
	assert.Equal(t, entity.ActionDiscrepancyResolved, mirror.ActionType)
	assert.Equal(t, "audit_log", mirror.EntityType)
	assert.Equal(t, "log-1", mirror.EntityID)
	assert.Equal(t, "Ana Gómez", mirror.UserName)
	assert.Contains(t, mirror.Description, "monto duplicado")

	// La original queda marcada apuntando al espejo.
	require.Len(t, repo.reversed, 1)
	assert.Equal(t, reversedCall{"log-1", "user-1", "monto duplicado", mirror.ID}, repo.reversed[0])
}

func TestReverseEntry_ParametrosVacios(t *testing.T) {
	logger, repo := newLogger()

	_, err := logger.ReverseEntry("log-1", "user-1", "store-1", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "la reversión siempre lleva motivo")

	_, err = logger.ReverseEntry("", "user-1", "store-1", "motivo")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Empty(t, repo.created)
	assert.Empty(t, repo.reversed)
}

// ──────────────────────────────────────────────────────────────────────────────
// ValidateAuditTrail
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateAuditTrail_TrailSano(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	logger, _ := newLogger(
		row("a", base),
		row("b", base.Add(2*time.Hour)),
		row("c", base.Add(5*time.Hour)),
	)

	res, err := logger.ValidateAuditTrail("rr-1", "store-1")
	require.NoError(t, err)
	assert.True(t, res.IsValid)
	assert.Empty(t, res.Issues)
}

func TestValidateAuditTrail_DetectaGapMayorA24Horas(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	logger, _ := newLogger(
		row("a", base),
		row("b", base.Add(30*time.Hour)),
	)

	res, err := logger.ValidateAuditTrail("rr-1", "store-1")
	require.NoError(t, err)
	assert.False(t, res.IsValid)
	require.Len(t, res.Issues, 1)
	assert.Contains(t, res.Issues[0], "24 horas")
}

func TestValidateAuditTrail_FalloSinMensajeEsIncidencia(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	bad := row("b", base.Add(time.Hour))
	bad.Status = entity.AuditStatusFailed
	bad.ErrorMessage = ""

	logger, _ := newLogger(row("a", base), bad)

	res, err := logger.ValidateAuditTrail("rr-1", "store-1")
	require.NoError(t, err)
	assert.False(t, res.IsValid)
	require.Len(t, res.Issues, 1)
	assert.Contains(t, res.Issues[0], bad.ID)
}

func TestValidateAuditTrail_FalloConMensajeNoEsIncidencia(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	failed := row("b", base.Add(time.Hour))
	failed.Status = entity.AuditStatusFailed
	failed.ErrorMessage = "timeout al escribir"

	logger, _ := newLogger(row("a", base), failed)

	res, err := logger.ValidateAuditTrail("rr-1", "store-1")
	require.NoError(t, err)
	assert.True(t, res.IsValid, "un fallo documentado no invalida el trail")
}

func TestValidateAuditTrail_ParametrosVacios(t *testing.T) {
	logger, _ := newLogger()
	_, err := logger.ValidateAuditTrail("", "store-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
