package returns_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bellezapp/backend/internal/domain"
	"github.com/bellezapp/backend/internal/domain/entity"
	"github.com/bellezapp/backend/internal/domain/returns"
)

// ──────────────────────────────────────────────────────────────────────────────
// Máquina de estados del flujo de devoluciones
//
//	pending  → approved | rejected
//	approved → completed | rejected | cancelled
//	rejected, completed, cancelled → terminales
// ──────────────────────────────────────────────────────────────────────────────

func TestCanTransition_Tabla(t *testing.T) {
	cases := []struct {
		name string
		from string
		to   string
		ok   bool
	}{
		{"pending a approved", entity.ReturnStatusPending, entity.ReturnStatusApproved, true},
		{"pending a rejected", entity.ReturnStatusPending, entity.ReturnStatusRejected, true},
		{"pending a completed salta la aprobación", entity.ReturnStatusPending, entity.ReturnStatusCompleted, false},
		{"pending a cancelled no permitido", entity.ReturnStatusPending, entity.ReturnStatusCancelled, false},
		{"approved a completed", entity.ReturnStatusApproved, entity.ReturnStatusCompleted, true},
		{"approved a rejected", entity.ReturnStatusApproved, entity.ReturnStatusRejected, true},
		{"approved a cancelled", entity.ReturnStatusApproved, entity.ReturnStatusCancelled, true},
		{"approved a pending no retrocede", entity.ReturnStatusApproved, entity.ReturnStatusPending, false},
		{"completed es terminal", entity.ReturnStatusCompleted, entity.ReturnStatusRejected, false},
		{"rejected es terminal", entity.ReturnStatusRejected, entity.ReturnStatusApproved, false},
		{"cancelled es terminal", entity.ReturnStatusCancelled, entity.ReturnStatusCompleted, false},
		{"estado desconocido no transiciona", "limbo", entity.ReturnStatusApproved, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.ok, returns.CanTransition(tc.from, tc.to))
		})
	}
}

func TestValidateTransition_DistingueErrores(t *testing.T) {
	// Desde un estado activo la transición inválida es ErrInvalidTransition.
	err := returns.ValidateTransition(entity.ReturnStatusPending, entity.ReturnStatusCompleted)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// Desde un estado terminal el error es ErrAlreadyProcessed.
	err = returns.ValidateTransition(entity.ReturnStatusCompleted, entity.ReturnStatusRejected)
	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)

	// Transición válida no produce error.
	assert.NoError(t, returns.ValidateTransition(entity.ReturnStatusApproved, entity.ReturnStatusCompleted))
}

// ──────────────────────────────────────────────────────────────────────────────
// Cálculo del total a reembolsar y validación de ítems
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeRefundTotal_SumaPorCantidad(t *testing.T) {
	items := []entity.ReturnItem{
		{ProductID: "p1", ReturnQuantity: 2, OriginalQuantity: 3, UnitPrice: decimal.NewFromFloat(10.50), ReturnReason: "defectuoso"},
		{ProductID: "p2", ReturnQuantity: 1, OriginalQuantity: 1, UnitPrice: decimal.NewFromFloat(4.25), ReturnReason: "no era lo pedido"},
	}
	total := returns.ComputeRefundTotal(items)
	assert.True(t, total.Equal(decimal.NewFromFloat(25.25)),
		"2×10.50 + 1×4.25 debe ser 25.25, fue %s", total)
}

func TestComputeRefundTotal_SinItemsEsCero(t *testing.T) {
	assert.True(t, returns.ComputeRefundTotal(nil).IsZero())
}

func TestValidateItems(t *testing.T) {
	valid := entity.ReturnItem{
		ProductID:        "p1",
		ReturnQuantity:   1,
		OriginalQuantity: 2,
		UnitPrice:        decimal.NewFromInt(5),
		ReturnReason:     "dañado",
	}

	t.Run("ítem válido pasa", func(t *testing.T) {
		require.NoError(t, returns.ValidateItems([]entity.ReturnItem{valid}))
	})

	t.Run("sin ítems falla", func(t *testing.T) {
		assert.ErrorIs(t, returns.ValidateItems(nil), domain.ErrInvalidInput)
	})

	t.Run("cantidad a devolver mayor a la comprada falla", func(t *testing.T) {
		it := valid
		it.ReturnQuantity = 3
		assert.ErrorIs(t, returns.ValidateItems([]entity.ReturnItem{it}), domain.ErrInvalidInput)
	})

	t.Run("cantidad cero falla", func(t *testing.T) {
		it := valid
		it.ReturnQuantity = 0
		assert.ErrorIs(t, returns.ValidateItems([]entity.ReturnItem{it}), domain.ErrInvalidInput)
	})

	t.Run("precio negativo falla", func(t *testing.T) {
		it := valid
		it.UnitPrice = decimal.NewFromInt(-1)
		assert.ErrorIs(t, returns.ValidateItems([]entity.ReturnItem{it}), domain.ErrInvalidInput)
	})

	t.Run("sin razón falla", func(t *testing.T) {
		it := valid
		it.ReturnReason = ""
		assert.ErrorIs(t, returns.ValidateItems([]entity.ReturnItem{it}), domain.ErrInvalidInput)
	})
}

func TestRefundScope(t *testing.T) {
	assert.Equal(t, entity.RefundTypePartial, returns.RefundScope(entity.ReturnTypePartialRefund))
	assert.Equal(t, entity.RefundTypeFull, returns.RefundScope(entity.ReturnTypeFullRefund))
	assert.Equal(t, entity.RefundTypeFull, returns.RefundScope(entity.ReturnTypeReturn))
	assert.Equal(t, entity.RefundTypeFull, returns.RefundScope(entity.ReturnTypeExchange))
}

func TestValidadoresDeEnums(t *testing.T) {
	assert.True(t, returns.ValidType(entity.ReturnTypeExchange))
	assert.False(t, returns.ValidType("reembolso"))

	assert.True(t, returns.ValidStatus(entity.ReturnStatusPartiallyCompleted))
	assert.False(t, returns.ValidStatus("en_espera"))

	assert.True(t, returns.ValidRefundMethod(entity.RefundMethodTransferencia))
	assert.False(t, returns.ValidRefundMethod("cheque"))

	assert.True(t, returns.ValidReasonCategory(entity.ReasonCustomerChangeMind))
	assert.False(t, returns.ValidReasonCategory("capricho"))
}
