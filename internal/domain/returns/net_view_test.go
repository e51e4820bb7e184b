package returns_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bellezapp/backend/internal/domain/entity"
	"github.com/bellezapp/backend/internal/domain/returns"
)

func testOrder() *entity.Order {
	return &entity.Order{
		ID:      "order-1",
		StoreID: "store-1",
		Total:   decimal.NewFromInt(50),
		Items: []entity.OrderItem{
			{ProductID: "p1", Quantity: 3, Price: decimal.NewFromInt(10)},
			{ProductID: "p2", Quantity: 2, Price: decimal.NewFromInt(10)},
		},
	}
}

func requestWith(status string, items ...entity.ReturnItem) *entity.ReturnRequest {
	return &entity.ReturnRequest{ID: "rr-" + status, OrderID: "order-1", Status: status, Items: items}
}

func TestNetView_SinDevoluciones(t *testing.T) {
	view := returns.NetView(testOrder(), nil)

	assert.Equal(t, "order-1", view.OrderID)
	require.Len(t, view.Items, 2)
	assert.True(t, view.NetTotal.Equal(decimal.NewFromInt(50)))
	assert.True(t, view.ReturnedTotal.IsZero())
}

func TestNetView_RestaDevolucionesActivas(t *testing.T) {
	reqs := []*entity.ReturnRequest{
		requestWith(entity.ReturnStatusCompleted,
			entity.ReturnItem{ProductID: "p1", ReturnQuantity: 1, UnitPrice: decimal.NewFromInt(10)}),
		requestWith(entity.ReturnStatusPending,
			entity.ReturnItem{ProductID: "p2", ReturnQuantity: 1, UnitPrice: decimal.NewFromInt(10)}),
	}
	view := returns.NetView(testOrder(), reqs)

	require.Len(t, view.Items, 2)
	assert.Equal(t, 2, view.Items[0].Quantity, "p1: 3 vendidas - 1 devuelta")
	assert.Equal(t, 1, view.Items[1].Quantity, "p2: 2 vendidas - 1 devuelta")
	assert.True(t, view.NetTotal.Equal(decimal.NewFromInt(30)), "neto: 2×10 + 1×10")
	assert.True(t, view.ReturnedTotal.Equal(decimal.NewFromInt(20)))
}

func TestNetView_IgnoraRechazadasYCanceladas(t *testing.T) {
	reqs := []*entity.ReturnRequest{
		requestWith(entity.ReturnStatusRejected,
			entity.ReturnItem{ProductID: "p1", ReturnQuantity: 3, UnitPrice: decimal.NewFromInt(10)}),
		requestWith(entity.ReturnStatusCancelled,
			entity.ReturnItem{ProductID: "p2", ReturnQuantity: 2, UnitPrice: decimal.NewFromInt(10)}),
	}
	view := returns.NetView(testOrder(), reqs)

	assert.True(t, view.NetTotal.Equal(decimal.NewFromInt(50)),
		"las solicitudes rechazadas o canceladas no afectan la vista neta")
	assert.True(t, view.ReturnedTotal.IsZero())
}

func TestNetView_ItemTotalmenteDevueltoSeOmite(t *testing.T) {
	reqs := []*entity.ReturnRequest{
		requestWith(entity.ReturnStatusCompleted,
			entity.ReturnItem{ProductID: "p2", ReturnQuantity: 2, UnitPrice: decimal.NewFromInt(10)}),
	}
	view := returns.NetView(testOrder(), reqs)

	require.Len(t, view.Items, 1, "p2 quedó en 0 y se omite de la vista")
	assert.Equal(t, "p1", view.Items[0].ProductID)
	assert.True(t, view.NetTotal.Equal(decimal.NewFromInt(30)))
}

func TestNetView_AcumulaVariasSolicitudesSobreElMismoProducto(t *testing.T) {
	reqs := []*entity.ReturnRequest{
		requestWith(entity.ReturnStatusCompleted,
			entity.ReturnItem{ProductID: "p1", ReturnQuantity: 1, UnitPrice: decimal.NewFromInt(10)}),
		requestWith(entity.ReturnStatusApproved,
			entity.ReturnItem{ProductID: "p1", ReturnQuantity: 2, UnitPrice: decimal.NewFromInt(10)}),
	}
	view := returns.NetView(testOrder(), reqs)

	require.Len(t, view.Items, 1, "p1 agotado entre las dos solicitudes")
	assert.Equal(t, "p2", view.Items[0].ProductID)
	assert.True(t, view.ReturnedTotal.Equal(decimal.NewFromInt(30)))
}
