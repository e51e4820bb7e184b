package returns

import (
	"github.com/shopspring/decimal"

	"github.com/bellezapp/backend/internal/domain/entity"
)

// NetView deriva la vista neta de una orden: cantidades originales menos las
// devueltas en solicitudes no rechazadas ni canceladas, con el total
// recalculado. La orden almacenada no se toca nunca.
func NetView(order *entity.Order, requests []*entity.ReturnRequest) entity.OrderNetView {
	returned := make(map[string]int)
	returnedTotal := decimal.Zero
	for _, rr := range requests {
		if rr.Status == entity.ReturnStatusRejected || rr.Status == entity.ReturnStatusCancelled {
			continue
		}
		for _, it := range rr.Items {
			returned[it.ProductID] += it.ReturnQuantity
			returnedTotal = returnedTotal.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.ReturnQuantity))))
		}
	}

	view := entity.OrderNetView{OrderID: order.ID, NetTotal: decimal.Zero, ReturnedTotal: returnedTotal}
	for _, it := range order.Items {
		qty := it.Quantity - returned[it.ProductID]
		if qty <= 0 {
			continue
		}
		net := entity.OrderItem{ProductID: it.ProductID, Quantity: qty, Price: it.Price}
		view.Items = append(view.Items, net)
		view.NetTotal = view.NetTotal.Add(it.Price.Mul(decimal.NewFromInt(int64(qty))))
	}
	return view
}
