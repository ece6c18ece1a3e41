package orders

import (
	"context"

	"github.com/tokoline/tokochat/internal/auth"
	"github.com/tokoline/tokochat/internal/chat"
)

// LocalOrders is the in-memory fallback used when the order API is
// unreachable. Seeded with demo orders so the conversation flow can be
// exercised end to end without the external service.
type LocalOrders struct {
	orders map[string]chat.Order
}

// NewLocalOrders creates a local order lookup with the default seed data.
func NewLocalOrders() *LocalOrders {
	return &LocalOrders{orders: seedOrders()}
}

// NewLocalOrdersWith creates a local order lookup from explicit orders.
func NewLocalOrdersWith(orders []chat.Order) *LocalOrders {
	m := make(map[string]chat.Order, len(orders))
	for _, o := range orders {
		m[o.ID] = o
	}
	return &LocalOrders{orders: m}
}

// Lookup resolves an order id against the seed data.
func (l *LocalOrders) Lookup(_ context.Context, orderID string, _ *auth.Context) (*chat.Order, error) {
	order, ok := l.orders[orderID]
	if !ok {
		return nil, nil
	}
	return &order, nil
}

func seedOrders() map[string]chat.Order {
	return map[string]chat.Order{
		"4521": {ID: "4521", Status: "dikirim", Courier: "JNE", TrackingNumber: "JNE0012345678", EstimatedDays: 2, TotalIDR: 354000},
		"4522": {ID: "4522", Status: "diproses", EstimatedDays: 4, TotalIDR: 289000},
		"4523": {ID: "4523", Status: "selesai", Courier: "SiCepat", TrackingNumber: "SC000987654", TotalIDR: 125000},
	}
}
