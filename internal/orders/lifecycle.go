package orders

import (
	"github.com/brazzaeats/brazzaeats-backend/pkg/enums"
	pkgerrors "github.com/brazzaeats/brazzaeats-backend/pkg/errors"
)

type transition struct {
	from enums.OrderStatus
	to   enums.OrderStatus
}

var transitions = []transition{
	{from: enums.OrderStatusPending, to: enums.OrderStatusPreparing},
	{from: enums.OrderStatusPending, to: enums.OrderStatusDelivering},
	{from: enums.OrderStatusPreparing, to: enums.OrderStatusDelivering},
	{from: enums.OrderStatusDelivering, to: enums.OrderStatusCompleted},
	{from: enums.OrderStatusPending, to: enums.OrderStatusCancelled},
	{from: enums.OrderStatusPreparing, to: enums.OrderStatusCancelled},
	{from: enums.OrderStatusDelivering, to: enums.OrderStatusCancelled},
}

var allowed = func() map[transition]struct{} {
	m := make(map[transition]struct{}, len(transitions))
	for _, t := range transitions {
		m[t] = struct{}{}
	}
	return m
}()

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to enums.OrderStatus) bool {
	_, ok := allowed[transition{from: from, to: to}]
	return ok
}

// NextStatuses lists the statuses reachable from status, in table order.
func NextStatuses(status enums.OrderStatus) []enums.OrderStatus {
	next := []enums.OrderStatus{}
	for _, t := range transitions {
		if t.from == status {
			next = append(next, t.to)
		}
	}
	return next
}

func checkTransition(from, to enums.OrderStatus) error {
	if !to.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown order status").
			WithDetails(map[string]any{"status": to})
	}
	if CanTransition(from, to) {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, "order status transition not allowed").
		WithDetails(map[string]any{
			"from":    from,
			"to":      to,
			"allowed": NextStatuses(from),
		})
}
