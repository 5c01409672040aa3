package orders

import (
	"time"

	"github.com/brazzaeats/brazzaeats-backend/pkg/enums"
	pkgerrors "github.com/brazzaeats/brazzaeats-backend/pkg/errors"
)

// History holds a session's orders, most recent first.
type History struct {
	orders []Order
}

// NewHistory restores a history from stored orders, already newest first.
func NewHistory(orders []Order) *History {
	h := &History{}
	for _, o := range orders {
		h.orders = append(h.orders, o.clone())
	}
	return h
}

// Prepend records a freshly materialized order.
func (h *History) Prepend(o Order) {
	h.orders = append([]Order{o.clone()}, h.orders...)
}

// List returns copies of every order, newest first.
func (h *History) List() []Order {
	out := make([]Order, 0, len(h.orders))
	for _, o := range h.orders {
		out = append(out, o.clone())
	}
	return out
}

// Len returns the number of orders placed in the session.
func (h *History) Len() int {
	return len(h.orders)
}

// Has reports whether an order id is already used in this history.
func (h *History) Has(id string) bool {
	return h.indexOf(id) >= 0
}

// Get returns a copy of the order with the given id.
func (h *History) Get(id string) (Order, error) {
	idx := h.indexOf(id)
	if idx < 0 {
		return Order{}, notFound(id)
	}
	return h.orders[idx].clone(), nil
}

// Transition replaces the order with a copy carrying the new status.
func (h *History) Transition(id string, to enums.OrderStatus, now time.Time) (Order, error) {
	idx := h.indexOf(id)
	if idx < 0 {
		return Order{}, notFound(id)
	}
	current := h.orders[idx]
	if err := checkTransition(current.Status, to); err != nil {
		return Order{}, err
	}
	updated := current.clone()
	updated.Status = to
	ts := now.UTC()
	updated.StatusUpdatedAt = &ts
	h.orders[idx] = updated
	return updated.clone(), nil
}

func (h *History) indexOf(id string) int {
	for idx, o := range h.orders {
		if o.ID == id {
			return idx
		}
	}
	return -1
}

func notFound(id string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "order not found").
		WithDetails(map[string]any{"order_id": id})
}
