package orders

import (
	"strings"
	"time"

	"github.com/brazzaeats/brazzaeats-backend/internal/cart"
	"github.com/brazzaeats/brazzaeats-backend/pkg/enums"
	pkgerrors "github.com/brazzaeats/brazzaeats-backend/pkg/errors"
)

// GroupOrderName is recorded when a cart carries no restaurant name.
const GroupOrderName = "Commande Groupée"

// InitialStatus is the state every materialized order starts in.
const InitialStatus = enums.OrderStatusPreparing

// Order is the snapshot of a checked-out cart. Orders are only ever replaced
// by a lifecycle transition, never edited in place.
type Order struct {
	ID              string              `json:"id"`
	Items           []cart.Item         `json:"items"`
	RestaurantID    string              `json:"restaurant_id"`
	RestaurantName  string              `json:"restaurant_name"`
	Subtotal        int64               `json:"subtotal"`
	DeliveryFee     int64               `json:"delivery_fee"`
	Total           int64               `json:"total"`
	Status          enums.OrderStatus   `json:"status"`
	Date            time.Time           `json:"date"`
	DeliveryAddress string              `json:"delivery_address"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method"`
	StatusUpdatedAt *time.Time          `json:"status_updated_at,omitempty"`
}

// MaterializeInput carries everything checkout has computed for the order.
type MaterializeInput struct {
	ID              string
	Items           []cart.Item
	Totals          cart.Totals
	PlacedAt        time.Time
	DeliveryAddress string
	PaymentMethod   enums.PaymentMethod
}

// Materialize builds an order from a cart snapshot. The order is attributed
// to the restaurant of the first line even when the cart spans several
// restaurants; the delivery fee still covers every restaurant.
func Materialize(in MaterializeInput) (Order, error) {
	if len(in.Items) == 0 {
		return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "cannot check out an empty cart")
	}
	if strings.TrimSpace(in.ID) == "" {
		return Order{}, pkgerrors.New(pkgerrors.CodeInternal, "order id missing")
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = enums.PaymentMethodMobileMoney
	}
	if !in.PaymentMethod.IsValid() {
		return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "unsupported payment method").
			WithDetails(map[string]any{"payment_method": in.PaymentMethod})
	}

	items, err := cart.New(in.Items)
	if err != nil {
		return Order{}, err
	}
	snapshot := items.Items()

	first := snapshot[0]
	restaurantID := first.RestaurantID
	if restaurantID == "" {
		restaurantID = "0"
	}
	restaurantName := first.RestaurantName
	if restaurantName == "" {
		restaurantName = GroupOrderName
	}

	return Order{
		ID:              in.ID,
		Items:           snapshot,
		RestaurantID:    restaurantID,
		RestaurantName:  restaurantName,
		Subtotal:        in.Totals.Subtotal,
		DeliveryFee:     in.Totals.DeliveryFee,
		Total:           in.Totals.Subtotal + in.Totals.DeliveryFee,
		Status:          InitialStatus,
		Date:            in.PlacedAt.UTC(),
		DeliveryAddress: in.DeliveryAddress,
		PaymentMethod:   in.PaymentMethod,
	}, nil
}

func (o Order) clone() Order {
	out := o
	out.Items = make([]cart.Item, 0, len(o.Items))
	for _, item := range o.Items {
		copied := item
		copied.Options = append([]string{}, item.Options...)
		out.Items = append(out.Items, copied)
	}
	if o.StatusUpdatedAt != nil {
		ts := *o.StatusUpdatedAt
		out.StatusUpdatedAt = &ts
	}
	return out
}
