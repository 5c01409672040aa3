package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/brazzaeats/brazzaeats-backend/internal/cart"
	"github.com/brazzaeats/brazzaeats-backend/internal/notifications"
	"github.com/brazzaeats/brazzaeats-backend/internal/orders"
	"github.com/brazzaeats/brazzaeats-backend/internal/session"
	"github.com/brazzaeats/brazzaeats-backend/pkg/enums"
	pkgerrors "github.com/brazzaeats/brazzaeats-backend/pkg/errors"
	"github.com/brazzaeats/brazzaeats-backend/pkg/logger"
)

type sessionMutator interface {
	Mutate(ctx context.Context, sessionID string, fn func(*session.Session) error) error
}

type idGenerator interface {
	Next(taken func(id string) bool) string
}

type checkoutRecorder interface {
	ObserveCheckout(err error, elapsed time.Duration)
	ObserveOrder(total int64, restaurantCount int)
}

// Service turns a session cart into an order.
type Service interface {
	Checkout(ctx context.Context, sessionID string, input Input) (Result, error)
}

// Input carries the choices made on the checkout screen.
type Input struct {
	PaymentMethod enums.PaymentMethod
}

// Result describes the order placed and the loyalty balance afterwards.
type Result struct {
	Order          orders.Order               `json:"order"`
	LoyaltyAwarded int                        `json:"loyalty_awarded"`
	LoyaltyPoints  int                        `json:"loyalty_points"`
	Notification   notifications.Notification `json:"notification"`
}

// ServiceParams groups dependencies for the checkout service.
type ServiceParams struct {
	Sessions        sessionMutator
	Pricer          *cart.Pricer
	Archive         orders.Archive
	IDs             idGenerator
	LoyaltyAward    int
	DeliveryAddress string
	Currency        string
	Metrics         checkoutRecorder
	Logger          *logger.Logger
	Now             func() time.Time
}

type service struct {
	sessions        sessionMutator
	pricer          *cart.Pricer
	archive         orders.Archive
	ids             idGenerator
	loyaltyAward    int
	deliveryAddress string
	currency        string
	metrics         checkoutRecorder
	logg            *logger.Logger
	now             func() time.Time
}

// NewService builds the checkout service. The archive, metrics and logger
// are optional.
func NewService(params ServiceParams) (Service, error) {
	if params.Sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	if params.Pricer == nil {
		return nil, fmt.Errorf("pricer required")
	}
	if params.LoyaltyAward < 0 {
		return nil, fmt.Errorf("loyalty award must not be negative")
	}
	if params.IDs == nil {
		params.IDs = orders.NewIDGenerator()
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		sessions:        params.Sessions,
		pricer:          params.Pricer,
		archive:         params.Archive,
		ids:             params.IDs,
		loyaltyAward:    params.LoyaltyAward,
		deliveryAddress: params.DeliveryAddress,
		currency:        params.Currency,
		metrics:         params.Metrics,
		logg:            params.Logger,
		now:             params.Now,
	}, nil
}

// archiveAttempts bounds how often checkout draws a new order id when the
// archive already holds the drawn one.
const archiveAttempts = 3

// Checkout materializes the cart into an order, records it, clears the cart,
// credits loyalty points and notifies the user. Nothing is kept when a step
// fails. The archive write is the last step of the mutation.
func (s *service) Checkout(ctx context.Context, sessionID string, input Input) (Result, error) {
	started := s.now()
	var (
		result      Result
		restaurants int
		err         error
	)
	rejected := map[string]bool{}
	for attempt := 0; attempt < archiveAttempts; attempt++ {
		var conflicted string
		err = s.sessions.Mutate(ctx, sessionID, func(sess *session.Session) error {
			items := sess.Cart.Items()
			if len(items) == 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, "cannot check out an empty cart")
			}
			totals := s.pricer.Totals(items)
			order, err := orders.Materialize(orders.MaterializeInput{
				ID: s.ids.Next(func(id string) bool {
					return rejected[id] || sess.History.Has(id)
				}),
				Items:           items,
				Totals:          totals,
				PlacedAt:        started,
				DeliveryAddress: s.deliveryAddress,
				PaymentMethod:   input.PaymentMethod,
			})
			if err != nil {
				return err
			}

			sess.History.Prepend(order)
			sess.Cart.Clear()
			if err := sess.Account.Profile.IncrementLoyaltyPoints(s.loyaltyAward); err != nil {
				return err
			}
			note, err := sess.Inbox.Push(notifications.OrderConfirmed(order.ID, order.Total, s.currency), started)
			if err != nil {
				return err
			}

			if s.archive != nil {
				if err := s.archive.Save(ctx, sessionID, order); err != nil {
					if pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
						conflicted = order.ID
					}
					return err
				}
			}

			restaurants = totals.RestaurantCount
			result = Result{
				Order:          order,
				LoyaltyAwarded: s.loyaltyAward,
				LoyaltyPoints:  sess.Account.Profile.LoyaltyPoints,
				Notification:   note,
			}
			return nil
		})
		if conflicted == "" {
			break
		}
		rejected[conflicted] = true
		if s.logg != nil {
			s.logg.Warn(s.logg.WithOrderID(s.logg.WithSessionID(ctx, sessionID), conflicted), "checkout.order_id_taken")
		}
	}

	if s.metrics != nil {
		s.metrics.ObserveCheckout(err, s.now().Sub(started))
	}
	if err != nil {
		return Result{}, err
	}
	if s.metrics != nil {
		s.metrics.ObserveOrder(result.Order.Total, restaurants)
	}
	if s.logg != nil {
		logCtx := s.logg.WithOrderID(s.logg.WithSessionID(ctx, sessionID), result.Order.ID)
		logCtx = s.logg.WithField(logCtx, "total", result.Order.Total)
		s.logg.Info(logCtx, "checkout.completed")
	}
	return result, nil
}
