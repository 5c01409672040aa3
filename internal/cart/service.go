package cart

import (
	"context"
	"fmt"

	pkgerrors "github.com/brazzaeats/brazzaeats-backend/pkg/errors"
)

const (
	OpAdd    = "add"
	OpUpdate = "update"
	OpRemove = "remove"
	OpClear  = "clear"
)

// Sessions serializes access to the cart owned by one session.
type Sessions interface {
	UpdateCart(ctx context.Context, sessionID string, fn func(*Cart) error) error
	ViewCart(ctx context.Context, sessionID string, fn func(*Cart) error) error
}

// DishLookup resolves a dish snapshot and its restaurant from the catalog.
type DishLookup interface {
	LookupDish(ctx context.Context, restaurantID, dishID string) (Dish, RestaurantRef, error)
}

type mutationRecorder interface {
	ObserveCartMutation(op string, err error)
}

// Service exposes cart mutation and pricing for a session.
type Service interface {
	Quote(ctx context.Context, sessionID string) (Quote, error)
	AddItem(ctx context.Context, sessionID string, input AddItemInput) (Quote, error)
	UpdateQuantity(ctx context.Context, sessionID string, index, quantity int) (Quote, error)
	RemoveItem(ctx context.Context, sessionID string, index int) (Quote, error)
	Clear(ctx context.Context, sessionID string) (Quote, error)
}

// AddItemInput identifies the catalog dish being added.
type AddItemInput struct {
	RestaurantID string
	DishID       string
	Quantity     int
	Options      []string
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	Sessions Sessions
	Dishes   DishLookup
	Pricer   *Pricer
	Metrics  mutationRecorder
}

type service struct {
	sessions Sessions
	dishes   DishLookup
	pricer   *Pricer
	metrics  mutationRecorder
}

// NewService builds a cart service backed by the provided stack.
func NewService(params ServiceParams) (Service, error) {
	if params.Sessions == nil {
		return nil, fmt.Errorf("session accessor required")
	}
	if params.Dishes == nil {
		return nil, fmt.Errorf("dish lookup required")
	}
	if params.Pricer == nil {
		return nil, fmt.Errorf("pricer required")
	}
	return &service{
		sessions: params.Sessions,
		dishes:   params.Dishes,
		pricer:   params.Pricer,
		metrics:  params.Metrics,
	}, nil
}

func (s *service) Quote(ctx context.Context, sessionID string) (Quote, error) {
	var quote Quote
	err := s.sessions.ViewCart(ctx, sessionID, func(c *Cart) error {
		quote = s.pricer.Quote(c.Items())
		return nil
	})
	return quote, err
}

func (s *service) AddItem(ctx context.Context, sessionID string, input AddItemInput) (Quote, error) {
	if input.Quantity < 1 {
		err := invalidQuantity(input.Quantity)
		s.observe(OpAdd, err)
		return Quote{}, err
	}
	dish, restaurant, err := s.dishes.LookupDish(ctx, input.RestaurantID, input.DishID)
	if err != nil {
		if pkgerrors.As(err) == nil {
			err = pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup dish")
		}
		s.observe(OpAdd, err)
		return Quote{}, err
	}
	return s.mutate(ctx, sessionID, OpAdd, func(c *Cart) error {
		return c.AddItem(dish, input.Quantity, input.Options, restaurant)
	})
}

func (s *service) UpdateQuantity(ctx context.Context, sessionID string, index, quantity int) (Quote, error) {
	return s.mutate(ctx, sessionID, OpUpdate, func(c *Cart) error {
		return c.UpdateQuantity(index, quantity)
	})
}

func (s *service) RemoveItem(ctx context.Context, sessionID string, index int) (Quote, error) {
	return s.mutate(ctx, sessionID, OpRemove, func(c *Cart) error {
		return c.RemoveItem(index)
	})
}

func (s *service) Clear(ctx context.Context, sessionID string) (Quote, error) {
	return s.mutate(ctx, sessionID, OpClear, func(c *Cart) error {
		c.Clear()
		return nil
	})
}

func (s *service) mutate(ctx context.Context, sessionID, op string, fn func(*Cart) error) (Quote, error) {
	var quote Quote
	err := s.sessions.UpdateCart(ctx, sessionID, func(c *Cart) error {
		if err := fn(c); err != nil {
			return err
		}
		quote = s.pricer.Quote(c.Items())
		return nil
	})
	s.observe(op, err)
	if err != nil {
		return Quote{}, err
	}
	return quote, nil
}

func (s *service) observe(op string, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveCartMutation(op, err)
}
