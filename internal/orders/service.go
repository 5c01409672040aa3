package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/brazzaeats/brazzaeats-backend/pkg/enums"
	pkgerrors "github.com/brazzaeats/brazzaeats-backend/pkg/errors"
)

// Sessions serializes access to the order history owned by one session.
type Sessions interface {
	UpdateHistory(ctx context.Context, sessionID string, fn func(*History) error) error
	ViewHistory(ctx context.Context, sessionID string, fn func(*History) error) error
}

// Service exposes the order history of a session.
type Service interface {
	List(ctx context.Context, sessionID string) ([]Order, error)
	Get(ctx context.Context, sessionID, orderID string) (Order, error)
	Transition(ctx context.Context, sessionID, orderID string, to enums.OrderStatus) (Order, error)
	Receipt(ctx context.Context, sessionID, orderID string) ([]byte, error)
}

// ServiceParams groups dependencies for the orders service.
type ServiceParams struct {
	Sessions Sessions
	Archive  Archive
	Receipts ReceiptGenerator
	Now      func() time.Time
}

type service struct {
	sessions Sessions
	archive  Archive
	receipts ReceiptGenerator
	now      func() time.Time
}

// NewService builds an orders service. The archive is optional.
func NewService(params ServiceParams) (Service, error) {
	if params.Sessions == nil {
		return nil, fmt.Errorf("session accessor required")
	}
	if params.Receipts == nil {
		params.Receipts = QRReceipts{}
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		sessions: params.Sessions,
		archive:  params.Archive,
		receipts: params.Receipts,
		now:      params.Now,
	}, nil
}

func (s *service) List(ctx context.Context, sessionID string) ([]Order, error) {
	var out []Order
	err := s.sessions.ViewHistory(ctx, sessionID, func(h *History) error {
		out = h.List()
		return nil
	})
	return out, err
}

func (s *service) Get(ctx context.Context, sessionID, orderID string) (Order, error) {
	var out Order
	err := s.sessions.ViewHistory(ctx, sessionID, func(h *History) error {
		found, err := h.Get(orderID)
		if err != nil {
			return err
		}
		out = found
		return nil
	})
	return out, err
}

func (s *service) Transition(ctx context.Context, sessionID, orderID string, to enums.OrderStatus) (Order, error) {
	var out Order
	err := s.sessions.UpdateHistory(ctx, sessionID, func(h *History) error {
		updated, err := h.Transition(orderID, to, s.now())
		if err != nil {
			return err
		}
		if s.archive != nil {
			// Orders placed while archiving was disabled have no row.
			if err := s.archive.UpdateStatus(ctx, sessionID, orderID, to); err != nil && !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
				return err
			}
		}
		out = updated
		return nil
	})
	return out, err
}

func (s *service) Receipt(ctx context.Context, sessionID, orderID string) ([]byte, error) {
	order, err := s.Get(ctx, sessionID, orderID)
	if err != nil {
		return nil, err
	}
	png, err := s.receipts.Generate(order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render receipt code")
	}
	return png, nil
}
