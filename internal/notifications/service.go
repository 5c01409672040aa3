package notifications

import (
	"context"
	"fmt"

	"github.com/brazzaeats/brazzaeats-backend/pkg/enums"
)

// Sessions serializes access to the inbox owned by one session.
type Sessions interface {
	UpdateInbox(ctx context.Context, sessionID string, fn func(*Inbox) error) error
	ViewInbox(ctx context.Context, sessionID string, fn func(*Inbox) error) error
}

// Listing is the inbox as returned to clients.
type Listing struct {
	Notifications []Notification `json:"notifications"`
	Unread        int            `json:"unread"`
}

// Service exposes the notification inbox of a session.
type Service interface {
	List(ctx context.Context, sessionID string) (Listing, error)
	MarkRead(ctx context.Context, sessionID, id string) (Notification, error)
}

type service struct {
	sessions Sessions
}

// NewService builds a notifications service.
func NewService(sessions Sessions) (Service, error) {
	if sessions == nil {
		return nil, fmt.Errorf("session accessor required")
	}
	return &service{sessions: sessions}, nil
}

func (s *service) List(ctx context.Context, sessionID string) (Listing, error) {
	var out Listing
	err := s.sessions.ViewInbox(ctx, sessionID, func(in *Inbox) error {
		out = Listing{Notifications: in.List(), Unread: in.UnreadCount()}
		return nil
	})
	return out, err
}

func (s *service) MarkRead(ctx context.Context, sessionID, id string) (Notification, error) {
	var out Notification
	err := s.sessions.UpdateInbox(ctx, sessionID, func(in *Inbox) error {
		n, err := in.MarkRead(id)
		if err != nil {
			return err
		}
		out = n
		return nil
	})
	return out, err
}

// OrderConfirmed is the message pushed after a successful checkout.
func OrderConfirmed(orderID string, total int64, currency string) Message {
	return Message{
		Title:   "Commande confirmée",
		Message: fmt.Sprintf("Votre commande %s de %d %s est en préparation.", orderID, total, currency),
		Type:    enums.NotificationTypeOrder,
	}
}
