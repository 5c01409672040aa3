package session

import (
	"time"

	"github.com/brazzaeats/brazzaeats-backend/internal/cart"
	"github.com/brazzaeats/brazzaeats-backend/internal/favorites"
	"github.com/brazzaeats/brazzaeats-backend/internal/notifications"
	"github.com/brazzaeats/brazzaeats-backend/internal/orders"
	"github.com/brazzaeats/brazzaeats-backend/internal/profile"
)

// Session owns every piece of per-user state: the cart, the order history,
// the account, favorites and the notification inbox.
type Session struct {
	ID        string
	Cart      *cart.Cart
	History   *orders.History
	Account   profile.Account
	Favorites *favorites.Set
	Inbox     *notifications.Inbox
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Snapshot is the persisted form of a session.
type Snapshot struct {
	ID            string                       `json:"id"`
	Cart          []cart.Item                  `json:"cart"`
	Orders        []orders.Order               `json:"orders"`
	Account       profile.Account              `json:"account"`
	Favorites     []string                     `json:"favorites"`
	Notifications []notifications.Notification `json:"notifications"`
	CreatedAt     time.Time                    `json:"created_at"`
	UpdatedAt     time.Time                    `json:"updated_at"`
}

func newSession(id string, startingPoints int, now time.Time) *Session {
	return &Session{
		ID:        id,
		Cart:      &cart.Cart{},
		History:   orders.NewHistory(nil),
		Account:   profile.NewAccount(startingPoints),
		Favorites: favorites.NewSet(nil),
		Inbox:     notifications.NewInbox(nil),
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

func restore(snap Snapshot) (*Session, error) {
	c, err := cart.New(snap.Cart)
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:        snap.ID,
		Cart:      c,
		History:   orders.NewHistory(snap.Orders),
		Account:   snap.Account.Snapshot(),
		Favorites: favorites.NewSet(snap.Favorites),
		Inbox:     notifications.NewInbox(snap.Notifications),
		CreatedAt: snap.CreatedAt,
		UpdatedAt: snap.UpdatedAt,
	}, nil
}

// Snapshot captures the current state for persistence or display.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		ID:            s.ID,
		Cart:          s.Cart.Items(),
		Orders:        s.History.List(),
		Account:       s.Account.Snapshot(),
		Favorites:     s.Favorites.List(),
		Notifications: s.Inbox.List(),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// Login signs the account in with the supplied profile data.
func (s *Session) Login(u profile.Update) error {
	return s.Account.Login(u)
}

// Logout resets the profile. The cart and history are kept.
func (s *Session) Logout() {
	s.Account.Logout()
}
