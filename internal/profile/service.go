package profile

import (
	"context"
	"fmt"
)

// Sessions serializes access to the account owned by one session.
type Sessions interface {
	UpdateAccount(ctx context.Context, sessionID string, fn func(*Account) error) error
	ViewAccount(ctx context.Context, sessionID string, fn func(*Account) error) error
}

// Service exposes profile reads and edits for a session.
type Service interface {
	Get(ctx context.Context, sessionID string) (Account, error)
	Update(ctx context.Context, sessionID string, u Update) (Account, error)
	SetPreferences(ctx context.Context, sessionID string, tags []string) (Account, error)
	Login(ctx context.Context, sessionID string, u Update) (Account, error)
	Logout(ctx context.Context, sessionID string) (Account, error)
}

type service struct {
	sessions Sessions
}

// NewService builds a profile service.
func NewService(sessions Sessions) (Service, error) {
	if sessions == nil {
		return nil, fmt.Errorf("session accessor required")
	}
	return &service{sessions: sessions}, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (Account, error) {
	var out Account
	err := s.sessions.ViewAccount(ctx, sessionID, func(a *Account) error {
		out = a.Snapshot()
		return nil
	})
	return out, err
}

func (s *service) Update(ctx context.Context, sessionID string, u Update) (Account, error) {
	return s.update(ctx, sessionID, func(a *Account) error {
		return a.Profile.Apply(u)
	})
}

func (s *service) SetPreferences(ctx context.Context, sessionID string, tags []string) (Account, error) {
	return s.update(ctx, sessionID, func(a *Account) error {
		a.Profile.SetPreferences(tags)
		return nil
	})
}

func (s *service) Login(ctx context.Context, sessionID string, u Update) (Account, error) {
	return s.update(ctx, sessionID, func(a *Account) error {
		return a.Login(u)
	})
}

func (s *service) Logout(ctx context.Context, sessionID string) (Account, error) {
	return s.update(ctx, sessionID, func(a *Account) error {
		a.Logout()
		return nil
	})
}

func (s *service) update(ctx context.Context, sessionID string, fn func(*Account) error) (Account, error) {
	var out Account
	err := s.sessions.UpdateAccount(ctx, sessionID, func(a *Account) error {
		if err := fn(a); err != nil {
			return err
		}
		out = a.Snapshot()
		return nil
	})
	return out, err
}
