package favorites

import (
	"context"
	"fmt"
	"slices"
	"strings"

	pkgerrors "github.com/brazzaeats/brazzaeats-backend/pkg/errors"
)

// Set is an insertion-ordered set of favorite dish or restaurant ids.
type Set struct {
	ids []string
}

// NewSet restores a set, dropping blanks and duplicates.
func NewSet(ids []string) *Set {
	s := &Set{ids: make([]string, 0, len(ids))}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || s.Has(id) {
			continue
		}
		s.ids = append(s.ids, id)
	}
	return s
}

// Toggle adds the id when absent and removes it otherwise. It reports whether
// the id is a favorite afterwards.
func (s *Set) Toggle(id string) (bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "favorite id required")
	}
	if idx := slices.Index(s.ids, id); idx >= 0 {
		s.ids = slices.Delete(s.ids, idx, idx+1)
		return false, nil
	}
	s.ids = append(s.ids, id)
	return true, nil
}

func (s *Set) Has(id string) bool {
	return slices.Contains(s.ids, id)
}

// List returns the ids in the order they were added.
func (s *Set) List() []string {
	out := slices.Clone(s.ids)
	if out == nil {
		out = []string{}
	}
	return out
}

func (s *Set) Len() int {
	return len(s.ids)
}

// Sessions serializes access to the favorites owned by one session.
type Sessions interface {
	UpdateFavorites(ctx context.Context, sessionID string, fn func(*Set) error) error
	ViewFavorites(ctx context.Context, sessionID string, fn func(*Set) error) error
}

// ToggleResult reports the state of one id after a toggle.
type ToggleResult struct {
	ID        string   `json:"id"`
	Favorite  bool     `json:"favorite"`
	Favorites []string `json:"favorites"`
}

// Service exposes favorites for a session.
type Service interface {
	List(ctx context.Context, sessionID string) ([]string, error)
	Toggle(ctx context.Context, sessionID, id string) (ToggleResult, error)
}

type service struct {
	sessions Sessions
}

// NewService builds a favorites service.
func NewService(sessions Sessions) (Service, error) {
	if sessions == nil {
		return nil, fmt.Errorf("session accessor required")
	}
	return &service{sessions: sessions}, nil
}

func (s *service) List(ctx context.Context, sessionID string) ([]string, error) {
	var out []string
	err := s.sessions.ViewFavorites(ctx, sessionID, func(set *Set) error {
		out = set.List()
		return nil
	})
	return out, err
}

func (s *service) Toggle(ctx context.Context, sessionID, id string) (ToggleResult, error) {
	var out ToggleResult
	err := s.sessions.UpdateFavorites(ctx, sessionID, func(set *Set) error {
		on, err := set.Toggle(id)
		if err != nil {
			return err
		}
		out = ToggleResult{ID: strings.TrimSpace(id), Favorite: on, Favorites: set.List()}
		return nil
	})
	return out, err
}
