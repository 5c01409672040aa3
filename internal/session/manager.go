package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/brazzaeats/brazzaeats-backend/internal/cart"
	"github.com/brazzaeats/brazzaeats-backend/internal/favorites"
	"github.com/brazzaeats/brazzaeats-backend/internal/notifications"
	"github.com/brazzaeats/brazzaeats-backend/internal/orders"
	"github.com/brazzaeats/brazzaeats-backend/internal/profile"
	pkgerrors "github.com/brazzaeats/brazzaeats-backend/pkg/errors"
	"github.com/brazzaeats/brazzaeats-backend/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// ManagerParams groups dependencies for the session manager.
type ManagerParams struct {
	Store          Store
	TTL            time.Duration
	StartingPoints int
	Logger         *logger.Logger
	Now            func() time.Time
	NewID          func() string
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager serializes every read and mutation of a session behind a
// per-session lock. Each operation works on a freshly loaded copy which is
// saved only when the operation succeeds, so a rejected operation leaves the
// stored session untouched.
type Manager struct {
	store          Store
	ttl            time.Duration
	startingPoints int
	logg           *logger.Logger
	now            func() time.Time
	newID          func() string

	mu        sync.Mutex
	locks     map[string]*lockEntry
	touched   map[string]time.Time
	lastSweep time.Time
}

// NewManager builds a session manager.
func NewManager(params ManagerParams) (*Manager, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("session store required")
	}
	if params.TTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	if params.StartingPoints < 0 {
		return nil, fmt.Errorf("starting loyalty points must not be negative")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	if params.NewID == nil {
		params.NewID = uuid.NewString
	}
	return &Manager{
		store:          params.Store,
		ttl:            params.TTL,
		startingPoints: params.StartingPoints,
		logg:           params.Logger,
		now:            params.Now,
		newID:          params.NewID,
		locks:          map[string]*lockEntry{},
		touched:        map[string]time.Time{},
	}, nil
}

// Create starts a fresh session and persists it.
func (m *Manager) Create(ctx context.Context) (Snapshot, error) {
	sess := newSession(m.newID(), m.startingPoints, m.now())
	unlock := m.lock(sess.ID)
	defer unlock()
	if err := m.save(ctx, sess); err != nil {
		return Snapshot{}, err
	}
	return sess.Snapshot(), nil
}

// View runs fn against the current state of the session. Changes made by fn
// are discarded.
func (m *Manager) View(ctx context.Context, id string, fn func(*Session) error) error {
	unlock := m.lock(id)
	defer unlock()
	sess, err := m.load(ctx, id)
	if err != nil {
		return err
	}
	return fn(sess)
}

// Mutate runs fn against the session and persists the result when fn
// succeeds.
func (m *Manager) Mutate(ctx context.Context, id string, fn func(*Session) error) error {
	unlock := m.lock(id)
	defer unlock()
	sess, err := m.load(ctx, id)
	if err != nil {
		return err
	}
	if err := fn(sess); err != nil {
		return err
	}
	sess.UpdatedAt = m.now().UTC()
	return m.save(ctx, sess)
}

// Get returns a snapshot of the session.
func (m *Manager) Get(ctx context.Context, id string) (Snapshot, error) {
	var out Snapshot
	err := m.View(ctx, id, func(s *Session) error {
		out = s.Snapshot()
		return nil
	})
	return out, err
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, id string) error {
	unlock := m.lock(id)
	defer unlock()
	if err := m.store.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete session")
	}
	m.mu.Lock()
	delete(m.touched, id)
	m.mu.Unlock()
	return nil
}

// Flush refreshes the expiry of every session this process wrote within the
// last TTL. Sessions that expired in the meantime are skipped; other failures
// are combined into the returned error. Flush stops once ctx is done.
func (m *Manager) Flush(ctx context.Context) error {
	now := m.now()
	m.mu.Lock()
	m.pruneLocked(now)
	ids := make([]string, 0, len(m.touched))
	for id := range m.touched {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	var errs error
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return multierr.Append(errs, err)
		}
		err := m.store.Touch(ctx, id, m.ttl)
		switch {
		case err == nil:
			m.mu.Lock()
			if _, ok := m.touched[id]; ok {
				m.touched[id] = now
			}
			m.mu.Unlock()
		case errors.Is(err, ErrNotFound):
			m.mu.Lock()
			delete(m.touched, id)
			m.mu.Unlock()
		default:
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

func (m *Manager) load(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session required")
	}
	payload, err := m.store.Load(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}
	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		m.logError(ctx, id, "session.decode_failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode session")
	}
	sess, err := restore(snap)
	if err != nil {
		m.logError(ctx, id, "session.restore_failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restore session")
	}
	return sess, nil
}

func (m *Manager) save(ctx context.Context, sess *Session) error {
	payload, err := json.Marshal(sess.Snapshot())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode session")
	}
	if err := m.store.Save(ctx, sess.ID, payload, m.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save session")
	}
	now := m.now()
	m.mu.Lock()
	m.touched[sess.ID] = now
	if now.Sub(m.lastSweep) >= m.ttl {
		m.pruneLocked(now)
	}
	m.mu.Unlock()
	return nil
}

// pruneLocked forgets sessions whose last write is older than the TTL; the
// store has expired them already. Callers hold m.mu.
func (m *Manager) pruneLocked(now time.Time) {
	for id, saved := range m.touched {
		if now.Sub(saved) >= m.ttl {
			delete(m.touched, id)
		}
	}
	m.lastSweep = now
}

func (m *Manager) lock(id string) func() {
	m.mu.Lock()
	entry, ok := m.locks[id]
	if !ok {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	m.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		m.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}

func (m *Manager) logError(ctx context.Context, id, msg string, err error) {
	if m.logg == nil {
		return
	}
	ctx = m.logg.WithSessionID(ctx, id)
	m.logg.Error(ctx, msg, err)
}

// UpdateCart mutates the session cart.
func (m *Manager) UpdateCart(ctx context.Context, id string, fn func(*cart.Cart) error) error {
	return m.Mutate(ctx, id, func(s *Session) error { return fn(s.Cart) })
}

// ViewCart reads the session cart.
func (m *Manager) ViewCart(ctx context.Context, id string, fn func(*cart.Cart) error) error {
	return m.View(ctx, id, func(s *Session) error { return fn(s.Cart) })
}

// UpdateHistory mutates the order history.
func (m *Manager) UpdateHistory(ctx context.Context, id string, fn func(*orders.History) error) error {
	return m.Mutate(ctx, id, func(s *Session) error { return fn(s.History) })
}

// ViewHistory reads the order history.
func (m *Manager) ViewHistory(ctx context.Context, id string, fn func(*orders.History) error) error {
	return m.View(ctx, id, func(s *Session) error { return fn(s.History) })
}

// UpdateAccount mutates the profile and login state.
func (m *Manager) UpdateAccount(ctx context.Context, id string, fn func(*profile.Account) error) error {
	return m.Mutate(ctx, id, func(s *Session) error { return fn(&s.Account) })
}

// ViewAccount reads the profile and login state.
func (m *Manager) ViewAccount(ctx context.Context, id string, fn func(*profile.Account) error) error {
	return m.View(ctx, id, func(s *Session) error { return fn(&s.Account) })
}

// UpdateFavorites mutates the favorites set.
func (m *Manager) UpdateFavorites(ctx context.Context, id string, fn func(*favorites.Set) error) error {
	return m.Mutate(ctx, id, func(s *Session) error { return fn(s.Favorites) })
}

// ViewFavorites reads the favorites set.
func (m *Manager) ViewFavorites(ctx context.Context, id string, fn func(*favorites.Set) error) error {
	return m.View(ctx, id, func(s *Session) error { return fn(s.Favorites) })
}

// UpdateInbox mutates the notification inbox.
func (m *Manager) UpdateInbox(ctx context.Context, id string, fn func(*notifications.Inbox) error) error {
	return m.Mutate(ctx, id, func(s *Session) error { return fn(s.Inbox) })
}

// ViewInbox reads the notification inbox.
func (m *Manager) ViewInbox(ctx context.Context, id string, fn func(*notifications.Inbox) error) error {
	return m.View(ctx, id, func(s *Session) error { return fn(s.Inbox) })
}
