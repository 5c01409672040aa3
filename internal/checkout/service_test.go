package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brazzaeats/brazzaeats-backend/internal/cart"
	"github.com/brazzaeats/brazzaeats-backend/internal/orders"
	"github.com/brazzaeats/brazzaeats-backend/internal/session"
	"github.com/brazzaeats/brazzaeats-backend/pkg/enums"
	pkgerrors "github.com/brazzaeats/brazzaeats-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	poulet   = cart.Dish{ID: "101", Name: "Poulet Moambé", Price: 3500}
	burger   = cart.Dish{ID: "201", Name: "Burger Classique", Price: 4500}
	mamiWata = cart.RestaurantRef{ID: "1", Name: "Chez Mami Wata"}
	urban    = cart.RestaurantRef{ID: "2", Name: "Urban Burger"}
	placedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
)

type fixedIDs struct{ next string }

func (f fixedIDs) Next(func(string) bool) string { return f.next }

type sequenceIDs struct{ ids []string }

func (s sequenceIDs) Next(taken func(string) bool) string {
	for _, id := range s.ids {
		if !taken(id) {
			return id
		}
	}
	return "exhausted"
}

type fakeArchive struct {
	saved []orders.Order
	err   error
	taken map[string]bool
}

func (f *fakeArchive) Save(_ context.Context, _ string, order orders.Order) error {
	if f.err != nil {
		return f.err
	}
	if f.taken[order.ID] {
		return pkgerrors.New(pkgerrors.CodeConflict, "order already archived")
	}
	f.saved = append(f.saved, order)
	return nil
}

func (f *fakeArchive) UpdateStatus(context.Context, string, string, enums.OrderStatus) error {
	return nil
}

func (f *fakeArchive) ListBySession(context.Context, string) ([]orders.Order, error) {
	return f.saved, nil
}

type fakeMetrics struct {
	checkouts []error
	totals    []int64
}

func (f *fakeMetrics) ObserveCheckout(err error, _ time.Duration) { f.checkouts = append(f.checkouts, err) }

func (f *fakeMetrics) ObserveOrder(total int64, _ int) { f.totals = append(f.totals, total) }

type fixture struct {
	manager *session.Manager
	archive *fakeArchive
	metrics *fakeMetrics
	svc     Service
	id      string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	manager, err := session.NewManager(session.ManagerParams{
		Store:          session.NewMemoryStore(),
		TTL:            time.Hour,
		StartingPoints: 120,
	})
	require.NoError(t, err)
	snap, err := manager.Create(context.Background())
	require.NoError(t, err)

	pricer, err := cart.NewPricer(1000)
	require.NoError(t, err)
	archive := &fakeArchive{}
	metrics := &fakeMetrics{}
	svc, err := NewService(ServiceParams{
		Sessions:        manager,
		Pricer:          pricer,
		Archive:         archive,
		IDs:             fixedIDs{next: "4821"},
		LoyaltyAward:    50,
		DeliveryAddress: "Avenue de la Paix, Brazzaville",
		Currency:        "FCFA",
		Metrics:         metrics,
		Now:             func() time.Time { return placedAt },
	})
	require.NoError(t, err)
	return fixture{manager: manager, archive: archive, metrics: metrics, svc: svc, id: snap.ID}
}

func (f fixture) fillCart(t *testing.T) {
	t.Helper()
	err := f.manager.UpdateCart(context.Background(), f.id, func(c *cart.Cart) error {
		if err := c.AddItem(poulet, 2, nil, mamiWata); err != nil {
			return err
		}
		return c.AddItem(burger, 1, nil, urban)
	})
	require.NoError(t, err)
}

func TestCheckoutPlacesOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fillCart(t)

	res, err := f.svc.Checkout(ctx, f.id, Input{})
	require.NoError(t, err)

	assert.Equal(t, "4821", res.Order.ID)
	assert.Equal(t, int64(11500), res.Order.Subtotal)
	assert.Equal(t, int64(2000), res.Order.DeliveryFee)
	assert.Equal(t, int64(13500), res.Order.Total)
	assert.Equal(t, "1", res.Order.RestaurantID)
	assert.Equal(t, enums.OrderStatusPreparing, res.Order.Status)
	assert.Equal(t, enums.PaymentMethodMobileMoney, res.Order.PaymentMethod)
	assert.Equal(t, "Avenue de la Paix, Brazzaville", res.Order.DeliveryAddress)
	assert.Equal(t, 50, res.LoyaltyAwarded)
	assert.Equal(t, 170, res.LoyaltyPoints)
	assert.Equal(t, enums.NotificationTypeOrder, res.Notification.Type)
	assert.Contains(t, res.Notification.Message, "13500 FCFA")

	snap, err := f.manager.Get(ctx, f.id)
	require.NoError(t, err)
	assert.Empty(t, snap.Cart)
	require.Len(t, snap.Orders, 1)
	assert.Equal(t, "4821", snap.Orders[0].ID)
	assert.Equal(t, 170, snap.Account.Profile.LoyaltyPoints)
	require.Len(t, snap.Notifications, 1)
	assert.False(t, snap.Notifications[0].Read)

	require.Len(t, f.archive.saved, 1)
	assert.Equal(t, []error{nil}, f.metrics.checkouts)
	assert.Equal(t, []int64{13500}, f.metrics.totals)
}

func TestCheckoutNewestOrderFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	pricer, _ := cart.NewPricer(1000)

	for _, id := range []string{"1001", "1002"} {
		svc, err := NewService(ServiceParams{Sessions: f.manager, Pricer: pricer, IDs: fixedIDs{next: id}, LoyaltyAward: 50})
		require.NoError(t, err)
		f.fillCart(t)
		_, err = svc.Checkout(ctx, f.id, Input{PaymentMethod: enums.PaymentMethodAirtelMoney})
		require.NoError(t, err)
	}

	snap, err := f.manager.Get(ctx, f.id)
	require.NoError(t, err)
	require.Len(t, snap.Orders, 2)
	assert.Equal(t, "1002", snap.Orders[0].ID)
	assert.Equal(t, "1001", snap.Orders[1].ID)
	assert.Equal(t, 220, snap.Account.Profile.LoyaltyPoints)
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Checkout(context.Background(), f.id, Input{})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Empty(t, f.archive.saved)
	require.Len(t, f.metrics.checkouts, 1)
	assert.Error(t, f.metrics.checkouts[0])
	assert.Empty(t, f.metrics.totals)

	snap, err := f.manager.Get(context.Background(), f.id)
	require.NoError(t, err)
	assert.Equal(t, 120, snap.Account.Profile.LoyaltyPoints)
	assert.Empty(t, snap.Notifications)
}

func TestCheckoutArchiveFailureKeepsCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fillCart(t)
	f.archive.err = pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("db down"), "archive order")

	_, err := f.svc.Checkout(ctx, f.id, Input{})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))

	snap, err := f.manager.Get(ctx, f.id)
	require.NoError(t, err)
	assert.Len(t, snap.Cart, 2)
	assert.Empty(t, snap.Orders)
	assert.Equal(t, 120, snap.Account.Profile.LoyaltyPoints)
	assert.Empty(t, snap.Notifications)
}

func TestCheckoutDrawsNewIDWhenArchiveHoldsIt(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fillCart(t)
	f.archive.taken = map[string]bool{"ORD-0001": true}
	pricer, _ := cart.NewPricer(1000)
	svc, err := NewService(ServiceParams{
		Sessions:     f.manager,
		Pricer:       pricer,
		Archive:      f.archive,
		IDs:          sequenceIDs{ids: []string{"ORD-0001", "ORD-0002"}},
		LoyaltyAward: 50,
	})
	require.NoError(t, err)

	res, err := svc.Checkout(ctx, f.id, Input{})
	require.NoError(t, err)
	assert.Equal(t, "ORD-0002", res.Order.ID)

	snap, err := f.manager.Get(ctx, f.id)
	require.NoError(t, err)
	require.Len(t, snap.Orders, 1)
	assert.Equal(t, "ORD-0002", snap.Orders[0].ID)
	assert.Equal(t, 170, snap.Account.Profile.LoyaltyPoints)
	require.Len(t, snap.Notifications, 1)
	require.Len(t, f.archive.saved, 1)
	assert.Equal(t, "ORD-0002", f.archive.saved[0].ID)
}

func TestCheckoutGivesUpAfterRepeatedConflicts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fillCart(t)
	f.archive.taken = map[string]bool{"4821": true}

	_, err := f.svc.Checkout(ctx, f.id, Input{})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	snap, err := f.manager.Get(ctx, f.id)
	require.NoError(t, err)
	assert.Len(t, snap.Cart, 2)
	assert.Empty(t, snap.Orders)
	assert.Empty(t, snap.Notifications)
}

func TestCheckoutRejectsUnknownPaymentMethod(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)

	_, err := f.svc.Checkout(context.Background(), f.id, Input{PaymentMethod: "BITCOIN"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestCheckoutUnknownSession(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Checkout(context.Background(), "missing", Input{})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestNewServiceValidation(t *testing.T) {
	pricer, _ := cart.NewPricer(1000)
	_, err := NewService(ServiceParams{Pricer: pricer})
	require.Error(t, err)

	f := newFixture(t)
	_, err = NewService(ServiceParams{Sessions: f.manager})
	require.Error(t, err)
	_, err = NewService(ServiceParams{Sessions: f.manager, Pricer: pricer, LoyaltyAward: -1})
	require.Error(t, err)
}
